//go:generate mockgen -source=../catalog.go         -destination=./mock_catalog.go         -package=mocks
//go:generate mockgen -source=../event_validator.go -destination=./mock_event_validator.go -package=mocks
//go:generate mockgen -source=../logger.go          -destination=./mock_logger.go          -package=mocks
//go:generate mockgen -source=../message_consumer.go -destination=./mock_message_consumer.go -package=mocks
//go:generate mockgen -source=../list_reader.go     -destination=./mock_list_reader.go     -package=mocks

package mocks
