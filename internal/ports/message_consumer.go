package ports

import "context"

// MessageConsumer — фоновый потребитель внешних сообщений (Kafka).
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
