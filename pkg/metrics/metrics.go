package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

var (
	// ListLoads — исходы фоновых загрузок окна.
	ListLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "list_loads_total",
			Help: "Window load results",
		},
		[]string{"result"}, // applied|stale|short|failed|cancelled
	)
	// ListTasks — судьба асинхронных задач исполнителя.
	ListTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "list_tasks_total",
			Help: "Async task outcomes",
		},
		[]string{"state"}, // delivered|cancelled|discarded
	)
	// ListLoadRanges — диапазоны, ушедшие в каталог после склейки индексов.
	ListLoadRanges = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "list_load_ranges_total",
			Help: "Coalesced ranges dispatched to the catalog",
		},
	)
	// ListResidentRows — текущее число резидентных строк окна.
	ListResidentRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "list_resident_rows",
			Help: "Rows currently resident in the window cache",
		},
	)
)

var (
	// CacheOps — операции кэша точечных выборок.
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "item_cache_ops_total",
			Help: "Point-lookup cache operations",
		},
		[]string{"op"}, // hit|miss|expired|evicted
	)
	// CacheSize — текущий размер кэша точечных выборок.
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "item_cache_size",
			Help: "Entries currently held by the point-lookup cache",
		},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
		ListLoads, ListTasks, ListLoadRanges, ListResidentRows,
		CacheOps, CacheSize,
	)
}
