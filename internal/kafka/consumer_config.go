package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerConfig — настройки подписки на поток событий каталога.
type ConsumerConfig struct {
	Brokers        []string
	Topic          string
	GroupID        string
	StartOffset    string // "first" | "last"
	MinBytes       int
	MaxBytes       int
	ProcessTimeout time.Duration
	RetryInitial   time.Duration
	RetryMax       time.Duration
}

// startOffset — "first" читает топик с начала, всё остальное — с конца.
func (c *ConsumerConfig) startOffset() int64 {
	if strings.EqualFold(strings.TrimSpace(c.StartOffset), "first") {
		return kafka.FirstOffset
	}
	return kafka.LastOffset
}

// ReaderConfig — перевод в kafka.ReaderConfig.
// CommitInterval == 0 отключает авто-коммит: оффсеты фиксируем вручную
// только после успешного применения события.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	minBytes := c.MinBytes
	if minBytes <= 0 {
		minBytes = 1
	}

	maxBytes := c.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 10e6 // 10MB
	}

	return kafka.ReaderConfig{
		Brokers:        c.Brokers,
		Topic:          c.Topic,
		GroupID:        c.GroupID,
		StartOffset:    c.startOffset(),
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		CommitInterval: 0,
	}
}
