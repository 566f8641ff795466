package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/Gunvolt24/medialist/pkg/metrics"
	"github.com/Gunvolt24/medialist/pkg/validate"
	"github.com/segmentio/kafka-go"
)

// handleMessage — применяет одно событие с таймаутом.
// Возвращает true, если сообщение можно коммитить
// (обработано успешно ИЛИ невалидно и пропускается навсегда).
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	hCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
	defer cancel()

	err := c.model.ApplyFromMessage(hCtx, msg.Value)
	if err == nil {
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return true
	}

	// Невалидное событие не станет валидным при повторе — пропускаем и коммитим.
	if errors.Is(err, validate.ErrInvalidEvent) {
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "skip invalid event partition=%d offset=%d: %v", msg.Partition, msg.Offset, err)
		return true
	}

	// Временная ошибка (БД, таймаут): без коммита, сообщение придёт снова.
	metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
	c.log.Errorf(ctx, "apply event failed partition=%d offset=%d: %v", msg.Partition, msg.Offset, err)

	return false
}

// commitSafely — фиксирует оффсет; ошибка коммита не фатальна
// (семантика at-least-once допускает повторную доставку).
func (c *Consumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	if err := c.reader.CommitMessages(ctx, *msg); err != nil && ctx.Err() == nil {
		c.log.Errorf(ctx, "commit failed partition=%d offset=%d: %v", msg.Partition, msg.Offset, err)
	}
}

// withJitterEqual — equal jitter: половина интервала фиксирована,
// вторая половина случайна.
func (c *Consumer) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(c.jitterRand.Int63n(int64(half)+1))
}

// nextBackoff — удвоение интервала с верхней границей retryMax.
func (c *Consumer) nextBackoff(cur time.Duration) time.Duration {
	next := cur * 2
	if next > c.retryMax {
		next = c.retryMax
	}
	return next
}

// sleepWithBackoff — ожидание с уважением к отмене контекста.
// Возвращает false, если контекст завершился раньше таймера.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
