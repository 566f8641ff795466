//go:build integration

package testutil

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// UniqueTopicAndGroup — уникальная пара topic/group от базового префикса,
// чтобы параллельные тесты не делили оффсеты друг с другом.
func UniqueTopicAndGroup(base string) (topic, group string) {
	suffix := strconv.FormatInt(time.Now().UTC().UnixNano(), 36)
	name := base + "-" + suffix
	return name, name
}

// EnsureTopic — создаёт топик через контроллер кластера и дожидается его
// появления в метаданных. Уже существующий топик не считается ошибкой.
// broker принимает "host:port", "PLAINTEXT://host:port" (так отдаёт
// testcontainers) или список через запятую — берётся первый адрес.
func EnsureTopic(ctx context.Context, broker, topic string) error {
	addr := firstBootstrap(broker)

	conn, err := kafka.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("cluster controller: %w", err)
	}

	admin, err := kafka.Dial("tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer admin.Close()

	err = admin.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	// Формулировка ошибки различается между кластерами, сверяем подстроку.
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return fmt.Errorf("create topic: %w", err)
	}

	return waitTopicReady(ctx, addr, topic)
}

// firstBootstrap — первый адрес из bootstrap-строки без схемы подключения.
func firstBootstrap(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if strings.Contains(first, "://") {
		if u, err := url.Parse(first); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return first
}

// waitTopicReady — опрашивает метаданные, пока у топика не появятся партиции.
func waitTopicReady(ctx context.Context, broker, topic string) error {
	const (
		pollEvery = 200 * time.Millisecond
		patience  = 5 * time.Second
	)
	deadline := time.Now().Add(patience)

	var lastErr error
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, err := kafka.Dial("tcp", broker)
		if err == nil {
			parts, perr := conn.ReadPartitions(topic)
			_ = conn.Close()
			if perr == nil && len(parts) > 0 {
				return nil
			}
			err = perr
		}
		lastErr = err

		if time.Now().After(deadline) {
			if lastErr != nil {
				return fmt.Errorf("topic %q not ready: %w", topic, lastErr)
			}
			return fmt.Errorf("topic %q not ready", topic)
		}
		time.Sleep(pollEvery)
	}
}
