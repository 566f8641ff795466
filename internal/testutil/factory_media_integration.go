//go:build integration

package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// Мини-генератор валидного элемента каталога (id назначает БД).
func MakeMediaItem(opts ...func(*domain.MediaItem)) domain.MediaItem {
	now := time.Now().UTC().Truncate(time.Second)

	it := domain.MediaItem{
		Title:      "Track " + UniqSuffix(),
		DurationMS: 180_000,
		MRL:        "file:///music/" + UniqSuffix() + ".flac",
		PlayCount:  0,
		AddedAt:    now,
	}

	for _, fn := range opts {
		fn(&it)
	}
	return it
}

func WithTitle(title string) func(*domain.MediaItem) {
	return func(it *domain.MediaItem) { it.Title = title }
}

func WithParent(parentID int64) func(*domain.MediaItem) {
	return func(it *domain.MediaItem) { it.ItemID.ParentID = parentID }
}

func WithDuration(ms int64) func(*domain.MediaItem) {
	return func(it *domain.MediaItem) { it.DurationMS = ms }
}

func WithAddedAt(t time.Time) func(*domain.MediaItem) {
	return func(it *domain.MediaItem) { it.AddedAt = t.UTC().Truncate(time.Second) }
}

// InsertMediaItem — вставка в таблицу каталога; возвращает назначенный id.
func InsertMediaItem(ctx context.Context, pool *pgxpool.Pool, it domain.MediaItem) (int64, error) {
	const q = `
		INSERT INTO media_items (parent_id, title, duration_ms, mrl, thumbnail_mrl, play_count, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := pool.QueryRow(ctx, q,
		it.ItemID.ParentID, it.Title, it.DurationMS, it.MRL, it.ThumbnailMRL, it.PlayCount, it.AddedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert media item: %w", err)
	}
	return id, nil
}

// SeedCatalog — n элементов с предсказуемыми заголовками ("item-000", "item-001", ...).
func SeedCatalog(ctx context.Context, pool *pgxpool.Pool, parentID int64, n int) ([]int64, error) {
	ids := make([]int64, 0, n)
	base := time.Now().UTC().Truncate(time.Second).Add(-time.Duration(n) * time.Minute)

	for i := 0; i < n; i++ {
		it := MakeMediaItem(
			WithParent(parentID),
			WithTitle(fmt.Sprintf("item-%03d", i)),
			WithAddedAt(base.Add(time.Duration(i)*time.Minute)),
		)
		id, err := InsertMediaItem(ctx, pool, it)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
