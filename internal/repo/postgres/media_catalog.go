package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что MediaCatalog удовлетворяет интерфейсу Catalog.
var _ ports.Catalog = (*MediaCatalog)(nil)

// MediaCatalog — реализация границы запросов каталога на Postgres (pgxpool).
type MediaCatalog struct {
	pool *pgxpool.Pool
}

// NewMediaCatalog — конструктор MediaCatalog.
func NewMediaCatalog(pool *pgxpool.Pool) *MediaCatalog { return &MediaCatalog{pool: pool} }

const mediaColumns = `id, parent_id, title, duration_ms, mrl, thumbnail_mrl, play_count, added_at`

// buildFilter — WHERE по дескриптору: родительская область и поиск по названию.
func buildFilter(desc domain.QueryDescriptor) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !desc.Parent.IsZero() {
		args = append(args, desc.Parent.ID)
		conds = append(conds, fmt.Sprintf("parent_id = $%d", len(args)))
	}
	if desc.SearchPattern != "" {
		args = append(args, "%"+desc.SearchPattern+"%")
		conds = append(conds, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildOrder — ORDER BY по критерию сортировки; id как детерминированный
// tie-break, чтобы страничные выборки не «плавали».
func buildOrder(desc domain.QueryDescriptor) string {
	var column string
	switch desc.Sort {
	case domain.SortTitle:
		column = "title"
	case domain.SortDuration:
		column = "duration_ms"
	case domain.SortAddedAt:
		column = "added_at"
	case domain.SortPlayCount:
		column = "play_count"
	default:
		column = "id"
	}
	dir := "ASC"
	if desc.SortDesc {
		dir = "DESC"
	}
	if column == "id" {
		return fmt.Sprintf(" ORDER BY id %s", dir)
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", column, dir, dir)
}

// CountQuery — общее количество элементов по дескриптору.
func (c *MediaCatalog) CountQuery(ctx context.Context, desc domain.QueryDescriptor) (int, error) {
	filter, args := buildFilter(desc)

	var count int
	if err := c.pool.QueryRow(ctx, `SELECT count(*) FROM media_items`+filter, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count media items: %w", err)
	}
	return count, nil
}

// RangeQuery — элементы [offset, offset+limit) в порядке сортировки дескриптора.
func (c *MediaCatalog) RangeQuery(ctx context.Context, desc domain.QueryDescriptor, offset, limit int) ([]*domain.MediaItem, error) {
	if limit <= 0 {
		return nil, nil
	}
	filter, args := buildFilter(desc)
	query := `SELECT ` + mediaColumns + ` FROM media_items` + filter + buildOrder(desc) +
		fmt.Sprintf(" OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("range query offset=%d limit=%d: %w", offset, limit, err)
	}
	defer rows.Close()

	items := make([]*domain.MediaItem, 0, limit)
	for rows.Next() {
		item, scanErr := scanMediaItem(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("range query rows: %w", err)
	}
	return items, nil
}

// PointQuery — точечная выборка по id; (nil, nil), если элемента нет.
// Ненулевой ParentID сужает поиск родительской областью: элемент с тем же id,
// но другим родителем, не возвращается.
func (c *MediaCatalog) PointQuery(ctx context.Context, id domain.ItemID) (*domain.MediaItem, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_items WHERE id = $1`
	args := []any{id.ID}
	if id.ParentID != 0 {
		query += ` AND parent_id = $2`
		args = append(args, id.ParentID)
	}
	row := c.pool.QueryRow(ctx, query, args...)

	item, err := scanMediaItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

// scanMediaItem — чтение одной строки в доменную структуру.
func scanMediaItem(row pgx.Row) (*domain.MediaItem, error) {
	var item domain.MediaItem
	if err := row.Scan(
		&item.ItemID.ID, &item.ItemID.ParentID, &item.Title, &item.DurationMS,
		&item.MRL, &item.ThumbnailMRL, &item.PlayCount, &item.AddedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan media item: %w", err)
	}
	return &item, nil
}
