package ports

import (
	"context"

	"github.com/Gunvolt24/medialist/internal/domain"
)

// Catalog — граница запросов к внешнему каталогу.
// Реализация разделяется всеми экземплярами кэша и сама сериализует
// конкурентные запросы; транзакционной изоляции между CountQuery и
// RangeQuery не предполагается (гонка count/load — штатная ситуация).
type Catalog interface {
	// CountQuery — общее количество элементов по дескриптору.
	CountQuery(ctx context.Context, desc domain.QueryDescriptor) (int, error)

	// RangeQuery — элементы [offset, offset+limit) в порядке сортировки дескриптора.
	// Результат может быть короче limit, если список сократился, — это не ошибка.
	RangeQuery(ctx context.Context, desc domain.QueryDescriptor, offset, limit int) ([]*domain.MediaItem, error)

	// PointQuery — точечная выборка по id; (nil, nil), если элемента нет.
	PointQuery(ctx context.Context, id domain.ItemID) (*domain.MediaItem, error)
}
