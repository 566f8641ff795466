package ports

import (
	"context"

	"github.com/Gunvolt24/medialist/internal/domain"
)

// ItemCache — интерфейс кэша точечных выборок каталога.
// Требования к реализации: потокобезопасность; доступ по ключу не хуже O(1); возврат копий сущности.
type ItemCache interface {
	// Get — вернуть элемент по id; (item, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, id domain.ItemID) (*domain.MediaItem, bool)

	// Set — сохранить/обновить элемент в кэше.
	Set(ctx context.Context, item *domain.MediaItem) error

	// Remove — забыть элемент (например, после item.updated/item.deleted).
	Remove(ctx context.Context, id domain.ItemID)
}
