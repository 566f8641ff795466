package ports

import (
	"context"

	"github.com/Gunvolt24/medialist/internal/domain"
)

// EventValidator — валидация входящих событий каталога.
type EventValidator interface {
	Validate(ctx context.Context, event *domain.CatalogEvent) error
}
