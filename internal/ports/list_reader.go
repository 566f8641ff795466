package ports

import (
	"context"

	"github.com/Gunvolt24/medialist/internal/domain"
)

// ListState — состояние оконного списка (машина состояний адаптера).
type ListState string

const (
	ListUninitialized ListState = "uninitialized" // кэш ещё не создан
	ListLoading       ListState = "loading"       // count неизвестен
	ListReady         ListState = "ready"         // count известен, окно заполняется
)

// ListReader — чтение оконного списка (порт для HTTP-слоя).
type ListReader interface {
	// Counts — локальный и максимальный известный размер списка.
	// До первого count оба равны -1.
	Counts(ctx context.Context) (total int, maximum int, err error)

	// Rows — срез окна [offset, offset+limit): отсутствующие строки — nil,
	// сам запрос помечает строки как «видимые» (refer) и запускает подгрузку.
	Rows(ctx context.Context, offset, limit int) (items []*domain.MediaItem, total int, err error)

	// ItemByID — точечная выборка мимо окна (без влияния на его состояние).
	ItemByID(ctx context.Context, id domain.ItemID) (*domain.MediaItem, error)

	// Refresh — полная ресинхронизация (invalidate кэша).
	Refresh(ctx context.Context) error

	// State — текущее состояние машины состояний.
	State(ctx context.Context) (ListState, error)
}
