package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/ports"
)

// Проверка, что EventValidator удовлетворяет интерфейсу EventValidator.
var _ ports.EventValidator = (*EventValidator)(nil)

// ErrInvalidEvent — базовая (sentinel error) ошибка валидации события.
var ErrInvalidEvent = errors.New("catalog event validation failed")

// EventValidator — структура для валидации событий каталога.
// Возвращает ErrInvalidEvent (с обёрнутой причиной) при любой проблеме.
type EventValidator struct{}

// NewEventValidator — конструктор EventValidator.
func NewEventValidator() *EventValidator { return &EventValidator{} }

// Validate — проверяет корректность события каталога.
func (v *EventValidator) Validate(_ context.Context, event *domain.CatalogEvent) error {
	if event == nil {
		return fmt.Errorf("%w: событие не может быть nil", ErrInvalidEvent)
	}
	if event.Type == "" {
		return fmt.Errorf("%w: type обязателен", ErrInvalidEvent)
	}
	if !domain.KnownEventType(event.Type) {
		return fmt.Errorf("%w: неизвестный type=%q", ErrInvalidEvent, event.Type)
	}

	switch event.Type {
	case domain.EventItemAdded, domain.EventItemUpdated, domain.EventItemDeleted:
		if event.Item.ID <= 0 {
			return fmt.Errorf("%w: item.id обязателен для %s", ErrInvalidEvent, event.Type)
		}
		if event.Item.ParentID < 0 {
			return fmt.Errorf("%w: item.parent_id не может быть отрицательным", ErrInvalidEvent)
		}
	case domain.EventIdleChanged:
		if !event.Item.IsZero() {
			return fmt.Errorf("%w: idle.changed не несёт item", ErrInvalidEvent)
		}
	}
	return nil
}
