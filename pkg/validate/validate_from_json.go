package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/ports"
)

// ValidateEventFromJSON — валидация события каталога из JSON.
func ValidateEventFromJSON(ctx context.Context, validator ports.EventValidator, raw []byte) (*domain.CatalogEvent, error) {
	var event domain.CatalogEvent
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&event); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrInvalidEvent, err)
	}
	// гарантируем отсутствие данных вне объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: invalid json: trailing data", ErrInvalidEvent)
	}
	if err := validator.Validate(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
