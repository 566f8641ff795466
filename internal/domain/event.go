package domain

// EventType — тип внешнего события каталога.
type EventType string

const (
	EventItemAdded   EventType = "item.added"   // появился новый элемент
	EventItemUpdated EventType = "item.updated" // изменились данные элемента (например, миниатюра)
	EventItemDeleted EventType = "item.deleted" // элемент удалён
	EventIdleChanged EventType = "idle.changed" // каталог перешёл в idle/busy
)

// CatalogEvent — размеченное объединение входящих событий каталога.
// Item заполнен для item.*; Idle — только для idle.changed.
// Обработчики обязаны switch-ить по Type исчерпывающе.
type CatalogEvent struct {
	Type EventType `json:"type"`
	Item ItemID    `json:"item,omitempty"`
	Idle bool      `json:"idle,omitempty"`
}

// KnownEventType — проверка, что тип события известен приложению.
func KnownEventType(t EventType) bool {
	switch t {
	case EventItemAdded, EventItemUpdated, EventItemDeleted, EventIdleChanged:
		return true
	default:
		return false
	}
}
