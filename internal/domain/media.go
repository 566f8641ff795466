package domain

import "time"

// ItemID — составной идентификатор элемента каталога:
// числовой id + id родительской области (альбом/плейлист). ParentID == 0 — без области.
type ItemID struct {
	ID       int64 `json:"id"`
	ParentID int64 `json:"parent_id"`
}

// IsZero — признак «пустого» идентификатора.
func (id ItemID) IsZero() bool { return id.ID == 0 && id.ParentID == 0 }

// MediaItem — элемент медиакаталога.
// Кэш владеет своими экземплярами: наружу отдаются ссылки,
// действительные до следующей структурной мутации окна.
type MediaItem struct {
	ItemID       ItemID    `json:"item_id"`
	Title        string    `json:"title"`
	DurationMS   int64     `json:"duration_ms"`
	MRL          string    `json:"mrl"`
	ThumbnailMRL string    `json:"thumbnail_mrl,omitempty"`
	PlayCount    int64     `json:"play_count"`
	AddedAt      time.Time `json:"added_at"`
}

// SortKey — критерий сортировки выборки каталога.
type SortKey string

const (
	SortDefault   SortKey = "default" // по первичному ключу
	SortTitle     SortKey = "title"
	SortDuration  SortKey = "duration"
	SortAddedAt   SortKey = "added_at"
	SortPlayCount SortKey = "play_count"
)

// ParseSortKey — разбор критерия из строки; неизвестное значение → (SortDefault, false).
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortDefault, SortTitle, SortDuration, SortAddedAt, SortPlayCount:
		return SortKey(s), true
	case "":
		return SortDefault, true
	default:
		return SortDefault, false
	}
}

// QueryDescriptor — неизменяемое описание запроса к каталогу.
// Смена любого поля означает пересоздание кэша, а не мутацию существующего.
type QueryDescriptor struct {
	Parent        ItemID  // нулевое значение — весь каталог
	SearchPattern string  // пустая строка — без фильтра
	Sort          SortKey // критерий сортировки
	SortDesc      bool    // направление сортировки
}
