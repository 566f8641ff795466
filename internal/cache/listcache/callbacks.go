package listcache

import (
	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/task"
)

// Callbacks — исходящие уведомления кэша об изменениях окна.
// Любое поле может быть nil. Пары Begin*/End* обрамляют соответствующую
// мутацию состояния ровно один раз, не вкладываются и не переставляются.
type Callbacks struct {
	LocalSizeChanged    func(count int)
	MaximumCountChanged func(count int)

	BeginInsertRows func(first, last int)
	EndInsertRows   func()
	BeginRemoveRows func(first, last int)
	EndRemoveRows   func()
	BeginMoveRows   func(first, last, dest int)
	EndMoveRows     func()

	DataChanged func(first, last int)
}

// Loader — привязка дескриптора запроса к операциям каталога.
// Все методы асинхронные: работа идёт на воркере, callback — на диспетчере.
// Callback отменённой задачи не вызывается никогда.
type Loader interface {
	// Count — общее количество элементов; кэш вызывает его один раз
	// на поколение (если не было invalidate).
	Count(cb func(id task.ID, count int, err error)) task.ID

	// Load — элементы [offset, offset+limit) в порядке сортировки.
	// Результат может быть короче limit — остаток считается незагруженным.
	Load(offset, limit int, cb func(id task.ID, items []*domain.MediaItem, err error)) task.ID

	// LoadByID — точечная выборка для целевого обновления без влияния
	// на оконное состояние загрузок.
	LoadByID(itemID domain.ItemID, cb func(id task.ID, item *domain.MediaItem, err error)) task.ID

	// Cancel — отмена по дескриптору; завершённая задача — безвредный no-op.
	Cancel(id task.ID)
}

// Нейтральные обёртки над callbacks: nil-поле просто пропускается.

func (c *ListCache) emitLocalSize(count int) {
	if c.cb.LocalSizeChanged != nil {
		c.cb.LocalSizeChanged(count)
	}
}

func (c *ListCache) emitMaximumCount(count int) {
	if c.cb.MaximumCountChanged != nil {
		c.cb.MaximumCountChanged(count)
	}
}

func (c *ListCache) emitDataChanged(first, last int) {
	if c.cb.DataChanged != nil {
		c.cb.DataChanged(first, last)
	}
}

func (c *ListCache) emitBeginInsert(first, last int) {
	if c.cb.BeginInsertRows != nil {
		c.cb.BeginInsertRows(first, last)
	}
}

func (c *ListCache) emitEndInsert() {
	if c.cb.EndInsertRows != nil {
		c.cb.EndInsertRows()
	}
}

func (c *ListCache) emitBeginRemove(first, last int) {
	if c.cb.BeginRemoveRows != nil {
		c.cb.BeginRemoveRows(first, last)
	}
}

func (c *ListCache) emitEndRemove() {
	if c.cb.EndRemoveRows != nil {
		c.cb.EndRemoveRows()
	}
}

func (c *ListCache) emitBeginMove(first, last, dest int) {
	if c.cb.BeginMoveRows != nil {
		c.cb.BeginMoveRows(first, last, dest)
	}
}

func (c *ListCache) emitEndMove() {
	if c.cb.EndMoveRows != nil {
		c.cb.EndMoveRows()
	}
}
