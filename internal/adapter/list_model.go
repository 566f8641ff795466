package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/medialist/internal/cache/listcache"
	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/ports"
	"github.com/Gunvolt24/medialist/internal/task"
	"github.com/Gunvolt24/medialist/pkg/validate"
)

// Проверка, что ListModel удовлетворяет порту чтения списка.
var _ ports.ListReader = (*ListModel)(nil)

// ListModel — плоский индексируемый фасад над оконным кэшем.
//
// Своей кэширующей логики не имеет: транслирует выборки по индексу в кэш и
// ретранслирует его структурные уведомления подписчикам. Машина состояний:
// Uninitialized → Loading (count неизвестен) → Ready; сброс возвращает в
// Loading. Терминальное состояние — только при Close.
type ListModel struct {
	disp    *task.Dispatcher
	exec    *task.Executor
	catalog ports.Catalog
	items   ports.ItemCache
	log     ports.Logger
	valid   ports.EventValidator
	opts    listcache.Options

	// Всё ниже мутируется только на горутине диспетчера.
	desc      domain.QueryDescriptor
	cache     *listcache.ListCache
	loader    *listcache.CatalogLoader
	state     ports.ListState
	idle      bool
	needReset bool

	nextSubID   int
	subscribers map[int]listcache.Callbacks
}

// NewListModel — DI-конструктор; кэш создаётся сразу, count запускается
// методом Init после старта диспетчера.
func NewListModel(
	disp *task.Dispatcher,
	exec *task.Executor,
	catalog ports.Catalog,
	items ports.ItemCache,
	valid ports.EventValidator,
	log ports.Logger,
	desc domain.QueryDescriptor,
	opts listcache.Options,
) *ListModel {
	m := &ListModel{
		disp:        disp,
		exec:        exec,
		catalog:     catalog,
		items:       items,
		log:         log,
		valid:       valid,
		opts:        opts,
		desc:        desc,
		state:       ports.ListUninitialized,
		idle:        true,
		subscribers: make(map[int]listcache.Callbacks),
	}
	m.rebuildCache()
	return m
}

// Init — запускает первый count (после старта диспетчера).
func (m *ListModel) Init(ctx context.Context) error {
	return m.disp.Sync(ctx, func() {
		m.cache.InitCount()
	})
}

// Close — остановка модели: кэш закрывается, подписчики отписываются.
func (m *ListModel) Close(ctx context.Context) error {
	return m.disp.Sync(ctx, func() {
		m.cache.Close()
		m.subscribers = make(map[int]listcache.Callbacks)
	})
}

// Subscribe — регистрирует получателя уведомлений; возвращённая функция
// отписывает его (явная отзываемая подписка вместо обратного указателя).
// Сами уведомления приходят на горутине диспетчера.
func (m *ListModel) Subscribe(ctx context.Context, cb listcache.Callbacks) (unsubscribe func(), err error) {
	var id int
	if err := m.disp.Sync(ctx, func() {
		m.nextSubID++
		id = m.nextSubID
		m.subscribers[id] = cb
	}); err != nil {
		return nil, err
	}
	return func() {
		_ = m.disp.Post(func() { delete(m.subscribers, id) })
	}, nil
}

// SetDescriptor — смена области/поиска/сортировки. Дескриптор неизменяем,
// поэтому смена любого поля — это новый кэш (полный сброс), а не мутация.
func (m *ListModel) SetDescriptor(ctx context.Context, desc domain.QueryDescriptor) error {
	return m.disp.Sync(ctx, func() {
		if m.desc == desc {
			return
		}
		m.desc = desc
		m.cache.Close()
		m.rebuildCache()
		m.cache.InitCount()
	})
}

// Descriptor — текущий дескриптор (для отладочной выдачи).
func (m *ListModel) Descriptor(ctx context.Context) (domain.QueryDescriptor, error) {
	var desc domain.QueryDescriptor
	err := m.disp.Sync(ctx, func() { desc = m.desc })
	return desc, err
}

// ------ ports.ListReader ------

// Counts — локальный и максимальный известный размер.
func (m *ListModel) Counts(ctx context.Context) (int, int, error) {
	var total, maximum int
	err := m.disp.Sync(ctx, func() {
		total = m.cache.QueryCount()
		maximum = m.cache.MaximumCount()
	})
	return total, maximum, err
}

// Rows — срез окна [offset, offset+limit): каждая строка помечается refer
// (видима), отсутствующие — nil. Сам вызов не блокируется на загрузках.
func (m *ListModel) Rows(ctx context.Context, offset, limit int) ([]*domain.MediaItem, int, error) {
	var (
		items []*domain.MediaItem
		total int
	)
	err := m.disp.Sync(ctx, func() {
		total = m.cache.QueryCount()
		if offset < 0 || limit <= 0 {
			return
		}
		end := offset + limit
		if total != listcache.CountUninitialized && end > total {
			end = total
		}
		for idx := offset; idx < end; idx++ {
			m.cache.Refer(idx)
			item, _ := m.cache.Get(idx)
			items = append(items, item)
		}
	})
	return items, total, err
}

// ItemByID — точечная выборка мимо окна (каталог сам сериализует запросы,
// диспетчер здесь не нужен). Результаты кэшируются; события item.updated и
// item.deleted инвалидируют запись.
func (m *ListModel) ItemByID(ctx context.Context, id domain.ItemID) (*domain.MediaItem, error) {
	if m.items != nil {
		if item, ok := m.items.Get(ctx, id); ok {
			return item, nil
		}
	}

	item, err := m.catalog.PointQuery(ctx, id)
	if err != nil {
		return nil, err
	}
	if item != nil && m.items != nil {
		if cErr := m.items.Set(ctx, item); cErr != nil {
			m.log.Warnf(ctx, "item cache set failed id=%d err=%v", id.ID, cErr)
		}
	}
	return item, nil
}

// Refresh — полная ресинхронизация окна.
func (m *ListModel) Refresh(ctx context.Context) error {
	return m.disp.Sync(ctx, func() {
		m.invalidate()
	})
}

// State — текущее состояние машины состояний.
func (m *ListModel) State(ctx context.Context) (ports.ListState, error) {
	var st ports.ListState
	err := m.disp.Sync(ctx, func() { st = m.state })
	return st, err
}

// ------ входящие события каталога ------

// ApplyFromMessage — обработка сырого события (Kafka). Шаги: строгий парсинг
// JSON (DisallowUnknownFields), валидация (вернёт validate.ErrInvalidEvent),
// применение на диспетчере.
func (m *ListModel) ApplyFromMessage(ctx context.Context, raw []byte) error {
	var event domain.CatalogEvent
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&event); err != nil {
		m.log.Warnf(ctx, "invalid event json err=%v", err)
		return fmt.Errorf("%w: invalid json: %v", validate.ErrInvalidEvent, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		m.log.Warnf(ctx, "invalid event json: trailing data")
		return fmt.Errorf("%w: invalid json: trailing data", validate.ErrInvalidEvent)
	}

	if err := m.valid.Validate(ctx, &event); err != nil {
		m.log.Warnf(ctx, "event validation failed type=%s err=%v", event.Type, err)
		return fmt.Errorf("validation failed: %w", err)
	}

	return m.disp.Sync(ctx, func() {
		m.applyEvent(ctx, event)
	})
}

// applyEvent — применение типизированного события (на диспетчере).
// switch по типу — исчерпывающий: неизвестные типы отсеяла валидация.
func (m *ListModel) applyEvent(ctx context.Context, event domain.CatalogEvent) {
	switch event.Type {
	case domain.EventItemAdded:
		// Позиция нового элемента в порядке сортировки неизвестна —
		// только полный сброс. Пока каталог занят, сброс откладывается.
		m.requestReset(ctx)

	case domain.EventItemUpdated:
		m.forgetCached(ctx, event.Item)
		m.refreshItem(ctx, event.Item)

	case domain.EventItemDeleted:
		itemID := event.Item
		m.forgetCached(ctx, itemID)
		m.cache.DeleteItem(func(it *domain.MediaItem) bool { return it.ItemID == itemID })

	case domain.EventIdleChanged:
		wasIdle := m.idle
		m.idle = event.Idle
		// Сброс, отложенный на время busy, срабатывает на фронте busy→idle.
		if !wasIdle && event.Idle && m.needReset {
			m.needReset = false
			m.invalidate()
		}
	}
}

// forgetCached — инвалидация точечного кэша по внешнему событию.
func (m *ListModel) forgetCached(ctx context.Context, id domain.ItemID) {
	if m.items != nil {
		m.items.Remove(ctx, id)
	}
}

// refreshItem — целевое обновление одного элемента по внешнему событию,
// не затрагивая оконное состояние загрузок.
func (m *ListModel) refreshItem(ctx context.Context, itemID domain.ItemID) {
	if _, _, resident := m.cache.Find(func(it *domain.MediaItem) bool { return it.ItemID == itemID }); !resident {
		// Элемент не в окне — обновлять нечего.
		return
	}
	m.loader.LoadByID(itemID, func(_ task.ID, item *domain.MediaItem, err error) {
		if err != nil {
			m.log.Warnf(ctx, "point reload failed id=%d err=%v", itemID.ID, err)
			return
		}
		if item == nil {
			return
		}
		m.cache.UpdateItem(item)
	})
}

// requestReset — немедленный сброс в idle, отложенный — в busy.
func (m *ListModel) requestReset(ctx context.Context) {
	if !m.idle {
		m.needReset = true
		m.log.Debugf(ctx, "reset deferred: catalog busy")
		return
	}
	m.invalidate()
}

// invalidate — сброс кэша с переходом машины состояний в Loading,
// если размер ещё не известен заново.
func (m *ListModel) invalidate() {
	if m.state == ports.ListUninitialized {
		m.state = ports.ListLoading
	}
	m.cache.Invalidate()
}

// ------ сборка кэша и ретрансляция уведомлений ------

// rebuildCache — создаёт loader и кэш под текущий дескриптор.
func (m *ListModel) rebuildCache() {
	m.loader = listcache.NewCatalogLoader(m.exec, m.catalog, m.desc)
	m.cache = listcache.New(m.loader, m.disp, m.log, m.relayCallbacks(), m.opts)
	m.state = ports.ListLoading
}

// relayCallbacks — уведомления кэша: обновляют машину состояний и
// веером уходят всем подписчикам.
func (m *ListModel) relayCallbacks() listcache.Callbacks {
	return listcache.Callbacks{
		LocalSizeChanged: func(count int) {
			m.state = ports.ListReady
			for _, sub := range m.subscribers {
				if sub.LocalSizeChanged != nil {
					sub.LocalSizeChanged(count)
				}
			}
		},
		MaximumCountChanged: func(count int) {
			for _, sub := range m.subscribers {
				if sub.MaximumCountChanged != nil {
					sub.MaximumCountChanged(count)
				}
			}
		},
		BeginInsertRows: func(first, last int) {
			for _, sub := range m.subscribers {
				if sub.BeginInsertRows != nil {
					sub.BeginInsertRows(first, last)
				}
			}
		},
		EndInsertRows: func() {
			for _, sub := range m.subscribers {
				if sub.EndInsertRows != nil {
					sub.EndInsertRows()
				}
			}
		},
		BeginRemoveRows: func(first, last int) {
			for _, sub := range m.subscribers {
				if sub.BeginRemoveRows != nil {
					sub.BeginRemoveRows(first, last)
				}
			}
		},
		EndRemoveRows: func() {
			for _, sub := range m.subscribers {
				if sub.EndRemoveRows != nil {
					sub.EndRemoveRows()
				}
			}
		},
		BeginMoveRows: func(first, last, dest int) {
			for _, sub := range m.subscribers {
				if sub.BeginMoveRows != nil {
					sub.BeginMoveRows(first, last, dest)
				}
			}
		},
		EndMoveRows: func() {
			for _, sub := range m.subscribers {
				if sub.EndMoveRows != nil {
					sub.EndMoveRows()
				}
			}
		},
		DataChanged: func(first, last int) {
			for _, sub := range m.subscribers {
				if sub.DataChanged != nil {
					sub.DataChanged(first, last)
				}
			}
		},
	}
}
