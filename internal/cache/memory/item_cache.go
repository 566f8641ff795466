package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/ports"
	"github.com/Gunvolt24/medialist/pkg/metrics"
)

// Проверка, что LRUCacheTTL удовлетворяет интерфейсу ItemCache.
var _ ports.ItemCache = (*LRUCacheTTL)(nil)

type entry struct {
	id        domain.ItemID
	item      *domain.MediaItem
	expiresAt time.Time
}

// LRUCacheTTL — кэш точечных выборок: LRU-вытеснение по ёмкости + TTL.
// Оконный кэш списка им не пользуется: здесь живут только результаты
// ItemByID, идущие мимо окна.
type LRUCacheTTL struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	index map[domain.ItemID]*list.Element

	mu sync.Mutex
}

// NewLRUCacheTTL — конструктор. ttl <= 0 отключает истечение по времени.
func NewLRUCacheTTL(capacity int, ttl time.Duration) *LRUCacheTTL {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCacheTTL{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[domain.ItemID]*list.Element),
	}
}

// Get — элемент по id; продлевает TTL и поднимает запись в голову LRU.
func (c *LRUCacheTTL) Get(_ context.Context, id domain.ItemID) (*domain.MediaItem, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[id]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(c.ll.Len()))
		return nil, false
	}
	c.ll.MoveToFront(elem)

	if c.ttl > 0 {
		ent.expiresAt = c.expiryFrom(now)
	}

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneItem(ent.item), true
}

// Set — сохранить/обновить элемент; ключ — item.ItemID.
func (c *LRUCacheTTL) Set(_ context.Context, item *domain.MediaItem) error {
	if item == nil || item.ItemID.ID <= 0 {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[item.ItemID]; ok {
		ent := elem.Value.(*entry)
		ent.item = cloneItem(item)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry{
		id:        item.ItemID,
		item:      cloneItem(item),
		expiresAt: c.expiryFrom(now),
	})
	c.index[item.ItemID] = elem
	metrics.CacheSize.Set(float64(c.ll.Len()))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	return nil
}

// Remove — забыть элемент; отсутствие записи не является ошибкой.
func (c *LRUCacheTTL) Remove(_ context.Context, id domain.ItemID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[id]; ok {
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(c.ll.Len()))
	}
}
