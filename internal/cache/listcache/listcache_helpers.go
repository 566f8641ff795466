package listcache

import (
	"sort"

	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/task"
	"github.com/Gunvolt24/medialist/pkg/metrics"
)

// scheduleReferFlush — планирует батч refer-загрузок, если он ещё не запланирован.
func (c *ListCache) scheduleReferFlush() {
	if c.referCancel != nil {
		return
	}
	gen := c.generation
	c.referCancel = c.disp.PostDelayed(c.referDelay, func() {
		c.flushRefer(gen)
	})
}

// flushRefer — склеивает накопленные индексы в диапазоны и выдаёт загрузки.
// Срабатывание устаревшего таймера (пережившего сброс) игнорируется.
func (c *ListCache) flushRefer(gen uint64) {
	c.referCancel = nil
	if c.closed || gen != c.generation {
		return
	}

	indexes := make([]int, 0, len(c.referSet))
	for idx := range c.referSet {
		// За время ожидания батча индекс мог стать резидентным или попасть
		// в выданную загрузку.
		if _, resident := c.items[idx]; resident {
			continue
		}
		if c.coveredByPending(idx) {
			continue
		}
		if c.total != CountUninitialized && idx >= c.total {
			continue
		}
		indexes = append(indexes, idx)
	}
	c.referSet = make(map[int]struct{})
	if len(indexes) == 0 {
		return
	}

	for _, r := range CoalesceIndexes(indexes, c.gapThreshold) {
		c.dispatchLoad(r.Offset, r.Count)
	}
}

// dispatchLoad — выдаёт одну загрузку диапазона и ставит её на учёт.
func (c *ListCache) dispatchLoad(offset, count int) {
	gen := c.generation
	id := c.loader.Load(offset, count, func(id task.ID, items []*domain.MediaItem, err error) {
		c.onLoadDone(id, gen, offset, count, items, err)
	})
	c.pending = append(c.pending, pendingRange{offset: offset, count: count, id: id, gen: gen})
	metrics.ListLoadRanges.Inc()
}

// coveredByPending — попадает ли индекс в уже выданную загрузку текущего поколения.
func (c *ListCache) coveredByPending(index int) bool {
	for _, p := range c.pending {
		if p.gen == c.generation && index >= p.offset && index < p.offset+p.count {
			return true
		}
	}
	return false
}

// removePending — снимает завершённую загрузку с учёта.
func (c *ListCache) removePending(id task.ID) {
	for i, p := range c.pending {
		if p.id == id {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// dropOutstandingLoads — отменяет незавершённые загрузки и накопленные refer:
// после структурного сдвига их смещения указывают на старую нумерацию.
// Строки, которые всё ещё видимы, потребитель перезапросит сам.
func (c *ListCache) dropOutstandingLoads() {
	for _, p := range c.pending {
		c.loader.Cancel(p.id)
	}
	c.pending = c.pending[:0]
	c.referSet = make(map[int]struct{})
	if c.referCancel != nil {
		c.referCancel()
		c.referCancel = nil
	}
}

// cancelEverything — отмена count-задачи, загрузок и таймеров (reset/teardown).
func (c *ListCache) cancelEverything() {
	if c.countTask != 0 {
		c.loader.Cancel(c.countTask)
		c.countTask = 0
	}
	c.dropOutstandingLoads()
}

// sortedResidentIndexes — резидентные индексы по возрастанию.
func (c *ListCache) sortedResidentIndexes() []int {
	indexes := make([]int, 0, len(c.items))
	for idx := range c.items {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	return indexes
}

// contiguousRuns — разбивает отсортированные индексы на непрерывные серии
// [first, last] (обе границы включительно).
func contiguousRuns(sorted []int) [][2]int {
	if len(sorted) == 0 {
		return nil
	}
	runs := [][2]int{{sorted[0], sorted[0]}}
	for _, idx := range sorted[1:] {
		if idx == runs[len(runs)-1][1]+1 {
			runs[len(runs)-1][1] = idx
		} else {
			runs = append(runs, [2]int{idx, idx})
		}
	}
	return runs
}
