package listcache

import (
	"context"
	"sort"

	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/ports"
	"github.com/Gunvolt24/medialist/internal/task"
)

// Проверка, что CatalogLoader удовлетворяет контракту Loader.
var _ Loader = (*CatalogLoader)(nil)

// Range — непрерывный диапазон индексов списка.
type Range struct {
	Offset int
	Count  int
}

// CatalogLoader — привязывает неизменяемый дескриптор запроса к операциям
// каталога через исполнителя задач. Один loader обслуживает один экземпляр
// кэша; общее подключение к каталогу передаётся по ссылке при создании.
type CatalogLoader struct {
	exec    *task.Executor
	catalog ports.Catalog
	desc    domain.QueryDescriptor
}

// NewCatalogLoader — конструктор.
func NewCatalogLoader(exec *task.Executor, catalog ports.Catalog, desc domain.QueryDescriptor) *CatalogLoader {
	return &CatalogLoader{exec: exec, catalog: catalog, desc: desc}
}

// Descriptor — дескриптор, к которому привязан loader.
func (l *CatalogLoader) Descriptor() domain.QueryDescriptor { return l.desc }

// Count — count-запрос на воркере; может быть медленнее Load.
func (l *CatalogLoader) Count(cb func(id task.ID, count int, err error)) task.ID {
	return task.Submit(l.exec,
		func(ctx context.Context) (int, error) {
			return l.catalog.CountQuery(ctx, l.desc)
		},
		cb,
	)
}

// Load — выборка диапазона [offset, offset+limit) на воркере.
func (l *CatalogLoader) Load(offset, limit int, cb func(id task.ID, items []*domain.MediaItem, err error)) task.ID {
	return task.Submit(l.exec,
		func(ctx context.Context) ([]*domain.MediaItem, error) {
			return l.catalog.RangeQuery(ctx, l.desc, offset, limit)
		},
		cb,
	)
}

// LoadByID — точечная выборка по id (вне оконного состояния загрузок).
func (l *CatalogLoader) LoadByID(itemID domain.ItemID, cb func(id task.ID, item *domain.MediaItem, err error)) task.ID {
	return task.Submit(l.exec,
		func(ctx context.Context) (*domain.MediaItem, error) {
			return l.catalog.PointQuery(ctx, itemID)
		},
		cb,
	)
}

// LoadIndexes — батч-выборка произвольного набора индексов одной задачей.
// Индексы склеиваются в диапазоны (CoalesceIndexes), каждый диапазон — один
// запрос к каталогу. Результат выровнен по входному срезу: слот с ошибкой
// или за пределами списка остаётся nil, остальные доставляются
// (частичный отказ — не отказ всего батча).
func (l *CatalogLoader) LoadIndexes(indexes []int, cb func(id task.ID, items []*domain.MediaItem, err error)) task.ID {
	return task.Submit(l.exec,
		func(ctx context.Context) ([]*domain.MediaItem, error) {
			result := make([]*domain.MediaItem, len(indexes))
			if len(indexes) == 0 {
				return result, nil
			}

			ranges := CoalesceIndexes(indexes, DefaultGapThreshold)
			var firstErr error
			failed := 0
			for _, r := range ranges {
				data, err := l.catalog.RangeQuery(ctx, l.desc, r.Offset, r.Count)
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					failed++
					continue
				}
				for i, target := range indexes {
					if target >= r.Offset && target < r.Offset+len(data) {
						result[i] = data[target-r.Offset]
					}
				}
			}
			if failed == len(ranges) {
				return result, firstErr
			}
			return result, nil
		},
		cb,
	)
}

// Cancel — отмена задачи loader-а по дескриптору.
func (l *CatalogLoader) Cancel(id task.ID) { l.exec.Cancel(id) }

// CoalesceIndexes — склейка индексов в максимальные диапазоны: соседние
// отсортированные индексы с разницей меньше gap объединяются, даже если
// промежуточные индексы явно не запрашивались — несколько лишних строк
// дешевле лишнего запроса.
func CoalesceIndexes(indexes []int, gap int) []Range {
	if len(indexes) == 0 {
		return nil
	}
	if gap < 1 {
		gap = 1
	}
	sorted := append([]int(nil), indexes...)
	sort.Ints(sorted)

	type run struct{ low, high int }
	runs := []run{{sorted[0], sorted[0]}}
	for _, idx := range sorted[1:] {
		if idx-runs[len(runs)-1].high < gap {
			runs[len(runs)-1].high = idx
		} else {
			runs = append(runs, run{idx, idx})
		}
	}

	ranges := make([]Range, 0, len(runs))
	for _, r := range runs {
		ranges = append(ranges, Range{Offset: r.low, Count: r.high - r.low + 1})
	}
	return ranges
}
