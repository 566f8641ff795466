package listcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/task"
	"github.com/Gunvolt24/medialist/pkg/metrics"
)

type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...any) {}
func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// fakeLoader — записывает выданные задачи; завершение имитируется тестом
// явным вызовом сохранённого callback (на горутине диспетчера).
type fakeLoader struct {
	mu     sync.Mutex
	nextID task.ID

	countCBs map[task.ID]func(task.ID, int, error)
	loadCBs  map[task.ID]func(task.ID, []*domain.MediaItem, error)
	loads    []Range
	loadIDs  []task.ID

	cancelled map[task.ID]bool
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		countCBs:  make(map[task.ID]func(task.ID, int, error)),
		loadCBs:   make(map[task.ID]func(task.ID, []*domain.MediaItem, error)),
		cancelled: make(map[task.ID]bool),
	}
}

func (f *fakeLoader) Count(cb func(id task.ID, count int, err error)) task.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.countCBs[f.nextID] = cb
	return f.nextID
}

func (f *fakeLoader) Load(offset, limit int, cb func(id task.ID, items []*domain.MediaItem, err error)) task.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.loadCBs[f.nextID] = cb
	f.loads = append(f.loads, Range{Offset: offset, Count: limit})
	f.loadIDs = append(f.loadIDs, f.nextID)
	return f.nextID
}

func (f *fakeLoader) LoadByID(_ domain.ItemID, _ func(id task.ID, item *domain.MediaItem, err error)) task.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID
}

func (f *fakeLoader) Cancel(id task.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled[id] = true
	delete(f.countCBs, id)
	delete(f.loadCBs, id)
}

// takeCountCB — забирает callback count-задачи (повторное взятие → nil).
func (f *fakeLoader) takeCountCB(id task.ID) func(task.ID, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cb := f.countCBs[id]
	delete(f.countCBs, id)
	return cb
}

// takeLoadCB — забирает callback загрузки диапазона.
func (f *fakeLoader) takeLoadCB(id task.ID) func(task.ID, []*domain.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cb := f.loadCBs[id]
	delete(f.loadCBs, id)
	return cb
}

func (f *fakeLoader) recordedLoads() []Range {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Range(nil), f.loads...)
}

func (f *fakeLoader) recordedLoadIDs() []task.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]task.ID(nil), f.loadIDs...)
}

func (f *fakeLoader) isCancelled(id task.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled[id]
}

// env — кэш на работающем диспетчере. Все обращения к кэшу тест делает
// через do (синхронный прыжок на горутину диспетчера).
type env struct {
	cache  *ListCache
	loader *fakeLoader
	disp   *task.Dispatcher
	t      *testing.T
}

func newEnv(t *testing.T, cb Callbacks, opts Options) *env {
	t.Helper()
	if opts.ReferDelay == 0 {
		opts.ReferDelay = time.Millisecond
	}

	fl := newFakeLoader()
	disp := task.NewDispatcher(64)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = disp.Run(ctx) }()
	t.Cleanup(cancel)

	var c *ListCache
	err := disp.Sync(ctx, func() {
		c = New(fl, disp, nopLogger{}, cb, opts)
	})
	require.NoError(t, err)

	return &env{cache: c, loader: fl, disp: disp, t: t}
}

func (e *env) do(fn func()) {
	e.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(e.t, e.disp.Sync(ctx, fn))
}

// waitLoads — ждёт, пока общее число выданных загрузок достигнет n
// (отложенный батч refer срабатывает по таймеру).
func (e *env) waitLoads(n int) {
	e.t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		var cnt int
		e.do(func() { cnt = len(e.loader.recordedLoads()) })
		if cnt >= n {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	e.t.Fatalf("expected %d dispatched loads", n)
}

func mkItem(id int64) *domain.MediaItem {
	return &domain.MediaItem{
		ItemID: domain.ItemID{ID: id},
		Title:  fmt.Sprintf("item-%03d", id),
	}
}

// mkItems — n элементов с id от firstID по возрастанию.
func mkItems(firstID int64, n int) []*domain.MediaItem {
	items := make([]*domain.MediaItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, mkItem(firstID+int64(i)))
	}
	return items
}

// applyCountNow — InitCount + немедленное завершение count-задачи.
func (e *env) applyCountNow(count int) {
	e.t.Helper()
	e.do(func() {
		e.cache.InitCount()
		id := e.cache.countTask
		require.NotZero(e.t, id)
		cb := e.loader.takeCountCB(id)
		require.NotNil(e.t, cb)
		cb(id, count, nil)
	})
}

// fill — делает строки [offset, offset+n) резидентными (refer + доставка).
// Элемент на индексе i получает ItemID.ID == i+1.
func (e *env) fill(offset, n int) {
	e.t.Helper()
	var baseline int
	e.do(func() {
		baseline = len(e.loader.recordedLoads())
		for i := offset; i < offset+n; i++ {
			e.cache.Refer(i)
		}
	})
	e.waitLoads(baseline + 1)
	e.do(func() {
		ids := e.loader.recordedLoadIDs()
		loads := e.loader.recordedLoads()
		for i, id := range ids {
			cb := e.loader.takeLoadCB(id)
			if cb == nil {
				continue
			}
			r := loads[i]
			cb(id, mkItems(int64(r.Offset)+1, r.Count), nil)
		}
	})
}

func TestInitCount_IdempotentUntilDone(t *testing.T) {
	var sizes []int
	var maximums []int
	e := newEnv(t, Callbacks{
		LocalSizeChanged:    func(n int) { sizes = append(sizes, n) },
		MaximumCountChanged: func(n int) { maximums = append(maximums, n) },
	}, Options{})

	e.do(func() {
		require.Equal(t, CountUninitialized, e.cache.QueryCount())
		require.Equal(t, CountUninitialized, e.cache.MaximumCount())

		e.cache.InitCount()
		first := e.cache.countTask
		e.cache.InitCount() // повторный вызов до завершения — no-op
		require.Equal(t, first, e.cache.countTask)

		e.loader.takeCountCB(first)(first, 42, nil)

		require.Equal(t, 42, e.cache.QueryCount())
		require.Equal(t, 42, e.cache.MaximumCount())
	})

	require.Equal(t, []int{42}, sizes)
	require.Equal(t, []int{42}, maximums)
}

func TestCountFailure_NotFatal_RetriedByRefer(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})

	e.do(func() {
		e.cache.InitCount()
		id := e.cache.countTask
		e.loader.takeCountCB(id)(id, 0, errors.New("catalog down"))

		// Размер остаётся неинициализированным, кэш жив.
		require.Equal(t, CountUninitialized, e.cache.QueryCount())

		// Refer при неизвестном размере повторяет count.
		e.cache.Refer(0)
		require.NotZero(t, e.cache.countTask)
		require.NotEqual(t, id, e.cache.countTask)
	})
}

func TestRefer_CoalescesIntoTwoLoads(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})
	e.applyCountNow(200)

	e.do(func() {
		for i := 0; i <= 4; i++ {
			e.cache.Refer(i)
		}
		e.cache.Refer(100)
	})
	e.waitLoads(2)

	loads := e.loader.recordedLoads()
	require.Len(t, loads, 2)
	require.Contains(t, loads, Range{Offset: 0, Count: 5})
	require.Contains(t, loads, Range{Offset: 100, Count: 1})
}

func TestRefer_SkipsResidentPendingAndOutOfRange(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})
	e.applyCountNow(10)
	e.fill(0, 3)

	e.do(func() {
		e.cache.Refer(0)  // резидентный
		e.cache.Refer(10) // за пределами списка
		e.cache.Refer(-1) // мусор
		require.Empty(t, e.cache.referSet)
	})
	require.Len(t, e.loader.recordedLoads(), 1) // только исходный fill
}

func TestLoadDone_AppliesItemsAndNotifies(t *testing.T) {
	var changed [][2]int
	e := newEnv(t, Callbacks{
		DataChanged: func(first, last int) { changed = append(changed, [2]int{first, last}) },
	}, Options{})
	e.applyCountNow(10)

	e.do(func() {
		for i := 0; i < 5; i++ {
			e.cache.Refer(i)
		}
	})
	e.waitLoads(1)

	items := mkItems(1, 5)
	e.do(func() {
		id := e.loader.recordedLoadIDs()[0]
		e.loader.takeLoadCB(id)(id, items, nil)

		for i := 0; i < 5; i++ {
			got, ok := e.cache.Get(i)
			require.True(t, ok)
			require.Equal(t, items[i], got)
		}
		_, ok := e.cache.Get(5)
		require.False(t, ok)
	})
	require.Equal(t, [][2]int{{0, 4}}, changed)
}

func TestLoadDone_DuplicateDelivery_Idempotent(t *testing.T) {
	var changed [][2]int
	var inserts, removes [][2]int
	e := newEnv(t, Callbacks{
		DataChanged:     func(first, last int) { changed = append(changed, [2]int{first, last}) },
		BeginInsertRows: func(first, last int) { inserts = append(inserts, [2]int{first, last}) },
		BeginRemoveRows: func(first, last int) { removes = append(removes, [2]int{first, last}) },
	}, Options{})
	e.applyCountNow(10)

	e.do(func() {
		for i := 0; i < 5; i++ {
			e.cache.Refer(i)
		}
	})
	e.waitLoads(1)

	items := mkItems(1, 5)
	e.do(func() {
		id := e.loader.recordedLoadIDs()[0]
		cb := e.loader.takeLoadCB(id)
		require.NotNil(t, cb)

		cb(id, items, nil)
		snapshot := make(map[int]*domain.MediaItem, len(e.cache.items))
		for idx, it := range e.cache.items {
			snapshot[idx] = it
		}

		// Повторная доставка того же результата (дубликат в том же поколении).
		cb(id, items, nil)

		require.Equal(t, snapshot, e.cache.items)
		require.Equal(t, 10, e.cache.QueryCount())
		require.Empty(t, e.cache.pending)
	})

	// Дубликат не порождает новых загрузок и структурных уведомлений;
	// повторный DataChanged покрывает тот же диапазон.
	require.Len(t, e.loader.recordedLoads(), 1)
	require.Empty(t, inserts)
	require.Empty(t, removes)
	for _, span := range changed {
		require.Equal(t, [2]int{0, 4}, span)
	}
}

func TestLoadDone_ShortResult_TailStaysUnloaded(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})
	e.applyCountNow(10)

	e.do(func() {
		for i := 0; i < 10; i++ {
			e.cache.Refer(i)
		}
	})
	e.waitLoads(1)

	e.do(func() {
		id := e.loader.recordedLoadIDs()[0]
		// 10 запрошено, 7 доставлено: список сократился между count и load
		e.loader.takeLoadCB(id)(id, mkItems(1, 7), nil)

		require.Equal(t, 10, e.cache.QueryCount()) // размер правит только count
		for i := 0; i < 7; i++ {
			_, ok := e.cache.Get(i)
			require.True(t, ok)
		}
		for i := 7; i < 10; i++ {
			_, ok := e.cache.Get(i)
			require.False(t, ok)
		}
	})
}

func TestLoadDone_PartialFailure_NilSlotsSkipped(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})
	e.applyCountNow(10)

	e.do(func() {
		for i := 0; i < 3; i++ {
			e.cache.Refer(i)
		}
	})
	e.waitLoads(1)

	e.do(func() {
		id := e.loader.recordedLoadIDs()[0]
		items := mkItems(1, 3)
		items[1] = nil // сбой одного элемента батча
		e.loader.takeLoadCB(id)(id, items, nil)

		_, ok := e.cache.Get(0)
		require.True(t, ok)
		_, ok = e.cache.Get(1)
		require.False(t, ok)
		_, ok = e.cache.Get(2)
		require.True(t, ok)
	})
}

func TestLoadDone_FailedRange_KeepsWindowIntact(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})
	e.applyCountNow(10)
	e.fill(0, 2)

	e.do(func() { e.cache.Refer(5) })
	e.waitLoads(2)

	e.do(func() {
		ids := e.loader.recordedLoadIDs()
		id := ids[len(ids)-1]
		e.loader.takeLoadCB(id)(id, nil, errors.New("timeout"))

		// Ошибка диапазона не трогает уже резидентные строки.
		_, ok := e.cache.Get(0)
		require.True(t, ok)
		_, ok = e.cache.Get(5)
		require.False(t, ok)
		// Строку можно запросить снова.
		e.cache.Refer(5)
		require.Contains(t, e.cache.referSet, 5)
	})
}

func TestApplyCount_GrowAndShrinkNotifications(t *testing.T) {
	var inserts, removes [][2]int
	e := newEnv(t, Callbacks{
		BeginInsertRows: func(first, last int) { inserts = append(inserts, [2]int{first, last}) },
		BeginRemoveRows: func(first, last int) { removes = append(removes, [2]int{first, last}) },
	}, Options{})
	e.applyCountNow(10)

	e.do(func() {
		// Рост: count 10 → 15.
		e.cache.Invalidate()
		id := e.cache.countTask
		e.loader.takeCountCB(id)(id, 15, nil)
		require.Equal(t, 15, e.cache.QueryCount())
		require.Equal(t, 15, e.cache.MaximumCount())

		// Сокращение: count 15 → 7; максимум не уменьшается.
		e.cache.Invalidate()
		id = e.cache.countTask
		e.loader.takeCountCB(id)(id, 7, nil)
		require.Equal(t, 7, e.cache.QueryCount())
		require.Equal(t, 15, e.cache.MaximumCount())
	})

	require.Equal(t, [][2]int{{10, 14}}, inserts)
	require.Equal(t, [][2]int{{7, 14}}, removes)
}

func TestInvalidate_DiscardsStaleLoad_ReissuesCountAndResidents(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})
	e.applyCountNow(10)
	e.fill(0, 3)

	e.do(func() { e.cache.Refer(7) })
	e.waitLoads(2)

	e.do(func() {
		ids := e.loader.recordedLoadIDs()
		staleID := ids[len(ids)-1]
		staleCB := e.loader.takeLoadCB(staleID)

		e.cache.Invalidate()

		// Незавершённая загрузка отменена, размер сохранён, окно пусто.
		require.True(t, e.loader.isCancelled(staleID))
		require.Equal(t, 10, e.cache.QueryCount())
		_, ok := e.cache.Get(0)
		require.False(t, ok)

		// Новая count-задача выдана в новом поколении.
		require.NotZero(t, e.cache.countTask)

		// Доставка пережившего сброс результата игнорируется.
		staleCB(staleID, mkItems(8, 1), nil)
		_, ok = e.cache.Get(7)
		require.False(t, ok)
	})

	// Резидентные строки перезапрашиваются в новом поколении.
	e.waitLoads(3)
}

func TestStaleCountAfterInvalidate_Ignored(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})

	e.do(func() {
		e.cache.InitCount()
		oldID := e.cache.countTask
		oldCB := e.loader.takeCountCB(oldID)

		e.cache.Invalidate()
		require.True(t, e.loader.isCancelled(oldID))

		// Доставка старого count не применяется.
		oldCB(oldID, 99, nil)
		require.Equal(t, CountUninitialized, e.cache.QueryCount())
	})
}

func TestUpdateItem_InPlace(t *testing.T) {
	var changed [][2]int
	e := newEnv(t, Callbacks{
		DataChanged: func(first, last int) { changed = append(changed, [2]int{first, last}) },
	}, Options{})
	e.applyCountNow(10)
	e.fill(0, 5)
	changed = changed[:0]

	e.do(func() {
		updated := &domain.MediaItem{ItemID: domain.ItemID{ID: 3}, Title: "renamed"}
		require.True(t, e.cache.UpdateItem(updated))

		got, ok := e.cache.Get(2) // id=3 лежит на индексе 2
		require.True(t, ok)
		require.Equal(t, "renamed", got.Title)

		// Нерезидентный id — no-op.
		require.False(t, e.cache.UpdateItem(&domain.MediaItem{ItemID: domain.ItemID{ID: 777}}))
	})
	require.Equal(t, [][2]int{{2, 2}}, changed)
}

func TestFind_AscendingResidentOnly(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})
	e.applyCountNow(10)
	e.fill(2, 3) // резидентны индексы 2..4, id 3..5

	e.do(func() {
		item, idx, ok := e.cache.Find(func(it *domain.MediaItem) bool { return it.ItemID.ID >= 3 })
		require.True(t, ok)
		require.Equal(t, 2, idx)
		require.Equal(t, int64(3), item.ItemID.ID)

		_, _, ok = e.cache.Find(func(*domain.MediaItem) bool { return false })
		require.False(t, ok)
	})
}

func TestDeleteRange_ShiftsTailAndShrinksCount(t *testing.T) {
	var removes [][2]int
	var sizes []int
	e := newEnv(t, Callbacks{
		BeginRemoveRows:  func(first, last int) { removes = append(removes, [2]int{first, last}) },
		LocalSizeChanged: func(n int) { sizes = append(sizes, n) },
	}, Options{})
	e.applyCountNow(10)
	e.fill(0, 10)

	e.do(func() {
		sizes = sizes[:0]
		require.True(t, e.cache.DeleteRange(2, 4))
		require.Equal(t, 7, e.cache.QueryCount())

		// Хвост сдвинулся: бывший индекс 5 (id=6) теперь на 2.
		got, ok := e.cache.Get(2)
		require.True(t, ok)
		require.Equal(t, int64(6), got.ItemID.ID)

		got, ok = e.cache.Get(6)
		require.True(t, ok)
		require.Equal(t, int64(10), got.ItemID.ID)

		_, ok = e.cache.Get(7)
		require.False(t, ok)
	})

	require.Equal(t, [][2]int{{2, 4}}, removes)
	require.Equal(t, []int{7}, sizes)
}

func TestDeleteRange_InvalidRejected(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})
	e.applyCountNow(10)

	e.do(func() {
		require.False(t, e.cache.DeleteRange(-1, 2))
		require.False(t, e.cache.DeleteRange(5, 4))
		require.False(t, e.cache.DeleteRange(5, 10)) // за пределами списка
		require.Equal(t, 10, e.cache.QueryCount())
	})
}

func TestDeleteItem_ContiguousRunsBackToFront(t *testing.T) {
	var removes [][2]int
	e := newEnv(t, Callbacks{
		BeginRemoveRows: func(first, last int) { removes = append(removes, [2]int{first, last}) },
	}, Options{})
	e.applyCountNow(10)
	e.fill(0, 10)

	e.do(func() {
		removes = removes[:0]
		// id 2,3 (индексы 1,2) и id 6 (индекс 5): две серии
		require.True(t, e.cache.DeleteItem(func(it *domain.MediaItem) bool {
			return it.ItemID.ID == 2 || it.ItemID.ID == 3 || it.ItemID.ID == 6
		}))
		require.Equal(t, 7, e.cache.QueryCount())

		// Без совпадений — false, без мутаций.
		require.False(t, e.cache.DeleteItem(func(*domain.MediaItem) bool { return false }))
	})

	// Серии удаляются с конца: сначала (5,5), потом (1,2).
	require.Equal(t, [][2]int{{5, 5}, {1, 2}}, removes)
}

func TestMoveRange_ForwardAndBackward(t *testing.T) {
	var moves [][3]int
	e := newEnv(t, Callbacks{
		BeginMoveRows: func(first, last, dest int) { moves = append(moves, [3]int{first, last, dest}) },
	}, Options{})
	e.applyCountNow(10)
	e.fill(0, 10)

	e.do(func() {
		// Вперёд: [0,1] перед строкой 5 → порядок 3,4,5,1,2,6,...
		require.True(t, e.cache.MoveRange(0, 1, 5))
		ids := make([]int64, 0, 10)
		for i := 0; i < 10; i++ {
			it, ok := e.cache.Get(i)
			require.True(t, ok)
			ids = append(ids, it.ItemID.ID)
		}
		require.Equal(t, []int64{3, 4, 5, 1, 2, 6, 7, 8, 9, 10}, ids)

		// Назад: [3,4] перед строкой 0 → исходный порядок восстановлен.
		require.True(t, e.cache.MoveRange(3, 4, 0))
		for i := 0; i < 10; i++ {
			it, _ := e.cache.Get(i)
			require.Equal(t, int64(i+1), it.ItemID.ID)
		}
	})
	require.Equal(t, [][3]int{{0, 1, 5}, {3, 4, 0}}, moves)
}

func TestMoveRange_Rejections(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})
	e.applyCountNow(10)
	e.fill(0, 5)

	e.do(func() {
		require.False(t, e.cache.MoveRange(0, 1, 1))  // dest внутри блока
		require.False(t, e.cache.MoveRange(0, 1, 2))  // dest сразу после блока — no-op
		require.False(t, e.cache.MoveRange(4, 6, 0))  // частично нерезидентный
		require.False(t, e.cache.MoveRange(0, 1, 11)) // dest за пределами
	})
}

func TestStructuralShift_CancelsOutstandingLoads(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})
	e.applyCountNow(20)
	e.fill(0, 10)

	e.do(func() { e.cache.Refer(15) })
	e.waitLoads(2)

	e.do(func() {
		ids := e.loader.recordedLoadIDs()
		outstanding := ids[len(ids)-1]

		require.True(t, e.cache.DeleteRange(0, 2))

		// Сдвиг нумерации: выданная загрузка отменена, повторная доставка
		// по старому смещению невозможна.
		require.True(t, e.loader.isCancelled(outstanding))
		require.Empty(t, e.cache.pending)
	})
}

func TestClose_StopsEverything(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})
	e.applyCountNow(10)

	e.do(func() {
		e.cache.Refer(0)
		e.cache.Close()

		require.Empty(t, e.cache.referSet)

		// После закрытия всё — no-op.
		e.cache.Refer(1)
		e.cache.InitCount()
		require.Zero(t, e.cache.countTask)
		require.False(t, e.cache.DeleteRange(0, 1))
		require.False(t, e.cache.MoveRange(0, 1, 5))
		e.cache.Invalidate()
		require.Zero(t, e.cache.countTask)
	})
}

func TestClose_LateCompletionCountedAsCancelled(t *testing.T) {
	e := newEnv(t, Callbacks{}, Options{})

	e.do(func() {
		e.cache.InitCount()
		id := e.cache.countTask
		cb := e.loader.takeCountCB(id)
		require.NotNil(t, cb)

		e.cache.Close()

		cancelledBefore := promtestutil.ToFloat64(metrics.ListLoads.WithLabelValues("cancelled"))
		staleBefore := promtestutil.ToFloat64(metrics.ListLoads.WithLabelValues("stale"))

		// Завершение, догнавшее Close, учитывается как отмена,
		// а не как устаревшая загрузка.
		cb(id, 42, nil)

		require.Equal(t, cancelledBefore+1, promtestutil.ToFloat64(metrics.ListLoads.WithLabelValues("cancelled")))
		require.Equal(t, staleBefore, promtestutil.ToFloat64(metrics.ListLoads.WithLabelValues("stale")))
		require.Equal(t, CountUninitialized, e.cache.QueryCount())
	})
}

func TestContiguousRuns(t *testing.T) {
	require.Nil(t, contiguousRuns(nil))
	require.Equal(t, [][2]int{{1, 3}, {5, 5}, {7, 8}}, contiguousRuns([]int{1, 2, 3, 5, 7, 8}))
}
