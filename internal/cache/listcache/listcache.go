package listcache

import (
	"context"
	"time"

	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/ports"
	"github.com/Gunvolt24/medialist/internal/task"
	"github.com/Gunvolt24/medialist/pkg/metrics"
)

// CountUninitialized — размер списка ещё не известен (до первого count).
const CountUninitialized = -1

// Значения по умолчанию для настроек окна.
const (
	DefaultGapThreshold = 4                    // зазор склейки диапазонов (как в наблюдаемом поведении)
	DefaultReferDelay   = 5 * time.Millisecond // задержка батча refer-загрузок
)

// Options — настройки кэша.
type Options struct {
	GapThreshold int           // зазор склейки диапазонов; <= 0 → DefaultGapThreshold
	ReferDelay   time.Duration // задержка батча refer; <= 0 → DefaultReferDelay
}

// pendingRange — выданная, но ещё не завершённая загрузка диапазона.
type pendingRange struct {
	offset, count int
	id            task.ID
	gen           uint64
}

// ListCache — оконный кэш большого удалённого списка.
//
// Держит разрежённое окно offset → элемент, следит за общим размером и сам
// выдаёт фоновые загрузки для «видимых» (referred) строк. Все методы должны
// вызываться только с горутины диспетчера: состояние окна не защищено
// блокировками по построению (единственный мутирующий контекст).
//
// Устаревшие результаты отбрасываются по счётчику поколений: каждая загрузка
// несёт поколение на момент выдачи, invalidate/Close поколение увеличивают.
type ListCache struct {
	loader Loader
	disp   *task.Dispatcher
	log    ports.Logger
	cb     Callbacks

	gapThreshold int
	referDelay   time.Duration

	generation uint64
	total      int // CountUninitialized до первого успешного count
	maxKnown   int // максимальный наблюдавшийся размер; CountUninitialized до первого count

	items map[int]*domain.MediaItem // разрежённое окно; ключ отсутствует = «не загружено»

	countTask   task.ID        // единственная незавершённая count-задача (0 — нет)
	pending     []pendingRange // незавершённые загрузки диапазонов
	referSet    map[int]struct{}
	referCancel func() // отмена таймера батча; nil — батч не запланирован

	closed bool
}

// New — конструктор кэша, привязанного к одному дескриптору запроса
// (через loader). Смена дескриптора = новый экземпляр.
func New(loader Loader, disp *task.Dispatcher, log ports.Logger, cb Callbacks, opts Options) *ListCache {
	gap := opts.GapThreshold
	if gap <= 0 {
		gap = DefaultGapThreshold
	}
	delay := opts.ReferDelay
	if delay <= 0 {
		delay = DefaultReferDelay
	}
	return &ListCache{
		loader:       loader,
		disp:         disp,
		log:          log,
		cb:           cb,
		gapThreshold: gap,
		referDelay:   delay,
		total:        CountUninitialized,
		maxKnown:     CountUninitialized,
		items:        make(map[int]*domain.MediaItem),
		referSet:     make(map[int]struct{}),
	}
}

// QueryCount — локальный размер списка (CountUninitialized до первого count).
func (c *ListCache) QueryCount() int { return c.total }

// MaximumCount — максимальный известный размер списка.
func (c *ListCache) MaximumCount() int { return c.maxKnown }

// InitCount — выдаёт count-запрос; повторный вызов до завершения — no-op
// (идемпотентность обеспечивает единственный дескриптор count-задачи).
func (c *ListCache) InitCount() {
	if c.closed || c.countTask != 0 {
		return
	}
	gen := c.generation
	c.countTask = c.loader.Count(func(id task.ID, count int, err error) {
		c.onCountDone(id, gen, count, err)
	})
}

// Get — чистая выборка по индексу; сама по себе загрузок не инициирует.
func (c *ListCache) Get(index int) (*domain.MediaItem, bool) {
	item, ok := c.items[index]
	return item, ok
}

// Refer — подсказка «индекс вот-вот будет показан». Дёшев на каждый бинд
// строки: резидентные, уже запрошенные и ожидающие индексы отсеиваются сразу,
// остальные копятся и одним батчем склеиваются в диапазонные загрузки.
func (c *ListCache) Refer(index int) {
	if c.closed || index < 0 {
		return
	}
	if c.total == CountUninitialized {
		// Ленивая повторная попытка count после временной ошибки.
		c.InitCount()
	} else if index >= c.total {
		return
	}
	if _, resident := c.items[index]; resident {
		return
	}
	if c.coveredByPending(index) {
		return
	}
	if _, queued := c.referSet[index]; queued {
		return
	}
	c.referSet[index] = struct{}{}
	c.scheduleReferFlush()
}

// Find — линейный поиск по резидентным строкам в порядке возрастания индекса.
// Нерезидентные строки не загружаются и не учитываются.
func (c *ListCache) Find(pred func(*domain.MediaItem) bool) (*domain.MediaItem, int, bool) {
	for _, idx := range c.sortedResidentIndexes() {
		if item := c.items[idx]; pred(item) {
			return item, idx, true
		}
	}
	return nil, 0, false
}

// UpdateItem — заменяет резидентный элемент с тем же id на месте,
// не меняя позицию; уведомление — одиночный DataChanged.
// Если элемент не резидентен — no-op, false.
func (c *ListCache) UpdateItem(newItem *domain.MediaItem) bool {
	if c.closed || newItem == nil {
		return false
	}
	_, idx, ok := c.Find(func(it *domain.MediaItem) bool { return it.ItemID == newItem.ItemID })
	if !ok {
		return false
	}
	c.items[idx] = newItem
	c.emitDataChanged(idx, idx)
	return true
}

// DeleteItem — удаляет резидентные строки, попавшие под предикат.
// Смежные серии удаляются одним remove-событием каждая. false — совпадений нет.
func (c *ListCache) DeleteItem(pred func(*domain.MediaItem) bool) bool {
	if c.closed {
		return false
	}
	var matched []int
	for _, idx := range c.sortedResidentIndexes() {
		if pred(c.items[idx]) {
			matched = append(matched, idx)
		}
	}
	if len(matched) == 0 {
		return false
	}
	// Серии удаляем с конца, чтобы индексы впереди не сдвигались под ногами.
	runs := contiguousRuns(matched)
	for i := len(runs) - 1; i >= 0; i-- {
		c.DeleteRange(runs[i][0], runs[i][1])
	}
	return true
}

// DeleteRange — удаляет строки [first, last] (резидентные и нет), сдвигает
// последующие резидентные строки вниз и уменьшает общий размер.
// Невалидный диапазон отвергается без изменения состояния.
func (c *ListCache) DeleteRange(first, last int) bool {
	if c.closed || first < 0 || last < first {
		return false
	}
	if c.total == CountUninitialized || last >= c.total {
		return false
	}
	removed := last - first + 1

	c.emitBeginRemove(first, last)
	next := make(map[int]*domain.MediaItem, len(c.items))
	for idx, item := range c.items {
		switch {
		case idx < first:
			next[idx] = item
		case idx > last:
			next[idx-removed] = item
		}
	}
	c.items = next
	c.total -= removed
	c.emitEndRemove()

	// Сдвиг делает незавершённые загрузки и накопленные refer бессмысленными:
	// их смещения указывают на старую нумерацию.
	c.dropOutstandingLoads()

	metrics.ListResidentRows.Set(float64(len(c.items)))
	c.emitLocalSize(c.total)
	return true
}

// MoveRange — перемещает непрерывную резидентную серию [first, last] так,
// чтобы она оказалась перед строкой dest (нумерация до перемещения).
// Частично нерезидентные и некорректные диапазоны отвергаются: false, без мутаций.
func (c *ListCache) MoveRange(first, last, dest int) bool {
	if c.closed || first < 0 || last < first {
		return false
	}
	if c.total == CountUninitialized || last >= c.total || dest < 0 || dest > c.total {
		return false
	}
	// dest внутри перемещаемого блока (включая «сразу после») — запрещён.
	if dest >= first && dest <= last+1 {
		return false
	}
	for idx := first; idx <= last; idx++ {
		if _, resident := c.items[idx]; !resident {
			return false
		}
	}

	c.emitBeginMove(first, last, dest)
	n := last - first + 1
	remap := func(idx int) int {
		switch {
		case idx >= first && idx <= last:
			if dest > last {
				return idx + (dest - last - 1)
			}
			return idx - (first - dest)
		case dest > last && idx > last && idx < dest:
			return idx - n
		case dest < first && idx >= dest && idx < first:
			return idx + n
		default:
			return idx
		}
	}
	next := make(map[int]*domain.MediaItem, len(c.items))
	for idx, item := range c.items {
		next[remap(idx)] = item
	}
	c.items = next
	c.emitEndMove()

	c.dropOutstandingLoads()
	return true
}

// Invalidate — полная ресинхронизация: отменяет незавершённые загрузки и
// таймеры, перечитывает count и перезагрузит строки, на которые ещё
// ссылается потребитель. Прежний total сохраняется (без «мигания» загрузкой).
func (c *ListCache) Invalidate() {
	if c.closed {
		return
	}
	c.generation++
	c.cancelEverything()

	// Резидентные строки считаем по-прежнему интересными: после сброса они
	// перезагрузятся в новом поколении.
	resident := c.sortedResidentIndexes()
	for _, idx := range resident {
		c.referSet[idx] = struct{}{}
	}
	c.items = make(map[int]*domain.MediaItem)
	metrics.ListResidentRows.Set(0)

	if len(resident) > 0 {
		c.emitDataChanged(resident[0], resident[len(resident)-1])
	}
	c.InitCount()
	if len(c.referSet) > 0 {
		c.scheduleReferFlush()
	}
}

// Close — завершение работы: отмена всех задач, окно очищается.
// Дальнейшие вызовы — no-op.
func (c *ListCache) Close() {
	if c.closed {
		return
	}
	c.generation++
	c.cancelEverything()
	c.items = make(map[int]*domain.MediaItem)
	c.referSet = make(map[int]struct{})
	metrics.ListResidentRows.Set(0)
	c.closed = true
}

// ------ обработка завершений ------

// onCountDone — завершение count-задачи (вызывается на диспетчере).
func (c *ListCache) onCountDone(id task.ID, gen uint64, count int, err error) {
	if c.closed {
		// Завершение после Close — не устаревший результат, а отмена.
		metrics.ListLoads.WithLabelValues("cancelled").Inc()
		return
	}
	if gen != c.generation || id != c.countTask {
		metrics.ListLoads.WithLabelValues("stale").Inc()
		return
	}
	c.countTask = 0
	if err != nil {
		// Временная ошибка каталога: не фатальна, повтор — на следующем
		// Refer/InitCount.
		metrics.ListLoads.WithLabelValues("failed").Inc()
		c.log.Warnf(context.Background(), "count query failed: %v", err)
		return
	}
	c.applyCount(count)
}

// applyCount — применяет новый общий размер и транслирует разницу
// в insert/remove-уведомления.
func (c *ListCache) applyCount(count int) {
	if count < 0 {
		count = 0
	}
	prev := c.total
	switch {
	case prev == CountUninitialized:
		c.total = count
		c.emitLocalSize(count)
	case count > prev:
		c.emitBeginInsert(prev, count-1)
		c.total = count
		c.emitEndInsert()
		c.emitLocalSize(count)
	case count < prev:
		c.emitBeginRemove(count, prev-1)
		for idx := range c.items {
			if idx >= count {
				delete(c.items, idx)
			}
		}
		c.total = count
		c.emitEndRemove()
		metrics.ListResidentRows.Set(float64(len(c.items)))
		c.emitLocalSize(count)
	}
	if count > c.maxKnown {
		c.maxKnown = count
		c.emitMaximumCount(count)
	}
}

// onLoadDone — завершение загрузки диапазона (вызывается на диспетчере).
// Применяет результат идемпотентно: повторная доставка того же результата
// оставляет окно в том же состоянии.
func (c *ListCache) onLoadDone(id task.ID, gen uint64, offset, count int, items []*domain.MediaItem, err error) {
	c.removePending(id)

	if c.closed {
		metrics.ListLoads.WithLabelValues("cancelled").Inc()
		return
	}
	if gen != c.generation {
		// Загрузка пережила сброс: её результат принадлежит прошлой жизни.
		metrics.ListLoads.WithLabelValues("stale").Inc()
		return
	}
	if err != nil {
		metrics.ListLoads.WithLabelValues("failed").Inc()
		c.log.Warnf(context.Background(), "range load failed offset=%d count=%d: %v", offset, count, err)
		return
	}
	if c.total != CountUninitialized && offset >= c.total {
		// Список успел сократиться ниже региона — молча отбрасываем.
		metrics.ListLoads.WithLabelValues("stale").Inc()
		return
	}

	applied := 0
	for k, item := range items {
		idx := offset + k
		if c.total != CountUninitialized && idx >= c.total {
			break
		}
		if item == nil {
			// Сбой загрузки одного элемента в батче: слот остаётся
			// незагруженным, остальные доставляются.
			continue
		}
		c.items[idx] = item
		applied++
	}

	if len(items) < count {
		// Короткий результат: хвост считается «ещё не загружен», не ошибкой.
		metrics.ListLoads.WithLabelValues("short").Inc()
	} else {
		metrics.ListLoads.WithLabelValues("applied").Inc()
	}

	if applied > 0 {
		metrics.ListResidentRows.Set(float64(len(c.items)))
		last := offset + len(items) - 1
		if c.total != CountUninitialized && last >= c.total {
			last = c.total - 1
		}
		c.emitDataChanged(offset, last)
	}
}
