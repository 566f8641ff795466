package task

import (
	"context"
	"sync"

	"github.com/Gunvolt24/medialist/pkg/metrics"
	"github.com/panjf2000/ants/v2"
)

// ID — дескриптор асинхронной задачи; 0 — «нет задачи».
type ID uint64

// Executor — выполняет единицы работы на пуле воркеров (ants) и доставляет
// результат обратно на горутину диспетчера. Отменённая задача не доставляет
// результат вовсе: её callback не вызывается.
//
// Букинг задач (pending) — единственное разделяемое между контекстами
// состояние, поэтому только он и защищён мьютексом.
type Executor struct {
	pool *ants.Pool
	disp *Dispatcher

	mu      sync.Mutex
	nextID  ID
	pending map[ID]context.CancelFunc
}

// NewExecutor — конструктор; workers <= 0 ants трактует как пул без лимита.
func NewExecutor(disp *Dispatcher, workers int) (*Executor, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Executor{
		pool:    pool,
		disp:    disp,
		pending: make(map[ID]context.CancelFunc),
	}, nil
}

// Submit — планирует work на воркере; deliver вызывается на диспетчере.
// Контекст work отменяется при Cancel/Close, так что долгие запросы
// прерываются, а не только отбрасываются по прибытии.
func Submit[T any](e *Executor, work func(ctx context.Context) (T, error), deliver func(id ID, value T, err error)) ID {
	ctx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.pending[id] = cancel
	e.mu.Unlock()

	run := func() {
		value, err := work(ctx)
		// Доставка строго на диспетчере; finish гарантирует «не после отмены».
		if postErr := e.disp.Post(func() {
			if !e.finish(id) {
				metrics.ListTasks.WithLabelValues("discarded").Inc()
				return
			}
			metrics.ListTasks.WithLabelValues("delivered").Inc()
			deliver(id, value, err)
		}); postErr != nil {
			e.finish(id)
		}
	}

	if submitErr := e.pool.Submit(run); submitErr != nil {
		// Пул закрыт или переполнен: доставляем ошибку тем же путём,
		// чтобы вызывающая сторона не различала способы отказа.
		_ = e.disp.Post(func() {
			if !e.finish(id) {
				return
			}
			var zero T
			deliver(id, zero, submitErr)
		})
	}
	return id
}

// Cancel — отменяет задачу по дескриптору. Отмена уже завершённой задачи —
// безвредный no-op.
func (e *Executor) Cancel(id ID) {
	if e.finish(id) {
		metrics.ListTasks.WithLabelValues("cancelled").Inc()
	}
}

// Close — отменяет все незавершённые задачи и останавливает пул воркеров.
func (e *Executor) Close() {
	e.mu.Lock()
	for id, cancel := range e.pending {
		delete(e.pending, id)
		cancel()
	}
	e.mu.Unlock()
	e.pool.Release()
}

// finish — снимает задачу с учёта; true, если она ещё числилась.
// Вызов context.CancelFunc обязателен в любом исходе (освобождение ресурсов).
func (e *Executor) finish(id ID) bool {
	e.mu.Lock()
	cancel, ok := e.pending[id]
	if ok {
		delete(e.pending, id)
	}
	e.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}
