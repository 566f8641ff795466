package task

import (
	"context"
	"errors"
	"time"
)

// ErrDispatcherStopped — диспетчер остановлен, задачи больше не принимаются.
var ErrDispatcherStopped = errors.New("dispatcher stopped")

// Dispatcher — последовательный исполнитель замыканий на одной горутине.
// Играет роль единственного «UI-контекста»: всё состояние оконного кэша
// мутируется только из него, поэтому самому кэшу блокировки не нужны.
type Dispatcher struct {
	jobs chan func()
	done chan struct{}
}

// NewDispatcher — конструктор; queueSize <= 0 → значение по умолчанию.
func NewDispatcher(queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		jobs: make(chan func(), queueSize),
		done: make(chan struct{}),
	}
}

// Run — основной цикл; выполняет задачи по одной до отмены контекста.
// Запускается ровно один раз.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-d.jobs:
			job()
		}
	}
}

// Post — ставит задачу в очередь цикла. После остановки возвращает
// ErrDispatcherStopped, задача при этом не выполняется.
func (d *Dispatcher) Post(job func()) error {
	if job == nil {
		return nil
	}
	select {
	case <-d.done:
		return ErrDispatcherStopped
	case d.jobs <- job:
		return nil
	}
}

// Sync — ставит задачу и ждёт её выполнения (или отмены контекста).
// Предназначен для вызовов «снаружи» (HTTP-обработчики и т.п.).
func (d *Dispatcher) Sync(ctx context.Context, job func()) error {
	ran := make(chan struct{})
	if err := d.Post(func() {
		job()
		close(ran)
	}); err != nil {
		return err
	}
	select {
	case <-ran:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		return ErrDispatcherStopped
	}
}

// PostDelayed — отложенная задача; возвращает функцию отмены.
// Отмена после срабатывания таймера — no-op: задача уже в очереди,
// вызывающая сторона должна сама фильтровать устаревшие срабатывания.
func (d *Dispatcher) PostDelayed(delay time.Duration, job func()) (cancel func()) {
	t := time.AfterFunc(delay, func() { _ = d.Post(job) })
	return func() { t.Stop() }
}
