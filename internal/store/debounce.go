package store

import (
	"sync"
	"time"
)

// Debouncer откладывает срабатывание до паузы во вводе: каждый новый
// вызов Trigger сбрасывает таймер предыдущего, выполняется только
// последний.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer - создание нового Debouncer
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger планирует fn после паузы, отменяя ранее запланированный вызов.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Cancel отменяет запланированный вызов, если он ещё не сработал.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
