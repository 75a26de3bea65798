package store_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/departures-microservice/internal/store"
)

// TestDebouncer_OnlyLastTriggerFires tests that rapid triggers coalesce
// into a single invocation
func TestDebouncer_OnlyLastTriggerFires(t *testing.T) {
	d := store.NewDebouncer(50 * time.Millisecond)

	var calls int32
	var got atomic.Value

	for _, q := range []string{"W", "Wi", "Wie", "Wien"} {
		query := q
		d.Trigger(func() {
			atomic.AddInt32(&calls, 1)
			got.Store(query)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "Wien", got.Load())
}

// TestDebouncer_CancelPreventsFire tests cancellation of a pending call
func TestDebouncer_CancelPreventsFire(t *testing.T) {
	d := store.NewDebouncer(50 * time.Millisecond)

	var calls int32
	d.Trigger(func() { atomic.AddInt32(&calls, 1) })
	d.Cancel()

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
