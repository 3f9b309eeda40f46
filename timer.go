// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

import (
	"sync"
	"time"
)

// timerEvent is submitted to a Host's queue when a scheduled timer fires.
// It carries the Id assigned at scheduling time so the waiting flux can
// match its own timer among any number of concurrently pending ones.
type timerEvent struct {
	id Id
}

// TimerService schedules one-shot timers on behalf of a Host, delivering
// their expiry as ordinary events through the same queue every other
// event travels through, so timers never bypass the single-threaded flux
// advancement discipline.
type TimerService struct {
	host   *Host
	mu     sync.Mutex
	active map[Id]*time.Timer
}

func newTimerService(h *Host) *TimerService {
	return &TimerService{host: h, active: make(map[Id]*time.Timer)}
}

// After returns a flux that suspends for at least d before completing.
// Cancelling it before it fires stops the underlying timer so it never
// leaks or spuriously enqueues an event after its waiter is gone.
func (t *TimerService) After(d time.Duration) Flux[struct{}] {
	return Delay(func() Flux[struct{}] {
		id := NextId()
		timer := time.AfterFunc(d, func() {
			t.mu.Lock()
			delete(t.active, id)
			t.mu.Unlock()
			t.host.Submit(timerEvent{id: id})
		})
		t.mu.Lock()
		t.active[id] = timer
		t.mu.Unlock()
		t.host.metrics.TimersActive(1)
		return TryFinally(
			WaitForPred(func(e timerEvent) bool { return e.id == id }),
			func() {
				t.cancel(id)
				t.host.metrics.TimersActive(-1)
			},
		)
	})
}

func (t *TimerService) cancel(id Id) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.active[id]; ok {
		timer.Stop()
		delete(t.active, id)
	}
}
