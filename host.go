// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

import (
	"context"
	"log/slog"
	"sync"
)

// eventQueue is a thread-safe, unbounded FIFO queue of events. Submit may
// be called concurrently from any goroutine; Run drains it from a single
// goroutine. The buffered signal channel coalesces multiple submits
// between drains into a single wakeup.
type eventQueue struct {
	mu     sync.Mutex
	items  []Event
	closed bool
	signal chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		items:  make([]Event, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

func (q *eventQueue) push(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, e)
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

func (q *eventQueue) tryPop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	e := q.items[0]
	q.items[0] = nil
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return e, true
}

func (q *eventQueue) wait() <-chan struct{} {
	return q.signal
}

func (q *eventQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}

// Host owns a single root Flux's run loop: it serializes concurrently
// submitted events into a private FIFO, drains requests through a
// caller-supplied handler, and drives the flux forward one event or one
// reply at a time. All Flux advancement happens on the goroutine that
// calls Run; Submit and Shutdown are the only methods safe to call from
// other goroutines.
type Host struct {
	handler func(any) Result[any]
	queue   *eventQueue
	logger  *slog.Logger
	metrics Metrics
	timers  *TimerService
	done    chan struct{}
}

// HostOption configures optional Host behavior.
type HostOption func(*Host)

// WithLogger attaches a structured logger to the host's run loop. Core
// combinators never log; only the run loop itself does, and only when a
// logger is supplied. A nil logger (the default) disables logging.
func WithLogger(logger *slog.Logger) HostOption {
	return func(h *Host) { h.logger = logger }
}

// WithMetrics attaches a Metrics sink to the host's run loop. The default
// is a no-op sink.
func WithMetrics(m Metrics) HostOption {
	return func(h *Host) {
		if m != nil {
			h.metrics = m
		}
	}
}

// NewHost constructs a Host that resolves Requesting fluxes by calling
// handler synchronously on the run-loop goroutine.
func NewHost(handler func(any) Result[any], opts ...HostOption) *Host {
	h := &Host{
		handler: handler,
		queue:   newEventQueue(),
		metrics: noopMetrics{},
		done:    make(chan struct{}),
	}
	h.timers = newTimerService(h)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Submit enqueues an event for delivery to the running flux. Safe to call
// from any goroutine, including from within the handler passed to NewHost.
// Submit is a no-op once the host has stopped.
func (h *Host) Submit(e Event) {
	h.queue.push(e)
}

// Shutdown enqueues CancelIVR ahead of closing the queue to new submits,
// then blocks until Run has observed it and returned, or ctx is done,
// whichever comes first. CancelIVR flows through the run loop exactly like
// any other event, so it reaches the root flux via Step and runs finalizers
// along the way; Shutdown does not skip straight to Cancelled.
func (h *Host) Shutdown(ctx context.Context) error {
	h.queue.push(CancelIVR)
	h.queue.close()
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives root to completion against h, blocking the calling goroutine,
// and returns the flux's terminal Result once reached. Run is not safe to
// call concurrently with itself on the same Host. It is a package-level
// generic function, not a method, because Go methods cannot carry their
// own type parameters independent of the receiver's.
func Run[T any](h *Host, root Flux[T]) Result[T] {
	defer close(h.done)
	flux := dispatchOn(h, Start(root))
	for flux.tag != tagCompleted {
		e, ok := h.waitNext()
		if !ok {
			return CancelledResult[T]()
		}
		h.logEvent(e)
		h.metrics.EventsProcessed(1)
		flux = dispatchOn(h, Step(flux, e))
	}
	return flux.result
}

func dispatchOn[T any](h *Host, flux Flux[T]) Flux[T] {
	return DispatchRequests(flux, func(req any) Result[any] {
		h.metrics.RequestsDispatched(1)
		reply := h.safeHandle(req)
		h.logRequest(req, reply)
		return reply
	})
}

func (h *Host) safeHandle(req any) (result Result[any]) {
	defer func() {
		if r := recover(); r != nil {
			h.metrics.PanicsRecovered(1)
			result = ErrorResult[any](toError(r))
		}
	}()
	return h.handler(req)
}

func (h *Host) waitNext() (Event, bool) {
	for {
		if e, ok := h.queue.tryPop(); ok {
			return e, true
		}
		_, open := <-h.queue.wait()
		if !open {
			if e, ok := h.queue.tryPop(); ok {
				return e, true
			}
			return nil, false
		}
	}
}

func (h *Host) logEvent(e Event) {
	if h.logger == nil {
		return
	}
	h.logger.Debug("ivr: dispatching event", slog.Any("event", e))
}

func (h *Host) logRequest(req any, reply Result[any]) {
	if h.logger == nil {
		return
	}
	if reply.IsError() {
		err, _ := reply.Err()
		h.logger.Warn("ivr: request resolved with error", slog.Any("request", req), slog.Any("error", err))
		return
	}
	h.logger.Debug("ivr: request resolved", slog.Any("request", req))
}

// Timers returns the timer service bound to this host, used to build
// fluxes that suspend for a duration.
func (h *Host) Timers() *TimerService {
	return h.timers
}
