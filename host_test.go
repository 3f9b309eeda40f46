// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

import (
	"context"
	"testing"
	"time"
)

func TestRunCompletesSynchronouslyWithoutEvents(t *testing.T) {
	h := NewHost(func(any) Result[any] { return ValueResult[any](nil) })
	r := Run(h, Return(3))
	if v, _ := r.Value(); v != 3 {
		t.Fatalf("expected 3, got %v", r)
	}
}

func TestRunDeliversSubmittedEvents(t *testing.T) {
	h := NewHost(func(any) Result[any] { return ValueResult[any](nil) })
	root := WaitFor(func(e int) (int, bool) { return e * 2, true })
	done := make(chan Result[int], 1)
	go func() { done <- Run(h, root) }()
	h.Submit(21)
	select {
	case r := <-done:
		if v, _ := r.Value(); v != 42 {
			t.Fatalf("expected 42, got %v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Run to complete")
	}
}

func TestRunDispatchesRequestsThroughHandler(t *testing.T) {
	h := NewHost(func(req any) Result[any] {
		n := req.(int)
		return ValueResult[any](n * 10)
	})
	root := Request[int](5)
	r := Run(h, root)
	if v, _ := r.Value(); v != 50 {
		t.Fatalf("expected 50, got %v", r)
	}
}

func TestRunRecoversHandlerPanic(t *testing.T) {
	h := NewHost(func(any) Result[any] {
		panic("handler exploded")
	})
	r := Run(h, Request[int]("anything"))
	if !r.IsError() {
		t.Fatalf("expected recovered panic to surface as Error, got %v", r)
	}
}

func TestShutdownStopsRunWithNoPendingEvents(t *testing.T) {
	h := NewHost(func(any) Result[any] { return ValueResult[any](nil) })
	root := WaitFor(func(int) (int, bool) { return 0, false })
	done := make(chan Result[int], 1)
	go func() { done <- Run(h, root) }()
	if err := h.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected Shutdown error: %v", err)
	}
	select {
	case r := <-done:
		if !r.IsCancelled() {
			t.Fatalf("expected Cancelled after shutdown with no events, got %v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Run to observe shutdown")
	}
}
