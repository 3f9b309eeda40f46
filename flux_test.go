// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

import (
	"errors"
	"testing"
)

func TestStartFlattensDelayChain(t *testing.T) {
	depth := 0
	var chain func() Flux[int]
	chain = func() Flux[int] {
		depth++
		if depth < 5 {
			return Delay(chain)
		}
		return Return(depth)
	}
	got := Start(Delay(chain))
	if got.tag != tagCompleted {
		t.Fatalf("expected Completed, got tag %v", got.tag)
	}
	if v, _ := got.result.Value(); v != 5 {
		t.Fatalf("expected 5, got %d", v)
	}
}

func TestStartRecoversPanickingThunk(t *testing.T) {
	got := Start(Delay(func() Flux[int] {
		panic("boom")
	}))
	if !got.result.IsError() {
		t.Fatalf("expected Error result, got %v", got.result)
	}
}

func TestStepAdvancesWaiting(t *testing.T) {
	f := Wait(func(e Event) (int, bool) {
		n, ok := e.(int)
		return n, ok
	})
	f = Start(f)
	if f.tag != tagWaiting {
		t.Fatalf("expected Waiting, got %v", f.tag)
	}
	f = Step(f, 42)
	if f.tag != tagCompleted {
		t.Fatalf("expected Completed after matching event, got %v", f.tag)
	}
	if v, _ := f.result.Value(); v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestStepPanicsOnNonWaiting(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic stepping a Completed flux")
		}
	}()
	Step(Return(1), "ignored")
}

func TestTryCancelWaitingYieldsCancelled(t *testing.T) {
	f := Start(Wait(func(e Event) (int, bool) {
		n, ok := e.(int)
		return n, ok
	}))
	f = TryCancel(f)
	if !f.result.IsCancelled() {
		t.Fatalf("expected Cancelled, got %v", f.result)
	}
}

func TestTryCancelCompletedIsNoop(t *testing.T) {
	f := Return(7)
	got := TryCancel(f)
	if v, _ := got.result.Value(); v != 7 {
		t.Fatalf("expected untouched Completed(7), got %v", got.result)
	}
}

func TestTryCancelRequestingDefersAndDispatchApplies(t *testing.T) {
	req := requestingFlux[int]("some-request", func(r Result[any]) Flux[int] {
		v, _ := r.Value()
		return WaitFor(func(e int) (int, bool) { return e * v.(int), true })
	})
	req = TryCancel(req)
	if !req.cancelPending {
		t.Fatalf("expected cancelPending to be set")
	}
	final := DispatchRequests(req, func(any) Result[any] {
		return ValueResult[any](21)
	})
	if !final.result.IsCancelled() {
		t.Fatalf("expected deferred cancellation to cancel the flux the request resolved to, got %v", final.result)
	}
}

func TestDispatchRequestsWithoutCancelKeepsValue(t *testing.T) {
	req := requestingFlux[int]("req", func(r Result[any]) Flux[int] {
		v, _ := r.Value()
		return Return(v.(int) + 1)
	})
	final := DispatchRequests(req, func(any) Result[any] {
		return ValueResult[any](9)
	})
	if v, _ := final.result.Value(); v != 10 {
		t.Fatalf("expected 10, got %d", v)
	}
}

func TestDispatchRequestsChainsMultipleRequests(t *testing.T) {
	build := func(n int) Flux[int] {
		var loop func(int) Flux[int]
		loop = func(remaining int) Flux[int] {
			if remaining == 0 {
				return Return(0)
			}
			return requestingFlux[int]("tick", func(Result[any]) Flux[int] {
				return loop(remaining - 1)
			})
		}
		return loop(n)
	}
	calls := 0
	final := DispatchRequests(Start(build(5)), func(any) Result[any] {
		calls++
		return ValueResult[any](nil)
	})
	if calls != 5 {
		t.Fatalf("expected 5 dispatched requests, got %d", calls)
	}
	if !final.result.IsValue() {
		t.Fatalf("expected final Completed(Value), got %v", final.result)
	}
}

func TestSafeWaitContRecoversPanic(t *testing.T) {
	f := Start(Wait(func(Event) (int, bool) {
		panic(errors.New("wait panic"))
	}))
	f = Step(f, "anything")
	err, ok := f.result.Err()
	if !ok || err.Error() != "wait panic" {
		t.Fatalf("expected recovered panic error, got %v", f.result)
	}
}
