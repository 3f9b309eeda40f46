// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

import (
	"errors"
	"testing"
)

func TestResultVariants(t *testing.T) {
	v := ValueResult(3)
	if !v.IsValue() || v.IsError() || v.IsCancelled() {
		t.Fatalf("ValueResult misclassified: %v", v)
	}
	e := ErrorResult[int](errors.New("bad"))
	if !e.IsError() {
		t.Fatalf("ErrorResult misclassified: %v", e)
	}
	c := CancelledResult[int]()
	if !c.IsCancelled() {
		t.Fatalf("CancelledResult misclassified: %v", c)
	}
}

func TestErrorResultRejectsNil(t *testing.T) {
	r := ErrorResult[int](nil)
	err, ok := r.Err()
	if !ok || err == nil {
		t.Fatalf("expected a synthesized non-nil error, got %v", r)
	}
}

func TestMapResultOnlyTouchesValue(t *testing.T) {
	v := MapResult(ValueResult(2), func(n int) int { return n * 10 })
	if got, _ := v.Value(); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
	e := MapResult(ErrorResult[int](errors.New("x")), func(n int) int { return n * 10 })
	if !e.IsError() {
		t.Fatalf("expected Error to pass through untouched, got %v", e)
	}
}

func TestBindResultShortCircuits(t *testing.T) {
	called := false
	r := BindResult(ErrorResult[int](errors.New("x")), func(n int) Result[string] {
		called = true
		return ValueResult("unreachable")
	})
	if called {
		t.Fatal("BindResult must not invoke f on a non-Value Result")
	}
	if !r.IsError() {
		t.Fatalf("expected Error to propagate, got %v", r)
	}
}

func TestCastNonValuePanicsOnValue(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic casting a Value result")
		}
	}()
	castNonValue[int, string](ValueResult(1))
}
