// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

// Bind sequences src and a continuation k. If src completes with a value,
// k is applied and the result started; Error/Cancelled propagate without
// invoking k. Bind is stack-safe over arbitrarily long synchronous chains:
// the completed-value branch below returns an unforced Delay rather than
// recursing into Start itself, so a single Start loop at the top of the
// call chain flattens the whole chain with O(1) added call-stack depth.
func Bind[T, U any](src Flux[T], k func(T) Flux[U]) Flux[U] {
	src = Start(src)
	switch src.tag {
	case tagCompleted:
		if !src.result.IsValue() {
			return completedFlux[U](castNonValue[T, U](src.result))
		}
		v := src.result.value
		return delayFlux(func() Flux[U] { return safeApply1(k, v) })
	case tagWaiting:
		return waitingFlux(func(e Event) Flux[U] {
			return Bind(safeWaitCont(src.waitCont, e), k)
		})
	default: // tagRequesting
		nf := requestingFlux[U](src.req, func(r Result[any]) Flux[U] {
			return Bind(safeReqCont(src.reqCont, r), k)
		})
		nf.cancelPending = src.cancelPending
		return nf
	}
}

func safeApply1[T, U any](k func(T) Flux[U], v T) (result Flux[U]) {
	defer func() {
		if r := recover(); r != nil {
			result = completedFlux[U](ErrorResult[U](toError(r)))
		}
	}()
	return k(v)
}

// Then sequences src, discarding its value, followed by next.
func Then[T, U any](src Flux[T], next Flux[U]) Flux[U] {
	return Bind(src, func(T) Flux[U] { return next })
}

// observeCompletion runs body and, regardless of which Result variant it
// terminates with, forwards that Result to onDone. Unlike Bind, onDone is
// always invoked, which is what tryFinally and tryWith need underneath
// Bind's value-only continuation.
func observeCompletion[T any](body Flux[T], onDone func(Result[T]) Flux[T]) Flux[T] {
	body = Start(body)
	switch body.tag {
	case tagCompleted:
		res := body.result
		return delayFlux(func() Flux[T] { return safeApplyResult(onDone, res) })
	case tagWaiting:
		return waitingFlux(func(e Event) Flux[T] {
			return observeCompletion(safeWaitCont(body.waitCont, e), onDone)
		})
	default: // tagRequesting
		nf := requestingFlux[T](body.req, func(r Result[any]) Flux[T] {
			return observeCompletion(safeReqCont(body.reqCont, r), onDone)
		})
		nf.cancelPending = body.cancelPending
		return nf
	}
}

func safeApplyResult[T any](onDone func(Result[T]) Flux[T], r Result[T]) (result Flux[T]) {
	defer func() {
		if rec := recover(); rec != nil {
			result = completedFlux[T](ErrorResult[T](toError(rec)))
		}
	}()
	return onDone(r)
}

// TryFinally runs body and guarantees fin runs exactly once, whenever body
// reaches Completed by any path including cancellation. If fin panics, its
// error replaces a successful result but never overrides an existing Error
// or Cancelled.
func TryFinally[T any](body Flux[T], fin func()) Flux[T] {
	return observeCompletion(body, func(r Result[T]) Flux[T] {
		finErr := runFinalizer(fin)
		if finErr != nil && r.IsValue() {
			return completedFlux[T](ErrorResult[T](finErr))
		}
		return completedFlux(r)
	})
}

func runFinalizer(fin func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toError(r)
		}
	}()
	fin()
	return nil
}

// TryWith runs body; if it completes with Error, handler is applied and
// its result started. Cancelled is not caught by TryWith.
func TryWith[T any](body Flux[T], handler func(error) Flux[T]) Flux[T] {
	return observeCompletion(body, func(r Result[T]) Flux[T] {
		if r.IsError() {
			err, _ := r.Err()
			return handler(err)
		}
		return completedFlux(r)
	})
}

// Use acquires a resource, runs body with it, and guarantees release runs
// exactly once on every exit path of body (normal completion, error,
// cancellation) via TryFinally.
func Use[R, T any](acquire func() R, release func(R), body func(R) Flux[T]) Flux[T] {
	return Delay(func() Flux[T] {
		res := acquire()
		return TryFinally(body(res), func() { release(res) })
	})
}

// While desugars to recursive Bind, evaluating cond before each iteration.
// Stack-safe over arbitrarily many synchronous iterations via Bind's
// trampoline.
func While(cond func() bool, body func() Flux[struct{}]) Flux[struct{}] {
	return Delay(func() Flux[struct{}] {
		if !cond() {
			return Zero()
		}
		return Bind(body(), func(struct{}) Flux[struct{}] {
			return While(cond, body)
		})
	})
}

// For runs body once per item of items, in order, desugaring to recursive
// Bind. Stack-safe over arbitrarily many items via Bind's trampoline.
func For[T any](items []T, body func(T) Flux[struct{}]) Flux[struct{}] {
	return forFrom(items, 0, body)
}

func forFrom[T any](items []T, i int, body func(T) Flux[struct{}]) Flux[struct{}] {
	return Delay(func() Flux[struct{}] {
		if i >= len(items) {
			return Zero()
		}
		return Bind(body(items[i]), func(struct{}) Flux[struct{}] {
			return forFrom(items, i+1, body)
		})
	})
}
