// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

// Wait suspends until an event e for which f(e) returns (v, true) arrives;
// events for which f returns false are ignored and Wait keeps waiting. Wait
// is the only primitive that recognizes CancelIVR: on receiving it, Wait
// bypasses f entirely and completes as Cancelled. Every combinator built on
// top of Wait inherits correct cancellation behavior without special-casing
// CancelIVR itself.
func Wait[T any](f func(Event) (T, bool)) Flux[T] {
	var loop func(Event) Flux[T]
	loop = func(e Event) Flux[T] {
		if isCancelEvent(e) {
			return completedFlux[T](CancelledResult[T]())
		}
		if v, ok := f(e); ok {
			return completedFlux(ValueResult(v))
		}
		return waitingFlux(loop)
	}
	return waitingFlux(loop)
}

// WaitFor suspends until an event of type E arrives for which f returns
// (r, true); events of other types, or of type E for which f returns
// false, are ignored.
func WaitFor[E any, R any](f func(E) (R, bool)) Flux[R] {
	return Wait(func(e Event) (R, bool) {
		typed, ok := e.(E)
		if !ok {
			var zero R
			return zero, false
		}
		return f(typed)
	})
}

// WaitForPred suspends until an event of type E satisfying pred arrives,
// then completes with the unit value.
func WaitForPred[E any](pred func(E) bool) Flux[struct{}] {
	return WaitFor(func(e E) (struct{}, bool) {
		return struct{}{}, pred(e)
	})
}

// Send issues command to the host and completes as soon as the host has
// accepted it, without waiting for or exposing any reply.
func Send(command any) Flux[struct{}] {
	return requestingFlux[struct{}](command, func(Result[any]) Flux[struct{}] {
		return Zero()
	})
}

// Request issues command to the host and completes with the host's typed
// reply. If the host's reply is not a value of type R, Request completes
// with an error; Error and Cancelled replies propagate as-is.
func Request[R any](command any) Flux[R] {
	return requestingFlux[R](command, func(reply Result[any]) Flux[R] {
		switch {
		case reply.IsValue():
			raw, _ := reply.Value()
			typed, ok := raw.(R)
			if !ok {
				return completedFlux[R](ErrorResult[R](newTypeMismatchError(raw)))
			}
			return completedFlux(ValueResult(typed))
		case reply.IsError():
			return completedFlux[R](castNonValue[any, R](reply))
		default:
			return completedFlux[R](CancelledResult[R]())
		}
	})
}
