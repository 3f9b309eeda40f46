// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

// Pair holds the two results of a Par.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Par runs a and b concurrently (interleaved on the caller's stack, never
// on separate goroutines) and completes once both have completed. If
// either completes with anything other than a Value, the other is
// cancelled and the failing child's result becomes the composite outcome
// (the cancelled sibling's own result is discarded); if both have failed
// by the same tick, a's result wins. A Value/Value pair completes as a
// Pair of both values.
func Par[A, B any](a Flux[A], b Flux[B]) Flux[Pair[A, B]] {
	return parStep(Start(a), Start(b))
}

func parStep[A, B any](a Flux[A], b Flux[B]) Flux[Pair[A, B]] {
	if a.tag == tagCompleted && b.tag == tagCompleted {
		return parFinish(a.result, b.result)
	}
	if a.tag == tagCompleted && !a.result.IsValue() {
		return parCancelOther(a.result, b)
	}
	if b.tag == tagCompleted && !b.result.IsValue() {
		return parCancelSelf(a, b.result)
	}
	if a.tag == tagRequesting {
		return hoistOther(a, func(na Flux[A]) Flux[Pair[A, B]] {
			return parStep(na, b)
		})
	}
	if b.tag == tagRequesting {
		return hoistOther(b, func(nb Flux[B]) Flux[Pair[A, B]] {
			return parStep(a, nb)
		})
	}
	// Both Waiting (or one Completed-Value, one Waiting): deliver the next
	// event to both branches that are still Waiting.
	return waitingFlux(func(e Event) Flux[Pair[A, B]] {
		na := a
		if a.tag == tagWaiting {
			na = Step(a, e)
		}
		nb := b
		if b.tag == tagWaiting {
			nb = Step(b, e)
		}
		return parStep(na, nb)
	})
}

func parFinish[A, B any](ra Result[A], rb Result[B]) Flux[Pair[A, B]] {
	if !ra.IsValue() {
		return completedFlux[Pair[A, B]](castNonValue[A, Pair[A, B]](ra))
	}
	if !rb.IsValue() {
		return completedFlux[Pair[A, B]](castNonValue[B, Pair[A, B]](rb))
	}
	av, _ := ra.Value()
	bv, _ := rb.Value()
	return completedFlux(ValueResult(Pair[A, B]{First: av, Second: bv}))
}

// parCancelOther is used when a has already completed with a non-Value
// result; b is driven to completion via cancellation and a's result is
// the composite outcome whatever b's cancellation unwind produces.
func parCancelOther[A, B any](ra Result[A], b Flux[B]) Flux[Pair[A, B]] {
	b = cancelUntilDone(b)
	if b.tag == tagRequesting {
		return hoistOther(b, func(nb Flux[B]) Flux[Pair[A, B]] {
			return parCancelOther[A, B](ra, nb)
		})
	}
	return parFinish(ra, b.result)
}

func parCancelSelf[A, B any](a Flux[A], rb Result[B]) Flux[Pair[A, B]] {
	a = cancelUntilDone(a)
	if a.tag == tagRequesting {
		return hoistOther(a, func(na Flux[A]) Flux[Pair[A, B]] {
			return parCancelSelf[A, B](na, rb)
		})
	}
	return completedFlux[Pair[A, B]](castNonValue[B, Pair[A, B]](rb))
}

// LPar runs every element of xs concurrently and completes once all have
// completed. On the first non-Value completion (in index order among
// those completing in the same tick), the rest are cancelled and that
// result becomes the composite outcome; otherwise the composite is the
// slice of values in the original order.
func LPar[T any](xs []Flux[T]) Flux[[]T] {
	started := make([]Flux[T], len(xs))
	for i, x := range xs {
		started[i] = Start(x)
	}
	return lparStep(started)
}

func lparStep[T any](xs []Flux[T]) Flux[[]T] {
	if failIdx, ok := lparFirstFailure(xs); ok {
		return lparCancelRest(xs, failIdx)
	}
	if lparAllCompleted(xs) {
		return lparFinish(xs)
	}
	if reqIdx, ok := lparFirstRequesting(xs); ok {
		return hoistOther(xs[reqIdx], func(nx Flux[T]) Flux[[]T] {
			next := cloneFluxSlice(xs)
			next[reqIdx] = nx
			return lparStep(next)
		})
	}
	return waitingFlux(func(e Event) Flux[[]T] {
		next := cloneFluxSlice(xs)
		for i, x := range xs {
			if x.tag == tagWaiting {
				next[i] = Step(x, e)
			}
		}
		return lparStep(next)
	})
}

func lparFirstFailure[T any](xs []Flux[T]) (int, bool) {
	for i, x := range xs {
		if x.tag == tagCompleted && !x.result.IsValue() {
			return i, true
		}
	}
	return 0, false
}

func lparFirstRequesting[T any](xs []Flux[T]) (int, bool) {
	for i, x := range xs {
		if x.tag == tagRequesting {
			return i, true
		}
	}
	return 0, false
}

func lparAllCompleted[T any](xs []Flux[T]) bool {
	for _, x := range xs {
		if x.tag != tagCompleted {
			return false
		}
	}
	return true
}

func lparFinish[T any](xs []Flux[T]) Flux[[]T] {
	vs := make([]T, len(xs))
	for i, x := range xs {
		v, _ := x.result.Value()
		vs[i] = v
	}
	return completedFlux(ValueResult(vs))
}

// lparCancelRest drives every element other than winner to completion via
// cancellation, then completes with winner's non-Value result.
func lparCancelRest[T any](xs []Flux[T], winner int) Flux[[]T] {
	next := cloneFluxSlice(xs)
	for i, x := range xs {
		if i == winner {
			continue
		}
		next[i] = cancelUntilDone(x)
	}
	if reqIdx, ok := lparFirstRequesting(next); ok {
		return hoistOther(next[reqIdx], func(nx Flux[T]) Flux[[]T] {
			after := cloneFluxSlice(next)
			after[reqIdx] = nx
			return lparCancelRest(after, winner)
		})
	}
	if !lparAllCompleted(next) {
		// A sibling's cancellation unwind is still Waiting; keep draining.
		return waitingFlux(func(e Event) Flux[[]T] {
			after := cloneFluxSlice(next)
			for i, x := range next {
				if i != winner && x.tag == tagWaiting {
					after[i] = Step(x, e)
				}
			}
			return lparCancelRest(after, winner)
		})
	}
	return completedFlux[[]T](castNonValue[T, []T](next[winner].result))
}

func cloneFluxSlice[T any](xs []Flux[T]) []Flux[T] {
	out := make([]Flux[T], len(xs))
	copy(out, xs)
	return out
}
