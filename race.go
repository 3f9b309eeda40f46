// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

// Either holds the result of whichever side of a Race completed first.
type Either[A, B any] struct {
	isLeft bool
	left   A
	right  B
}

// MakeLeft wraps a left-side value.
func MakeLeft[A, B any](v A) Either[A, B] { return Either[A, B]{isLeft: true, left: v} }

// MakeRight wraps a right-side value.
func MakeRight[A, B any](v B) Either[A, B] { return Either[A, B]{right: v} }

// IsLeft reports whether the left side won.
func (e Either[A, B]) IsLeft() bool { return e.isLeft }

// Left returns the left value and true if the left side won.
func (e Either[A, B]) Left() (A, bool) { return e.left, e.isLeft }

// Right returns the right value and true if the right side won.
func (e Either[A, B]) Right() (B, bool) { return e.right, !e.isLeft }

// Race runs a and b concurrently and completes as soon as either one
// completes, cancelling the other. Each tick, the event is delivered to a
// first: if a completes on that delivery, b is cancelled using its state
// from BEFORE this tick's event, i.e. b never observes the event that made
// a win.
func Race[A, B any](a Flux[A], b Flux[B]) Flux[Either[A, B]] {
	return raceStep(Start(a), Start(b))
}

func raceStep[A, B any](a Flux[A], b Flux[B]) Flux[Either[A, B]] {
	if a.tag == tagCompleted {
		return finishLeftWin(a.result, b)
	}
	if b.tag == tagCompleted {
		return finishRightWin(a, b.result)
	}
	if a.tag == tagRequesting {
		return hoistOther(a, func(na Flux[A]) Flux[Either[A, B]] {
			return raceStep(na, b)
		})
	}
	if b.tag == tagRequesting {
		return hoistOther(b, func(nb Flux[B]) Flux[Either[A, B]] {
			return raceStep(a, nb)
		})
	}
	bBefore := b
	return waitingFlux(func(e Event) Flux[Either[A, B]] {
		na := Step(a, e)
		if na.tag == tagCompleted {
			return finishLeftWin(na.result, bBefore)
		}
		nb := Step(b, e)
		if nb.tag == tagCompleted {
			return finishRightWin(na, nb.result)
		}
		return raceStep(na, nb)
	})
}

func finishLeftWin[A, B any](ra Result[A], b Flux[B]) Flux[Either[A, B]] {
	b = cancelUntilDone(b)
	if b.tag == tagRequesting {
		return hoistOther(b, func(Flux[B]) Flux[Either[A, B]] {
			return completedFlux[Either[A, B]](liftEitherResult[A, B](ra, true))
		})
	}
	return completedFlux[Either[A, B]](liftEitherResult[A, B](ra, true))
}

func finishRightWin[A, B any](a Flux[A], rb Result[B]) Flux[Either[A, B]] {
	a = cancelUntilDone(a)
	if a.tag == tagRequesting {
		return hoistOther(a, func(Flux[A]) Flux[Either[A, B]] {
			return completedFlux[Either[A, B]](liftEitherResult2[A, B](rb, true))
		})
	}
	return completedFlux[Either[A, B]](liftEitherResult2[A, B](rb, true))
}

func liftEitherResult[A, B any](r Result[A], _ bool) Result[Either[A, B]] {
	if !r.IsValue() {
		return castNonValue[A, Either[A, B]](r)
	}
	v, _ := r.Value()
	return ValueResult(MakeLeft[A, B](v))
}

func liftEitherResult2[A, B any](r Result[B], _ bool) Result[Either[A, B]] {
	if !r.IsValue() {
		return castNonValue[B, Either[A, B]](r)
	}
	v, _ := r.Value()
	return ValueResult(MakeRight[A, B](v))
}

// IndexedResult pairs a winning value from LRace with its originating
// index in the input slice.
type IndexedResult[T any] struct {
	Index int
	Value T
}

// LRace runs every element of xs concurrently and completes as soon as any
// one completes, cancelling the rest. Ties within a single event delivery
// are broken by index order: lower indices are checked first and a lower
// index that completes prevents higher indices from observing that event.
func LRace[T any](xs []Flux[T]) Flux[IndexedResult[T]] {
	started := make([]Flux[T], len(xs))
	for i, x := range xs {
		started[i] = Start(x)
	}
	return lraceStep(started)
}

func lraceStep[T any](xs []Flux[T]) Flux[IndexedResult[T]] {
	for i, x := range xs {
		if x.tag == tagCompleted {
			return finishRace(xs, i, x.result)
		}
	}
	for i, x := range xs {
		if x.tag == tagRequesting {
			return hoistOther(x, func(nx Flux[T]) Flux[IndexedResult[T]] {
				next := cloneFluxSlice(xs)
				next[i] = nx
				return lraceStep(next)
			})
		}
	}
	before := cloneFluxSlice(xs)
	return waitingFlux(func(e Event) Flux[IndexedResult[T]] {
		next := cloneFluxSlice(before)
		for i := range next {
			next[i] = Step(next[i], e)
			if next[i].tag == tagCompleted {
				return finishRace(next, i, next[i].result)
			}
		}
		return lraceStep(next)
	})
}

// finishRace cancels every element of xs other than winner, each from the
// state xs holds for it (elements before winner have already received the
// winning event; elements after it have not), and completes with winner's
// result.
func finishRace[T any](xs []Flux[T], winner int, wr Result[T]) Flux[IndexedResult[T]] {
	next := cloneFluxSlice(xs)
	for i, x := range xs {
		if i == winner {
			continue
		}
		next[i] = cancelUntilDone(x)
	}
	for i, x := range next {
		if i == winner {
			continue
		}
		if x.tag == tagRequesting {
			return hoistOther(x, func(nx Flux[T]) Flux[IndexedResult[T]] {
				after := cloneFluxSlice(next)
				after[i] = nx
				return finishRace(after, winner, wr)
			})
		}
	}
	return completedFlux[IndexedResult[T]](liftIndexed(winner, wr))
}

func liftIndexed[T any](idx int, r Result[T]) Result[IndexedResult[T]] {
	if !r.IsValue() {
		return castNonValue[T, IndexedResult[T]](r)
	}
	v, _ := r.Value()
	return ValueResult(IndexedResult[T]{Index: idx, Value: v})
}
