// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

import "fmt"

// Event is an opaque value supplied by the host. The core never inspects
// its contents; Wait-family primitives apply user-supplied predicates and
// type assertions.
type Event = any

// cancelIVREvent is the distinguished event delivered by TryCancel.
type cancelIVREvent struct{}

// CancelIVR is the singleton event that requests cancellation of a Waiting
// flux. Only [Wait] (and primitives built on it) recognizes it. Delivering
// CancelIVR to a Waiting flux through [Step] has the same effect as
// [TryCancel]; the host's Shutdown and the parallel combinators rely on
// this.
var CancelIVR Event = cancelIVREvent{}

func isCancelEvent(e Event) bool {
	_, ok := e.(cancelIVREvent)
	return ok
}

type fluxTag uint8

const (
	tagDelay fluxTag = iota
	tagWaiting
	tagRequesting
	tagCompleted
)

// Flux is the run-time representation of an IVR: exactly one of Delay,
// Waiting, Requesting, or Completed. Values are immutable; combinators
// produce new Flux values rather than mutating existing ones.
type Flux[T any] struct {
	tag fluxTag

	thunk    func() Flux[T]
	waitCont func(Event) Flux[T]
	req      any
	reqCont  func(Result[any]) Flux[T]
	result   Result[T]

	// cancelPending records that TryCancel was applied while this flux was
	// Requesting; the deferred cancellation is applied to whatever the
	// request resolves to, by DispatchRequests.
	cancelPending bool
}

func delayFlux[T any](thunk func() Flux[T]) Flux[T] {
	return Flux[T]{tag: tagDelay, thunk: thunk}
}

func waitingFlux[T any](cont func(Event) Flux[T]) Flux[T] {
	return Flux[T]{tag: tagWaiting, waitCont: cont}
}

func requestingFlux[T any](req any, cont func(Result[any]) Flux[T]) Flux[T] {
	return Flux[T]{tag: tagRequesting, req: req, reqCont: cont}
}

func completedFlux[T any](r Result[T]) Flux[T] {
	return Flux[T]{tag: tagCompleted, result: r}
}

// IsCompleted reports whether flux has reached its terminal state.
func (f Flux[T]) IsCompleted() bool { return f.tag == tagCompleted }

// Result returns the terminal Result of a Completed flux. It panics if
// flux has not reached Completed; callers should check IsCompleted or
// drive the flux forward first.
func (f Flux[T]) Result() Result[T] {
	if f.tag != tagCompleted {
		panic("ivr: Result called on a non-Completed flux")
	}
	return f.result
}

// Delay wraps thunk as a not-yet-started flux; thunk runs the first time
// the flux is started, not at construction time. This is how side effects
// at the head of a composed IVR are deferred to start time.
func Delay[T any](thunk func() Flux[T]) Flux[T] {
	return delayFlux(thunk)
}

// Return produces a flux that is immediately Completed with a value.
func Return[T any](v T) Flux[T] {
	return completedFlux(ValueResult(v))
}

// Zero produces a flux that is immediately Completed with the unit value,
// for blocks with no trailing expression.
func Zero() Flux[struct{}] {
	return Return(struct{}{})
}

// Throw produces a flux that is immediately Completed with an error.
func Throw[T any](err error) Flux[T] {
	return completedFlux(ErrorResult[T](err))
}

func toError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("ivr: recovered panic: %v", r)
}

func safeThunk[T any](thunk func() Flux[T]) (result Flux[T]) {
	defer func() {
		if r := recover(); r != nil {
			result = completedFlux[T](ErrorResult[T](toError(r)))
		}
	}()
	return thunk()
}

func safeWaitCont[T any](cont func(Event) Flux[T], e Event) (result Flux[T]) {
	defer func() {
		if r := recover(); r != nil {
			result = completedFlux[T](ErrorResult[T](toError(r)))
		}
	}()
	return cont(e)
}

func safeReqCont[T any](cont func(Result[any]) Flux[T], v Result[any]) (result Flux[T]) {
	defer func() {
		if r := recover(); r != nil {
			result = completedFlux[T](ErrorResult[T](toError(r)))
		}
	}()
	return cont(v)
}

// Start drives flux through any Delay chain until it reaches Waiting,
// Requesting, or Completed. Idempotent: Start(Start(p)) == Start(p). A
// thunk that panics yields Completed(Error(...)).
func Start[T any](flux Flux[T]) Flux[T] {
	for flux.tag == tagDelay {
		flux = safeThunk(flux.thunk)
	}
	return flux
}

// Step advances a Waiting flux with an event. It is a programmer error to
// step a flux that is not Waiting. The result is never Delay: continuations
// are always forced through Start before being returned.
func Step[T any](flux Flux[T], e Event) Flux[T] {
	if flux.tag != tagWaiting {
		panic("ivr: Step called on a non-Waiting flux")
	}
	return Start(safeWaitCont(flux.waitCont, e))
}

// TryCancel requests cancellation of flux. If flux is Waiting, CancelIVR is
// delivered immediately and the (forced) continuation result is returned,
// which may itself be Requesting if the unwind needs a host round trip. If
// flux is Requesting, cancellation is recorded and applied by
// DispatchRequests once the pending request resolves. If flux is Completed,
// it is returned unchanged.
func TryCancel[T any](flux Flux[T]) Flux[T] {
	switch flux.tag {
	case tagCompleted:
		return flux
	case tagWaiting:
		return Start(safeWaitCont(flux.waitCont, CancelIVR))
	case tagRequesting:
		flux.cancelPending = true
		return flux
	default:
		return TryCancel(Start(flux))
	}
}

// DispatchRequests drives flux through every immediate Requesting node by
// calling hostReply synchronously, stopping at the first Waiting or
// Completed. A cancellation deferred by TryCancel while flux was Requesting
// is re-applied to whatever each request resolves to.
func DispatchRequests[T any](flux Flux[T], hostReply func(any) Result[any]) Flux[T] {
	for flux.tag == tagRequesting {
		pending := flux.cancelPending
		reply := hostReply(flux.req)
		next := Start(safeReqCont(flux.reqCont, reply))
		if pending {
			next = TryCancel(next)
		}
		flux = next
	}
	return flux
}

// cancelUntilDone drives flux to completion via repeated TryCancel,
// re-surfacing as Requesting whenever the unwind needs a host round trip
// that this call has no host to resolve. Callers (parallel combinators,
// the sideshow wrapper) wrap the returned Requesting with their own
// continuation and recurse once it resolves.
func cancelUntilDone[T any](flux Flux[T]) Flux[T] {
	flux = TryCancel(flux)
	for flux.tag == tagWaiting {
		// A well-formed IVR unwinds to Completed (or a Requesting cleanup
		// step) on the first CancelIVR delivery; redeliver defensively for
		// composites whose own Waiting continuation forwards the event
		// without itself resolving in one step (e.g. a nested par/lpar).
		flux = TryCancel(flux)
	}
	return flux
}

// hoistOther wraps a Requesting flux f so the composite exposes the same
// request, forwarding f's cancelPending flag, and resumes via cont once
// the host resolves it.
func hoistOther[X, R any](f Flux[X], cont func(Flux[X]) Flux[R]) Flux[R] {
	pending := f.cancelPending
	nf := requestingFlux[R](f.req, func(r Result[any]) Flux[R] {
		nx := Start(safeReqCont(f.reqCont, r))
		return cont(nx)
	})
	nf.cancelPending = pending
	return nf
}
