// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

// Option is a minimal optional value, used by Control.GetState to report
// the absence of a running sideshow without a nil-able type parameter.
type Option[S any] struct {
	has bool
	val S
}

// Some wraps a present value.
func Some[S any](v S) Option[S] { return Option[S]{has: true, val: v} }

// None reports absence.
func None[S any]() Option[S] { return Option[S]{} }

// Get returns the wrapped value and true, or the zero value and false.
func (o Option[S]) Get() (S, bool) { return o.val, o.has }

// Control lets a control IVR manage a background "sideshow" flux nested
// underneath it via AttachTo: install or swap the sideshow in-band, and
// query which tag is currently running, all without the host ever
// observing the swap as an event.
type Control[S any] interface {
	// Replace retires any currently running sideshow (driving it to
	// cancellation first) and installs body, tagged with tag, as the new
	// sideshow. Replace's own flux completes once body has been started and
	// driven through its immediate requests to Waiting or Completed; it
	// does not wait for body itself to finish. If retiring the
	// old sideshow itself surfaces an Error, Replace completes with that
	// Error instead and body is never installed.
	Replace(tag S, body Flux[struct{}]) Flux[struct{}]

	// GetState reports the tag of the currently running sideshow, or None
	// if none is installed or the previous one has since completed on its
	// own.
	GetState() Flux[Option[S]]
}

// sideshowRequest is implemented by the requests AttachTo issues to the
// host on Control's behalf; the sideshow wrapper recognizes and intercepts
// them by matching sideshowTag against its own id, mirroring the way the
// dispatcher structure in this codebase's ancestry recognized its own
// operations by type assertion rather than by a discriminant field.
type sideshowRequest interface {
	sideshowTag() Id
}

type sideshowReplaceReq[S any] struct {
	id   Id
	tag  S
	body Flux[struct{}]
}

func (r sideshowReplaceReq[S]) sideshowTag() Id { return r.id }

type sideshowGetStateReq struct {
	id Id
}

func (r sideshowGetStateReq) sideshowTag() Id { return r.id }

type controlImpl[S any] struct {
	id Id
}

func (c controlImpl[S]) Replace(tag S, body Flux[struct{}]) Flux[struct{}] {
	return Request[struct{}](sideshowReplaceReq[S]{id: c.id, tag: tag, body: body})
}

func (c controlImpl[S]) GetState() Flux[Option[S]] {
	return Request[Option[S]](sideshowGetStateReq{id: c.id})
}

type sideshowState[S any] struct {
	live  bool
	tag   S
	inner Flux[struct{}]
}

// AttachTo runs a control IVR built by build, giving it a Control handle
// to manage a nested background sideshow. The sideshow's own completion
// never finishes AttachTo and its result is discarded; only control's
// completion does. When control completes, any live sideshow is cancelled
// first. A sideshow that completes on its own while control keeps running
// is simply retired; only Control.Replace's own retirement of an old
// sideshow is awaited synchronously as part of the swap.
func AttachTo[S, R any](build func(Control[S]) Flux[R]) Flux[R] {
	id := NextId()
	ctrl := controlImpl[S]{id: id}
	control := Start(build(ctrl))
	return driveSideshow(id, control, sideshowState[S]{})
}

// driveSideshow advances side through every immediate Requesting node
// before ever looking at control, matching the tick order the sideshow
// contract specifies; only once side has settled into Waiting or idle does
// control get a turn.
func driveSideshow[S, R any](id Id, control Flux[R], side sideshowState[S]) Flux[R] {
	if side.live && side.inner.tag == tagCompleted {
		side = sideshowState[S]{}
	}
	if side.live && side.inner.tag == tagRequesting {
		return hoistOther(side.inner, func(ninner Flux[struct{}]) Flux[R] {
			newSide := side
			newSide.inner = ninner
			return driveSideshow(id, control, newSide)
		})
	}
	switch control.tag {
	case tagCompleted:
		return finishSideshow(id, control.result, side)
	case tagRequesting:
		if req, ok := control.req.(sideshowRequest); ok && req.sideshowTag() == id {
			return handleSideshowRequest(id, control, side)
		}
		return hoistOther(control, func(nc Flux[R]) Flux[R] {
			return driveSideshow(id, nc, side)
		})
	}
	return waitingFlux(func(e Event) Flux[R] {
		newSide := side
		if side.live && side.inner.tag == tagWaiting {
			newSide.inner = Step(side.inner, e)
		}
		nc := Step(control, e)
		return driveSideshow(id, nc, newSide)
	})
}

func handleSideshowRequest[S, R any](id Id, control Flux[R], side sideshowState[S]) Flux[R] {
	switch req := control.req.(type) {
	case sideshowReplaceReq[S]:
		return driveNewSideshowThenReply(id, control, side, req)
	case sideshowGetStateReq:
		var reply Result[any]
		if side.live {
			reply = ValueResult[any](Some(side.tag))
		} else {
			reply = ValueResult[any](None[S]())
		}
		nc := Start(safeReqCont(control.reqCont, reply))
		return driveSideshow(id, nc, side)
	default:
		panic("ivr: unrecognized sideshow request")
	}
}

// driveNewSideshowThenReply retires side's current sideshow, if any,
// driving its cancellation to completion (which may itself need host round
// trips), before installing the replacement and acking control's Replace
// call. If the retirement itself surfaces an Error, that error is handed
// back to Replace's caller instead, and the new sideshow is discarded.
func driveNewSideshowThenReply[S, R any](id Id, control Flux[R], side sideshowState[S], req sideshowReplaceReq[S]) Flux[R] {
	if side.live {
		retired := cancelUntilDone(side.inner)
		if retired.tag == tagRequesting {
			return hoistOther(retired, func(nr Flux[struct{}]) Flux[R] {
				newSide := side
				newSide.inner = nr
				return driveNewSideshowThenReply(id, control, newSide, req)
			})
		}
		if retired.result.IsError() {
			nc := Start(safeReqCont(control.reqCont, castNonValue[struct{}, any](retired.result)))
			return driveSideshow(id, nc, sideshowState[S]{})
		}
	}
	return installSideshowThenReply(id, control, req)
}

// installSideshowThenReply starts req.body, drives it through its immediate
// requests (hoisted to the host) until it is Waiting or Completed, and only
// then acks the Replace call. If the new sideshow completes as Error at
// that point, that error is handed back to Replace's caller instead of
// Value(), and the sideshow is left idle rather than installed.
func installSideshowThenReply[S, R any](id Id, control Flux[R], req sideshowReplaceReq[S]) Flux[R] {
	newInner := Start(req.body)
	if newInner.tag == tagRequesting {
		return hoistOther(newInner, func(ni Flux[struct{}]) Flux[R] {
			next := req
			next.body = ni
			return installSideshowThenReply(id, control, next)
		})
	}
	if newInner.tag == tagCompleted && newInner.result.IsError() {
		nc := Start(safeReqCont(control.reqCont, castNonValue[struct{}, any](newInner.result)))
		return driveSideshow(id, nc, sideshowState[S]{})
	}
	nc := Start(safeReqCont(control.reqCont, ValueResult[any](struct{}{})))
	newSide := sideshowState[S]{
		live:  newInner.tag != tagCompleted,
		tag:   req.tag,
		inner: newInner,
	}
	return driveSideshow(id, nc, newSide)
}

func finishSideshow[S, R any](id Id, result Result[R], side sideshowState[S]) Flux[R] {
	if !side.live {
		return completedFlux(result)
	}
	retired := cancelUntilDone(side.inner)
	if retired.tag == tagRequesting {
		return hoistOther(retired, func(nr Flux[struct{}]) Flux[R] {
			newSide := side
			newSide.inner = nr
			return finishSideshow(id, result, newSide)
		})
	}
	return completedFlux(result)
}
