// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ivr provides a deterministic, single-threaded cooperative
// concurrency engine for long-running, event-driven processes ("interactive
// value routines", IVRs).
//
// An IVR is represented at run time as a [Flux], a small state machine with
// exactly four states: delayed, waiting for an event, requesting a reply
// from the host, or completed. Fluxes are composed sequentially with [Bind]
// and friends, in parallel with [Par]/[LPar], as a race with [Race]/[LRace],
// and nested with [AttachTo]. None of these combinators spawn goroutines;
// all advancement happens synchronously on the caller's stack, one event or
// one host reply at a time.
//
// # Architecture
//
//   - State machine: [Flux] is one of Delay, Waiting, Requesting, Completed.
//     [Start], [Step], [TryCancel], and [DispatchRequests] drive it forward.
//   - Composition: [Bind], [Return], [Delay], [TryFinally], [TryWith], [Use],
//     [For], [While] build sequential IVRs with guaranteed scoped-resource
//     cleanup on every exit path, including cancellation.
//   - Effects: [Wait], [WaitFor], [WaitForPred], [Send], [Request] are the
//     primitive building blocks that actually suspend a flux.
//   - Parallel: [Par]/[LPar] wait for every child and cancel the rest on the
//     first failure; [Race]/[LRace] finish on the first winner and cancel
//     the rest; losers after the winner in left-to-right order never
//     receive the winning event.
//   - Nesting: [AttachTo] lets a control IVR replace a running sub-IVR
//     in-band, without the host ever seeing the replacement as an event.
//   - Host: [Host] owns the event queue, drains requests through a
//     caller-supplied handler, and runs a root flux to completion.
//
// # Example
//
//	root := ivr.Bind(ivr.WaitForPred(func(e Ring) bool { return true }), func(struct{}) ivr.Flux[int] {
//		return ivr.Return(0)
//	})
//	h := ivr.NewHost(func(req any) ivr.Result[any] {
//		return ivr.ValueResult[any](nil)
//	})
//	go ivr.Run(h, root)
//	h.Submit(Ring{})
package ivr
