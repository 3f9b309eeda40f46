// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

import "testing"

// BenchmarkBindChain measures the trampoline's cost per link in a long
// synchronous Bind chain.
func BenchmarkBindChain(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		f := Return(0)
		for i := 0; i < 1000; i++ {
			f = Bind(f, func(v int) Flux[int] { return Return(v + 1) })
		}
		Start(f)
	}
}

// BenchmarkForLoop measures For over a fixed-size slice.
func BenchmarkForLoop(b *testing.B) {
	items := make([]int, 1000)
	b.ReportAllocs()
	for b.Loop() {
		Start(For(items, func(int) Flux[struct{}] { return Zero() }))
	}
}

// BenchmarkParStep measures a single Par tick with two Waiting children.
func BenchmarkParStep(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		a := WaitFor(func(e int) (int, bool) { return e, true })
		c := WaitFor(func(e int) (int, bool) { return e, true })
		f := Start(Par(a, c))
		Step(f, 1)
	}
}
