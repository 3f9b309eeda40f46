// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package ivr

import "testing"

// skipRace skips tests that pace themselves against a wall-clock timer.
// Under -race the scheduler slows down enough that the generous slack
// these tests already carry still isn't reliably enough to avoid flakes.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: wall-clock timing test is unreliable under -race")
}
