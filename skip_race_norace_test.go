// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

package ivr

import "testing"

// skipRace is a no-op outside of -race builds.
func skipRace(tb testing.TB) {
	tb.Helper()
}
