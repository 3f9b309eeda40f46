// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

import "code.hybscloud.com/atomix"

// Id is a process-wide monotonically increasing identifier, used for timer
// correlation and to tag sideshow in-band requests.
type Id uint64

// idCounter is the global monotonic counter for Id values.
var idCounter atomix.Uint64

// NextId returns the next monotonically increasing Id. Safe for concurrent
// use; there is no teardown.
func NextId() Id {
	return Id(idCounter.Add(1))
}
