// Copyright 2026 The Flux Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ivr

import "fmt"

// newTypeMismatchError reports that a host reply's dynamic type did not
// match the type parameter a Request[R] call expected.
func newTypeMismatchError(got any) error {
	return fmt.Errorf("ivr: request reply has unexpected type %T", got)
}
