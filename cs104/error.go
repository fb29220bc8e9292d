// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cs104

import (
	"errors"
)

// error defined
var (
	ErrUseClosedConnection = errors.New("use of closed connection")
	ErrNotActive           = errors.New("data transfer is not active")
	ErrInvalidFrame        = errors.New("invalid frame")
	ErrBrokenFrame         = errors.New("broken apdu")
	ErrSequenceError       = errors.New("receive sequence error")
	ErrGroupOutOfRange     = errors.New("interrogation group out of range")
)
