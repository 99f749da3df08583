// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texarray

import "errors"

var (
	// ErrCapacityExceeded is returned when every slot of every permitted
	// texture array is in use and no new array can be created.
	// It is a recoverable condition: callers should fall back to a
	// texture binding that does not use arrays, or evict something.
	ErrCapacityExceeded = errors.New("texarray: capacity exceeded")

	// ErrInvalidSlot is returned when freeing a slot that is already free,
	// was never issued, is out of range, or belongs to another allocator.
	ErrInvalidSlot = errors.New("texarray: double free or invalid slot")

	// ErrInvalidConfig is returned for non-positive resolutions, capacities
	// or array limits, and for unknown texture types.
	ErrInvalidConfig = errors.New("texarray: invalid configuration")
)
