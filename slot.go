// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texarray

import (
	"fmt"

	"github.com/google/uuid"
)

// Slot describes one occupied layer of a texture array. It has everything
// the renderer needs to bind the texture (Array and Index) and everything
// the allocator needs to free it (ArrayIndex and Index).
// Slots are values: they reference but do not own the array.
type Slot struct {

	// Type is the semantic type the slot was requested for.
	Type Types

	// Resolution is the resolution of the owning array.
	Resolution int

	// Index is the layer index within the array.
	Index int

	// ArrayIndex is the index of the array within the allocator.
	ArrayIndex int

	// Array is the texture array holding this slot.
	Array Slab

	// Owner identifies the allocator that issued the slot.
	Owner uuid.UUID
}

// IsValid returns whether the slot was issued by an allocator.
func (s Slot) IsValid() bool {
	return s.Array != nil && s.Owner != uuid.Nil
}

// Flat returns the flat index of the slot for an allocator
// with the given capacity per array.
func (s Slot) Flat(capacity int) int {
	return FlatIndex(s.ArrayIndex, s.Index, capacity)
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %d [%d:%d]", s.Type, s.Resolution, s.ArrayIndex, s.Index)
}

// FlatIndex returns arrayIndex*capacity + index.
func FlatIndex(arrayIndex, index, capacity int) int {
	return arrayIndex*capacity + index
}

// SplitFlat is the inverse of [FlatIndex].
func SplitFlat(flat, capacity int) (arrayIndex, index int) {
	return flat / capacity, flat % capacity
}
