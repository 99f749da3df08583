// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texarray

import (
	"fmt"
	"log/slog"
	"sync"

	"cogentcore.org/core/base/errors"
	"github.com/google/uuid"
)

// DefaultMaxArrays is the default maximum number of texture arrays
// per allocator.
const DefaultMaxArrays = 100

// Allocator hands out layers of a bounded set of fixed-capacity texture
// arrays of one resolution and format. Slots are addressed by a flat
// index over all arrays. Released slots are kept on a free list and
// reused most recently freed first, before any new index is issued.
// An array is created the first time a slot within its range is needed,
// except for array 0 which is created by [NewAllocator]; arrays live
// until [Allocator.Release].
//
// It is safe for concurrent use.
type Allocator struct {

	// ID identifies this allocator on the slots it issues.
	ID uuid.UUID

	factory   SlabFactory
	desc      SlabDesc
	maxArrays int
	mu        sync.Mutex
	released  bool

	// arrays are the created arrays, in order: array i exists
	// iff i < len(arrays), as indexes are issued in increasing order.
	arrays []Slab

	// next is the next never-issued flat index.
	next int

	// free is the stack of freed flat indexes.
	free []int

	// inUse has one bit per flat index below next.
	inUse  bitSet
	nInUse int
}

// Option configures an [Allocator].
type Option func(al *Allocator)

// WithMaxArrays sets the maximum number of texture arrays,
// which bounds the total number of slots to n*capacity.
func WithMaxArrays(n int) Option {
	return func(al *Allocator) { al.maxArrays = n }
}

// WithFormat sets the layer format of the arrays.
func WithFormat(f Format) Option {
	return func(al *Allocator) { al.desc.Format = f }
}

// WithLinear marks the array contents as linear color space (e.g., normals).
func WithLinear(linear bool) Option {
	return func(al *Allocator) { al.desc.Linear = linear }
}

// WithLabel sets the debugging label of the arrays.
func WithLabel(label string) Option {
	return func(al *Allocator) { al.desc.Label = label }
}

// NewAllocator returns a new allocator of arrays with the given square
// resolution and number of layers per array, creating the first array
// through the given factory.
func NewAllocator(factory SlabFactory, resolution, capacity int, opts ...Option) (*Allocator, error) {
	al := &Allocator{
		ID:        uuid.New(),
		factory:   factory,
		maxArrays: DefaultMaxArrays,
		desc: SlabDesc{
			Label:      "texarray",
			Resolution: resolution,
			Layers:     capacity,
			Format:     RGBA8,
			Filter:     Bilinear,
			Wrap:       Repeat,
		},
	}
	for _, opt := range opts {
		opt(al)
	}
	switch {
	case factory == nil:
		return nil, fmt.Errorf("%w: nil slab factory", ErrInvalidConfig)
	case resolution <= 0:
		return nil, fmt.Errorf("%w: resolution %d", ErrInvalidConfig, resolution)
	case capacity <= 0:
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidConfig, capacity)
	case al.maxArrays <= 0:
		return nil, fmt.Errorf("%w: max arrays %d", ErrInvalidConfig, al.maxArrays)
	}
	al.arrays = make([]Slab, 0, min(al.maxArrays, 8))
	if err := al.newArray(); err != nil {
		return nil, err
	}
	return al, nil
}

// Resolution returns the resolution of the arrays.
func (al *Allocator) Resolution() int { return al.desc.Resolution }

// Capacity returns the number of layers per array.
func (al *Allocator) Capacity() int { return al.desc.Layers }

// MaxArrays returns the maximum number of arrays.
func (al *Allocator) MaxArrays() int { return al.maxArrays }

// Limit returns the total number of slots: MaxArrays * Capacity.
func (al *Allocator) Limit() int { return al.maxArrays * al.desc.Layers }

// Desc returns the description used for every array.
func (al *Allocator) Desc() SlabDesc { return al.desc }

// Next returns a currently unused slot for a texture of the given type
// and resolution, which must match the allocator resolution (0 means
// the allocator resolution). The most recently freed slot is reused
// first; otherwise a new index is issued, creating its array if needed.
// It returns [ErrCapacityExceeded] if every slot is in use.
func (al *Allocator) Next(tp Types, resolution int) (Slot, error) {
	if !tp.IsValid() {
		return Slot{}, fmt.Errorf("%w: texture type %v", ErrInvalidConfig, tp)
	}
	if resolution == 0 {
		resolution = al.desc.Resolution
	}
	if resolution != al.desc.Resolution {
		return Slot{}, fmt.Errorf("%w: resolution %d on allocator of resolution %d", ErrInvalidConfig, resolution, al.desc.Resolution)
	}

	al.mu.Lock()
	defer al.mu.Unlock()
	if al.released {
		return Slot{}, fmt.Errorf("%w: allocator released", ErrInvalidConfig)
	}

	var flat int
	if n := len(al.free); n > 0 {
		flat = al.free[n-1]
		al.free = al.free[:n-1]
	} else {
		if al.next >= al.Limit() {
			return Slot{}, fmt.Errorf("%w: all %d slots of %d arrays at resolution %d in use", ErrCapacityExceeded, al.Limit(), al.maxArrays, al.desc.Resolution)
		}
		ai, _ := SplitFlat(al.next, al.desc.Layers)
		if ai >= len(al.arrays) {
			if err := al.newArray(); err != nil {
				return Slot{}, err
			}
		}
		flat = al.next
		al.next++
	}
	al.inUse.set(flat)
	al.nInUse++

	ai, li := SplitFlat(flat, al.desc.Layers)
	return Slot{
		Type:       tp,
		Resolution: al.desc.Resolution,
		Index:      li,
		ArrayIndex: ai,
		Array:      al.arrays[ai],
		Owner:      al.ID,
	}, nil
}

// Free returns the given slot to the allocator. It returns
// [ErrInvalidSlot] if the slot was issued by another allocator,
// or is not currently in use.
func (al *Allocator) Free(s Slot) error {
	if s.Owner != al.ID {
		return fmt.Errorf("%w: slot %v not issued by this allocator", ErrInvalidSlot, s)
	}
	if s.Index < 0 || s.Index >= al.desc.Layers {
		return fmt.Errorf("%w: layer %d out of range", ErrInvalidSlot, s.Index)
	}
	return al.AddFree(s.Flat(al.desc.Layers))
}

// AddFree returns the slot at the given flat index to the allocator.
// It returns [ErrInvalidSlot] if the index is not currently in use.
func (al *Allocator) AddFree(flat int) error {
	al.mu.Lock()
	defer al.mu.Unlock()
	if flat < 0 || flat >= al.next {
		return fmt.Errorf("%w: index %d was never issued", ErrInvalidSlot, flat)
	}
	if !al.inUse.has(flat) {
		return fmt.Errorf("%w: index %d is already free", ErrInvalidSlot, flat)
	}
	al.inUse.clear(flat)
	al.nInUse--
	al.free = append(al.free, flat)
	return nil
}

// InUse returns whether the given flat index is currently in use.
func (al *Allocator) InUse(flat int) bool {
	al.mu.Lock()
	defer al.mu.Unlock()
	return flat >= 0 && flat < al.next && al.inUse.has(flat)
}

// NumArrays returns the number of arrays created so far.
func (al *Allocator) NumArrays() int {
	al.mu.Lock()
	defer al.mu.Unlock()
	return len(al.arrays)
}

// HasArray returns whether the array at the given index has been created.
func (al *Allocator) HasArray(i int) bool {
	_, ok := al.Array(i)
	return ok
}

// Array returns the array at the given index, if it has been created.
func (al *Allocator) Array(i int) (Slab, bool) {
	al.mu.Lock()
	defer al.mu.Unlock()
	if i < 0 || i >= len(al.arrays) {
		return nil, false
	}
	return al.arrays[i], true
}

// Stats is a snapshot of allocator usage.
type Stats struct {
	Resolution int
	Capacity   int

	// InUse is the number of slots currently in use.
	InUse int

	// Free is the number of freed slots waiting for reuse.
	Free int

	// HighWater is the number of flat indexes ever issued.
	HighWater int

	// Arrays is the number of arrays created.
	Arrays int

	// Limit is the total number of slots.
	Limit int
}

// Stats returns a snapshot of the usage of the allocator.
func (al *Allocator) Stats() Stats {
	al.mu.Lock()
	defer al.mu.Unlock()
	return Stats{
		Resolution: al.desc.Resolution,
		Capacity:   al.desc.Layers,
		InUse:      al.nInUse,
		Free:       len(al.free),
		HighWater:  al.next,
		Arrays:     len(al.arrays),
		Limit:      al.Limit(),
	}
}

// Release releases all of the arrays. Slots issued by the allocator
// must not be used afterwards, and the allocator can not issue new ones.
func (al *Allocator) Release() {
	al.mu.Lock()
	defer al.mu.Unlock()
	for _, sl := range al.arrays {
		sl.Release()
	}
	al.arrays = nil
	al.free = nil
	al.inUse = nil
	al.next = 0
	al.nInUse = 0
	al.released = true
}

// newArray creates the next array. Must be called with the lock held
// (or during construction).
func (al *Allocator) newArray() error {
	ai := len(al.arrays)
	desc := al.desc
	desc.Label = fmt.Sprintf("%s[%d]", al.desc.Label, ai)
	sl, err := al.factory.NewSlab(desc)
	if err != nil {
		return errors.Log(fmt.Errorf("texarray: creating array %s: %w", desc, err))
	}
	al.arrays = append(al.arrays, sl)
	slog.Debug("texarray: created array", "label", desc.Label, "resolution", desc.Resolution, "layers", desc.Layers, "format", desc.Format)
	return nil
}

// bitSet is a growable set of non-negative ints.
type bitSet []uint64

func (bs bitSet) has(i int) bool {
	w := i / 64
	return w < len(bs) && bs[w]&(1<<(uint(i)%64)) != 0
}

func (bs *bitSet) set(i int) {
	w := i / 64
	for w >= len(*bs) {
		*bs = append(*bs, 0)
	}
	(*bs)[w] |= 1 << (uint(i) % 64)
}

func (bs bitSet) clear(i int) {
	w := i / 64
	if w < len(bs) {
		bs[w] &^= 1 << (uint(i) % 64)
	}
}
