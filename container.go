// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texarray

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// Material is a render material that texture arrays are bound to.
type Material interface {

	// SetTextureArray binds the given texture array to the named parameter.
	SetTextureArray(name string, array Slab)

	// SetInt sets the named integer parameter.
	SetInt(name string, value int)
}

type allocKey struct {
	tp  Types
	res int
}

// Container holds one [Allocator] per texture type and resolution,
// uploads textures into their slots, and binds them onto materials.
type Container struct {

	// Config is the configuration the container was made with.
	Config *Config

	resolutions []int
	types       []Types
	allocs      map[allocKey]*Allocator
	defaults    map[allocKey]Slot
}

// NewContainer returns a new container with allocators for every type and
// resolution in the given config, creating arrays through the given factory.
// The given default textures, keyed by [Types.DefaultKey], are each
// uploaded once to a reserved slot.
func NewContainer(factory SlabFactory, cfg *Config, defaults map[string]image.Image) (*Container, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ct := &Container{
		Config:      cfg,
		resolutions: cfg.SortedResolutions(),
		allocs:      make(map[allocKey]*Allocator),
		defaults:    make(map[allocKey]Slot),
	}
	for _, tc := range cfg.Types {
		capacity := cfg.Capacity
		if tc.Capacity > 0 {
			capacity = tc.Capacity
		}
		ct.types = append(ct.types, tc.Type)
		for _, res := range ct.resolutions {
			al, err := NewAllocator(factory, res, capacity,
				WithMaxArrays(cfg.MaxArrays), WithFormat(tc.Format),
				WithLinear(tc.Linear), WithLabel(tc.Type.DefaultKey(res)))
			if err != nil {
				ct.Release()
				return nil, err
			}
			ct.allocs[allocKey{tc.Type, res}] = al
		}
	}
	for key, img := range defaults {
		if err := ct.setDefault(key, img); err != nil {
			ct.Release()
			return nil, err
		}
	}
	return ct, nil
}

// ParseDefaultKey parses a key of the form returned by [Types.DefaultKey].
func ParseDefaultKey(key string) (Types, int, error) {
	i := strings.LastIndexByte(key, '_')
	if i < 0 {
		return 0, 0, fmt.Errorf("%w: default texture key %q", ErrInvalidConfig, key)
	}
	var tp Types
	if err := tp.SetString(key[:i]); err != nil {
		return 0, 0, fmt.Errorf("%w: default texture key %q: %v", ErrInvalidConfig, key, err)
	}
	res, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: default texture key %q: %v", ErrInvalidConfig, key, err)
	}
	return tp, res, nil
}

func (ct *Container) setDefault(key string, img image.Image) error {
	tp, res, err := ParseDefaultKey(key)
	if err != nil {
		return err
	}
	al, ok := ct.allocs[allocKey{tp, res}]
	if !ok {
		return fmt.Errorf("%w: default texture %q has no matching array", ErrInvalidConfig, key)
	}
	if _, has := ct.defaults[allocKey{tp, res}]; has {
		return nil
	}
	s, err := al.Next(tp, res)
	if err != nil {
		return err
	}
	if err := s.Array.SetLayer(s.Index, img); err != nil {
		al.Free(s)
		return fmt.Errorf("texarray: uploading default texture %q: %w", key, err)
	}
	ct.defaults[allocKey{tp, res}] = s
	return nil
}

// Resolutions returns the resolutions of the arrays in increasing order.
func (ct *Container) Resolutions() []int { return ct.resolutions }

// Types returns the texture types in config order.
func (ct *Container) Types() []Types { return ct.types }

// ResolutionFor returns the resolution of the arrays used for
// a texture of the given size: the smallest one that is at least
// the larger side of the size, or the largest one.
func (ct *Container) ResolutionFor(size image.Point) int {
	side := max(size.X, size.Y)
	i := sort.SearchInts(ct.resolutions, side)
	if i >= len(ct.resolutions) {
		i = len(ct.resolutions) - 1
	}
	return ct.resolutions[i]
}

// Allocator returns the allocator for the given type and resolution.
func (ct *Container) Allocator(tp Types, resolution int) (*Allocator, bool) {
	al, ok := ct.allocs[allocKey{tp, resolution}]
	return al, ok
}

// SetTexture uploads the given image into a new slot of the arrays for the
// given type, at the resolution given by [Container.ResolutionFor], and
// binds the slot onto the material. If all of the slots are in use, the
// returned error wraps [ErrCapacityExceeded], and the caller should bind
// the texture without using arrays.
func (ct *Container) SetTexture(m Material, img image.Image, tp Types) (Slot, error) {
	if img == nil {
		return Slot{}, fmt.Errorf("texarray: nil %v texture", tp)
	}
	res := ct.ResolutionFor(img.Bounds().Size())
	al, ok := ct.allocs[allocKey{tp, res}]
	if !ok {
		return Slot{}, fmt.Errorf("%w: no %v arrays", ErrInvalidConfig, tp)
	}
	s, err := al.Next(tp, res)
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			slog.Warn("texarray: no free slot, texture will not use arrays", "type", tp, "resolution", res, "stats", al.Stats())
		}
		return Slot{}, err
	}
	if err := s.Array.SetLayer(s.Index, img); err != nil {
		al.Free(s)
		return Slot{}, fmt.Errorf("texarray: uploading %v texture: %w", tp, err)
	}
	if m != nil {
		Bind(m, s)
	}
	return s, nil
}

// Bind binds the given slot onto the material.
func Bind(m Material, s Slot) {
	m.SetTextureArray(s.Type.ShaderProperty(), s.Array)
	m.SetInt(s.Type.ShaderIndexProperty(), s.Index)
}

// DefaultSlot returns the slot of the default texture for the
// given type and resolution, if there is one.
func (ct *Container) DefaultSlot(tp Types, resolution int) (Slot, bool) {
	s, ok := ct.defaults[allocKey{tp, resolution}]
	return s, ok
}

// BindDefault binds the default texture for the given type and
// resolution onto the material.
func (ct *Container) BindDefault(m Material, tp Types, resolution int) error {
	s, ok := ct.DefaultSlot(tp, resolution)
	if !ok {
		return fmt.Errorf("texarray: no default texture %q", tp.DefaultKey(resolution))
	}
	Bind(m, s)
	return nil
}

// FreeTexture returns a slot obtained from [Container.SetTexture].
func (ct *Container) FreeTexture(s Slot) error {
	key := allocKey{s.Type, s.Resolution}
	al, ok := ct.allocs[key]
	if !ok {
		return fmt.Errorf("%w: no %v arrays at resolution %d", ErrInvalidSlot, s.Type, s.Resolution)
	}
	if ds, has := ct.defaults[key]; has && ds.Owner == s.Owner && ds.ArrayIndex == s.ArrayIndex && ds.Index == s.Index {
		return fmt.Errorf("%w: %v is a default texture", ErrInvalidSlot, s)
	}
	return al.Free(s)
}

// TypeStats is the usage of the allocator for one type and resolution.
type TypeStats struct {
	Type Types
	Stats
}

// Stats returns the usage of every allocator, ordered by type
// and then resolution.
func (ct *Container) Stats() []TypeStats {
	st := make([]TypeStats, 0, len(ct.allocs))
	for _, tp := range ct.types {
		for _, res := range ct.resolutions {
			if al, ok := ct.allocs[allocKey{tp, res}]; ok {
				st = append(st, TypeStats{Type: tp, Stats: al.Stats()})
			}
		}
	}
	return st
}

// Release releases every allocator and its arrays.
func (ct *Container) Release() {
	for _, al := range ct.allocs {
		al.Release()
	}
	clear(ct.defaults)
}
