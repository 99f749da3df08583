// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texarray

import (
	"fmt"
	"image"
	"strings"
)

// Format is the pixel format of every layer in a texture array.
type Format int32

const (
	// RGBA8 is uncompressed 8 bit RGBA, the only format that can be
	// filled from a Go image at runtime.
	RGBA8 Format = iota

	// BC1 is 4x4 block compressed RGB with 1 bit alpha (8 bytes per block).
	BC1

	// BC3 is 4x4 block compressed RGBA (16 bytes per block).
	BC3

	// BC4 is 4x4 block compressed single channel (8 bytes per block).
	BC4

	// BC5 is 4x4 block compressed two channel, used for normals (16 bytes per block).
	BC5

	// BC7 is 4x4 block compressed high quality RGBA (16 bytes per block).
	BC7

	FormatN
)

var formatNames = [FormatN]string{"RGBA8", "BC1", "BC3", "BC4", "BC5", "BC7"}

func (f Format) String() string {
	if f < 0 || f >= FormatN {
		return fmt.Sprintf("Format(%d)", int32(f))
	}
	return formatNames[f]
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	for i, nm := range formatNames {
		if strings.EqualFold(nm, string(text)) {
			*f = Format(i)
			return nil
		}
	}
	return fmt.Errorf("%q is not a valid value for type Format", string(text))
}

// IsCompressed returns whether the format is block compressed.
func (f Format) IsCompressed() bool {
	return f != RGBA8
}

// BlockSize returns the number of bytes per 4x4 block for compressed
// formats, and the number of bytes per pixel for RGBA8.
func (f Format) BlockSize() int {
	switch f {
	case BC1, BC4:
		return 8
	case BC3, BC5, BC7:
		return 16
	}
	return 4
}

// LayerBytes returns the number of bytes in one square layer
// of the given resolution, without mips.
func (f Format) LayerBytes(resolution int) int {
	if !f.IsCompressed() {
		return f.BlockSize() * resolution * resolution
	}
	blocks := (resolution + 3) / 4
	return f.BlockSize() * blocks * blocks
}

// Filter is the sampler filtering mode of a texture array.
type Filter int32

const (
	// Bilinear filtering, the default.
	Bilinear Filter = iota
	Point
)

// Wrap is the sampler address mode of a texture array.
type Wrap int32

const (
	// Repeat wrapping, the default.
	Repeat Wrap = iota
	Clamp
)

// SlabDesc describes a texture array to create. All layers of an array
// have the same square resolution and format.
type SlabDesc struct {

	// Label is a debugging name for the array.
	Label string

	// Resolution is the width and height of each layer.
	Resolution int

	// Layers is the number of layers (the slab capacity).
	Layers int

	// Format is the pixel format of each layer.
	Format Format

	// Filter is the sampler filtering mode.
	Filter Filter

	// Wrap is the sampler address mode.
	Wrap Wrap

	// Mips is whether to generate mip levels. Always false for
	// allocator-created arrays.
	Mips bool

	// Linear is whether the contents are in linear color space
	// rather than sRGB.
	Linear bool
}

func (sd SlabDesc) String() string {
	return fmt.Sprintf("%s %dx%d x%d %s", sd.Label, sd.Resolution, sd.Resolution, sd.Layers, sd.Format)
}

// Slab is one fixed-capacity texture array owned by an [Allocator].
type Slab interface {

	// Desc returns the description the slab was created with.
	Desc() SlabDesc

	// SetLayer uploads the given image into the given layer,
	// resizing it to the slab resolution as needed.
	SetLayer(layer int, img image.Image) error

	// Release frees the resources of the slab.
	Release()
}

// SlabFactory creates texture arrays. It is supplied by the rendering
// backend.
type SlabFactory interface {
	NewSlab(desc SlabDesc) (Slab, error)
}

// SlabFactoryFunc is an adapter to allow ordinary functions to be used
// as a [SlabFactory].
type SlabFactoryFunc func(desc SlabDesc) (Slab, error)

func (f SlabFactoryFunc) NewSlab(desc SlabDesc) (Slab, error) {
	return f(desc)
}
