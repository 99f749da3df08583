// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texarray

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"golang.org/x/image/draw"
)

// HostFactory is a [SlabFactory] that keeps texture arrays in host
// memory as RGBA images. It is used for headless operation and testing,
// and counts the arrays it creates.
type HostFactory struct {
	created  atomic.Int64
	released atomic.Int64

	// Fail, if set, is called before each array is created and any
	// error it returns is returned by NewSlab.
	Fail func(desc SlabDesc) error

	// Discard makes the arrays check each layer without keeping its
	// pixels, for simulating workloads too large for host memory.
	Discard bool
}

// NewSlab implements [SlabFactory].
func (hf *HostFactory) NewSlab(desc SlabDesc) (Slab, error) {
	if hf.Fail != nil {
		if err := hf.Fail(desc); err != nil {
			return nil, err
		}
	}
	if desc.Resolution <= 0 || desc.Layers <= 0 {
		return nil, fmt.Errorf("%w: array %s", ErrInvalidConfig, desc)
	}
	hf.created.Add(1)
	return &HostSlab{desc: desc, factory: hf, layers: make([]*image.RGBA, desc.Layers)}, nil
}

// Created returns the number of arrays created.
func (hf *HostFactory) Created() int { return int(hf.created.Load()) }

// Live returns the number of arrays created and not yet released.
func (hf *HostFactory) Live() int { return int(hf.created.Load() - hf.released.Load()) }

// HostSlab is a texture array in host memory.
// Layers are stored as RGBA regardless of [SlabDesc.Format].
type HostSlab struct {
	desc     SlabDesc
	factory  *HostFactory
	mu       sync.Mutex
	layers   []*image.RGBA
	released bool
}

// Desc implements [Slab].
func (hs *HostSlab) Desc() SlabDesc { return hs.desc }

// SetLayer implements [Slab]. The image is scaled to the array
// resolution if it has a different size.
func (hs *HostSlab) SetLayer(layer int, img image.Image) error {
	if layer < 0 || layer >= hs.desc.Layers {
		return fmt.Errorf("texarray: layer %d out of range for %s", layer, hs.desc)
	}
	if img == nil {
		return fmt.Errorf("texarray: nil image for layer %d of %s", layer, hs.desc)
	}
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if hs.released {
		return fmt.Errorf("texarray: array %s is released", hs.desc)
	}
	if hs.factory.Discard {
		return nil
	}
	hs.layers[layer] = FitImage(img, hs.desc.Resolution)
	return nil
}

// Layer returns the contents of the given layer, or nil if never set.
func (hs *HostSlab) Layer(layer int) *image.RGBA {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if layer < 0 || layer >= len(hs.layers) {
		return nil
	}
	return hs.layers[layer]
}

// Release implements [Slab].
func (hs *HostSlab) Release() {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if hs.released {
		return
	}
	hs.released = true
	hs.layers = nil
	hs.factory.released.Add(1)
}

// FitImage returns an RGBA copy of the image at the given square
// resolution, scaling with Catmull-Rom if the size differs.
func FitImage(img image.Image, resolution int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, resolution, resolution))
	sb := img.Bounds()
	if sb.Dx() == resolution && sb.Dy() == resolution {
		draw.Draw(dst, dst.Rect, img, sb.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Rect, img, sb, draw.Src, nil)
	return dst
}
