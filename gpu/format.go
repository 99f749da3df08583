// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"

	"cogentcore.org/texarray"
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureFormat describes the size and WebGPU format of a texture array.
// All Layers are the same size.
type TextureFormat struct {
	// Size of each layer
	Size image.Point

	// Texture format: RGBA8UnormSrgb is default
	Format wgpu.TextureFormat

	// number of samples: always 1 for sampled texture arrays
	Samples int

	// number of layers in the texture array
	Layers int

	// block compressed layer format, which determines the upload layout
	Layout texarray.Format
}

// NewTextureFormat returns a new TextureFormat for the given texture array
// description.
func NewTextureFormat(desc texarray.SlabDesc) *TextureFormat {
	tf := &TextureFormat{}
	tf.Defaults()
	tf.Size = image.Point{desc.Resolution, desc.Resolution}
	tf.Layers = desc.Layers
	tf.Layout = desc.Format
	tf.Format = FormatToWGPU(desc.Format, desc.Linear)
	return tf
}

func (tf *TextureFormat) Defaults() {
	tf.Format = wgpu.TextureFormatRGBA8UnormSrgb
	tf.Samples = 1
	tf.Layers = 1
	tf.Layout = texarray.RGBA8
}

// String returns human-readable version of format
func (tf *TextureFormat) String() string {
	nm, ok := TextureFormatNames[tf.Format]
	if !ok {
		nm = fmt.Sprintf("wgpu format %d", tf.Format)
	}
	return fmt.Sprintf("Size: %v  Format: %s  Layers: %d", tf.Size, nm, tf.Layers)
}

// Extent3D returns the size of the whole array.
func (tf *TextureFormat) Extent3D() wgpu.Extent3D {
	return wgpu.Extent3D{
		Width:              uint32(tf.Size.X),
		Height:             uint32(tf.Size.Y),
		DepthOrArrayLayers: uint32(tf.Layers),
	}
}

// LayerExtent returns the size of a single layer.
func (tf *TextureFormat) LayerExtent() wgpu.Extent3D {
	ex := tf.Extent3D()
	ex.DepthOrArrayLayers = 1
	return ex
}

// LayerDataLayout returns the layout of the host data for one layer.
// Block compressed rows are rows of 4x4 blocks.
func (tf *TextureFormat) LayerDataLayout() wgpu.TextureDataLayout {
	if !tf.Layout.IsCompressed() {
		return wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(tf.Layout.BlockSize() * tf.Size.X),
			RowsPerImage: uint32(tf.Size.Y),
		}
	}
	bw := (tf.Size.X + 3) / 4
	bh := (tf.Size.Y + 3) / 4
	return wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(tf.Layout.BlockSize() * bw),
		RowsPerImage: uint32(bh),
	}
}

// LayerByteSize returns number of bytes of host data for one layer.
func (tf *TextureFormat) LayerByteSize() int {
	dl := tf.LayerDataLayout()
	return int(dl.BytesPerRow * dl.RowsPerImage)
}

// TotalByteSize returns number of bytes of device memory for all layers.
func (tf *TextureFormat) TotalByteSize() int {
	return tf.LayerByteSize() * tf.Layers
}

// FormatToWGPU returns the WebGPU texture format for the given
// layer format, in linear or sRGB color space.
func FormatToWGPU(f texarray.Format, linear bool) wgpu.TextureFormat {
	switch f {
	case texarray.BC1:
		if linear {
			return wgpu.TextureFormatBC1RGBAUnorm
		}
		return wgpu.TextureFormatBC1RGBAUnormSrgb
	case texarray.BC3:
		if linear {
			return wgpu.TextureFormatBC3RGBAUnorm
		}
		return wgpu.TextureFormatBC3RGBAUnormSrgb
	case texarray.BC4:
		return wgpu.TextureFormatBC4RUnorm
	case texarray.BC5:
		return wgpu.TextureFormatBC5RGUnorm
	case texarray.BC7:
		if linear {
			return wgpu.TextureFormatBC7RGBAUnorm
		}
		return wgpu.TextureFormatBC7RGBAUnormSrgb
	}
	if linear {
		return wgpu.TextureFormatRGBA8Unorm
	}
	return wgpu.TextureFormatRGBA8UnormSrgb
}

// TextureFormatNames translates texture format into human-readable string
// for the formats used by texture arrays.
var TextureFormatNames = map[wgpu.TextureFormat]string{
	wgpu.TextureFormatRGBA8UnormSrgb:   "RGBA 8bit sRGB colorspace",
	wgpu.TextureFormatRGBA8Unorm:       "RGBA 8bit unsigned linear colorspace",
	wgpu.TextureFormatBC1RGBAUnormSrgb: "BC1 RGBA sRGB colorspace",
	wgpu.TextureFormatBC1RGBAUnorm:     "BC1 RGBA linear colorspace",
	wgpu.TextureFormatBC3RGBAUnormSrgb: "BC3 RGBA sRGB colorspace",
	wgpu.TextureFormatBC3RGBAUnorm:     "BC3 RGBA linear colorspace",
	wgpu.TextureFormatBC4RUnorm:        "BC4 R linear colorspace",
	wgpu.TextureFormatBC5RGUnorm:       "BC5 RG linear colorspace",
	wgpu.TextureFormatBC7RGBAUnormSrgb: "BC7 RGBA sRGB colorspace",
	wgpu.TextureFormatBC7RGBAUnorm:     "BC7 RGBA linear colorspace",
}
