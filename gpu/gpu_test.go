// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"
	"testing"

	"cogentcore.org/texarray"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestTextureFormat(t *testing.T) {
	tf := NewTextureFormat(texarray.SlabDesc{Resolution: 256, Layers: 100, Format: texarray.RGBA8})
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, tf.Format)
	assert.Equal(t, 1, tf.Samples)
	assert.Equal(t, wgpu.Extent3D{Width: 256, Height: 256, DepthOrArrayLayers: 100}, tf.Extent3D())
	assert.Equal(t, wgpu.Extent3D{Width: 256, Height: 256, DepthOrArrayLayers: 1}, tf.LayerExtent())
	assert.Equal(t, wgpu.TextureDataLayout{BytesPerRow: 1024, RowsPerImage: 256}, tf.LayerDataLayout())
	assert.Equal(t, texarray.RGBA8.LayerBytes(256), tf.LayerByteSize())
	assert.Equal(t, 100*256*256*4, tf.TotalByteSize())
	assert.Contains(t, tf.String(), "sRGB")

	tf = NewTextureFormat(texarray.SlabDesc{Resolution: 512, Layers: 10, Format: texarray.BC7, Linear: true})
	assert.Equal(t, wgpu.TextureFormatBC7RGBAUnorm, tf.Format)
	assert.Equal(t, wgpu.TextureDataLayout{BytesPerRow: 16 * 128, RowsPerImage: 128}, tf.LayerDataLayout())
	assert.Equal(t, texarray.BC7.LayerBytes(512), tf.LayerByteSize())
}

func TestFormatToWGPU(t *testing.T) {
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, FormatToWGPU(texarray.RGBA8, true))
	assert.Equal(t, wgpu.TextureFormatBC1RGBAUnormSrgb, FormatToWGPU(texarray.BC1, false))
	assert.Equal(t, wgpu.TextureFormatBC3RGBAUnorm, FormatToWGPU(texarray.BC3, true))
	assert.Equal(t, wgpu.TextureFormatBC4RUnorm, FormatToWGPU(texarray.BC4, false))
	assert.Equal(t, wgpu.TextureFormatBC5RGUnorm, FormatToWGPU(texarray.BC5, false))
	assert.Equal(t, wgpu.TextureFormatBC7RGBAUnormSrgb, FormatToWGPU(texarray.BC7, false))
	for f := texarray.RGBA8; f < texarray.FormatN; f++ {
		for _, linear := range []bool{false, true} {
			assert.Contains(t, TextureFormatNames, FormatToWGPU(f, linear))
		}
	}
}

func TestSamplerDescriptor(t *testing.T) {
	sd := SamplerDescriptor(texarray.SlabDesc{Label: "base"})
	assert.Equal(t, wgpu.FilterModeLinear, sd.MagFilter)
	assert.Equal(t, wgpu.FilterModeLinear, sd.MinFilter)
	assert.Equal(t, wgpu.AddressModeRepeat, sd.AddressModeU)
	assert.Equal(t, wgpu.AddressModeRepeat, sd.AddressModeV)

	sd = SamplerDescriptor(texarray.SlabDesc{Filter: texarray.Point, Wrap: texarray.Clamp})
	assert.Equal(t, wgpu.FilterModeNearest, sd.MinFilter)
	assert.Equal(t, wgpu.AddressModeClampToEdge, sd.AddressModeW)
}

func TestTextureArrayNotCreated(t *testing.T) {
	desc := texarray.SlabDesc{Label: "emission[0]", Resolution: 4, Layers: 2}
	ta := NewTextureArray(&Device{}, desc)
	assert.Equal(t, desc, ta.Desc())
	assert.Equal(t, "emission[0]", ta.Name)
	assert.Error(t, ta.SetLayer(0, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	assert.Error(t, ta.SetLayerBytes(0, make([]byte, 64)))
	ta.Release()

	bc := NewTextureArray(&Device{}, texarray.SlabDesc{Resolution: 4, Layers: 2, Format: texarray.BC1})
	assert.Error(t, bc.SetLayer(0, image.NewRGBA(image.Rect(0, 0, 4, 4))))
}

func TestFactory(t *testing.T) {
	t.Skip("Need software GPU on CI")
	var dev *wgpu.Device
	fc := NewFactory(NewDevice(dev))
	al, err := texarray.NewAllocator(fc, 256, 4)
	assert.NoError(t, err)
	s, err := al.Next(texarray.BaseColor, 256)
	assert.NoError(t, err)
	assert.NoError(t, s.Array.SetLayer(s.Index, image.NewRGBA(image.Rect(0, 0, 256, 256))))
	al.Release()
}
