// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/texarray"
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureArray is a WebGPU 2D texture array with an associated
// TextureView of the whole array and a Sampler.
// It implements [texarray.Slab].
type TextureArray struct {

	// Name of the texture array, for debugging.
	Name string

	// Format & size of the array
	Format TextureFormat

	// description the array was made from
	desc texarray.SlabDesc

	// WebGPU texture handle, in device memory
	texture *wgpu.Texture `display:"-"`

	// WebGPU texture view of all of the layers
	view *wgpu.TextureView `display:"-"`

	// WebGPU sampler
	sampler *wgpu.Sampler `display:"-"`

	// keep track of device for writing and destroying
	device Device `display:"-"`
}

// NewTextureArray returns a new texture array for the given description.
// Call [TextureArray.Create] to make the device resources.
func NewTextureArray(dev *Device, desc texarray.SlabDesc) *TextureArray {
	ta := &TextureArray{Name: desc.Label, desc: desc}
	ta.device = *dev
	ta.Format = *NewTextureFormat(desc)
	return ta
}

// Desc implements [texarray.Slab].
func (ta *TextureArray) Desc() texarray.SlabDesc { return ta.desc }

// Texture returns the WebGPU texture.
func (ta *TextureArray) Texture() *wgpu.Texture { return ta.texture }

// View returns the 2D array view of all layers.
func (ta *TextureArray) View() *wgpu.TextureView { return ta.view }

// Sampler returns the sampler for the array.
func (ta *TextureArray) Sampler() *wgpu.Sampler { return ta.sampler }

// Create creates the texture, its array view, and its sampler,
// based on current settings. Calls Release first.
func (ta *TextureArray) Create() error {
	ta.Release()
	t, err := ta.device.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         ta.Name,
		Size:          ta.Format.Extent3D(),
		MipLevelCount: 1,
		SampleCount:   uint32(ta.Format.Samples),
		Dimension:     wgpu.TextureDimension2D,
		Format:        ta.Format.Format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return err
	}
	ta.texture = t
	vw, err := t.CreateView(&wgpu.TextureViewDescriptor{
		Label:           ta.Name,
		Format:          ta.Format.Format,
		Dimension:       wgpu.TextureViewDimension2DArray,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: uint32(ta.Format.Layers),
		Aspect:          wgpu.TextureAspectAll,
	})
	if errors.Log(err) != nil {
		ta.Release()
		return err
	}
	ta.view = vw
	sm, err := ta.device.Device.CreateSampler(SamplerDescriptor(ta.desc))
	if errors.Log(err) != nil {
		ta.Release()
		return err
	}
	ta.sampler = sm
	return nil
}

// SamplerDescriptor returns the sampler settings for the given
// texture array description.
func SamplerDescriptor(desc texarray.SlabDesc) *wgpu.SamplerDescriptor {
	filter := wgpu.FilterModeLinear
	if desc.Filter == texarray.Point {
		filter = wgpu.FilterModeNearest
	}
	mode := wgpu.AddressModeRepeat
	if desc.Wrap == texarray.Clamp {
		mode = wgpu.AddressModeClampToEdge
	}
	return &wgpu.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  mode,
		AddressModeV:  mode,
		AddressModeW:  mode,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// SetLayer implements [texarray.Slab]. It sets the given layer from a
// standard Go image, scaled to the array resolution, and starts the
// WriteTexture call to upload it to the device.
// Block compressed arrays must be set with [TextureArray.SetLayerBytes].
func (ta *TextureArray) SetLayer(layer int, img image.Image) error {
	if ta.Format.Layout.IsCompressed() {
		return fmt.Errorf("gpu.TextureArray: %s is block compressed (%s), use SetLayerBytes", ta.Name, ta.Format.Layout)
	}
	rimg := texarray.FitImage(img, ta.Format.Size.X)
	return ta.SetLayerBytes(layer, rimg.Pix)
}

// SetLayerBytes uploads the given host data, in the layout given by
// [TextureFormat.LayerDataLayout], to the given layer.
func (ta *TextureArray) SetLayerBytes(layer int, data []byte) error {
	if ta.texture == nil {
		return fmt.Errorf("gpu.TextureArray: %s has not been created", ta.Name)
	}
	if layer < 0 || layer >= ta.Format.Layers {
		return fmt.Errorf("gpu.TextureArray: layer %d out of range for %s", layer, ta.Name)
	}
	if n := ta.Format.LayerByteSize(); len(data) != n {
		return fmt.Errorf("gpu.TextureArray: layer data for %s is %d bytes, not %d", ta.Name, len(data), n)
	}
	layout := ta.Format.LayerDataLayout()
	size := ta.Format.LayerExtent()
	// https://www.w3.org/TR/webgpu/#gpuimagecopytexture
	ta.device.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  ta.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: uint32(layer)},
		},
		data,
		&layout,
		&size,
	)
	return nil
}

// BindGroupEntries returns the entries for binding the array view
// and its sampler at the given binding and the next one.
func (ta *TextureArray) BindGroupEntries(binding int) []wgpu.BindGroupEntry {
	return []wgpu.BindGroupEntry{
		{
			Binding:     uint32(binding),
			TextureView: ta.view,
		},
		{
			Binding: uint32(binding + 1),
			Sampler: ta.sampler,
		},
	}
}

// Release destroys the view, sampler and texture.
func (ta *TextureArray) Release() {
	if ta.view != nil {
		ta.view.Release()
		ta.view = nil
	}
	if ta.sampler != nil {
		ta.sampler.Release()
		ta.sampler = nil
	}
	if ta.texture != nil {
		ta.texture.Release()
		ta.texture = nil
	}
}
