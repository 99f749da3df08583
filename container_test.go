// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texarray

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMaterial struct {
	arrays map[string]Slab
	ints   map[string]int
}

func newTestMaterial() *testMaterial {
	return &testMaterial{arrays: map[string]Slab{}, ints: map[string]int{}}
}

func (tm *testMaterial) SetTextureArray(name string, array Slab) { tm.arrays[name] = array }
func (tm *testMaterial) SetInt(name string, value int)           { tm.ints[name] = value }

func solidImage(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func testConfig() *Config {
	cf := NewConfig()
	cf.Resolutions = []int{16, 8}
	cf.Capacity = 2
	cf.MaxArrays = 2
	return cf
}

func TestNewContainer(t *testing.T) {
	hf := &HostFactory{}
	ct, err := NewContainer(hf, testConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 16}, ct.Resolutions())
	assert.Equal(t, []Types{BaseColor, Normal, Emission}, ct.Types())
	// one eager array per type and resolution
	assert.Equal(t, 6, hf.Created())

	al, ok := ct.Allocator(Normal, 16)
	require.True(t, ok)
	assert.True(t, al.Desc().Linear)
	_, ok = ct.Allocator(MetallicGloss, 16)
	assert.False(t, ok)

	ct.Release()
	assert.Equal(t, 0, hf.Live())
}

func TestNewContainerInvalid(t *testing.T) {
	cf := testConfig()
	cf.Resolutions = []int{8, -8}
	_, err := NewContainer(&HostFactory{}, cf, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	hf := &HostFactory{}
	_, err = NewContainer(hf, testConfig(), map[string]image.Image{"Bogus_8": solidImage(8, color.RGBA{})})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, 0, hf.Live())
}

func TestResolutionFor(t *testing.T) {
	ct, err := NewContainer(&HostFactory{}, testConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, 8, ct.ResolutionFor(image.Pt(1, 1)))
	assert.Equal(t, 8, ct.ResolutionFor(image.Pt(8, 8)))
	assert.Equal(t, 16, ct.ResolutionFor(image.Pt(4, 9)))
	assert.Equal(t, 16, ct.ResolutionFor(image.Pt(64, 64)))
}

func TestSetTexture(t *testing.T) {
	ct, err := NewContainer(&HostFactory{}, testConfig(), nil)
	require.NoError(t, err)
	m := newTestMaterial()
	red := color.RGBA{255, 0, 0, 255}

	s, err := ct.SetTexture(m, solidImage(8, red), BaseColor)
	require.NoError(t, err)
	assert.Equal(t, 8, s.Resolution)
	assert.Equal(t, BaseColor, s.Type)
	assert.Equal(t, s.Array, m.arrays["_MainTexArr"])
	assert.Equal(t, s.Index, m.ints["_MainTexArr_ID"])

	hs := s.Array.(*HostSlab)
	layer := hs.Layer(s.Index)
	require.NotNil(t, layer)
	assert.Equal(t, image.Rect(0, 0, 8, 8), layer.Bounds())
	assert.Equal(t, red, layer.RGBAAt(4, 4))

	require.NoError(t, ct.FreeTexture(s))
	assert.ErrorIs(t, ct.FreeTexture(s), ErrInvalidSlot)

	s, err = ct.SetTexture(m, solidImage(5, red), BaseColor)
	require.NoError(t, err)
	assert.Equal(t, 8, s.Resolution)
	s, err = ct.SetTexture(m, solidImage(12, red), BaseColor)
	require.NoError(t, err)
	assert.Equal(t, 16, s.Resolution)
	assert.Equal(t, image.Rect(0, 0, 16, 16), s.Array.(*HostSlab).Layer(s.Index).Bounds())
}

func TestSetTextureCapacityExceeded(t *testing.T) {
	ct, err := NewContainer(&HostFactory{}, testConfig(), nil)
	require.NoError(t, err)
	img := solidImage(16, color.RGBA{0, 0, 255, 255})
	var slots []Slot
	for range 4 {
		s, err := ct.SetTexture(nil, img, Emission)
		require.NoError(t, err)
		slots = append(slots, s)
	}
	m := newTestMaterial()
	_, err = ct.SetTexture(m, img, Emission)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Empty(t, m.arrays)

	// other types and resolutions are unaffected
	_, err = ct.SetTexture(m, img, BaseColor)
	assert.NoError(t, err)
	_, err = ct.SetTexture(m, solidImage(8, color.RGBA{}), Emission)
	assert.NoError(t, err)

	require.NoError(t, ct.FreeTexture(slots[2]))
	s, err := ct.SetTexture(m, img, Emission)
	require.NoError(t, err)
	assert.Equal(t, slots[2].Flat(2), s.Flat(2))
}

func TestSetTextureUnknownType(t *testing.T) {
	ct, err := NewContainer(&HostFactory{}, testConfig(), nil)
	require.NoError(t, err)
	_, err = ct.SetTexture(nil, solidImage(8, color.RGBA{}), AlphaMask)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = ct.SetTexture(nil, nil, BaseColor)
	assert.Error(t, err)
	assert.ErrorIs(t, ct.FreeTexture(Slot{Type: AlphaMask, Resolution: 8}), ErrInvalidSlot)
}

func TestDefaultTextures(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	defs := map[string]image.Image{
		BaseColor.DefaultKey(8): solidImage(8, white),
		"Normal_16":             solidImage(4, color.RGBA{128, 128, 255, 255}),
	}
	ct, err := NewContainer(&HostFactory{}, testConfig(), defs)
	require.NoError(t, err)

	ds, ok := ct.DefaultSlot(BaseColor, 8)
	require.True(t, ok)
	assert.Equal(t, white, ds.Array.(*HostSlab).Layer(ds.Index).RGBAAt(0, 0))
	al, _ := ct.Allocator(BaseColor, 8)
	assert.Equal(t, 1, al.Stats().InUse)

	m := newTestMaterial()
	require.NoError(t, ct.BindDefault(m, Normal, 16))
	assert.Contains(t, m.arrays, "_BumpMapArr")
	assert.Error(t, ct.BindDefault(m, Emission, 8))

	assert.ErrorIs(t, ct.FreeTexture(ds), ErrInvalidSlot)
	assert.Equal(t, 1, al.Stats().InUse)
}

func TestParseDefaultKey(t *testing.T) {
	tp, res, err := ParseDefaultKey("MetallicGloss_512")
	require.NoError(t, err)
	assert.Equal(t, MetallicGloss, tp)
	assert.Equal(t, 512, res)

	for _, key := range []string{"", "BaseColor", "BaseColor_x", "Main_256"} {
		_, _, err := ParseDefaultKey(key)
		assert.ErrorIs(t, err, ErrInvalidConfig, key)
	}
}

func TestContainerStats(t *testing.T) {
	ct, err := NewContainer(&HostFactory{}, testConfig(), nil)
	require.NoError(t, err)
	_, err = ct.SetTexture(nil, solidImage(16, color.RGBA{}), Normal)
	require.NoError(t, err)
	st := ct.Stats()
	require.Len(t, st, 6)
	assert.Equal(t, BaseColor, st[0].Type)
	assert.Equal(t, 8, st[0].Resolution)
	assert.Equal(t, Normal, st[3].Type)
	assert.Equal(t, 16, st[3].Resolution)
	assert.Equal(t, 1, st[3].InUse)
}
