// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"log/slog"

	"cogentcore.org/texarray"
)

// Factory creates [TextureArray]s on a device.
// It implements [texarray.SlabFactory].
type Factory struct {
	Device *Device
}

// NewFactory returns a new factory for the given device.
func NewFactory(dev *Device) *Factory {
	return &Factory{Device: dev}
}

// NewSlab implements [texarray.SlabFactory].
func (fc *Factory) NewSlab(desc texarray.SlabDesc) (texarray.Slab, error) {
	ta := NewTextureArray(fc.Device, desc)
	if err := ta.Create(); err != nil {
		return nil, err
	}
	slog.Debug("gpu: created texture array", "name", ta.Name, "format", ta.Format.String(), "bytes", ta.Format.TotalByteSize())
	return ta, nil
}
