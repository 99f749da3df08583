// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import "github.com/cogentcore/webgpu/wgpu"

// Device holds the WebGPU device and the queue that texture
// uploads are written to. It is supplied by the renderer.
type Device struct {
	// logical device
	Device *wgpu.Device

	// queue for device
	Queue *wgpu.Queue
}

// NewDevice returns a new Device for the given WebGPU device,
// using its default queue.
func NewDevice(dev *wgpu.Device) *Device {
	return &Device{Device: dev, Queue: dev.GetQueue()}
}

// Release releases the queue. The device itself is owned by
// the renderer.
func (dv *Device) Release() {
	if dv.Queue == nil {
		return
	}
	dv.Queue.Release()
	dv.Queue = nil
}
