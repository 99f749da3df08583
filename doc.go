// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package texarray packs many logical avatar textures into a small number
of fixed-capacity GPU texture arrays, so that many avatars can share one
material and draw state.

An [Allocator] owns a bounded table of texture arrays (slabs) of a single
resolution and format. Slots are addressed by a flat index
(arrayIndex*capacity + layer). Freed slots are reused last-in first-out
before the allocator grows, and a new array is only created the first time
a slot in its range is requested. Arrays are never destroyed until the
allocator is released.

The actual GPU resource is created through a [SlabFactory], which is
supplied by the rendering backend (see the gpu package for a WebGPU
implementation, and [HostFactory] for a host-memory one).

A [Container] holds one allocator per texture type and resolution, uploads
images into their slots, and binds the results onto a [Material].
*/
package texarray
