// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math/rand"
	"text/tabwriter"

	"cogentcore.org/core/base/logx"
	"cogentcore.org/texarray"
)

// Result is the outcome of a simulated workload.
type Result struct {

	// number of avatars loaded
	Loaded int

	// number of avatars unloaded
	Unloaded int

	// number of avatars live at the end
	Live int

	// number of textures placed in texture arrays
	Textures int

	// number of textures that did not fit in the texture arrays
	Fallbacks int

	// number of texture arrays created
	Arrays int

	// usage of each allocator at the end
	Stats []texarray.TypeStats
}

// blank is an image of a given size without any pixels,
// standing in for avatar textures.
type blank image.Rectangle

func (b blank) ColorModel() color.Model { return color.RGBAModel }
func (b blank) Bounds() image.Rectangle { return image.Rectangle(b) }
func (b blank) At(x, y int) color.Color { return color.Transparent }

// simulate loads and unloads random avatars in a host backed container.
func simulate(c *Config) (*Result, error) {
	if c.Avatars <= 0 || c.Steps < 0 {
		return nil, fmt.Errorf("texarray: need positive avatars and steps, not %d and %d", c.Avatars, c.Steps)
	}
	cfg := texarray.NewConfig()
	if c.Settings != "" {
		if err := cfg.Open(c.Settings); err != nil {
			return nil, err
		}
	}
	defaults, err := cfg.OpenDefaults()
	if err != nil {
		return nil, err
	}
	hf := &texarray.HostFactory{Discard: true}
	ct, err := texarray.NewContainer(hf, cfg, defaults)
	if err != nil {
		return nil, err
	}
	defer ct.Release()

	rnd := rand.New(rand.NewSource(int64(c.Seed)))
	res := &Result{}
	var live [][]texarray.Slot
	for step := range c.Steps {
		if len(live) == 0 || (len(live) < c.Avatars && rnd.Intn(2) == 0) {
			slots, err := loadAvatar(ct, rnd, res)
			if err != nil {
				return nil, err
			}
			live = append(live, slots)
			res.Loaded++
		} else {
			i := rnd.Intn(len(live))
			for _, s := range live[i] {
				if err := ct.FreeTexture(s); err != nil {
					return nil, err
				}
			}
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
			res.Unloaded++
		}
		if logx.UserLevel <= slog.LevelInfo && (step+1)%1000 == 0 {
			slog.Info("texarray: simulating", "step", step+1, "avatars", len(live), "arrays", hf.Live())
		}
	}
	res.Live = len(live)
	res.Arrays = hf.Created()
	res.Stats = ct.Stats()
	return res, nil
}

// loadAvatar sets one texture of a random size for each type.
func loadAvatar(ct *texarray.Container, rnd *rand.Rand, res *Result) ([]texarray.Slot, error) {
	rs := ct.Resolutions()
	top := rs[len(rs)-1]
	slots := make([]texarray.Slot, 0, len(ct.Types()))
	for _, tp := range ct.Types() {
		w := rnd.Intn(top) + 1
		h := max(w>>rnd.Intn(2), 1)
		s, err := ct.SetTexture(nil, blank(image.Rect(0, 0, w, h)), tp)
		if errors.Is(err, texarray.ErrCapacityExceeded) {
			res.Fallbacks++
			continue
		}
		if err != nil {
			return nil, err
		}
		res.Textures++
		slots = append(slots, s)
	}
	return slots, nil
}

// Print writes the result as a table.
func (r *Result) Print(w io.Writer) error {
	fmt.Fprintf(w, "avatars: %d loaded, %d unloaded, %d live\n", r.Loaded, r.Unloaded, r.Live)
	fmt.Fprintf(w, "textures: %d in arrays, %d fallbacks, %d arrays created\n\n", r.Textures, r.Fallbacks, r.Arrays)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "type\tres\tcapacity\tarrays\tin use\tfree\thigh water\tlimit\t")
	for _, st := range r.Stats {
		fmt.Fprintf(tw, "%v\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n", st.Type, st.Resolution, st.Capacity, st.Arrays, st.InUse, st.Free, st.HighWater, st.Limit)
	}
	return tw.Flush()
}
