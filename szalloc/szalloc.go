// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package szalloc plans the texture array resolutions for a set of
// texture sizes, so that a texture array configuration can be derived
// from a survey of the textures an application actually uses.
package szalloc

import (
	"fmt"
	"image"
	"io"
	"slices"

	"github.com/chewxy/math32"
)

// SzAlloc groups item sizes into at most MaxGps power-of-two
// resolutions, each of which is one texture array resolution.
type SzAlloc struct {

	// true if configured and ready to use
	On bool

	// maximum number of groups (resolutions) to allocate
	MaxGps int

	// smallest resolution to allocate
	Min int

	// largest resolution to allocate: larger items are scaled down
	Max int

	// original list of item sizes to be allocated
	ItmSizes []image.Point

	// list of all unique item resolutions, sorted ascending
	UniqSizes []int

	// map of all unique item resolutions, with count per
	UniqSzMap map[int]int

	// list of allocated group resolutions, sorted ascending
	GpSizes []int

	// allocation of item indexes by group
	GpAllocs [][]int

	// group index for each item
	ItmGps []int
}

// SetSizes sets the resolution bounds, the max number of groups,
// and the item sizes to organize.
func (sa *SzAlloc) SetSizes(minRes, maxRes, gps int, itms []image.Point) {
	sa.Min = minRes
	sa.Max = maxRes
	sa.MaxGps = gps
	sa.ItmSizes = itms
}

// Resolution returns the power-of-two resolution that holds an item of
// the given size, bounded by Min and Max.
func (sa *SzAlloc) Resolution(sz image.Point) int {
	return Pow2(max(sz.X, sz.Y), sa.Min, sa.Max)
}

// Pow2 returns the smallest power of two >= n, clamped to
// [minRes, maxRes]. A maxRes of 0 means no upper bound.
func Pow2(n, minRes, maxRes int) int {
	if n <= 1 {
		n = 1
	}
	p := int(math32.Exp2(math32.Ceil(math32.Log2(float32(n)))))
	if p < minRes {
		p = minRes
	}
	if maxRes > 0 && p > maxRes {
		p = maxRes
	}
	return p
}

// Alloc allocates items to groups as a function of size.
func (sa *SzAlloc) Alloc() error {
	if sa.MaxGps <= 0 {
		return fmt.Errorf("szalloc: max groups must be positive, not %d", sa.MaxGps)
	}
	if sa.Min <= 0 || (sa.Max > 0 && sa.Max < sa.Min) {
		return fmt.Errorf("szalloc: invalid resolution bounds [%d, %d]", sa.Min, sa.Max)
	}
	sa.On = false
	if len(sa.ItmSizes) == 0 {
		sa.UniqSizes, sa.GpSizes, sa.GpAllocs, sa.ItmGps = nil, nil, nil, nil
		sa.UniqSzMap = nil
		return nil
	}
	sa.UniqSz()
	nu := len(sa.UniqSizes)
	if nu <= sa.MaxGps { // all fits
		sa.GpSizes = slices.Clone(sa.UniqSizes)
	} else {
		idxs := SizeGroups(nu, sa.MaxGps)
		sa.GpSizes = make([]int, len(idxs))
		for i, ix := range idxs {
			sa.GpSizes[i] = sa.UniqSizes[ix]
		}
	}
	sa.AllocGps()
	return nil
}

// UniqSz computes the unique item resolutions.
func (sa *SzAlloc) UniqSz() {
	ni := len(sa.ItmSizes)
	sa.UniqSizes = make([]int, 0, ni)
	sa.UniqSzMap = make(map[int]int, ni)
	for _, sz := range sa.ItmSizes {
		res := sa.Resolution(sz)
		n, has := sa.UniqSzMap[res]
		if !has {
			sa.UniqSizes = append(sa.UniqSizes, res)
		}
		sa.UniqSzMap[res] = n + 1
	}
	slices.Sort(sa.UniqSizes)
}

// AllocGps allocates each item to the smallest group that holds it.
func (sa *SzAlloc) AllocGps() {
	ng := len(sa.GpSizes)
	sa.ItmGps = make([]int, len(sa.ItmSizes))
	sa.GpAllocs = make([][]int, ng)
	for i, sz := range sa.ItmSizes {
		res := sa.Resolution(sz)
		gi, _ := slices.BinarySearch(sa.GpSizes, res)
		if gi >= ng { // cannot happen: last group is the largest item
			gi = ng - 1
		}
		sa.GpAllocs[gi] = append(sa.GpAllocs[gi], i)
		sa.ItmGps[i] = gi
	}
	sa.On = true
}

// Counts returns the number of items allocated to each group.
func (sa *SzAlloc) Counts() []int {
	n := make([]int, len(sa.GpAllocs))
	for i, ga := range sa.GpAllocs {
		n[i] = len(ga)
	}
	return n
}

// PrintGps prints the group allocations.
func (sa *SzAlloc) PrintGps(w io.Writer) {
	for j, ga := range sa.GpAllocs {
		fmt.Fprintf(w, "idx: %2d  res: %5d  n: %d\n", j, sa.GpSizes[j], len(ga))
	}
}

// SizeGroups returns evenly-spaced cut indexes into a sorted list of ns
// sizes, for at most maxN groups. The last cut is always ns-1.
func SizeGroups(ns, maxN int) []int {
	mxgp := min(ns, maxN)
	nper := float32(ns) / float32(mxgp)
	idxs := make([]int, mxgp)
	for i := 0; i < mxgp; i++ {
		cut := int(math32.Round(float32(i+1)*nper)) - 1
		if cut >= ns {
			cut = ns - 1
		}
		idxs[i] = cut
	}
	idxs[mxgp-1] = ns - 1
	return idxs
}
