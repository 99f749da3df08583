// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package szalloc

import (
	"bytes"
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPow2(t *testing.T) {
	assert.Equal(t, 1, Pow2(0, 1, 0))
	assert.Equal(t, 16, Pow2(9, 1, 0))
	assert.Equal(t, 256, Pow2(256, 1, 0))
	assert.Equal(t, 512, Pow2(257, 1, 0))
	assert.Equal(t, 64, Pow2(3, 64, 1024))
	assert.Equal(t, 1024, Pow2(4000, 64, 1024))
}

func TestRandSzAlloc(t *testing.T) {
	var sa SzAlloc
	rnd := rand.New(rand.NewSource(1))
	szs := []image.Point{{40, 40}, {100, 100}, {200, 200}, {2000, 10}}
	for range 300 {
		szs = append(szs, image.Point{X: rnd.Intn(2048) + 1, Y: rnd.Intn(2048) + 1})
	}
	sa.SetSizes(32, 1024, 3, szs)
	require.NoError(t, sa.Alloc())
	assert.True(t, sa.On)
	assert.Len(t, sa.GpSizes, 3)
	assert.Equal(t, 1024, sa.GpSizes[2])
	assert.IsIncreasing(t, sa.GpSizes)

	total := 0
	for gi, ga := range sa.GpAllocs {
		total += len(ga)
		for _, i := range ga {
			assert.Equal(t, gi, sa.ItmGps[i])
			assert.LessOrEqual(t, sa.Resolution(szs[i]), sa.GpSizes[gi])
		}
	}
	assert.Equal(t, len(szs), total)
}

func TestUniqSzAlloc(t *testing.T) {
	var sa SzAlloc
	szs := []image.Point{{9, 9}, {200, 100}, {12, 16}, {256, 256}, {100, 255}, {3, 1}}
	sa.SetSizes(4, 0, 8, szs)
	require.NoError(t, sa.Alloc())
	assert.Equal(t, []int{4, 16, 256}, sa.UniqSizes)
	assert.Equal(t, map[int]int{4: 1, 16: 2, 256: 3}, sa.UniqSzMap)
	assert.Equal(t, sa.UniqSizes, sa.GpSizes)
	assert.Equal(t, []int{1, 2, 3}, sa.Counts())
	assert.Equal(t, []int{1, 2, 1, 2, 2, 0}, sa.ItmGps)

	var b bytes.Buffer
	sa.PrintGps(&b)
	assert.Contains(t, b.String(), "res:   256  n: 3")
}

func TestSzAllocErrors(t *testing.T) {
	var sa SzAlloc
	sa.SetSizes(4, 1024, 0, nil)
	assert.Error(t, sa.Alloc())
	sa.SetSizes(0, 1024, 2, nil)
	assert.Error(t, sa.Alloc())
	sa.SetSizes(512, 256, 2, nil)
	assert.Error(t, sa.Alloc())
	sa.SetSizes(4, 1024, 2, nil)
	assert.NoError(t, sa.Alloc())
	assert.Empty(t, sa.GpSizes)
}

func TestSizeGroups(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, SizeGroups(3, 5))
	assert.Equal(t, []int{2, 4}, SizeGroups(5, 2))
	assert.Equal(t, []int{1, 3, 5}, SizeGroups(6, 3))
}
