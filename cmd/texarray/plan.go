// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"strings"

	"cogentcore.org/texarray/szalloc"
	"github.com/pelletier/go-toml/v2"
)

// readSizes reads WxH sizes, one per line. Blank lines and
// lines starting with # are skipped.
func readSizes(r io.Reader) ([]image.Point, error) {
	var szs []image.Point
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var sz image.Point
		if _, err := fmt.Sscanf(line, "%dx%d", &sz.X, &sz.Y); err != nil {
			return nil, fmt.Errorf("texarray: line %d: size %q is not WxH: %w", ln, line, err)
		}
		if sz.X <= 0 || sz.Y <= 0 {
			return nil, fmt.Errorf("texarray: line %d: size %q must be positive", ln, line)
		}
		szs = append(szs, sz)
	}
	return szs, sc.Err()
}

// plan prints the planned resolutions for the sizes in r, followed
// by the resolutions setting for a settings file.
func plan(c *Config, r io.Reader, w io.Writer) error {
	szs, err := readSizes(r)
	if err != nil {
		return err
	}
	if len(szs) == 0 {
		return fmt.Errorf("texarray: no texture sizes to plan")
	}
	var sa szalloc.SzAlloc
	sa.SetSizes(c.Min, c.Max, c.Groups, szs)
	if err := sa.Alloc(); err != nil {
		return err
	}
	sa.PrintGps(w)
	b, err := toml.Marshal(struct {
		Resolutions []int `toml:"resolutions"`
	}{sa.GpSizes})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n%s", b)
	return err
}
