// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texarray

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/iox/imagex"
	"cogentcore.org/core/base/reflectx"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of a [Container].
type Config struct {

	// Resolutions are the square resolutions for which texture arrays
	// are created, for every type. Defaults to 256, 512 and 1024.
	Resolutions []int `toml:"resolutions" yaml:"resolutions"`

	// Capacity is the number of layers per texture array.
	Capacity int `default:"100" toml:"capacity" yaml:"capacity"`

	// MaxArrays is the maximum number of texture arrays
	// per type and resolution.
	MaxArrays int `default:"100" toml:"max_arrays" yaml:"max_arrays"`

	// Types are the texture array types to allocate, with their format.
	// Defaults to BaseColor, Normal and Emission.
	Types []TypeConfig `toml:"types" yaml:"types"`

	// Defaults maps [Types.DefaultKey] keys (e.g., "BaseColor_256")
	// to image files that are uploaded once and bound when a
	// material has no texture of that type. Relative paths are
	// relative to the config file.
	Defaults map[string]string `toml:"defaults" yaml:"defaults"`

	// dir is the directory of the config file, if loaded from one.
	dir string
}

// TypeConfig configures the arrays of one texture type.
type TypeConfig struct {
	Type Types `toml:"type" yaml:"type"`

	// Format is the layer format.
	Format Format `toml:"format" yaml:"format"`

	// Linear is whether the contents are linear color space.
	Linear bool `toml:"linear" yaml:"linear"`

	// Capacity overrides [Config.Capacity] for this type if > 0.
	Capacity int `toml:"capacity" yaml:"capacity"`
}

// NewConfig returns a new config with default values.
func NewConfig() *Config {
	cf := &Config{}
	cf.SetDefaults()
	return cf
}

// SetDefaults sets unset fields to their default values.
func (cf *Config) SetDefaults() {
	if cf.Capacity == 0 || cf.MaxArrays == 0 {
		capacity, maxArrays := cf.Capacity, cf.MaxArrays
		errors.Log(reflectx.SetFromDefaultTags(cf))
		if capacity != 0 {
			cf.Capacity = capacity
		}
		if maxArrays != 0 {
			cf.MaxArrays = maxArrays
		}
	}
	if len(cf.Resolutions) == 0 {
		cf.Resolutions = []int{256, 512, 1024}
	}
	if len(cf.Types) == 0 {
		cf.Types = []TypeConfig{
			{Type: BaseColor, Format: RGBA8},
			{Type: Normal, Format: RGBA8, Linear: true},
			{Type: Emission, Format: RGBA8},
		}
	}
}

// Validate returns an error wrapping [ErrInvalidConfig]
// if the config can not be used.
func (cf *Config) Validate() error {
	if cf.Capacity <= 0 {
		return fmt.Errorf("%w: capacity %d", ErrInvalidConfig, cf.Capacity)
	}
	if cf.MaxArrays <= 0 {
		return fmt.Errorf("%w: max arrays %d", ErrInvalidConfig, cf.MaxArrays)
	}
	if len(cf.Resolutions) == 0 {
		return fmt.Errorf("%w: no resolutions", ErrInvalidConfig)
	}
	for _, r := range cf.Resolutions {
		if r <= 0 {
			return fmt.Errorf("%w: resolution %d", ErrInvalidConfig, r)
		}
	}
	seen := map[Types]bool{}
	for _, tc := range cf.Types {
		if !tc.Type.IsValid() {
			return fmt.Errorf("%w: texture type %v", ErrInvalidConfig, tc.Type)
		}
		if seen[tc.Type] {
			return fmt.Errorf("%w: texture type %v listed twice", ErrInvalidConfig, tc.Type)
		}
		seen[tc.Type] = true
		if tc.Format < 0 || tc.Format >= FormatN {
			return fmt.Errorf("%w: format %v for %v", ErrInvalidConfig, tc.Format, tc.Type)
		}
	}
	return nil
}

// SortedResolutions returns the resolutions in increasing order
// without duplicates.
func (cf *Config) SortedResolutions() []int {
	rs := slices.Clone(cf.Resolutions)
	slices.Sort(rs)
	return slices.Compact(rs)
}

// Open reads the config from the given TOML or YAML file, based on
// its extension, then sets defaults for unset fields and validates it.
func (cf *Config) Open(filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, cf)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields().Decode(cf)
	default:
		err = fmt.Errorf("texarray: unsupported config file extension %q", filepath.Ext(filename))
	}
	if err != nil {
		return fmt.Errorf("texarray: reading config %q: %w", filename, err)
	}
	cf.dir = filepath.Dir(filename)
	cf.SetDefaults()
	return cf.Validate()
}

// Save writes the config to the given TOML or YAML file,
// based on its extension.
func (cf *Config) Save(filename string) error {
	var b []byte
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		b, err = yaml.Marshal(cf)
	case ".toml":
		b, err = toml.Marshal(cf)
	default:
		err = fmt.Errorf("texarray: unsupported config file extension %q", filepath.Ext(filename))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0666)
}

// OpenDefaults opens the default texture images named in [Config.Defaults].
func (cf *Config) OpenDefaults() (map[string]image.Image, error) {
	imgs := make(map[string]image.Image, len(cf.Defaults))
	for key, fn := range cf.Defaults {
		if !filepath.IsAbs(fn) && cf.dir != "" {
			fn = filepath.Join(cf.dir, fn)
		}
		img, _, err := imagex.Open(fn)
		if err != nil {
			return nil, fmt.Errorf("texarray: default texture %q: %w", key, err)
		}
		imgs[key] = img
	}
	return imgs, nil
}
