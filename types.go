// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texarray

import (
	"fmt"
	"strings"
)

// Types is the semantic type of a texture array, i.e., which rendering
// channel the contents of its slots represent. It is used to pick the
// allocator that backs a given texture, and is not enforced by a [Slot].
type Types int32

const (
	// BaseColor is the albedo / main texture.
	BaseColor Types = iota

	// Normal is the tangent space normal map.
	Normal

	// MetallicGloss is the packed metallic and smoothness map.
	MetallicGloss

	// Emission is the emissive color map.
	Emission

	// AlphaMask is the single channel cutout mask.
	AlphaMask

	// TypesN is the number of texture array types.
	TypesN
)

var typesNames = [TypesN]string{"BaseColor", "Normal", "MetallicGloss", "Emission", "AlphaMask"}

// shader property base names, as declared by the avatar shader.
var typesProps = [TypesN]string{"_MainTexArr", "_BumpMapArr", "_MetallicGlossMapArr", "_EmissionMapArr", "_AlphaTextureArr"}

// TypesValues returns all of the texture array types.
func TypesValues() []Types {
	return []Types{BaseColor, Normal, MetallicGloss, Emission, AlphaMask}
}

// IsValid returns whether the type is one of the defined values.
func (tp Types) IsValid() bool {
	return tp >= 0 && tp < TypesN
}

func (tp Types) String() string {
	if !tp.IsValid() {
		return fmt.Sprintf("Types(%d)", int32(tp))
	}
	return typesNames[tp]
}

// SetString sets the type from its name, case insensitive.
func (tp *Types) SetString(s string) error {
	for i, nm := range typesNames {
		if strings.EqualFold(nm, s) {
			*tp = Types(i)
			return nil
		}
	}
	return fmt.Errorf("%q is not a valid value for type Types", s)
}

func (tp Types) MarshalText() ([]byte, error) {
	return []byte(tp.String()), nil
}

func (tp *Types) UnmarshalText(text []byte) error {
	return tp.SetString(string(text))
}

// ShaderProperty returns the name of the material texture array
// parameter that slots of this type are bound to.
func (tp Types) ShaderProperty() string {
	if !tp.IsValid() {
		return ""
	}
	return typesProps[tp]
}

// ShaderIndexProperty returns the name of the material integer
// parameter that selects the layer within [Types.ShaderProperty].
func (tp Types) ShaderIndexProperty() string {
	if !tp.IsValid() {
		return ""
	}
	return typesProps[tp] + "_ID"
}

// DefaultKey returns the key under which the default texture for this
// type at the given resolution is looked up, e.g., "BaseColor_256".
func (tp Types) DefaultKey(resolution int) string {
	return fmt.Sprintf("%s_%d", tp, resolution)
}
