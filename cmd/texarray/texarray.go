// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command texarray simulates texture array slot allocation for a
// population of avatars, and plans texture array resolutions from
// a survey of texture sizes.
package main

import (
	"os"

	"cogentcore.org/core/cli"
)

// Config is the configuration information for the texarray cli.
type Config struct {

	// Settings is the texture array settings file (TOML or YAML).
	// The built-in settings are used if it is empty.
	Settings string `flag:"s,settings"`

	// Avatars is the maximum number of avatars live at once.
	Avatars int `default:"200" flag:"n,avatars"`

	// Steps is the number of avatar load or unload steps to simulate.
	Steps int `default:"5000"`

	// Seed is the random seed for the simulated workload.
	Seed int `default:"1"`

	// Sizes is the file of texture sizes to plan resolutions for,
	// one WxH size per line.
	Sizes string `cmd:"plan" posarg:"0" required:"-"`

	// Groups is the maximum number of resolutions to plan.
	Groups int `cmd:"plan" default:"3"`

	// Min is the smallest resolution to plan.
	Min int `cmd:"plan" default:"64"`

	// Max is the largest resolution to plan.
	Max int `cmd:"plan" default:"2048"`
}

func main() {
	opts := cli.DefaultOptions("texarray", "Simulates and plans texture array slot allocation.")
	cli.Run(opts, &Config{},
		&cli.Cmd[*Config]{Func: Simulate, Name: "simulate", Doc: "simulates loading and unloading avatar textures", Root: true},
		&cli.Cmd[*Config]{Func: Plan, Name: "plan", Doc: "plans texture array resolutions for a list of texture sizes"},
	)
}

// Simulate runs the avatar workload and prints the slot usage
// of every texture array.
func Simulate(c *Config) error {
	res, err := simulate(c)
	if err != nil {
		return err
	}
	return res.Print(os.Stdout)
}

// Plan prints the resolutions that best cover the texture sizes
// in the sizes file, or standard input if there is none.
func Plan(c *Config) error {
	in := os.Stdin
	if c.Sizes != "" {
		f, err := os.Open(c.Sizes)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	return plan(c, in, os.Stdout)
}
