// Package config loads analysis profiles.
//
// A profile is a small YAML document tuning how a trace is decoded and
// classified. Every knob has a default; a missing profile file means the
// defaults apply unchanged.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile tunes trace decoding and classification.
type Profile struct {
	// Strict makes malformed trace lines fatal instead of skipped.
	Strict bool `yaml:"strict"`

	// TrackStdio includes reads/writes on descriptors 0/1/2 in the
	// analysis. Off by default: stdio traffic orders nothing on disk.
	TrackStdio bool `yaml:"track_stdio"`

	// NormalizePaths applies NFC normalization to resource paths before
	// they key the ledger, so byte-different encodings of the same path
	// collide.
	NormalizePaths bool `yaml:"normalize_paths"`

	// IgnoreSyscalls lists syscall names to drop entirely, on top of the
	// built-in non-filesystem set.
	IgnoreSyscalls []string `yaml:"ignore_syscalls,omitempty"`
}

// Default returns the profile used when no file is given.
func Default() Profile {
	return Profile{
		Strict:         false,
		TrackStdio:     false,
		NormalizePaths: true,
	}
}

// Load reads a profile file, applying defaults for absent keys.
func Load(path string) (Profile, error) {
	p := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// Ignored reports whether the profile drops the named syscall.
func (p Profile) Ignored(name string) bool {
	for _, s := range p.IgnoreSyscalls {
		if s == name {
			return true
		}
	}
	return false
}
