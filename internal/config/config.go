// Package config holds the analyzer's configuration surface. It is
// intentionally small: two knobs, nothing else influences the
// lattice, the inheritance analyzer, or the type analyzer.
package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// PackageID identifies the package under compilation, and any foreign
// package reachable through the loader. Using a UUID rather than a
// source path lets a package be addressed the same way whether it came
// from disk, from a cache, or was synthesized for a test.
type PackageID = uuid.UUID

// Config is the analysis run's configuration surface.
type Config struct {
	// IsUsingStd reports whether the standard library's tuple/option
	// classes are in scope. When false, every destructuring pattern is
	// rejected.
	IsUsingStd bool `yaml:"is-using-std"`

	// TargetPackageID is the identity of the package being compiled.
	TargetPackageID PackageID `yaml:"-"`

	// RawTargetPackageID is how TargetPackageID round-trips through YAML.
	RawTargetPackageID string `yaml:"target-package-id"`
}

// Default returns the configuration a freshly compiled package gets
// when no manifest overrides it: std is in scope, a fresh package id
// is minted.
func Default() *Config {
	return &Config{
		IsUsingStd:      true,
		TargetPackageID: uuid.New(),
	}
}

// Load reads a YAML configuration manifest. Unknown fields are ignored
// so older manifests keep working against newer builds of the core.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := &Config{IsUsingStd: true}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.RawTargetPackageID == "" {
		cfg.TargetPackageID = uuid.New()
		return cfg, nil
	}
	id, err := uuid.Parse(cfg.RawTargetPackageID)
	if err != nil {
		return nil, fmt.Errorf("config: target-package-id: %w", err)
	}
	cfg.TargetPackageID = id
	return cfg, nil
}
