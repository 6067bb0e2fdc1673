// Package config carries compiler-wide toggles and target selection, in
// the shape of the teacher's own pkg/config: enum-keyed Feature/Warning
// tables plus a handful of scalar fields, optionally seeded from a
// project manifest.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
	"modernc.org/libqbe"
)

// Feature is a compile-time toggle. Tack's spec defines no directives, so
// there is exactly one today; the table shape is kept so a future
// directive can be added without reworking callers.
type Feature int

const (
	FeatNoDirectives Feature = iota
	FeatCount
)

// Warning is a non-fatal diagnostic category, layered on top of spec.md's
// fatal error taxonomy (spec.md defines none of these; they never change
// whether a program is accepted).
type Warning int

const (
	WarnUnreachablePhi Warning = iota
	WarnShadowInclude
	WarnOverflow
	WarnCount
)

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

// Config is the compiler's resolved configuration: CLI flags merged with
// an optional tack.toml, plus the QBE target libqbe.Main assembles for.
type Config struct {
	Features   map[Feature]Info
	Warnings   map[Warning]Info
	FeatureMap map[string]Feature
	WarningMap map[string]Warning

	QbeTarget string

	IncludeDirs      []string
	LinkInputs       []string
	NoStdlib         bool
	Verbose          bool
	WarningsAsErrors bool
}

func New() *Config {
	cfg := &Config{
		Features:   make(map[Feature]Info),
		Warnings:   make(map[Warning]Info),
		FeatureMap: make(map[string]Feature),
		WarningMap: make(map[string]Warning),
	}

	features := map[Feature]Info{
		FeatNoDirectives: {"no-directives", true, "Placeholder for future directive support; spec.md defines none, so this is always a no-op."},
	}
	for f, info := range features {
		cfg.Features[f] = info
		cfg.FeatureMap[info.Name] = f
	}

	warnings := map[Warning]Info{
		WarnUnreachablePhi: {"unreachable-phi", true, "A conditional branch merge inserted a phi neither arm can actually reach."},
		WarnShadowInclude:  {"shadow-include", true, "An include resolved to a path already included elsewhere in this compilation."},
		WarnOverflow:       {"overflow", true, "An integer literal constant expression may have overflowed 64 bits."},
	}
	for w, info := range warnings {
		cfg.Warnings[w] = info
		cfg.WarningMap[info.Name] = w
	}

	cfg.QbeTarget = libqbe.DefaultTarget(runtime.GOOS, runtime.GOARCH)
	return cfg
}

func (c *Config) IsFeatureEnabled(f Feature) bool { return c.Features[f].Enabled }

func (c *Config) SetFeature(f Feature, enabled bool) {
	info := c.Features[f]
	info.Enabled = enabled
	c.Features[f] = info
}

func (c *Config) IsWarningEnabled(w Warning) bool { return c.Warnings[w].Enabled }

func (c *Config) SetWarning(w Warning, enabled bool) {
	info := c.Warnings[w]
	info.Enabled = enabled
	c.Warnings[w] = info
}

// manifest mirrors the `[build]` table of a tack.toml project file.
type manifest struct {
	Build struct {
		Include          []string `toml:"include"`
		Stdlib           bool     `toml:"stdlib"`
		WarningsAsErrors bool     `toml:"warnings-as-errors"`
	} `toml:"build"`
}

// LoadFile merges a tack.toml project manifest into cfg. A missing file
// is not an error — tack.toml is pure convenience over CLI flags.
func (c *Config) LoadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	c.IncludeDirs = append(c.IncludeDirs, m.Build.Include...)
	if !m.Build.Stdlib {
		c.NoStdlib = true
	}
	if m.Build.WarningsAsErrors {
		c.WarningsAsErrors = true
	}
	return nil
}
