// Package config assembles the vocabulary a mers program runs against:
// a builder over internal/builtins' bundles that emits the
// (CompInfo, CheckInfo, RunInfo) triple every phase of the host API
// consumes, plus an optional `mers.toml` project file for host/CLI-level
// settings that never affect language semantics.
//
// Grounded on mers_lib/src/program/configs/mod.rs's `Config` struct and
// its chainable `with_*`/`bundle_*` methods.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Dummi26/mers/internal/builtins"
	"github.com/Dummi26/mers/internal/data"
	"github.com/Dummi26/mers/internal/parsed"
	"github.com/Dummi26/mers/internal/run"
	"github.com/Dummi26/mers/internal/types"
)

// Config is a builder that accumulates host-provided bindings
// (name -> value/type pairs) before they are committed into an
// Info triple via Infos. Mirrors mers_lib's Config::new().with_base()...
// chain, one With* method per with_*.rs bundle.
type Config struct {
	bindings   []builtins.Binding
	out        func(string)
	runtimeCap time.Duration
}

// New starts an empty Config: no bindings, stdout printing, no runtime cap.
func New() *Config {
	return &Config{out: func(s string) { fmt.Fprintln(os.Stdout, s) }}
}

// WithBase adds arithmetic and comparison builtins (mers_lib's with_base).
func (c *Config) WithBase() *Config {
	c.bindings = append(c.bindings, builtins.BundleBase()...)
	return c
}

// WithString adds string builtins (mers_lib's with_string).
func (c *Config) WithString() *Config {
	c.bindings = append(c.bindings, builtins.BundleString()...)
	return c
}

// WithList adds list builtins (mers_lib's with_list).
func (c *Config) WithList() *Config {
	c.bindings = append(c.bindings, builtins.BundleList()...)
	return c
}

// WithPrints adds `println`, writing through Out (mers_lib's with_prints).
func (c *Config) WithPrints() *Config {
	c.bindings = append(c.bindings, builtins.BundlePrints(func(s string) { c.out(s) })...)
	return c
}

// WithMultithreading adds `thread`/`sleep` (mers_lib's with_multithreading).
func (c *Config) WithMultithreading() *Config {
	c.bindings = append(c.bindings, builtins.BundleMultithreading(c.runtimeCap)...)
	return c
}

// WithOut overrides where `println` writes (default os.Stdout), whether
// it is called before or after WithPrints/WithStd.
func (c *Config) WithOut(out func(string)) *Config {
	c.out = out
	return c
}

// WithRuntimeCap clamps `sleep`'s duration, the sandboxing mechanism
// spec.md §1 keeps in scope ("sandboxing beyond the optional runtime
// cap" is the only sandboxing Non-goal excludes, i.e. this cap itself
// is in scope). Zero means uncapped. The cap is read when
// WithMultithreading/WithStd adds `sleep`, so it applies only if set
// before that call.
func (c *Config) WithRuntimeCap(d time.Duration) *Config {
	c.runtimeCap = d
	return c
}

// WithPure adds every side-effect-free bundle (base, string, list),
// mirroring mers_lib's bundle_pure().
func (c *Config) WithPure() *Config {
	return c.WithBase().WithString().WithList()
}

// WithStd adds the full standard vocabulary (pure + prints +
// multithreading), mirroring mers_lib's bundle_std().
func (c *Config) WithStd() *Config {
	return c.WithPure().WithPrints().WithMultithreading()
}

// AddVar registers a single host-provided value under name, for
// embedding applications that need a binding no bundle provides
// (mers_lib's Config::add_var).
func (c *Config) AddVar(name string, val data.Data, typ types.Type) *Config {
	c.bindings = append(c.bindings, builtins.Binding{Name: name, Val: val, Typ: typ})
	return c
}

// Infos commits the accumulated bindings into a fresh CompInfo/CheckInfo/
// RunInfo triple, each with one top-level scope holding every binding at
// a stable slot index shared across all three (mers_lib's Config::infos()).
func (c *Config) Infos() (*parsed.CompInfo, *run.CheckInfo, *run.RunInfo) {
	comp := parsed.NewCompInfo()
	ci := run.NewCheckInfo()
	ri := run.NewRunInfo()

	for _, b := range c.bindings {
		depth, slot := comp.Declare(b.Name)
		ci.SetSlot(depth, slot, b.Typ)
		ri.SetSlot(depth, slot, data.NewCell(b.Val))
	}
	return comp, ci, ri
}

// ProjectFile is the optional `mers.toml` host/CLI configuration file
// (spec.md §6.1 scopes project-file handling as host/CLI concern, not
// language semantics); grounded on
// miaomiao1992-dingo/pkg/config/config.go's TOML-file-with-defaults
// loading idiom.
type ProjectFile struct {
	Runtime RuntimeSettings `toml:"runtime"`
	Include IncludeSettings `toml:"include"`
}

// RuntimeSettings controls CLI-level execution limits.
type RuntimeSettings struct {
	// MaxSleepMillis caps every `sleep` call; 0 means uncapped.
	MaxSleepMillis int64 `toml:"max_sleep_millis"`
	// Theme names a diagnostic renderer ("plain", "ansi", or "html"). It
	// is loaded but not read by the CLI, which picks its renderer from
	// the --plain flag.
	Theme string `toml:"theme"`
}

// IncludeSettings controls `#include` resolution.
type IncludeSettings struct {
	// SearchPaths is tried, in order, for every #include that isn't
	// found relative to the including file itself.
	SearchPaths []string `toml:"search_paths"`
}

// DefaultProjectFile returns the configuration used when no mers.toml is
// present.
func DefaultProjectFile() *ProjectFile {
	return &ProjectFile{
		Runtime: RuntimeSettings{MaxSleepMillis: 0, Theme: "ansi"},
	}
}

// LoadProjectFile reads mers.toml from path, falling back to defaults
// (not an error) when the file does not exist.
func LoadProjectFile(path string) (*ProjectFile, error) {
	pf := DefaultProjectFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return pf, nil
	}
	if _, err := toml.DecodeFile(path, pf); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return pf, nil
}
