package units

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dummi26/mers/internal/lexer"
	"github.com/Dummi26/mers/internal/parsed"
)

// --- Cache ---

func TestCachePutGetRoundTrips(t *testing.T) {
	c := NewCache()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mers")
	if err := os.WriteFile(path, []byte("1"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	c.Put(path, nil, info.ModTime())
	if _, ok := c.Get(path); !ok {
		t.Fatalf("expected cache hit")
	}
	if c.Size() != 1 {
		t.Fatalf("got size %d", c.Size())
	}
}

func TestCacheInvalidatesOnModification(t *testing.T) {
	c := NewCache()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mers")
	if err := os.WriteFile(path, []byte("1"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	info, _ := os.Stat(path)
	c.Put(path, nil, info.ModTime())

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if _, ok := c.Get(path); ok {
		t.Fatalf("expected stale entry to be evicted")
	}
	if c.Size() != 0 {
		t.Fatalf("expected eviction to shrink cache, got size %d", c.Size())
	}
}

func TestCacheInvalidatesOnDeletion(t *testing.T) {
	c := NewCache()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mers")
	os.WriteFile(path, []byte("1"), 0o644)
	info, _ := os.Stat(path)
	c.Put(path, nil, info.ModTime())
	os.Remove(path)
	if _, ok := c.Get(path); ok {
		t.Fatalf("expected deleted file to miss cache")
	}
}

func TestCacheClearAndInvalidate(t *testing.T) {
	c := NewCache()
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.mers")
	p2 := filepath.Join(dir, "b.mers")
	os.WriteFile(p1, []byte("1"), 0o644)
	os.WriteFile(p2, []byte("2"), 0o644)
	i1, _ := os.Stat(p1)
	i2, _ := os.Stat(p2)
	c.Put(p1, nil, i1.ModTime())
	c.Put(p2, nil, i2.ModTime())

	c.Invalidate(p1)
	if _, ok := c.Get(p1); ok {
		t.Fatalf("p1 should be invalidated")
	}
	if _, ok := c.Get(p2); !ok {
		t.Fatalf("p2 should remain")
	}

	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("expected empty cache after Clear, got %d", c.Size())
	}
}

// --- search ---

func TestFindIncludeRelativeToIncludingFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "lib.mers")
	os.WriteFile(target, []byte("1"), 0o644)

	resolved, err := FindInclude("lib.mers", dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.Abs(target)
	if resolved != want {
		t.Fatalf("got %q want %q", resolved, want)
	}
}

func TestFindIncludeFallsBackToSearchPaths(t *testing.T) {
	libDir := t.TempDir()
	target := filepath.Join(libDir, "util.mers")
	os.WriteFile(target, []byte("1"), 0o644)

	callerDir := t.TempDir()
	resolved, err := FindInclude("util.mers", callerDir, []string{libDir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.Abs(target)
	if resolved != want {
		t.Fatalf("got %q want %q", resolved, want)
	}
}

func TestFindIncludeNotFoundReportsSearchedPaths(t *testing.T) {
	_, err := FindInclude("missing.mers", t.TempDir(), []string{t.TempDir()})
	if err == nil {
		t.Fatalf("expected an error")
	}
}

// --- Registry / Includer ---

func TestIncluderCompilesAndCachesTarget(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "lib.mers")
	os.WriteFile(libPath, []byte("1"), 0o644)

	reg := NewRegistry(nil)
	comp := parsed.NewCompInfo()
	comp.Includer = reg.Includer(dir, comp)

	p := parsed.New(lexer.New(`#include "lib.mers"`))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if _, err := parsed.Compile(prog, comp); err != nil {
		t.Fatalf("compile error: %v", err)
	}

	resolved, _ := filepath.Abs(libPath)
	if reg.Cache().Size() != 1 {
		t.Fatalf("expected the include to be cached")
	}
	if _, ok := reg.Cache().Get(resolved); !ok {
		t.Fatalf("expected a cache hit for %s", resolved)
	}
}

func TestIncluderDetectsCircularInclude(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mers")
	b := filepath.Join(dir, "b.mers")
	os.WriteFile(a, []byte(`#include "b.mers"`), 0o644)
	os.WriteFile(b, []byte(`#include "a.mers"`), 0o644)

	reg := NewRegistry(nil)
	comp := parsed.NewCompInfo()
	comp.Includer = reg.Includer(dir, comp)

	p := parsed.New(lexer.New(`#include "a.mers"`))
	prog := p.ParseProgram()
	if _, err := parsed.Compile(prog, comp); err == nil {
		t.Fatalf("expected a circular-include error")
	}
}

func TestIncluderReportsMissingFile(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry(nil)
	comp := parsed.NewCompInfo()
	comp.Includer = reg.Includer(dir, comp)

	p := parsed.New(lexer.New(`#include "missing.mers"`))
	prog := p.ParseProgram()
	if _, err := parsed.Compile(prog, comp); err == nil {
		t.Fatalf("expected a not-found error")
	}
}

func TestRegistryInvalidateAndClearCache(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "lib.mers")
	os.WriteFile(libPath, []byte("1"), 0o644)
	resolved, _ := filepath.Abs(libPath)

	reg := NewRegistry(nil)
	comp := parsed.NewCompInfo()
	comp.Includer = reg.Includer(dir, comp)
	p := parsed.New(lexer.New(`#include "lib.mers"`))
	parsed.Compile(p.ParseProgram(), comp)

	reg.InvalidateCache(resolved)
	if _, ok := reg.Cache().Get(resolved); ok {
		t.Fatalf("expected invalidated entry to miss")
	}

	comp2 := parsed.NewCompInfo()
	comp2.Includer = reg.Includer(dir, comp2)
	p2 := parsed.New(lexer.New(`#include "lib.mers"`))
	parsed.Compile(p2.ParseProgram(), comp2)
	reg.ClearCache()
	if reg.Cache().Size() != 0 {
		t.Fatalf("expected ClearCache to empty the cache")
	}
}
