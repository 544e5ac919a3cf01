package units

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Dummi26/mers/internal/lexer"
	"github.com/Dummi26/mers/internal/parsed"
	"github.com/Dummi26/mers/internal/run"
	"github.com/Dummi26/mers/internal/token"
)

// Registry resolves, parses, compiles, and caches `#include` targets for
// one Config's worth of compilation. A single Registry is shared across
// every file compiled against the same root CompInfo, so a file included
// from two places compiles once.
//
// Grounded on the teacher's internal/units registry_test.go UnitRegistry,
// stripped of everything tied to Pascal's named-unit model: no
// RegisterUnit/ListUnits (mers includes have no separate registration
// step from loading), no ComputeInitializationOrder (mers has no `uses`
// dependency graph to topologically sort -- #include splices source
// textually, in the order it's written).
type Registry struct {
	mu          sync.Mutex
	searchPaths []string
	cache       *Cache
	loading     map[string]bool
}

// NewRegistry creates a Registry that searches searchPaths (in order)
// for includes not found relative to the including file.
func NewRegistry(searchPaths []string) *Registry {
	return &Registry{
		searchPaths: searchPaths,
		cache:       NewCache(),
		loading:     map[string]bool{},
	}
}

// Cache exposes the Registry's underlying Cache, e.g. for metrics or
// tests.
func (r *Registry) Cache() *Cache { return r.cache }

// InvalidateCache evicts path's cached compile result.
func (r *Registry) InvalidateCache(path string) { r.cache.Invalidate(path) }

// ClearCache evicts every cached compile result.
func (r *Registry) ClearCache() { r.cache.Clear() }

// Includer returns a parsed.CompInfo.Includer closure that resolves,
// parses, and compiles `#include` targets written inside the file
// located at fromDir, sharing comp's scope table (so an included file
// sees every name visible at the #include site). ParseProgram always
// yields a Block, which Compile wraps in its own child scope, so the
// included file's top-level declarations are scoped to that Block and
// are not visible to the file that included it; no extra scope
// bookkeeping is needed here.
//
// Before compiling the target, a closure of the same kind rooted at the
// included file's directory is installed as comp.Includer, and the
// caller's Includer is restored afterward, so a three-level include
// chain resolves each hop relative to its own file's directory.
func (r *Registry) Includer(fromDir string, comp *parsed.CompInfo) func(path string, at token.Range) (run.Stmt, error) {
	return func(path string, at token.Range) (run.Stmt, error) {
		resolved, err := FindInclude(path, fromDir, r.searchPaths)
		if err != nil {
			return nil, fmt.Errorf("#include %q at %v: %w", path, at, err)
		}

		r.mu.Lock()
		if r.loading[resolved] {
			r.mu.Unlock()
			return nil, fmt.Errorf("#include %q at %v: circular include", path, at)
		}
		if stmt, ok := r.cache.Get(resolved); ok {
			r.mu.Unlock()
			return stmt, nil
		}
		r.loading[resolved] = true
		r.mu.Unlock()
		defer func() {
			r.mu.Lock()
			delete(r.loading, resolved)
			r.mu.Unlock()
		}()

		info, err := os.Stat(resolved)
		if err != nil {
			return nil, fmt.Errorf("#include %q at %v: %w", path, at, err)
		}
		src, err := os.ReadFile(resolved)
		if err != nil {
			return nil, fmt.Errorf("#include %q at %v: %w", path, at, err)
		}

		p := parsed.New(lexer.New(string(src)))
		prog := p.ParseProgram()
		if errs := p.Errors(); len(errs) != 0 {
			return nil, fmt.Errorf("#include %q at %v: parse errors: %v", path, at, errs)
		}

		prevIncluder := comp.Includer
		comp.Includer = r.Includer(filepath.Dir(resolved), comp)
		stmt, err := parsed.Compile(prog, comp)
		comp.Includer = prevIncluder
		if err != nil {
			return nil, fmt.Errorf("#include %q at %v: %w", path, at, err)
		}

		r.cache.Put(resolved, stmt, info.ModTime())
		return stmt, nil
	}
}
