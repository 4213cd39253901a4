// Package loader is the read-only package-loader collaborator:
// cross-package name resolution for the class/trait/
// function/global exports of packages other than the one under
// compilation. It never participates in inheritance or type analysis
// directly; the analyzer asks it for a *Package and treats the result
// as already-resolved ir data.
package loader

import (
	"fmt"
	"sort"

	"github.com/vellumlang/vellum/internal/config"
	"github.com/vellumlang/vellum/internal/ir"
)

// Package is one compiled package's externally visible surface.
type Package struct {
	ID        config.PackageID
	Name      string
	Classes   map[string]*ir.Class
	Traits    map[string]*ir.Trait
	Functions map[string][]*ir.Function
	Globals   map[string]*ir.Global
}

func NewPackage(id config.PackageID, name string) *Package {
	return &Package{
		ID:        id,
		Name:      name,
		Classes:   make(map[string]*ir.Class),
		Traits:    make(map[string]*ir.Trait),
		Functions: make(map[string][]*ir.Function),
		Globals:   make(map[string]*ir.Global),
	}
}

// Loader resolves package names to their loaded exports. Implementations
// may be purely in-memory (tests, the demo harness) or cache-backed.
type Loader interface {
	PackageNames() []string
	Resolve(name string) (*Package, error)
}

// MemoryLoader is an in-memory Loader, populated ahead of time by
// whatever assembled the compilation (a build driver, a test fixture).
// It is the loader every test in this module uses.
type MemoryLoader struct {
	packages map[string]*Package
}

func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{packages: make(map[string]*Package)}
}

func (l *MemoryLoader) Add(pkg *Package) { l.packages[pkg.Name] = pkg }

func (l *MemoryLoader) PackageNames() []string {
	names := make([]string, 0, len(l.packages))
	for n := range l.packages {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (l *MemoryLoader) Resolve(name string) (*Package, error) {
	pkg, ok := l.packages[name]
	if !ok {
		return nil, fmt.Errorf("loader: unknown package %q", name)
	}
	return pkg, nil
}
