package loader

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/token"
)

// manifestClass is one class/trait entry in a YAML package manifest.
// This is a stand-in for an already-parsed package loader: source
// parsing happens outside this repository, so cross-package fixtures for
// integration tests and the cmd/semcheck demo tool are expressed
// directly as flat YAML rather than round-tripped through a lexer and
// parser.
type manifestClass struct {
	Name       string   `yaml:"name"`
	Trait      bool     `yaml:"trait"`
	Final      bool     `yaml:"final"`
	Abstract   bool     `yaml:"abstract"`
	Supertypes []string `yaml:"supertypes"`
}

type manifestFunction struct {
	Name       string   `yaml:"name"`
	Params     []string `yaml:"params"`
	ReturnType string   `yaml:"return"`
}

// manifest is the on-disk shape of a package manifest: a name, the
// classes/traits it exports, and its free functions. Type references
// (supertypes, parameter/return types) are by bare name; only classes
// with no type parameters are representable, matching the scope of
// the fixtures this loader backs (cross-package generics would need
// the full declaration pass that lives outside this repository).
type manifest struct {
	Package   string             `yaml:"package"`
	Classes   []manifestClass    `yaml:"classes"`
	Functions []manifestFunction `yaml:"functions"`
}

// LoadManifest reads a YAML package manifest from path and resolves it
// into a *Package, wiring supertypes and function signatures against
// builtins plus whatever classes/traits the manifest itself declares.
// Forward references within one manifest (a class listing a supertype
// declared later in the same file) are supported; across manifests
// they are not; load dependency packages first.
func LoadManifest(path string, builtins *ir.Builtins, known map[string]*Package) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading manifest %s: %w", path, err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("loader: parsing manifest %s: %w", path, err)
	}
	pkg := NewPackage(uuid.New(), m.Package)

	resolveNamed := func(name string) (ir.ObjectTypeDefn, bool) {
		switch name {
		case "Object":
			return builtins.Root, true
		case "Nothing":
			return builtins.Nothing, true
		case "Exception":
			return builtins.Exception, true
		case "String":
			return builtins.String, true
		}
		if c, ok := pkg.Classes[name]; ok {
			return c, true
		}
		if t, ok := pkg.Traits[name]; ok {
			return t, true
		}
		for _, other := range known {
			if c, ok := other.Classes[name]; ok {
				return c, true
			}
			if t, ok := other.Traits[name]; ok {
				return t, true
			}
		}
		return nil, false
	}

	// Pass 1: declare every class/trait header so forward references
	// within the manifest resolve regardless of declaration order.
	for _, mc := range m.Classes {
		flags := ir.NewFlags(ir.Public)
		if mc.Final {
			flags = flags.With(ir.Final)
		}
		if mc.Abstract {
			flags = flags.With(ir.Abstract)
		}
		if mc.Trait {
			pkg.Traits[mc.Name] = &ir.Trait{DefnID: ir.NewDefnID(), NameStr: mc.Name, FlagBits: flags, Position: token.NoPosition}
		} else {
			pkg.Classes[mc.Name] = &ir.Class{DefnID: ir.NewDefnID(), NameStr: mc.Name, FlagBits: flags, Position: token.NoPosition}
		}
	}

	// Pass 2: wire declared (not yet transitively expanded, since that is
	// internal/inheritance's job, run later by a pipeline consuming
	// this loader's output) direct supertypes.
	for _, mc := range m.Classes {
		var supers []*ir.ClassType
		for _, sname := range mc.Supertypes {
			defn, ok := resolveNamed(sname)
			if !ok {
				return nil, fmt.Errorf("loader: %s: unknown supertype %q", mc.Name, sname)
			}
			supers = append(supers, &ir.ClassType{Class: defn})
		}
		if mc.Trait {
			pkg.Traits[mc.Name].SupertypeList = supers
		} else {
			pkg.Classes[mc.Name].SupertypeList = supers
		}
	}

	for _, mf := range m.Functions {
		params := make([]ir.Type, len(mf.Params))
		for i, pname := range mf.Params {
			t, ok := resolveTypeName(pname, resolveNamed)
			if !ok {
				return nil, fmt.Errorf("loader: function %s: unknown parameter type %q", mf.Name, pname)
			}
			params[i] = t
		}
		ret, ok := resolveTypeName(mf.ReturnType, resolveNamed)
		if !ok {
			return nil, fmt.Errorf("loader: function %s: unknown return type %q", mf.Name, mf.ReturnType)
		}
		fn := ir.NewFunction(mf.Name, nil, params, ret, ir.NewFlags(ir.Public), token.NoPosition)
		pkg.Functions[mf.Name] = append(pkg.Functions[mf.Name], fn)
	}

	return pkg, nil
}

func resolveTypeName(name string, resolveNamed func(string) (ir.ObjectTypeDefn, bool)) (ir.Type, bool) {
	switch name {
	case "", "unit":
		return ir.Primitive(ir.Unit), true
	case "boolean":
		return ir.Primitive(ir.Bool), true
	case "i8":
		return ir.Primitive(ir.I8), true
	case "i16":
		return ir.Primitive(ir.I16), true
	case "i32":
		return ir.Primitive(ir.I32), true
	case "i64":
		return ir.Primitive(ir.I64), true
	case "f32":
		return ir.Primitive(ir.F32), true
	case "f64":
		return ir.Primitive(ir.F64), true
	}
	defn, ok := resolveNamed(name)
	if !ok {
		return nil, false
	}
	return &ir.ClassType{Class: defn}, true
}

// ManifestLoader resolves package names to manifests loaded lazily
// from a directory, one <name>.yaml file per package, caching results
// so a diamond of manifest dependencies is only parsed once.
type ManifestLoader struct {
	dir      string
	builtins *ir.Builtins
	cache    map[string]*Package
}

func NewManifestLoader(dir string, builtins *ir.Builtins) *ManifestLoader {
	return &ManifestLoader{dir: dir, builtins: builtins, cache: make(map[string]*Package)}
}

func (l *ManifestLoader) PackageNames() []string {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, trimYAMLExt(e.Name()))
		}
	}
	return names
}

func (l *ManifestLoader) Resolve(name string) (*Package, error) {
	if pkg, ok := l.cache[name]; ok {
		return pkg, nil
	}
	path := l.dir + "/" + name + ".yaml"
	pkg, err := LoadManifest(path, l.builtins, l.cache)
	if err != nil {
		return nil, err
	}
	l.cache[name] = pkg
	return pkg, nil
}

func trimYAMLExt(name string) string {
	for _, suffix := range []string{".yaml", ".yml"} {
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}
