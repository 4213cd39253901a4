package loader

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, keeps the binary CGo-free

	"github.com/vellumlang/vellum/internal/config"
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/token"
)

// exportSummary is the serializable shape of a Package's signature-only
// surface: enough for a cross-compilation cache to answer "what does
// package X export" without re-running the inheritance/type passes
// that produced the original in-memory ir.Class/ir.Trait graph. A
// summary stores only each class/trait's name, final/abstract flags
// and declared supertype names; class bodies, the package's free
// functions and its globals are not stored.
type exportSummary struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Classes []classSummary `json:"classes"`
	Traits  []classSummary `json:"traits"`
}

type classSummary struct {
	Name       string   `json:"name"`
	Final      bool     `json:"final"`
	Abstract   bool     `json:"abstract"`
	Supertypes []string `json:"supertypes"`
}

// SQLiteCache fronts a Loader with a persistent on-disk cache of export
// summaries, keyed by package name, so repeated compilations of a
// large dependency graph don't re-derive every foreign package's
// surface from source each time.
//
// SQLiteCache caches only the flattened summary, not a live ir.Package;
// Resolve rehydrates classes/traits as opaque builtins-rooted defns
// with their declared (not yet transitively expanded) supertypes, the
// same shape the subtype and inheritance graphs expect from a foreign
// package vertex, registered without being expanded.
type SQLiteCache struct {
	db       *sql.DB
	builtins *ir.Builtins
	fallback Loader
}

// OpenSQLiteCache opens (creating if absent) a SQLite database at path
// and ensures its schema exists. fallback is consulted, and its result
// cached, whenever a requested package name is not yet in the cache.
func OpenSQLiteCache(path string, builtins *ir.Builtins, fallback Loader) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("loader: opening sqlite cache %s: %w", path, err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS package_exports (
		name TEXT PRIMARY KEY,
		summary TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("loader: initializing sqlite cache schema: %w", err)
	}
	return &SQLiteCache{db: db, builtins: builtins, fallback: fallback}, nil
}

func (c *SQLiteCache) Close() error { return c.db.Close() }

func (c *SQLiteCache) PackageNames() []string {
	rows, err := c.db.Query(`SELECT name FROM package_exports ORDER BY name`)
	if err != nil {
		return c.fallback.PackageNames()
	}
	defer rows.Close()
	seen := make(map[string]bool)
	var names []string
	for rows.Next() {
		var name string
		if rows.Scan(&name) == nil {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, n := range c.fallback.PackageNames() {
		if !seen[n] {
			names = append(names, n)
		}
	}
	return names
}

// Resolve serves name from the cache when present; otherwise it asks
// fallback, persists a summary of the result, and serves the freshly
// loaded Package directly (the in-memory value, not a rehydrated
// summary, so the first resolution of a package in a process never
// loses fidelity to a round trip through JSON).
func (c *SQLiteCache) Resolve(name string) (*Package, error) {
	row := c.db.QueryRow(`SELECT summary FROM package_exports WHERE name = ?`, name)
	var raw string
	switch err := row.Scan(&raw); err {
	case nil:
		return c.rehydrate(raw)
	case sql.ErrNoRows:
		pkg, err := c.fallback.Resolve(name)
		if err != nil {
			return nil, err
		}
		if err := c.store(pkg); err != nil {
			return nil, err
		}
		return pkg, nil
	default:
		return nil, fmt.Errorf("loader: sqlite cache lookup of %s: %w", name, err)
	}
}

func (c *SQLiteCache) store(pkg *Package) error {
	summary := exportSummary{ID: pkg.ID.String(), Name: pkg.Name}
	for _, cl := range pkg.Classes {
		summary.Classes = append(summary.Classes, summarizeDefn(cl))
	}
	for _, tr := range pkg.Traits {
		summary.Traits = append(summary.Traits, summarizeDefn(tr))
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("loader: marshaling export summary for %s: %w", pkg.Name, err)
	}
	_, err = c.db.Exec(
		`INSERT INTO package_exports (name, summary) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET summary = excluded.summary`,
		pkg.Name, string(data),
	)
	if err != nil {
		return fmt.Errorf("loader: caching export summary for %s: %w", pkg.Name, err)
	}
	return nil
}

func summarizeDefn(defn ir.ObjectTypeDefn) classSummary {
	cs := classSummary{
		Name:     defn.Name(),
		Final:    defn.Flags().Has(ir.Final),
		Abstract: defn.Flags().Has(ir.Abstract),
	}
	for _, s := range defn.Supertypes() {
		cs.Supertypes = append(cs.Supertypes, s.Class.Name())
	}
	return cs
}

// rehydrate rebuilds a Package from a cached summary. Classes/traits
// are reconstructed as bare shells: a name, flags, and a fully wired
// Supertypes list resolved against each other and against the builtin
// root classes. Methods, fields, and constructors are deliberately
// absent; a cached entry only ever serves the inheritance graph's
// need for a foreign vertex's identity and ancestry, never a
// cross-package member lookup, which this front-end does not perform.
func (c *SQLiteCache) rehydrate(raw string) (*Package, error) {
	var summary exportSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, fmt.Errorf("loader: unmarshaling cached export summary: %w", err)
	}
	id, err := uuid.Parse(summary.ID)
	if err != nil {
		id = uuid.New()
	}
	pkg := NewPackage(config.PackageID(id), summary.Name)

	type entry struct {
		cs      classSummary
		isTrait bool
	}
	byName := make(map[string]entry, len(summary.Classes)+len(summary.Traits))
	for _, cs := range summary.Classes {
		byName[cs.Name] = entry{cs, false}
	}
	for _, cs := range summary.Traits {
		byName[cs.Name] = entry{cs, true}
	}

	defns := make(map[string]ir.ObjectTypeDefn, len(byName))
	var resolveOne func(name string) ir.ObjectTypeDefn
	resolveOne = func(name string) ir.ObjectTypeDefn {
		if d, ok := defns[name]; ok {
			return d
		}
		e, ok := byName[name]
		if !ok {
			return c.builtinByName(name)
		}
		flags := ir.NewFlags(ir.Public)
		if e.cs.Final {
			flags = flags.With(ir.Final)
		}
		if e.cs.Abstract {
			flags = flags.With(ir.Abstract)
		}
		var defn ir.ObjectTypeDefn
		if e.isTrait {
			t := &ir.Trait{DefnID: ir.NewDefnID(), NameStr: e.cs.Name, FlagBits: flags, Position: token.NoPosition}
			pkg.Traits[e.cs.Name] = t
			defn = t
		} else {
			cl := &ir.Class{DefnID: ir.NewDefnID(), NameStr: e.cs.Name, FlagBits: flags, Position: token.NoPosition}
			pkg.Classes[e.cs.Name] = cl
			defn = cl
		}
		defns[name] = defn // registered before recursing so cycles in cached data terminate
		var supers []*ir.ClassType
		for _, sname := range e.cs.Supertypes {
			supers = append(supers, &ir.ClassType{Class: resolveOne(sname)})
		}
		defn.SetSupertypes(supers)
		return defn
	}
	for name := range byName {
		resolveOne(name)
	}
	return pkg, nil
}

func (c *SQLiteCache) builtinByName(name string) ir.ObjectTypeDefn {
	switch name {
	case "Nothing":
		return c.builtins.Nothing
	case "Exception":
		return c.builtins.Exception
	case "String":
		return c.builtins.String
	case "Package":
		return c.builtins.Package
	default:
		return c.builtins.Root
	}
}
