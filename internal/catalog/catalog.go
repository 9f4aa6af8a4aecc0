// Package catalog loads the declarative collection registry.
//
// The registry is CUE: each remote collection declares its scope field,
// server sort, local ordering policy, search fields, and navigation route.
// The schema is enforced by CUE itself, so a malformed catalog fails at
// startup with a positioned error, never at operation time.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed catalog.cue
var catalogCUE []byte

// Ordering policies for optimistic creates.
const (
	// OrderingPrepend inserts new records at the front (chronological
	// latest-first collections).
	OrderingPrepend = "prepend"

	// OrderingServer appends new records and trusts the server sort on the
	// next fetch (alphabetically sorted catalog collections).
	OrderingServer = "server"
)

// Well-known collection names. These must match the catalog entries; Load
// verifies the catalog covers all of them.
const (
	Clients     = "clients"
	Contacts    = "contacts"
	Notes       = "notes"
	Evaluations = "evaluations"
	Invoices    = "invoices"
	Variables   = "variables"
)

// Collection describes how the client treats one remote collection.
type Collection struct {
	Name          string   `json:"name"`
	ScopeField    string   `json:"scopeField"`
	Sort          string   `json:"sort"`
	SortDesc      bool     `json:"sortDesc"`
	Ordering      string   `json:"ordering"`
	Route         string   `json:"route"`
	SearchFields  []string `json:"searchFields"`
	DisplayField  string   `json:"displayField"`
	SubLabelField string   `json:"subLabelField"`
}

// Scoped reports whether listings of this collection are filtered by a
// scope key.
func (c Collection) Scoped() bool {
	return c.ScopeField != ""
}

// Catalog is the loaded registry, keyed by collection name.
type Catalog struct {
	collections map[string]Collection
}

// Load compiles and validates the embedded catalog.
func Load() (*Catalog, error) {
	return load(catalogCUE)
}

// LoadDir compiles a catalog from every .cue file in dir, validated against
// the embedded schema. Used to override the built-in catalog for staging
// backends with extra or renamed collections.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	var src []byte
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		src = append(src, data...)
		src = append(src, '\n')
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("catalog dir %s contains no .cue files", dir)
	}

	return load(src)
}

// load unifies the schema with a data source and decodes the result.
// Split from Load so tests can feed alternative data under the same schema.
func load(src []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	joined := append(append([]byte{}, schemaCUE...), '\n')
	joined = append(joined, src...)

	value := ctx.CompileBytes(joined)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	var decoded struct {
		Collections map[string]Collection `json:"collections"`
	}
	if err := value.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	cat := &Catalog{collections: decoded.Collections}

	// Every collection the stores are built on must be declared.
	required := []string{Clients, Contacts, Notes, Evaluations, Invoices, Variables}
	for _, name := range required {
		if _, ok := cat.collections[name]; !ok {
			return nil, fmt.Errorf("catalog is missing collection %q", name)
		}
	}

	return cat, nil
}

// Get returns the declaration for a collection name.
func (c *Catalog) Get(name string) (Collection, error) {
	col, ok := c.collections[name]
	if !ok {
		return Collection{}, fmt.Errorf("unknown collection %q", name)
	}
	return col, nil
}

// MustGet returns the declaration for a well-known collection name.
// Panics on unknown names; Load already guarantees the well-known set.
func (c *Catalog) MustGet(name string) Collection {
	col, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return col
}

// All returns every declaration, sorted by name for deterministic
// iteration.
func (c *Catalog) All() []Collection {
	out := make([]Collection, 0, len(c.collections))
	for _, col := range c.collections {
		out = append(out, col)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
