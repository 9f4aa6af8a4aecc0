package store

import (
	"github.com/roach88/atelier/internal/catalog"
	"github.com/roach88/atelier/internal/record"
	"github.com/roach88/atelier/internal/remote"
)

// Stores bundles one store per domain entity, wired to the remote
// collection store through the catalog declarations.
//
// Update policies per store: free-text-dominated entities keep optimistic
// values on failure (ReplaceInPlace); the variables dictionary reverts and
// refetches (set in NewDictStore).
type Stores struct {
	Clients     *Store[record.Client]
	Contacts    *Store[record.Contact]
	Notes       *Store[record.Note]
	Evaluations *Store[record.Evaluation]
	Invoices    *Store[record.Invoice]
	Variables   *DictStore
}

// NewStores wires every per-entity store against one remote client.
func NewStores(client *remote.Client, cat *catalog.Catalog) *Stores {
	return &Stores{
		Clients: New(
			remote.NewCollection[record.Client](client, cat.MustGet(catalog.Clients)),
			cat.MustGet(catalog.Clients),
		),
		Contacts: New(
			remote.NewCollection[record.Contact](client, cat.MustGet(catalog.Contacts)),
			cat.MustGet(catalog.Contacts),
		),
		Notes: New(
			remote.NewCollection[record.Note](client, cat.MustGet(catalog.Notes)),
			cat.MustGet(catalog.Notes),
		),
		Evaluations: New(
			remote.NewCollection[record.Evaluation](client, cat.MustGet(catalog.Evaluations)),
			cat.MustGet(catalog.Evaluations),
		),
		Invoices: New(
			remote.NewCollection[record.Invoice](client, cat.MustGet(catalog.Invoices)),
			cat.MustGet(catalog.Invoices),
		),
		Variables: NewDictStore(
			remote.NewCollection[record.Variable](client, cat.MustGet(catalog.Variables)),
			cat.MustGet(catalog.Variables),
		),
	}
}
