package search

import (
	"github.com/roach88/atelier/internal/catalog"
	"github.com/roach88/atelier/internal/record"
)

// newItem builds a searchable item whose display label and sublabel come
// from the catalog-designated fields, so a catalog override changes what
// results show without touching this package.
func newItem(def catalog.Collection, fields map[string]string, route record.Route) Item {
	return Item{
		Fields:   fields,
		Label:    fields[def.DisplayField],
		SubLabel: fields[def.SubLabelField],
		Route:    route,
	}
}

// Sources flattens the loaded entity collections into searchable sources,
// one per searchable catalog entry, in a fixed category order.
//
// Contacts carry a dedupe key - email, falling back to name - so the same
// person attached to several clients surfaces once. They also carry the
// back-reference to their owning client for click-through.
func Sources(
	cat *catalog.Catalog,
	clients []record.Client,
	contacts []record.Contact,
	evaluations []record.Evaluation,
	invoices []record.Invoice,
	variables []record.Variable,
) []Source {
	clientDef := cat.MustGet(catalog.Clients)
	contactDef := cat.MustGet(catalog.Contacts)
	evalDef := cat.MustGet(catalog.Evaluations)
	invoiceDef := cat.MustGet(catalog.Invoices)
	varDef := cat.MustGet(catalog.Variables)

	clientItems := make([]Item, 0, len(clients))
	for _, c := range clients {
		clientItems = append(clientItems, newItem(clientDef,
			map[string]string{"name": c.Name, "number": c.Number, "city": c.City},
			record.Route{Name: clientDef.Route, ParentID: c.ID},
		))
	}

	contactItems := make([]Item, 0, len(contacts))
	for _, c := range contacts {
		key := c.Email
		if key == "" {
			key = c.Name
		}
		item := newItem(contactDef,
			map[string]string{"name": c.Name, "email": c.Email},
			record.Route{Name: contactDef.Route, ParentID: c.ClientCode},
		)
		item.ParentID = c.ClientCode
		item.DedupeKey = key
		contactItems = append(contactItems, item)
	}

	evalItems := make([]Item, 0, len(evaluations))
	for _, e := range evaluations {
		evalItems = append(evalItems, newItem(evalDef,
			map[string]string{"label": e.Label, "type": e.Type},
			record.Route{Name: evalDef.Route, ParentID: e.ID},
		))
	}

	invoiceItems := make([]Item, 0, len(invoices))
	for _, i := range invoices {
		invoiceItems = append(invoiceItems, newItem(invoiceDef,
			map[string]string{"number": i.Number, "label": i.Label},
			record.Route{Name: invoiceDef.Route, ParentID: i.ID},
		))
	}

	varItems := make([]Item, 0, len(variables))
	for _, v := range variables {
		varItems = append(varItems, newItem(varDef,
			map[string]string{"key": v.Key, "label": v.Label},
			record.Route{Name: varDef.Route, ParentID: v.ClientCode},
		))
	}

	return []Source{
		{Category: catalog.Clients, Fields: clientDef.SearchFields, Items: clientItems},
		{Category: catalog.Contacts, Fields: contactDef.SearchFields, Items: contactItems},
		{Category: catalog.Evaluations, Fields: evalDef.SearchFields, Items: evalItems},
		{Category: catalog.Invoices, Fields: invoiceDef.SearchFields, Items: invoiceItems},
		{Category: catalog.Variables, Fields: varDef.SearchFields, Items: varItems},
	}
}
