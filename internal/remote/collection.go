package remote

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/roach88/atelier/internal/catalog"
	"github.com/roach88/atelier/internal/query"
	"github.com/roach88/atelier/internal/record"
)

// Collection is a typed accessor over one remote collection. It renders the
// catalog declaration (scope field, server sort) into structured query
// values and normalizes every decoded record, so callers never observe
// absent optional fields.
type Collection[T record.Of[T]] struct {
	client *Client
	def    catalog.Collection
}

// NewCollection binds a record type to its catalog declaration.
func NewCollection[T record.Of[T]](client *Client, def catalog.Collection) Collection[T] {
	return Collection[T]{client: client, def: def}
}

// List fetches the collection's records, filtered server-side by the scope
// key when the collection is scoped, sorted server-side per the catalog.
func (col Collection[T]) List(ctx context.Context, scope string) ([]T, error) {
	opts := query.Options{
		Sort: query.Sort{Field: col.def.Sort, Desc: col.def.SortDesc},
	}
	if col.def.Scoped() && scope != "" {
		opts.Filter = query.Filter{Field: col.def.ScopeField, Op: query.OpEq, Value: scope}
	}

	raws, err := col.client.List(ctx, col.def.Name, opts)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			slog.Debug("record decode failed", "collection", col.def.Name, "error", err)
			return nil, newError(ErrCodeNetwork, "list", col.def.Name)
		}
		items = append(items, item.Normalized())
	}
	return items, nil
}

// Create inserts a record and returns the server-confirmed, normalized
// record.
func (col Collection[T]) Create(ctx context.Context, payload any) (T, error) {
	var zero T
	raw, err := col.client.Create(ctx, col.def.Name, payload)
	if err != nil {
		return zero, err
	}
	return col.decode(raw, "create")
}

// Update patches a record and returns the server-confirmed, normalized
// record.
func (col Collection[T]) Update(ctx context.Context, id string, payload map[string]any) (T, error) {
	var zero T
	raw, err := col.client.Update(ctx, col.def.Name, id, payload)
	if err != nil {
		return zero, err
	}
	return col.decode(raw, "update")
}

// Delete removes a record.
func (col Collection[T]) Delete(ctx context.Context, id string) error {
	return col.client.Delete(ctx, col.def.Name, id)
}

func (col Collection[T]) decode(raw json.RawMessage, op string) (T, error) {
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		slog.Debug("record decode failed", "collection", col.def.Name, "op", op, "error", err)
		return item, newError(ErrCodeNetwork, op, col.def.Name)
	}
	return item.Normalized(), nil
}
