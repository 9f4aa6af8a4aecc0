package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	t.Run("all well-known collections present", func(t *testing.T) {
		for _, name := range []string{Clients, Contacts, Notes, Evaluations, Invoices, Variables} {
			_, err := cat.Get(name)
			assert.NoError(t, err, name)
		}
	})

	t.Run("notes are chronological prepend", func(t *testing.T) {
		notes := cat.MustGet(Notes)
		assert.Equal(t, OrderingPrepend, notes.Ordering)
		assert.Equal(t, "created", notes.Sort)
		assert.True(t, notes.SortDesc)
		assert.True(t, notes.Scoped())
	})

	t.Run("clients are unscoped server-sorted", func(t *testing.T) {
		clients := cat.MustGet(Clients)
		assert.Equal(t, OrderingServer, clients.Ordering)
		assert.False(t, clients.Scoped())
		assert.Equal(t, []string{"name", "number"}, clients.SearchFields)
	})

	t.Run("variables are the scoped dictionary", func(t *testing.T) {
		vars := cat.MustGet(Variables)
		assert.Equal(t, "clientCode", vars.ScopeField)
		assert.Equal(t, "key", vars.DisplayField)
	})

	t.Run("search fields capped at three", func(t *testing.T) {
		for _, col := range cat.All() {
			assert.LessOrEqual(t, len(col.SearchFields), 3, col.Name)
		}
	})
}

func TestLoadRejectsBadCatalog(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{
			"invalid ordering value",
			`collections: clients: {name: "clients", ordering: "sideways", route: "r"}`,
		},
		{
			"missing route",
			`collections: clients: {name: "clients"}`,
		},
		{
			"missing well-known collection",
			`collections: clients: {name: "clients", route: "client-detail"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load([]byte(tc.src))
			require.Error(t, err)
		})
	}
}

func TestLoadDir(t *testing.T) {
	t.Run("reads cue files against the embedded schema", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.cue"), catalogCUE, 0o644))

		cat, err := LoadDir(dir)
		require.NoError(t, err)
		assert.Equal(t, "clients", cat.MustGet(Clients).Name)
	})

	t.Run("empty dir errors", func(t *testing.T) {
		_, err := LoadDir(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .cue files")
	})

	t.Run("missing dir errors", func(t *testing.T) {
		_, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
		require.Error(t, err)
	})
}

func TestGetUnknownCollection(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	_, err = cat.Get("widgets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown collection")
}
