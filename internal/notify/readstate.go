package notify

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Storage keys within the client_state table.
const (
	readSetKey  = "notify.read"
	authFlagKey = "auth.ok"
)

// currentSchemaVersion is stamped into PRAGMA user_version after the schema
// applies, so later releases can migrate incrementally from any older file.
const currentSchemaVersion = 1

// ReadState is the durable client-side state store: the notification
// read-set and the auth flag. Uses SQLite with WAL mode.
//
// The read-set is a single keyed blob (a JSON array of identifiers).
// Read-modify-write is not atomic across concurrent processes; last
// writer wins.
type ReadState struct {
	db *sql.DB
}

// OpenReadState creates or opens the state database at the given path,
// creating parent directories as needed. Applies required pragmas and the
// schema automatically; idempotent.
func OpenReadState(path string) (*ReadState, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to state database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &ReadState{db: db}, nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version == currentSchemaVersion {
		return nil
	}

	// No incremental migrations yet; stamp the version so later releases
	// know what they are migrating from.
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (r *ReadState) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// LoadReadSet reads the durable read-set. An absent slot yields an empty
// set; a malformed blob is reset to empty rather than surfaced, with a
// warning logged.
func (r *ReadState) LoadReadSet() (map[string]struct{}, error) {
	set := make(map[string]struct{})

	var blob string
	err := r.db.QueryRow("SELECT value FROM client_state WHERE key = ?", readSetKey).Scan(&blob)
	if err == sql.ErrNoRows {
		return set, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load read-set: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(blob), &ids); err != nil {
		slog.Warn("corrupt read-set blob, resetting to empty", "error", err)
		return set, nil
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// SaveReadSet persists the read-set as a sorted JSON array.
func (r *ReadState) SaveReadSet(set map[string]struct{}) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	blob, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode read-set: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO client_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, readSetKey, string(blob))
	if err != nil {
		return fmt.Errorf("save read-set: %w", err)
	}
	return nil
}

// AuthFlag reads the durable auth flag. Absent or malformed means false.
func (r *ReadState) AuthFlag() (bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM client_state WHERE key = ?", authFlagKey).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load auth flag: %w", err)
	}
	return value == "true", nil
}

// SetAuthFlag persists the auth flag.
func (r *ReadState) SetAuthFlag(ok bool) error {
	value := "false"
	if ok {
		value = "true"
	}
	_, err := r.db.Exec(`
		INSERT INTO client_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, authFlagKey, value)
	if err != nil {
		return fmt.Errorf("save auth flag: %w", err)
	}
	return nil
}
