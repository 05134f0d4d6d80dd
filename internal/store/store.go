// Package store persists work items in a local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/khartley/linchpin/internal/item"
)

// Store manages the SQLite connection and schema.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs the
// schema migration. WAL mode keeps concurrent readers cheap.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	// deps.depends_on carries no foreign key on purpose: dangling
	// dependency ids are legal data and are ignored at graph-build
	// time rather than rejected at write time.
	query := `
	CREATE TABLE IF NOT EXISTS items (
		id     TEXT PRIMARY KEY,
		title  TEXT NOT NULL,
		kind   TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS deps (
		item_id    TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		depends_on TEXT NOT NULL,
		PRIMARY KEY (item_id, depends_on)
	);

	CREATE INDEX IF NOT EXISTS idx_deps_depends_on ON deps(depends_on);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Put upserts an item and replaces its dependency list.
func (s *Store) Put(it item.Item) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO items (id, title, kind, status) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, kind=excluded.kind, status=excluded.status`,
		it.ID, it.Title, string(it.Kind), it.Status)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", it.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM deps WHERE item_id = ?`, it.ID); err != nil {
		return fmt.Errorf("clear deps for %s: %w", it.ID, err)
	}
	for _, dep := range it.DependsOn {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO deps (item_id, depends_on) VALUES (?, ?)`, it.ID, dep); err != nil {
			return fmt.Errorf("insert dep %s -> %s: %w", it.ID, dep, err)
		}
	}
	return tx.Commit()
}

// Get returns a single item, or nil if it does not exist.
func (s *Store) Get(id string) (*item.Item, error) {
	var it item.Item
	var kind string
	err := s.db.QueryRow(`SELECT id, title, kind, status FROM items WHERE id = ?`, id).
		Scan(&it.ID, &it.Title, &kind, &it.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query item %s: %w", id, err)
	}
	it.Kind = item.Kind(kind)

	rows, err := s.db.Query(`SELECT depends_on FROM deps WHERE item_id = ? ORDER BY depends_on`, id)
	if err != nil {
		return nil, fmt.Errorf("query deps for %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var dep string
		if err := rows.Scan(&dep); err != nil {
			return nil, fmt.Errorf("scan dep: %w", err)
		}
		it.DependsOn = append(it.DependsOn, dep)
	}
	return &it, rows.Err()
}

// SetStatus updates an item's status. Reports whether the item existed.
func (s *Store) SetStatus(id, status string) (bool, error) {
	res, err := s.db.Exec(`UPDATE items SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return false, fmt.Errorf("update status for %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddDep records that id depends on dependsOn. The item must exist;
// the target need not (dangling ids are tolerated downstream).
func (s *Store) AddDep(id, dependsOn string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO deps (item_id, depends_on) VALUES (?, ?)`, id, dependsOn)
	if err != nil {
		return fmt.Errorf("add dep %s -> %s: %w", id, dependsOn, err)
	}
	return nil
}

// RemoveDep removes a dependency edge. Reports whether it existed.
func (s *Store) RemoveDep(id, dependsOn string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM deps WHERE item_id = ? AND depends_on = ?`, id, dependsOn)
	if err != nil {
		return false, fmt.Errorf("remove dep %s -> %s: %w", id, dependsOn, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes an item and, via the cascade, its declared deps.
// Reports whether anything was removed.
func (s *Store) Delete(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns items filtered by kind and/or status; empty filters
// match everything. Sorted by id.
func (s *Store) List(kind, status string) ([]item.Item, error) {
	all, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	var out []item.Item
	for _, it := range all {
		if kind != "" && string(it.Kind) != kind {
			continue
		}
		if status != "" && it.Status != status {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LoadAll returns every item keyed by id, dependency lists populated.
// This is the snapshot the critical-path engine consumes.
func (s *Store) LoadAll() (map[string]item.Item, error) {
	rows, err := s.db.Query(`SELECT id, title, kind, status FROM items`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]item.Item)
	for rows.Next() {
		var it item.Item
		var kind string
		if err := rows.Scan(&it.ID, &it.Title, &kind, &it.Status); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Kind = item.Kind(kind)
		items[it.ID] = it
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	depRows, err := s.db.Query(`SELECT item_id, depends_on FROM deps ORDER BY item_id, depends_on`)
	if err != nil {
		return nil, fmt.Errorf("query deps: %w", err)
	}
	defer depRows.Close()
	for depRows.Next() {
		var id, dep string
		if err := depRows.Scan(&id, &dep); err != nil {
			return nil, fmt.Errorf("scan dep: %w", err)
		}
		it, ok := items[id]
		if !ok {
			continue
		}
		it.DependsOn = append(it.DependsOn, dep)
		items[id] = it
	}
	return items, depRows.Err()
}
