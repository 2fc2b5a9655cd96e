// Package storage persists the task list in a SQLite-backed key-value
// table. The rest of the program treats it as an opaque string store with
// two keys: the JSON task array and the sort preference.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"lista/internal/task"
)

const (
	keyTasks    = "tasks"
	keySortPref = "taskSortPreference"
)

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// LoadTasks returns the persisted task list. A missing key is a first run
// and yields an empty list.
func (s *Store) LoadTasks() ([]task.Task, error) {
	raw, ok, err := s.get(keyTasks)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var tasks []task.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) SaveTasks(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	if err := s.set(keyTasks, string(data)); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// LoadSortMode returns the persisted sort preference. A missing key or an
// unrecognized stored value yields SortManual.
func (s *Store) LoadSortMode() (task.SortMode, error) {
	raw, ok, err := s.get(keySortPref)
	if err != nil {
		return task.SortManual, fmt.Errorf("load sort preference: %w", err)
	}
	if !ok {
		return task.SortManual, nil
	}
	mode, err := task.ParseSortMode(raw)
	if err != nil {
		return task.SortManual, nil
	}
	return mode, nil
}

func (s *Store) SaveSortMode(mode task.SortMode) error {
	if err := s.set(keySortPref, string(mode)); err != nil {
		return fmt.Errorf("save sort preference: %w", err)
	}
	return nil
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, key, value)
	return err
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
