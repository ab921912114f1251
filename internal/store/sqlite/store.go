// Package sqlite implements the store contracts on top of database/sql and
// the pure-Go modernc SQLite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/isdelr/task-manager-be/internal/database"
	"github.com/isdelr/task-manager-be/internal/store"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store is a SQLite-backed store.Store.
type Store struct {
	db          *sql.DB
	users       *UserStore
	tasks       *TaskStore
	revocations *RevocationStore
}

// Open opens the database file at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := database.New(path)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{
		db:          db,
		users:       &UserStore{db: db},
		tasks:       &TaskStore{db: db},
		revocations: &RevocationStore{db: db},
	}
}

func (s *Store) Users() store.UserStore             { return s.users }
func (s *Store) Tasks() store.TaskStore             { return s.tasks }
func (s *Store) Revocations() store.RevocationStore { return s.revocations }

// Close closes the underlying database.
func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var se *sqlitedrv.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}
