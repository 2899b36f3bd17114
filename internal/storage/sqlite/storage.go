package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"

	"github.com/GintGld/showreel/internal/storage"
	"github.com/GintGld/showreel/migrations"
)

type Storage struct {
	db *sql.DB
}

// New opens sqlite database at storagePath.
// Schema is not touched, see Migrate.
func New(storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", dsn(storagePath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func dsn(storagePath string) string {
	sep := "?"
	if strings.Contains(storagePath, "?") {
		sep = "&"
	}
	return "file:" + storagePath + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func (s *Storage) Stop() error {
	return s.db.Close()
}

// Migrate applies embedded migrations.
// It is a no-op on an up to date schema.
func (s *Storage) Migrate() error {
	const op = "storage.sqlite.Migrate"

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer src.Close()

	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// migrate.Close would close s.db via the driver,
	// so only the source is released.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// mapErr translates driver errors
// into storage errors.
func mapErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return storage.ErrContextCancelled
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return storage.ErrExists
	}

	return err
}

func now() time.Time {
	return time.Now().UTC()
}

// updateSet collects "col = ?" pairs
// for fields present in a patch.
type updateSet struct {
	cols []string
	args []any
}

func set[T any](u *updateSet, col string, v *T) {
	if v == nil {
		return
	}
	u.cols = append(u.cols, col+" = ?")
	u.args = append(u.args, *v)
}

// query builds UPDATE statement which
// always bumps updated_at.
func (u *updateSet) query(table string, id string) (string, []any) {
	cols := append(u.cols, "updated_at = ?")
	args := append(u.args, now(), id)

	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(cols, ", ")), args
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execAffecting runs the statement and
// reports ErrNotFound if no rows changed.
func execAffecting(ctx context.Context, db execer, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}
