// Package sqlstore persists items in SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store"
)

type ItemStore struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db, now: time.Now, newID: uuid.NewString}
}

// containsFoldFunc is the SQL name of store.Matches. SQLite's own LOWER and
// LIKE fold ASCII letters only.
const containsFoldFunc = "contains_fold"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(containsFoldFunc, 2, containsFold); err != nil {
		panic(fmt.Sprintf("register %s: %v", containsFoldFunc, err))
	}
}

func containsFold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	name, _ := args[0].(string)
	filter, _ := args[1].(string)
	if store.Matches(name, filter) {
		return int64(1), nil
	}
	return int64(0), nil
}

// FetchAll returns every item whose name contains filter, ignoring case,
// oldest first.
func (s *ItemStore) FetchAll(ctx context.Context, filter string) ([]model.Item, error) {
	query := `SELECT id, name, created_at FROM items`
	var args []any
	if filter != "" {
		query += ` WHERE ` + containsFoldFunc + `(name, ?)`
		args = append(args, filter)
	}
	query += ` ORDER BY created_at ASC, rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.Fail("fetch", fmt.Errorf("failed to list items: %w", err))
	}
	defer func() { _ = rows.Close() }()

	items := []model.Item{}
	for rows.Next() {
		var (
			item    model.Item
			created int64
		)
		if err := rows.Scan(&item.ID, &item.Name, &created); err != nil {
			return nil, store.Fail("fetch", fmt.Errorf("failed to scan item: %w", err))
		}
		item.CreatedAt = time.Unix(0, created).UTC()
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, store.Fail("fetch", fmt.Errorf("error iterating items: %w", err))
	}

	return items, nil
}

func (s *ItemStore) Insert(ctx context.Context, name string) (model.Item, error) {
	item := model.Item{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, name, created_at) VALUES (?, ?, ?)
	`, item.ID, item.Name, item.CreatedAt.UnixNano())
	if err != nil {
		return model.Item{}, store.Fail("insert", fmt.Errorf("failed to create item: %w", err))
	}
	return item, nil
}

func (s *ItemStore) Delete(ctx context.Context, item model.Item) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM items WHERE id = ?
	`, item.ID)
	if err != nil {
		return store.Fail("delete", fmt.Errorf("failed to delete item: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return store.Fail("delete", fmt.Errorf("failed to get rows affected: %w", err))
	}

	if rowsAffected == 0 {
		return store.Fail("delete", store.ErrNotFound)
	}

	return nil
}

func (s *ItemStore) Close() error {
	return s.db.Close()
}
