// Package jsonstore persists items as a JSON array in a single file.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store"
)

const DefaultFileName = "todos.json"

type ItemStore struct {
	path  string
	now   func() time.Time
	newID func() string
}

// New returns a store backed by the file at path. The file is created on the
// first insert; a missing file reads as an empty list.
func New(path string) *ItemStore {
	if path == "" {
		path = DefaultFileName
	}
	return &ItemStore{path: path, now: time.Now, newID: uuid.NewString}
}

func (s *ItemStore) load() ([]model.Item, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return items, nil
}

// save replaces the file atomically so a failed write never truncates it.
func (s *ItemStore) save(items []model.Item) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

func (s *ItemStore) FetchAll(_ context.Context, filter string) ([]model.Item, error) {
	items, err := s.load()
	if err != nil {
		return nil, store.Fail("fetch", err)
	}
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if store.Matches(it.Name, filter) {
			out = append(out, it)
		}
	}
	// File order is insertion order, so a stable sort breaks ties the same
	// way the SQLite backend does.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *ItemStore) Insert(_ context.Context, name string) (model.Item, error) {
	items, err := s.load()
	if err != nil {
		return model.Item{}, store.Fail("insert", err)
	}
	item := model.Item{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	items = append(items, item)
	if err := s.save(items); err != nil {
		return model.Item{}, store.Fail("insert", err)
	}
	return item, nil
}

func (s *ItemStore) Delete(_ context.Context, item model.Item) error {
	items, err := s.load()
	if err != nil {
		return store.Fail("delete", err)
	}
	idx := -1
	for i, it := range items {
		if it.ID == item.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.Fail("delete", store.ErrNotFound)
	}
	items = append(items[:idx], items[idx+1:]...)
	if err := s.save(items); err != nil {
		return store.Fail("delete", err)
	}
	return nil
}

func (s *ItemStore) Close() error { return nil }
