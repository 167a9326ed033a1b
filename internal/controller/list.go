// Package controller mediates between a list UI and the item store.
//
// A List holds the active filter text and the most recent result set. Each
// UI event runs one store operation to completion, caches its result and
// calls the Renderer. Store failures are logged and swallowed: the UI keeps
// showing the previous results and can inspect Err. A failed load leaves
// the results empty.
//
// A List is not safe for concurrent use; drive it from one event loop.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/idilsaglam/todolist/internal/logger"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store"
)

// ItemStore is the subset of a store backend the controller needs.
type ItemStore interface {
	FetchAll(ctx context.Context, filter string) ([]model.Item, error)
	Insert(ctx context.Context, name string) (model.Item, error)
	Delete(ctx context.Context, item model.Item) error
}

// Renderer redraws the list after a state change.
type Renderer interface {
	Render(items []model.Item)
}

// RenderFunc adapts a plain function to Renderer.
type RenderFunc func(items []model.Item)

func (f RenderFunc) Render(items []model.Item) { f(items) }

// IndexError reports a row index outside the current results. It means the
// caller is wired wrong.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index out of range: have %d, got %d", e.Len, e.Index)
}

type Option func(*List)

// WithRenderer sets the callback invoked after every state change.
func WithRenderer(r Renderer) Option {
	return func(l *List) { l.render = r }
}

// KeepFilterOnAdd makes OnAddRequested refresh with the active filter
// instead of resetting to the unfiltered list.
func KeepFilterOnAdd(keep bool) Option {
	return func(l *List) { l.keepFilterOnAdd = keep }
}

type List struct {
	store           ItemStore
	log             logger.Logger
	render          Renderer
	keepFilterOnAdd bool

	filter  string
	results []model.Item
	err     error
}

func NewList(store ItemStore, log logger.Logger, opts ...Option) *List {
	if log == nil {
		log = logger.NewNop()
	}
	l := &List{
		store:   store,
		log:     log,
		results: []model.Item{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetRenderer replaces the render callback.
func (l *List) SetRenderer(r Renderer) { l.render = r }

// OnLoad fetches the unfiltered list. On failure the results are emptied.
func (l *List) OnLoad(ctx context.Context) {
	l.filter = ""
	if !l.refresh(ctx) {
		l.results = []model.Item{}
	}
	l.notify()
}

// OnSearchTextChanged makes text the active filter and re-fetches.
func (l *List) OnSearchTextChanged(ctx context.Context, text string) {
	l.filter = text
	l.refresh(ctx)
	l.notify()
}

// OnAddRequested inserts name unless it is blank. Afterwards the list is
// reloaded unfiltered and the filter is cleared, unless KeepFilterOnAdd
// was set.
func (l *List) OnAddRequested(ctx context.Context, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	item, err := l.store.Insert(ctx, name)
	if err != nil {
		l.fail("insert item", err, logger.String("name", name))
		l.notify()
		return
	}
	l.log.Debug("item added", logger.String("id", item.ID))

	if !l.keepFilterOnAdd {
		l.filter = ""
	}
	l.refresh(ctx)
	l.notify()
}

// OnDeleteRequested deletes the item at index in the current results and
// re-fetches with the active filter. An item that is already gone also
// triggers the re-fetch so the rows catch up with the store.
func (l *List) OnDeleteRequested(ctx context.Context, index int) error {
	item, err := l.ItemAt(index)
	if err != nil {
		return err
	}
	if err := l.store.Delete(ctx, item); err != nil {
		l.fail("delete item", err, logger.String("id", item.ID), logger.Int("index", index))
		if errors.Is(err, store.ErrNotFound) && l.refresh(ctx) {
			// Still report the failed delete.
			l.err = err
		}
		l.notify()
		return nil
	}
	l.log.Debug("item deleted", logger.String("id", item.ID))

	l.refresh(ctx)
	l.notify()
	return nil
}

func (l *List) ItemAt(index int) (model.Item, error) {
	if index < 0 || index >= len(l.results) {
		return model.Item{}, &IndexError{Index: index, Len: len(l.results)}
	}
	return l.results[index], nil
}

func (l *List) Count() int { return len(l.results) }

func (l *List) Filter() string { return l.filter }

// Items returns a copy of the current results.
func (l *List) Items() []model.Item {
	out := make([]model.Item, len(l.results))
	copy(out, l.results)
	return out
}

// Err returns the last store failure, or nil if the latest store call
// succeeded.
func (l *List) Err() error { return l.err }

// refresh re-fetches with the active filter and reports whether it
// succeeded. On failure the previous results stay in place.
func (l *List) refresh(ctx context.Context) bool {
	items, err := l.store.FetchAll(ctx, l.filter)
	if err != nil {
		l.fail("fetch items", err, logger.String("filter", l.filter))
		return false
	}
	l.results = items
	l.err = nil
	return true
}

func (l *List) fail(msg string, err error, fields ...logger.Field) {
	l.err = err
	l.log.Error(msg, append(fields, logger.Error(err))...)
}

func (l *List) notify() {
	if l.render != nil {
		l.render.Render(l.Items())
	}
}
