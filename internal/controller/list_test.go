package controller

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/idilsaglam/todolist/internal/logger"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store"
)

// fakeStore is an in-memory ItemStore with injectable failures.
type fakeStore struct {
	items     []model.Item
	next      time.Time
	seq       int
	fetchErr  error
	insertErr error
	deleteErr error

	fetches []string
	inserts []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{next: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeStore) FetchAll(_ context.Context, filter string) ([]model.Item, error) {
	f.fetches = append(f.fetches, filter)
	if f.fetchErr != nil {
		return nil, store.Fail("fetch", f.fetchErr)
	}
	var out []model.Item
	for _, it := range f.items {
		if store.Matches(it.Name, filter) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) Insert(_ context.Context, name string) (model.Item, error) {
	f.inserts = append(f.inserts, name)
	if f.insertErr != nil {
		return model.Item{}, store.Fail("insert", f.insertErr)
	}
	f.seq++
	item := model.Item{ID: fmt.Sprintf("id-%d", f.seq), Name: name, CreatedAt: f.next}
	f.next = f.next.Add(time.Second)
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeStore) Delete(_ context.Context, item model.Item) error {
	if f.deleteErr != nil {
		return store.Fail("delete", f.deleteErr)
	}
	for i, it := range f.items {
		if it.ID == item.ID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return store.Fail("delete", store.ErrNotFound)
}

// renderLog records every render call.
type renderLog struct {
	calls [][]string
}

func (r *renderLog) Render(items []model.Item) {
	r.calls = append(r.calls, names(items))
}

func (r *renderLog) last() []string {
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func names(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func newTestList(t *testing.T, s ItemStore, opts ...Option) (*List, *renderLog, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	r := &renderLog{}
	opts = append([]Option{WithRenderer(r)}, opts...)
	return NewList(s, logger.NewFromZap(zap.New(core)), opts...), r, logs
}

func seed(t *testing.T, s ItemStore, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := s.Insert(context.Background(), n)
		require.NoError(t, err)
	}
}

func TestListInitialState(t *testing.T) {
	l, r, _ := newTestList(t, newFakeStore())

	assert.Equal(t, 0, l.Count())
	assert.Equal(t, "", l.Filter())
	assert.NotNil(t, l.Items())
	assert.NoError(t, l.Err())
	assert.Empty(t, r.calls)
}

func TestListOnLoad(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk", "Buy eggs")
	l, r, _ := newTestList(t, fs)

	l.OnLoad(context.Background())

	assert.Equal(t, 2, l.Count())
	assert.Equal(t, []string{"Buy milk", "Buy eggs"}, names(l.Items()))
	assert.Equal(t, [][]string{{"Buy milk", "Buy eggs"}}, r.calls)
	assert.Equal(t, []string{""}, fs.fetches)
}

func TestListOnLoadIsIdempotent(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "a", "b", "c")
	l, _, _ := newTestList(t, fs)
	ctx := context.Background()

	l.OnLoad(ctx)
	first := l.Items()
	l.OnLoad(ctx)

	assert.Equal(t, first, l.Items())
}

func TestListOnLoadStoreError(t *testing.T) {
	fs := newFakeStore()
	fs.fetchErr = errors.New("unreadable")
	l, r, logs := newTestList(t, fs)

	l.OnLoad(context.Background())

	assert.Equal(t, 0, l.Count())
	assert.True(t, store.IsStoreError(l.Err()))
	require.Len(t, r.calls, 1)
	assert.Empty(t, r.calls[0])
	require.Equal(t, 1, logs.FilterMessage("fetch items").Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.FilterMessage("fetch items").All()[0].Level)
}

func TestListOnLoadStoreErrorEmptiesResults(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk", "Buy eggs")
	l, r, _ := newTestList(t, fs)
	ctx := context.Background()
	l.OnLoad(ctx)
	require.Equal(t, 2, l.Count())

	fs.fetchErr = errors.New("unreadable")
	l.OnLoad(ctx)

	assert.Equal(t, 0, l.Count())
	assert.NotNil(t, l.Items())
	assert.True(t, store.IsStoreError(l.Err()))
	assert.Empty(t, r.last())
}

func TestListOnLoadClearsFilter(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk", "Buy eggs")
	l, _, _ := newTestList(t, fs)
	ctx := context.Background()

	l.OnSearchTextChanged(ctx, "milk")
	l.OnLoad(ctx)

	assert.Equal(t, "", l.Filter())
	assert.Equal(t, 2, l.Count())
}

func TestListOnSearchTextChanged(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk", "Buy eggs", "Oat MILK")
	l, r, _ := newTestList(t, fs)
	ctx := context.Background()
	l.OnLoad(ctx)

	l.OnSearchTextChanged(ctx, "milk")
	assert.Equal(t, "milk", l.Filter())
	assert.Equal(t, []string{"Buy milk", "Oat MILK"}, names(l.Items()))
	assert.Equal(t, []string{"Buy milk", "Oat MILK"}, r.last())

	l.OnSearchTextChanged(ctx, "")
	assert.Equal(t, 3, l.Count())
}

func TestListOnSearchTextChangedStoreErrorKeepsStaleResults(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk", "Buy eggs")
	l, r, _ := newTestList(t, fs)
	ctx := context.Background()
	l.OnLoad(ctx)

	fs.fetchErr = errors.New("unreadable")
	l.OnSearchTextChanged(ctx, "milk")

	assert.Equal(t, "milk", l.Filter())
	assert.Equal(t, []string{"Buy milk", "Buy eggs"}, names(l.Items()))
	assert.Error(t, l.Err())
	assert.Len(t, r.calls, 2)

	fs.fetchErr = nil
	l.OnSearchTextChanged(ctx, "milk")
	assert.NoError(t, l.Err())
	assert.Equal(t, []string{"Buy milk"}, names(l.Items()))
}

func TestListOnAddRequested(t *testing.T) {
	fs := newFakeStore()
	l, r, _ := newTestList(t, fs)
	ctx := context.Background()
	l.OnLoad(ctx)

	l.OnAddRequested(ctx, "Buy milk")

	assert.Equal(t, []string{"Buy milk"}, fs.inserts)
	assert.Equal(t, []string{"Buy milk"}, names(l.Items()))
	assert.Equal(t, []string{"Buy milk"}, r.last())
}

func TestListOnAddRequestedRejectsBlank(t *testing.T) {
	fs := newFakeStore()
	l, r, _ := newTestList(t, fs)
	ctx := context.Background()

	for _, name := range []string{"", " ", "\t\n"} {
		l.OnAddRequested(ctx, name)
	}

	assert.Empty(t, fs.inserts)
	assert.Empty(t, fs.fetches)
	assert.Empty(t, r.calls)
	assert.Equal(t, 0, l.Count())
}

func TestListOnAddRequestedResetsFilter(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk", "Buy eggs")
	l, _, _ := newTestList(t, fs)
	ctx := context.Background()
	l.OnSearchTextChanged(ctx, "milk")

	l.OnAddRequested(ctx, "Walk dog")

	assert.Equal(t, "", l.Filter())
	assert.Equal(t, []string{"Buy milk", "Buy eggs", "Walk dog"}, names(l.Items()))
	assert.Equal(t, "", fs.fetches[len(fs.fetches)-1])
}

func TestListOnAddRequestedKeepFilter(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk", "Buy eggs")
	l, _, _ := newTestList(t, fs, KeepFilterOnAdd(true))
	ctx := context.Background()
	l.OnSearchTextChanged(ctx, "milk")

	l.OnAddRequested(ctx, "Oat milk")
	assert.Equal(t, "milk", l.Filter())
	assert.Equal(t, []string{"Buy milk", "Oat milk"}, names(l.Items()))

	l.OnAddRequested(ctx, "Walk dog")
	assert.Equal(t, []string{"Buy milk", "Oat milk"}, names(l.Items()))
}

func TestListOnAddRequestedStoreError(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk")
	l, r, logs := newTestList(t, fs)
	ctx := context.Background()
	l.OnLoad(ctx)
	fetches := len(fs.fetches)

	fs.insertErr = errors.New("disk full")
	l.OnAddRequested(ctx, "Buy eggs")

	assert.Equal(t, []string{"Buy milk"}, names(l.Items()))
	assert.Len(t, fs.fetches, fetches)
	assert.True(t, store.IsStoreError(l.Err()))
	assert.Len(t, r.calls, 2)
	entries := logs.FilterMessage("insert item").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Buy eggs", entries[0].ContextMap()["name"])
}

func TestListOnDeleteRequested(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk", "Buy eggs", "Oat milk")
	l, r, _ := newTestList(t, fs)
	ctx := context.Background()
	l.OnSearchTextChanged(ctx, "milk")

	require.NoError(t, l.OnDeleteRequested(ctx, 1))

	assert.Equal(t, "milk", l.Filter())
	assert.Equal(t, []string{"Buy milk"}, names(l.Items()))
	assert.Equal(t, []string{"Buy milk"}, r.last())
	assert.Equal(t, []string{"Buy milk", "Buy eggs"}, names(fs.items))
}

func TestListOnDeleteRequestedIndexError(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk")
	l, r, _ := newTestList(t, fs)
	ctx := context.Background()
	l.OnLoad(ctx)
	renders := len(r.calls)

	for _, idx := range []int{-1, 1, 5} {
		err := l.OnDeleteRequested(ctx, idx)
		var ie *IndexError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, idx, ie.Index)
		assert.Equal(t, 1, ie.Len)
	}
	assert.Len(t, fs.items, 1)
	assert.Len(t, r.calls, renders)
}

func TestListOnDeleteRequestedStoreError(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk", "Buy eggs")
	l, _, logs := newTestList(t, fs)
	ctx := context.Background()
	l.OnLoad(ctx)

	fs.deleteErr = errors.New("readonly")
	require.NoError(t, l.OnDeleteRequested(ctx, 0))

	assert.Equal(t, 2, l.Count())
	assert.True(t, store.IsStoreError(l.Err()))
	assert.Equal(t, 1, logs.FilterMessage("delete item").Len())
}

func TestListOnDeleteRequestedVanishedItem(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk")
	l, _, _ := newTestList(t, fs)
	ctx := context.Background()
	l.OnLoad(ctx)

	// Removed behind the controller's back.
	fs.items = nil
	require.NoError(t, l.OnDeleteRequested(ctx, 0))

	assert.ErrorIs(t, l.Err(), store.ErrNotFound)
	assert.Equal(t, 0, l.Count())
	assert.Equal(t, []string{"", ""}, fs.fetches)

	_, err := l.ItemAt(0)
	var ie *IndexError
	assert.ErrorAs(t, err, &ie)
}

func TestListItemAt(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk", "Buy eggs")
	l, _, _ := newTestList(t, fs)
	l.OnLoad(context.Background())

	item, err := l.ItemAt(1)
	require.NoError(t, err)
	assert.Equal(t, "Buy eggs", item.Name)

	_, err = l.ItemAt(2)
	assert.EqualError(t, err, "index out of range: have 2, got 2")
}

func TestListItemsIsACopy(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk")
	l, _, _ := newTestList(t, fs)
	l.OnLoad(context.Background())

	items := l.Items()
	items[0].Name = "changed"

	item, err := l.ItemAt(0)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", item.Name)
}

func TestListSetRendererAndRenderFunc(t *testing.T) {
	fs := newFakeStore()
	seed(t, fs, "Buy milk")
	l := NewList(fs, nil)
	var got []model.Item
	l.SetRenderer(RenderFunc(func(items []model.Item) { got = items }))

	l.OnLoad(context.Background())

	assert.Equal(t, []string{"Buy milk"}, names(got))
}
