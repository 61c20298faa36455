package store

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio.dev/internal/catalog"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects:\n  - {slug: first, title: First}\n"), 0o644))

	st := NewMemory()
	var reloads atomic.Int32
	w, err := NewWatcher(path, st, nil, func(context.Context) { reloads.Add(1) })
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	require.NoError(t, w.Reload(ctx))
	assertSlugs(t, st, "first")

	require.NoError(t, os.WriteFile(path, []byte("projects:\n  - {slug: second, title: Second}\n"), 0o644))
	require.Eventually(t, func() bool {
		got, _ := st.ListProjects(ctx, catalog.Criteria{})
		return len(got) == 1 && got[0].Slug == "second"
	}, 5*time.Second, 20*time.Millisecond)

	// a broken file keeps the previous content
	before := reloads.Load()
	require.NoError(t, os.WriteFile(path, []byte("projects: [broken"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assertSlugs(t, st, "second")
	assert.Equal(t, before, reloads.Load())

	// unrelated files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assertSlugs(t, st, "second")
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "seed.yaml"), NewMemory(), nil, nil)
	assert.Error(t, err)
}

func assertSlugs(t *testing.T, st Store, want ...string) {
	t.Helper()
	got, err := st.ListProjects(context.Background(), catalog.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, want, slugs(got))
}
