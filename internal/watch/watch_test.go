package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_RegeneratesChangedDocument(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "test.md")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(doc, []byte("# v1\n"), 0o600))

	var mu sync.Mutex
	var calls []string
	w, err := New([]string{doc}, func(_ context.Context, path string) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, path)
		return nil
	}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))
	for i := range 3 {
		require.NoError(t, os.WriteFile(doc, []byte{'#', ' ', byte('a' + i), '\n'}, 0o600))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) > 0
	}, 5*time.Second, 10*time.Millisecond)

	// let any stray timers fire
	time.Sleep(150 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{doc}, calls, "bursts are debounced into one regeneration")
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "doc.md")}, nil)
	require.Error(t, err)
}

func TestShouldIgnoreEvent(t *testing.T) {
	for _, p := range []string{"/d/.hidden.md", "/d/doc.md~", "/d/.doc.md.swp", "/d/doc.swx", "/d/#doc.md#"} {
		assert.True(t, shouldIgnoreEvent(p), p)
	}
	assert.False(t, shouldIgnoreEvent("/d/doc.md"))
}
