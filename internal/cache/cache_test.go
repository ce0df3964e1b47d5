package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir, 0)
	require.NoError(t, err)

	content := []byte("invoke[a, b]")

	t.Run("NotFound", func(t *testing.T) {
		assert.False(t, c.Fresh("missing.txt", content, "digest"))
	})

	t.Run("RecordAndFresh", func(t *testing.T) {
		c.Record("a.txt", content, "digest")
		assert.True(t, c.Fresh("a.txt", content, "digest"))

		entry, ok := c.Lookup("a.txt")
		require.True(t, ok)
		assert.Equal(t, HashContent(content), entry.Hash)
	})

	t.Run("ContentChanged", func(t *testing.T) {
		c.Record("b.txt", content, "digest")
		assert.False(t, c.Fresh("b.txt", []byte("call(a, b)"), "digest"))
	})

	t.Run("RulesChanged", func(t *testing.T) {
		c.Record("c.txt", content, "digest")
		assert.False(t, c.Fresh("c.txt", content, "other"))
	})

	t.Run("Forget", func(t *testing.T) {
		c.Record("d.txt", content, "digest")
		c.Forget("d.txt")
		assert.False(t, c.Fresh("d.txt", content, "digest"))
	})
}

func TestCachePersists(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir, 0)
	require.NoError(t, err)

	c.Record("a.txt", []byte("x"), "d1")
	require.NoError(t, c.Save())

	_, err = os.Stat(filepath.Join(dir, fileName))
	require.NoError(t, err)

	reopened, err := New(dir, 0)
	require.NoError(t, err)
	assert.True(t, reopened.Fresh("a.txt", []byte("x"), "d1"))
	assert.Equal(t, 1, reopened.Len())

	reopened.InvalidateAll()
	require.NoError(t, reopened.Save())

	again, err := New(dir, 0)
	require.NoError(t, err)
	assert.Zero(t, again.Len())
}

func TestCacheSaveWithoutChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c, err := New(dir, 0)
	require.NoError(t, err)
	require.NoError(t, c.Save())

	_, err = os.Stat(filepath.Join(dir, fileName))
	assert.True(t, os.IsNotExist(err))
}

func TestCacheCorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("not gob"), 0o644))

	_, err := New(dir, 0)
	assert.Error(t, err)
}

func TestCacheMaxAge(t *testing.T) {
	t.Parallel()

	c, err := New(t.TempDir(), time.Millisecond)
	require.NoError(t, err)

	c.Record("a.txt", []byte("x"), "d")
	time.Sleep(10 * time.Millisecond)
	assert.False(t, c.Fresh("a.txt", []byte("x"), "d"))
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()

	c, err := New(t.TempDir(), 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Record("shared.txt", []byte("x"), "d")
		}()
		go func() {
			defer wg.Done()
			_ = c.Fresh("shared.txt", []byte("x"), "d")
		}()
	}
	wg.Wait()

	assert.True(t, c.Fresh("shared.txt", []byte("x"), "d"))
	require.NoError(t, c.Save())
}
