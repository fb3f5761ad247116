package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportvault/internal/config"
)

const testHash = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func newTestStore(t *testing.T) ContentStore {
	t.Helper()
	store, err := NewFilesystem(config.StorageConfig{Root: t.TempDir()})
	require.NoError(t, err)
	return store
}

func TestFilesystem_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	loc, err := store.Put(ctx, "report-1", testHash, "pdf", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "report-1/"+testHash+".pdf", loc)

	got, err := store.Get(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestFilesystem_PutEmptyPayload(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// SHA-256 of the empty string; a zero-byte blob is still a valid object.
	emptyHash := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	loc, err := store.Put(ctx, "report-1", emptyHash, "txt", nil)
	require.NoError(t, err)

	got, err := store.Get(ctx, loc)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFilesystem_PutOverwriteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Put(ctx, "report-1", testHash, "pdf", []byte("hello"))
	require.NoError(t, err)

	second, err := store.Put(ctx, "report-1", testHash, "pdf", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	got, err := store.Get(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestFilesystem_PutInvalidNamespace(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	tests := []struct {
		name      string
		namespace string
	}{
		{"empty", ""},
		{"dot dot", ".."},
		{"contains slash", "a/b"},
		{"contains backslash", `a\b`},
		{"contains dot", "report.1"},
		{"contains space", "report 1"},
		{"absolute", "/etc"},
		{"too long", strings.Repeat("a", 129)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Put(ctx, tt.namespace, testHash, "pdf", []byte("x"))
			assert.ErrorIs(t, err, ErrInvalidNamespace)
		})
	}
}

func TestFilesystem_PutInvalidHash(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"uppercase", strings.ToUpper(testHash)},
		{"non hex", "zz24dba5fb0a30e26e83b2ac5b9e29e1"},
		{"path chars", "../" + testHash},
		{"too long", strings.Repeat("a", 129)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Put(ctx, "report-1", tt.hash, "pdf", []byte("x"))
			assert.ErrorIs(t, err, ErrInvalidLocation)
		})
	}
}

func TestFilesystem_ExtensionSanitized(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	tests := []struct {
		name      string
		extension string
		wantLoc   string
	}{
		{"plain", "pdf", "report-1/" + testHash + ".pdf"},
		{"leading dot stripped", ".pdf", "report-1/" + testHash + ".pdf"},
		{"uppercased lowered", "PDF", "report-1/" + testHash + ".pdf"},
		{"empty dropped", "", "report-1/" + testHash},
		{"traversal dropped", "../../x", "report-1/" + testHash},
		{"too long dropped", "abcdefghi", "report-1/" + testHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := store.Put(ctx, "report-1", testHash, tt.extension, []byte("x"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantLoc, loc)
		})
	}
}

func TestFilesystem_GetMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Get(ctx, "report-1/"+testHash+".pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystem_GetInvalidLocation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	tests := []struct {
		name     string
		location string
	}{
		{"empty", ""},
		{"absolute", "/etc/passwd"},
		{"traversal", "../secrets"},
		{"nested traversal", "report-1/../../secrets"},
		{"backslash", `report-1\file`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Get(ctx, tt.location)
			assert.ErrorIs(t, err, ErrInvalidLocation)
		})
	}
}

func TestFilesystem_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	loc, err := store.Put(ctx, "report-1", testHash, "pdf", []byte("hello"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, loc))

	_, err = store.Get(ctx, loc)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an already-gone object succeeds.
	assert.NoError(t, store.Delete(ctx, loc))
}

func TestFilesystem_NoTempFilesLeftBehind(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewFilesystem(config.StorageConfig{Root: root})
	require.NoError(t, err)

	_, err = store.Put(ctx, "report-1", testHash, "pdf", []byte("hello"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "report-1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testHash+".pdf", entries[0].Name())
}

func TestNewFilesystem_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "blobs")
	_, err := NewFilesystem(config.StorageConfig{Root: root})
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewFilesystem_EmptyRoot(t *testing.T) {
	_, err := NewFilesystem(config.StorageConfig{Root: ""})
	assert.Error(t, err)
}
