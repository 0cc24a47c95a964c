package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movewise/movewise/internal/errors"
)

// storeFactories builds each Store implementation against a temp directory
// so the same behavioral tests run over both backends.
var storeFactories = map[string]func(t *testing.T) Store{
	"file": func(t *testing.T) Store {
		s, err := NewFileStore(t.TempDir())
		require.NoError(t, err)
		return s
	},
	"sqlite": func(t *testing.T) Store {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
		require.NoError(t, err)
		return s
	},
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()
			ctx := context.Background()

			state := map[string]any{
				"phase":  "running",
				"budget": 3000.0,
				"quotes": []any{map[string]any{"company": "QuickMove Pro", "price": 1400.0}},
			}
			require.NoError(t, store.Save(ctx, "sess-1", state))

			loaded, err := store.Load(ctx, "sess-1")
			require.NoError(t, err)
			assert.Equal(t, "running", loaded["phase"])
			assert.Equal(t, 3000.0, loaded["budget"])
			assert.Len(t, loaded["quotes"], 1)
		})
	}
}

func TestStoreLoadUnknownID(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()

			loaded, err := store.Load(context.Background(), "never-saved")
			require.NoError(t, err)
			assert.NotNil(t, loaded)
			assert.Empty(t, loaded)
		})
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()
			ctx := context.Background()

			require.NoError(t, store.Save(ctx, "sess-1", map[string]any{"phase": "initialized"}))
			require.NoError(t, store.Save(ctx, "sess-1", map[string]any{"phase": "summarized"}))

			loaded, err := store.Load(ctx, "sess-1")
			require.NoError(t, err)
			assert.Equal(t, "summarized", loaded["phase"])

			infos, err := store.List(ctx)
			require.NoError(t, err)
			assert.Len(t, infos, 1)
		})
	}
}

func TestStoreListAndDelete(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()
			ctx := context.Background()

			require.NoError(t, store.Save(ctx, "a", map[string]any{"n": 1.0}))
			require.NoError(t, store.Save(ctx, "b", map[string]any{"n": 2.0}))

			infos, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, infos, 2)
			ids := []string{infos[0].ID, infos[1].ID}
			assert.ElementsMatch(t, []string{"a", "b"}, ids)

			require.NoError(t, store.Delete(ctx, "a"))
			infos, err = store.List(ctx)
			require.NoError(t, err)
			require.Len(t, infos, 1)
			assert.Equal(t, "b", infos[0].ID)
		})
	}
}

func TestStoreDeleteUnknownID(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()

			err := store.Delete(context.Background(), "missing")
			assert.ErrorIs(t, err, errors.ErrSessionNotFound)
		})
	}
}

func TestStoreEmptyID(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()

			err := store.Save(context.Background(), "", map[string]any{})
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
		})
	}
}

func TestFileStoreCorruptedSession(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644))

	_, err = store.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, errors.ErrSessionCorrupted)
}

func TestFileStoreWritesPrettyJSON(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "sess", map[string]any{"phase": "running"}))

	data, err := os.ReadFile(filepath.Join(dir, "sess.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"phase\": \"running\"")
}

func TestSanitize(t *testing.T) {
	state := map[string]any{
		"plain":         "value",
		"unmarshalable": func() {}, // functions cannot be JSON encoded
		"nested": map[string]any{
			"blob": make([]byte, 2048),
		},
		"smallblob": []byte("ok"),
	}

	out := Sanitize(state)

	assert.Equal(t, "value", out["plain"])
	_, isString := out["unmarshalable"].(string)
	assert.True(t, isString, "unmarshalable values are replaced with their string rendering")

	nested, ok := out["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "[2048 bytes]", nested["blob"])
	assert.Equal(t, []byte("ok"), out["smallblob"])

	// Input state is not mutated.
	_, stillFunc := state["unmarshalable"].(string)
	assert.False(t, stillFunc)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("file", dir, "")
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	s.Close()

	s, err = Open("sqlite", "", filepath.Join(dir, "db", "sessions.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	_, err = Open("redis", dir, "")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
