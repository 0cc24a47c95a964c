package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/movewise/movewise/internal/errors"
)

// FileStore keeps each session as a JSON file in a base directory.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewStoreError("failed to create session directory", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes a sanitized snapshot of state for the session atomically.
func (fs *FileStore) Save(ctx context.Context, id string, state map[string]any) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if id == "" {
		return errors.NewStoreError("session ID cannot be empty", errors.ErrInvalidInput)
	}

	data, err := json.MarshalIndent(Sanitize(state), "", "  ")
	if err != nil {
		return errors.NewStoreError("failed to marshal session state", err).WithSession(id)
	}
	if err := atomicWriteFile(fs.path(id), data, 0644); err != nil {
		return errors.NewStoreError("failed to write session file", err).WithSession(id)
	}
	return nil
}

// Load reads the stored state for a session. Unknown IDs yield an empty map.
func (fs *FileStore) Load(ctx context.Context, id string) (map[string]any, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, errors.NewStoreError("failed to read session file", err).WithSession(id)
	}

	var state map[string]any
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.NewStoreError("invalid session file", errors.ErrSessionCorrupted).WithSession(id)
	}
	if state == nil {
		state = map[string]any{}
	}
	return state, nil
}

// List returns summaries for every stored session, newest first.
func (fs *FileStore) List(ctx context.Context) ([]Info, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewStoreError("failed to read session directory", err)
	}

	var infos []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			ID:        strings.TrimSuffix(name, ".json"),
			UpdatedAt: fi.ModTime(),
		})
	}

	sortInfos(infos)
	return infos, nil
}

// Delete removes a stored session.
func (fs *FileStore) Delete(ctx context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path(id)); err != nil {
		if os.IsNotExist(err) {
			return errors.NewStoreError("no such session", errors.ErrSessionNotFound).WithSession(id)
		}
		return errors.NewStoreError("failed to delete session file", err).WithSession(id)
	}
	return nil
}

// Close is a no-op for file-backed storage.
func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) path(id string) string {
	return filepath.Join(fs.dir, id+".json")
}

// sortInfos orders sessions by update time, newest first.
func sortInfos(infos []Info) {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
}

// atomicWriteFile writes data to path via a temp file and rename so the
// target is never in a partially-written state.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
