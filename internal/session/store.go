// Package session persists plan state between runs. A session is a JSON
// snapshot of the orchestrator's state keyed by session ID; the package
// ships a file-backed store and a SQLite-backed store behind one interface.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/movewise/movewise/internal/errors"
)

// Info summarizes a stored session without loading its state.
type Info struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists session state snapshots.
//
// Load returns an empty map for unknown session IDs so callers can resume
// or start a session with the same code path. Delete returns
// ErrSessionNotFound for unknown IDs.
type Store interface {
	Save(ctx context.Context, id string, state map[string]any) error
	Load(ctx context.Context, id string) (map[string]any, error)
	List(ctx context.Context) ([]Info, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open creates a Store of the given kind. "file" stores sessions as JSON
// files under dir; "sqlite" stores them in the database at sqlitePath.
func Open(kind, dir, sqlitePath string) (Store, error) {
	switch kind {
	case "", "file":
		return NewFileStore(dir)
	case "sqlite":
		return NewSQLiteStore(sqlitePath)
	default:
		return nil, errors.NewStoreError(
			fmt.Sprintf("unknown session store %q", kind), errors.ErrInvalidInput)
	}
}

// maxRawBytes is the largest []byte value stored verbatim. Bigger blobs are
// replaced with a size placeholder so snapshots stay readable.
const maxRawBytes = 1024

// Sanitize returns a copy of state in which every value is JSON-encodable.
// Values that cannot be marshaled are replaced with their fmt.Sprint
// rendering, and byte slices over maxRawBytes are replaced with a size
// placeholder. Nested maps are sanitized recursively.
func Sanitize(state map[string]any) map[string]any {
	out := make(map[string]any, len(state))
	for k, v := range state {
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return Sanitize(val)
	case []byte:
		if len(val) > maxRawBytes {
			return fmt.Sprintf("[%d bytes]", len(val))
		}
		return val
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprint(v)
	}
	return v
}
