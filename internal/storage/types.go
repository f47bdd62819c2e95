package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrClosed     = errors.New("storage closed")
	ErrInvalidKey = errors.New("storage: invalid session id")
)

// Config configures storage.
//
// Driver values:
//   - "memory" (default when empty)
//   - "file": Path is a directory
//   - "sqlite": Path is the database file
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store is the persistence API used by the flash session cycle.
type Store interface {
	// Load returns the blob saved for id; ok=false when there is none.
	Load(ctx context.Context, id string) (data []byte, ok bool, err error)
	// Save replaces the blob for id. Empty data deletes it.
	Save(ctx context.Context, id string, data []byte) error
	Delete(ctx context.Context, id string) error
	// Prune removes sessions not saved since before and reports how many.
	Prune(ctx context.Context, before time.Time) (int, error)
	Close() error
}

// validKey guards file names and keeps ids boring: letters, digits, '-', '_'.
func validKey(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
