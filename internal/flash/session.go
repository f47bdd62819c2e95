package flash

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"toastd/internal/storage"
	"toastd/internal/toast"
)

var ErrInvalidSession = errors.New("flash: invalid session id")

// NewSessionID returns a fresh random session id.
func NewSessionID() string { return uuid.NewString() }

// ValidSessionID reports whether id looks like NewSessionID output.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Session is one request's view of a stored flash bag.
type Session struct {
	ID  string
	Bag *Bag

	store storage.Store
}

// Begin loads the bag for id. An empty id starts a new session.
func Begin(ctx context.Context, st storage.Store, id string) (*Session, error) {
	if id == "" {
		id = NewSessionID()
	} else if !ValidSessionID(id) {
		return nil, fmt.Errorf("%q: %w", id, ErrInvalidSession)
	}

	b, ok, err := st.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load flash session: %w", err)
	}
	entries := map[string][]toast.Value{}
	if ok {
		decoded, err := Decode(b)
		if err != nil {
			return nil, fmt.Errorf("decode flash session %s: %w", id, err)
		}
		entries = decoded
	}
	return &Session{ID: id, Bag: NewBag(entries), store: st}, nil
}

// Commit writes back what is left in the bag. An empty bag deletes the
// stored session. Untouched bags are not rewritten.
func (s *Session) Commit(ctx context.Context) error {
	if !s.Bag.Dirty() {
		return nil
	}
	entries := s.Bag.PeekAll()
	if len(entries) == 0 {
		return s.store.Delete(ctx, s.ID)
	}
	b, err := Encode(entries)
	if err != nil {
		return fmt.Errorf("encode flash session %s: %w", s.ID, err)
	}
	return s.store.Save(ctx, s.ID, b)
}
