package flash

import (
	"sync"

	"toastd/internal/toast"
)

// Bag is an in-memory flash bag with Symfony-style semantics: Get and All
// consume, PeekAll and Has do not.
//
// It is safe for concurrent use.
type Bag struct {
	mu      sync.Mutex
	entries map[string][]toast.Value
	dirty   bool
}

var _ toast.FlashBag = (*Bag)(nil)

// NewBag returns a bag seeded with initial (which is copied).
func NewBag(initial map[string][]toast.Value) *Bag {
	return &Bag{entries: copyEntries(initial)}
}

func (b *Bag) Set(key string, values []toast.Value) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.entries == nil {
		b.entries = map[string][]toast.Value{}
	}
	if len(values) == 0 {
		delete(b.entries, key)
	} else {
		b.entries[key] = append([]toast.Value(nil), values...)
	}
	b.dirty = true
}

// Add appends one value under key, the way plain flashes are usually added.
func (b *Bag) Add(key string, v toast.Value) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.entries == nil {
		b.entries = map[string][]toast.Value{}
	}
	b.entries[key] = append(b.entries[key], v)
	b.dirty = true
}

func (b *Bag) Get(key string) []toast.Value {
	b.mu.Lock()
	defer b.mu.Unlock()
	vals, ok := b.entries[key]
	if !ok {
		return nil
	}
	delete(b.entries, key)
	b.dirty = true
	return vals
}

func (b *Bag) All() map[string][]toast.Value {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.entries
	if out == nil {
		out = map[string][]toast.Value{}
	}
	if len(b.entries) > 0 {
		b.dirty = true
	}
	b.entries = map[string][]toast.Value{}
	return out
}

func (b *Bag) PeekAll() map[string][]toast.Value {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyEntries(b.entries)
}

func (b *Bag) Has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.entries[key]
	return ok
}

// Len is the number of keys pending.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Dirty reports whether the bag changed since it was created.
func (b *Bag) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

func copyEntries(in map[string][]toast.Value) map[string][]toast.Value {
	out := make(map[string][]toast.Value, len(in))
	for k, v := range in {
		if len(v) == 0 {
			continue
		}
		out[k] = append([]toast.Value(nil), v...)
	}
	return out
}
