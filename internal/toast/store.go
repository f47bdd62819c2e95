package toast

import (
	"fmt"
	"sort"
	"strings"

	logx "toastd/pkg/logx"
)

// Store reads and writes toasts in one request's flash bag.
//
// A Store is request-scoped and not safe for concurrent use; the host's
// session layer serializes requests per session.
type Store struct {
	bag FlashBag
	svc *Service // nil for a bare store
	log logx.Logger
}

// NewStore returns a Store without app-wide defaults or events.
// Most callers want Service.Store.
func NewStore(bag FlashBag, log logx.Logger) *Store {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Store{bag: bag, log: log}
}

// AddMessage raises a toast. If the same status+message is already pending
// in the bag, the existing record is bumped instead of duplicated.
//
// Construction errors (ErrInvalidFormat) leave the bag untouched.
func (s *Store) AddMessage(status, message string, opts ...Option) error {
	status, err := normalizeStatus(status)
	if err != nil {
		return err
	}
	id := Identify(status, message)

	if r := s.GetMessage(id); r != nil {
		r.Bump(collect(opts).description)
		s.bag.Set(id, []Value{RecordValue(r)})
		s.publish(EventBumped, r)
		return nil
	}

	if s.svc != nil {
		if d, ok := s.svc.defaultTimeout(status); ok {
			opts = append([]Option{WithTimeout(d)}, opts...)
		}
	}
	r, err := NewRecord(id, status, message, opts...)
	if err != nil {
		return err
	}
	s.bag.Set(id, []Value{RecordValue(r)})
	s.publish(EventCreated, r)
	return nil
}

// GetMessage returns the record stored under id, or nil when the key is
// absent or holds something other than a record.
//
// Like FlashBag.Get, this consumes the entry.
func (s *Store) GetMessage(id string) *Record {
	vals := s.bag.Get(id)
	if len(vals) == 0 {
		return nil
	}
	r, _ := vals[0].AsRecord()
	return r
}

// GetAllMessages returns every pending toast keyed by id.
//
// With peek the bag is left as is; otherwise it is drained. Entries that are
// not records written by a Store (plain flashes from elsewhere in the host)
// are adapted: the key becomes the status and each element a message. A
// plain flash matching a pending toast counts as one more occurrence of it.
//
// If any legacy element cannot be turned into text, the whole call fails
// with ErrUnsupportedType. Without peek the bag has already been drained at
// that point.
func (s *Store) GetAllMessages(peek bool) (map[string]*Record, error) {
	var entries map[string][]Value
	if peek {
		entries = s.bag.PeekAll()
	} else {
		entries = s.bag.All()
	}
	if len(entries) == 0 {
		return map[string]*Record{}, nil
	}

	// Sorted so adaptation order (and failures) are deterministic.
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Records under their own id go first so legacy entries for the same
	// toast merge into them whatever the key order.
	out := make(map[string]*Record, len(entries))
	var legacy []string
	for _, key := range keys {
		vals := entries[key]
		if len(vals) == 0 {
			continue
		}
		if IsIdentifier(key) {
			if r, ok := vals[0].AsRecord(); ok {
				out[key] = r
				continue
			}
		}
		legacy = append(legacy, key)
	}

	for _, key := range legacy {
		for _, v := range entries[key] {
			if r, ok := v.AsRecord(); ok {
				if _, seen := out[r.ID()]; !seen {
					out[r.ID()] = r
				}
				continue
			}
			title, err := v.Title()
			if err != nil {
				return nil, fmt.Errorf("flash key %q: %w", key, err)
			}
			status := s.resolveStatus(key)
			id := Identify(status, title)
			if prev, ok := out[id]; ok {
				r := prev.bumped()
				out[id] = r
				s.publish(EventAdapted, r)
				continue
			}
			r, err := NewRecord(id, status, title)
			if err != nil {
				return nil, fmt.Errorf("flash key %q: %w", key, err)
			}
			out[id] = r
			s.publish(EventAdapted, r)
		}
	}
	return out, nil
}

// resolveStatus maps a legacy flash key to a status. Unknown statuses are
// logged and passed through so they render with the generic fallback.
func (s *Store) resolveStatus(key string) string {
	status := strings.ToLower(key)
	if KnownStatus(status) {
		return status
	}
	fields := []logx.Field{
		logx.String("status", status),
		logx.String("nearest", nearestStatus(status)),
	}
	if s.svc != nil {
		ok, suppressed := s.svc.allowWarn()
		s.svc.publishEvent(EventUnknownStatus, Event{Status: status, Suppressed: !ok})
		if !ok {
			return status
		}
		if suppressed > 0 {
			fields = append(fields, logx.Int("suppressed", suppressed))
		}
	}
	s.log.Warn("unsupported toast status", fields...)
	return status
}

// HasMessages reports whether anything is pending, without consuming.
func (s *Store) HasMessages() bool {
	return len(s.bag.PeekAll()) > 0
}

// HasMessage reports whether id exists in the bag, whatever it holds.
func (s *Store) HasMessage(id string) bool {
	return s.bag.Has(id)
}

func (s *Store) publish(typ string, r *Record) {
	if s.svc != nil {
		s.svc.publish(typ, r)
	}
}

// Ordered returns records in display order: first seen, then id.
func Ordered(records map[string]*Record) []*Record {
	out := make([]*Record, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].FirstSeenAt(), out[j].FirstSeenAt()
		if !a.Equal(b) {
			return a.Before(b)
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}
