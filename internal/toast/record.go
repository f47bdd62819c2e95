package toast

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// clock is swapped in tests.
var clock = time.Now

// Occurrence is one sighting of a toast.
type Occurrence struct {
	At          time.Time `json:"at"`
	Description *string   `json:"description,omitempty"`
}

// Record is one logical toast and every time it was raised during the
// current flash lifetime.
//
// Records are not safe for concurrent mutation; a Store is request-scoped.
type Record struct {
	id      string
	status  string
	message string
	icon    string
	compact bool

	timeout    time.Duration
	hasTimeout bool

	occurrences []Occurrence
}

// Option configures a toast when it is added or constructed.
type Option func(*options)

type options struct {
	description string
	compact     bool
	timeout     time.Duration
	hasTimeout  bool
	icon        string
}

// WithDescription attaches a description. Inline markup (<b>, <code>, <a>, ...)
// is kept; everything else is stripped.
func WithDescription(description string) Option {
	return func(o *options) { o.description = description }
}

// WithCompact renders the toast in compact form.
func WithCompact(compact bool) Option {
	return func(o *options) { o.compact = compact }
}

// WithTimeout sets the auto-dismiss delay. Danger toasts ignore it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		o.timeout, o.hasTimeout = d, true
	}
}

// WithIcon overrides the icon key, which defaults to the status.
func WithIcon(icon string) Option {
	return func(o *options) { o.icon = icon }
}

func collect(opts []Option) options {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// NewRecord builds a record and records its first occurrence.
//
// status must be ASCII letters only; it is lower-cased. icon may additionally
// contain ':', '.' and '-'. message is HTML-escaped.
func NewRecord(id, status, message string, opts ...Option) (*Record, error) {
	o := collect(opts)

	st, err := normalizeStatus(status)
	if err != nil {
		return nil, err
	}
	icon, err := normalizeIcon(o.icon)
	if err != nil {
		return nil, err
	}

	r := &Record{
		id:         id,
		status:     st,
		message:    escapeMessage(message),
		icon:       icon,
		compact:    o.compact,
		timeout:    o.timeout,
		hasTimeout: o.hasTimeout,
	}
	r.Bump(o.description)
	return r, nil
}

func normalizeStatus(status string) (string, error) {
	if !isAlpha(status) {
		return "", fmt.Errorf("status %q may only contain ASCII letters: %w", status, ErrInvalidFormat)
	}
	return strings.ToLower(status), nil
}

func normalizeIcon(icon string) (string, error) {
	if icon == "" {
		return "", nil
	}
	stripped := strings.NewReplacer(":", "", ".", "", "-", "").Replace(icon)
	if !isAlpha(stripped) {
		return "", fmt.Errorf("icon key %q may only contain ASCII letters, colon, period or hyphen: %w", icon, ErrInvalidFormat)
	}
	return strings.ToLower(icon), nil
}

// Bump records another occurrence. An empty description is recorded as nil
// and does not replace the current description.
func (r *Record) Bump(description string) {
	r.occurrences = append(r.occurrences, Occurrence{
		At:          clock(),
		Description: sanitizeDescription(description),
	})
}

// bumped returns a copy of r with one more occurrence, leaving r as is.
func (r *Record) bumped() *Record {
	c := *r
	c.occurrences = append(r.Occurrences(), Occurrence{At: clock()})
	return &c
}

func (r *Record) ID() string      { return r.id }
func (r *Record) Status() string  { return r.status }
func (r *Record) Message() string { return r.message }
func (r *Record) Icon() string    { return r.icon }
func (r *Record) Compact() bool   { return r.compact }

// IconKey is the icon to render: the explicit icon, else the status.
func (r *Record) IconKey() string {
	if r.icon != "" {
		return r.icon
	}
	return r.status
}

// Timeout returns the stored timeout, ignoring the danger override.
func (r *Record) Timeout() (time.Duration, bool) { return r.timeout, r.hasTimeout }

// EffectiveTimeout returns the auto-dismiss delay to hand to clients.
// Danger toasts never auto-dismiss, whatever was stored.
func (r *Record) EffectiveTimeout() (time.Duration, bool) {
	if r.status == StatusDanger {
		return 0, false
	}
	return r.timeout, r.hasTimeout
}

// Occurrences returns a copy of the occurrence log, oldest first.
func (r *Record) Occurrences() []Occurrence {
	return append([]Occurrence(nil), r.occurrences...)
}

// Count is the number of times this toast was raised.
func (r *Record) Count() int { return len(r.occurrences) }

// Description is the most recent non-nil description.
func (r *Record) Description() *string {
	for i := len(r.occurrences) - 1; i >= 0; i-- {
		if d := r.occurrences[i].Description; d != nil {
			return d
		}
	}
	return nil
}

func (r *Record) FirstSeenAt() time.Time {
	if len(r.occurrences) == 0 {
		return time.Time{}
	}
	return r.occurrences[0].At
}

func (r *Record) LastSeenAt() time.Time {
	if len(r.occurrences) == 0 {
		return time.Time{}
	}
	return r.occurrences[len(r.occurrences)-1].At
}

// ---- JSON ----

type recordJSON struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Message     string       `json:"message"`
	Icon        string       `json:"icon,omitempty"`
	Compact     bool         `json:"compact,omitempty"`
	TimeoutMS   *int64       `json:"timeout_ms,omitempty"`
	Occurrences []Occurrence `json:"occurrences"`
}

func (r *Record) MarshalJSON() ([]byte, error) {
	j := recordJSON{
		ID:          r.id,
		Status:      r.status,
		Message:     r.message,
		Icon:        r.icon,
		Compact:     r.compact,
		Occurrences: r.occurrences,
	}
	if r.hasTimeout {
		ms := r.timeout.Milliseconds()
		j.TimeoutMS = &ms
	}
	return json.Marshal(j)
}

// UnmarshalJSON restores a record written by MarshalJSON. The message is
// already escaped and is kept as-is; status and icon are re-validated.
func (r *Record) UnmarshalJSON(b []byte) error {
	var j recordJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	if !IsIdentifier(j.ID) {
		return fmt.Errorf("record id %q: %w", j.ID, ErrInvalidFormat)
	}
	if len(j.Occurrences) == 0 {
		return fmt.Errorf("record %s has no occurrences: %w", j.ID, ErrInvalidFormat)
	}
	st, err := normalizeStatus(j.Status)
	if err != nil {
		return err
	}
	icon, err := normalizeIcon(j.Icon)
	if err != nil {
		return err
	}
	*r = Record{
		id:          j.ID,
		status:      st,
		message:     j.Message,
		icon:        icon,
		compact:     j.Compact,
		occurrences: j.Occurrences,
	}
	if j.TimeoutMS != nil {
		r.timeout, r.hasTimeout = time.Duration(*j.TimeoutMS)*time.Millisecond, true
	}
	return nil
}
