package toast

import (
	"fmt"
	"strings"
)

// Kind tags a flash value.
type Kind uint8

const (
	// KindRecord holds a *Record written by a Store.
	KindRecord Kind = iota + 1
	// KindText is a plain string flash from elsewhere in the host application.
	KindText
	// KindForeign is anything else another component put in the bag.
	KindForeign
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindText:
		return "text"
	case KindForeign:
		return "foreign"
	default:
		return "invalid"
	}
}

// Value is one element of a flash bag entry. The session flash bag is shared
// with unrelated plain-string flashes, so entries are a tagged union rather
// than always records.
type Value struct {
	Kind    Kind
	Record  *Record
	Text    string
	Foreign any
}

func RecordValue(r *Record) Value { return Value{Kind: KindRecord, Record: r} }
func TextValue(s string) Value    { return Value{Kind: KindText, Text: s} }
func ForeignValue(v any) Value    { return Value{Kind: KindForeign, Foreign: v} }

// AsRecord returns the record held by a KindRecord value.
func (v Value) AsRecord() (*Record, bool) {
	if v.Kind != KindRecord || v.Record == nil {
		return nil, false
	}
	return v.Record, true
}

// Title resolves a legacy entry to display text. Strings and fmt.Stringers
// are accepted (trimmed); anything else fails with ErrUnsupportedType.
func (v Value) Title() (string, error) {
	switch v.Kind {
	case KindText:
		return strings.TrimSpace(v.Text), nil
	case KindForeign:
		switch x := v.Foreign.(type) {
		case string:
			return strings.TrimSpace(x), nil
		case fmt.Stringer:
			return strings.TrimSpace(x.String()), nil
		default:
			return "", fmt.Errorf("%T: %w", v.Foreign, ErrUnsupportedType)
		}
	default:
		return "", fmt.Errorf("%s value: %w", v.Kind, ErrUnsupportedType)
	}
}
