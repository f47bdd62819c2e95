package flash

import (
	"encoding/json"
	"fmt"

	"toastd/internal/toast"
)

// wireValue is the JSON shape of one flash value.
type wireValue struct {
	Kind  string          `json:"kind"`
	Toast *toast.Record   `json:"toast,omitempty"`
	Text  string          `json:"text,omitempty"`
	Raw   json.RawMessage `json:"raw,omitempty"`
}

const (
	wireToast = "toast"
	wireText  = "text"
	wireRaw   = "raw"
)

// Encode serializes a bag snapshot.
func Encode(entries map[string][]toast.Value) ([]byte, error) {
	wire := make(map[string][]wireValue, len(entries))
	for key, vals := range entries {
		ws := make([]wireValue, 0, len(vals))
		for _, v := range vals {
			switch v.Kind {
			case toast.KindRecord:
				if v.Record == nil {
					continue
				}
				ws = append(ws, wireValue{Kind: wireToast, Toast: v.Record})
			case toast.KindText:
				ws = append(ws, wireValue{Kind: wireText, Text: v.Text})
			case toast.KindForeign:
				raw, err := json.Marshal(v.Foreign)
				if err != nil {
					return nil, fmt.Errorf("flash key %q: encode %T: %w", key, v.Foreign, err)
				}
				ws = append(ws, wireValue{Kind: wireRaw, Raw: raw})
			default:
				return nil, fmt.Errorf("flash key %q: invalid value kind %d", key, v.Kind)
			}
		}
		if len(ws) > 0 {
			wire[key] = ws
		}
	}
	return json.Marshal(wire)
}

// Decode parses what Encode wrote. Empty input is an empty bag.
func Decode(b []byte) (map[string][]toast.Value, error) {
	out := map[string][]toast.Value{}
	if len(b) == 0 {
		return out, nil
	}
	var wire map[string][]wireValue
	if err := json.Unmarshal(b, &wire); err != nil {
		return nil, err
	}
	for key, ws := range wire {
		vals := make([]toast.Value, 0, len(ws))
		for _, w := range ws {
			switch w.Kind {
			case wireToast:
				if w.Toast == nil {
					return nil, fmt.Errorf("flash key %q: empty toast value", key)
				}
				vals = append(vals, toast.RecordValue(w.Toast))
			case wireText:
				vals = append(vals, toast.TextValue(w.Text))
			case wireRaw:
				var v any
				if err := json.Unmarshal(w.Raw, &v); err != nil {
					return nil, fmt.Errorf("flash key %q: %w", key, err)
				}
				vals = append(vals, toast.ForeignValue(v))
			default:
				return nil, fmt.Errorf("flash key %q: unknown value kind %q", key, w.Kind)
			}
		}
		if len(vals) > 0 {
			out[key] = vals
		}
	}
	return out, nil
}
