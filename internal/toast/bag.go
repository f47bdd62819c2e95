package toast

import "context"

// FlashBag is the session flash storage a Store reads and writes.
//
// Values are stored as a slice per key. Get and All consume what they return;
// PeekAll and Has do not. Lifetime beyond that is the host's business.
type FlashBag interface {
	Set(key string, values []Value)
	Get(key string) []Value
	All() map[string][]Value
	PeekAll() map[string][]Value
	Has(key string) bool
}

type bagKey struct{}

// WithBag returns a context carrying the request's flash bag.
func WithBag(ctx context.Context, bag FlashBag) context.Context {
	return context.WithValue(ctx, bagKey{}, bag)
}

// BagFromContext returns the flash bag stored by WithBag.
func BagFromContext(ctx context.Context) (FlashBag, bool) {
	if ctx == nil {
		return nil, false
	}
	bag, ok := ctx.Value(bagKey{}).(FlashBag)
	return bag, ok && bag != nil
}
