package toast

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// IDLength is the fixed width of identifiers produced by Identify.
const IDLength = 16

// Identify derives the dedup key for a toast.
//
// The key is XXH3-64 over status+message, as 16 lowercase hex characters.
// It is stable across processes and releases; never change the input order.
func Identify(status, message string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(status+message))
}

// IsIdentifier reports whether key has the shape of an Identify result.
func IsIdentifier(key string) bool {
	if len(key) != IDLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
