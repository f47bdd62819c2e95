package toast

import "errors"

var (
	// ErrInvalidFormat is returned when a status or icon key contains
	// characters outside the allowed set.
	ErrInvalidFormat = errors.New("toast: invalid format")

	// ErrUnsupportedType is returned when a legacy flash entry cannot be
	// turned into a display title.
	ErrUnsupportedType = errors.New("toast: unsupported title type")

	// ErrNoBag is returned when a request context carries no flash bag.
	ErrNoBag = errors.New("toast: no flash bag in context")
)
