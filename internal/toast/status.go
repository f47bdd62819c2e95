package toast

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	StatusSuccess = "success"
	StatusInfo    = "info"
	StatusNotice  = "notice"
	StatusWarning = "warning"
	StatusDanger  = "danger"
)

// Statuses lists the known statuses in display priority order.
var Statuses = []string{StatusSuccess, StatusInfo, StatusNotice, StatusWarning, StatusDanger}

// KnownStatus reports whether s (case-insensitive) is one of Statuses.
func KnownStatus(s string) bool {
	s = strings.ToLower(s)
	for _, k := range Statuses {
		if s == k {
			return true
		}
	}
	return false
}

// nearestStatus returns the known status closest to s by edit distance.
// Used only to make "unsupported status" warnings actionable.
func nearestStatus(s string) string {
	best, bestDist := "", -1
	for _, k := range Statuses {
		d := levenshtein.ComputeDistance(s, k)
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
