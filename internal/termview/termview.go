// Package termview renders pending toasts for a terminal.
package termview

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"

	"toastd/internal/toast"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorCyan   = lipgloss.AdaptiveColor{Dark: "#66D9E8", Light: "#0B7285"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

var (
	cardStyle = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder)

	metaStyle = lipgloss.NewStyle().Foreground(ColorGray)

	descStyle = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)

	emptyStyle = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)
)

// plain strips every tag from descriptions.
var plain = bluemonday.StrictPolicy()

// StatusStyle returns a color-coded style for a toast status.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch status {
	case toast.StatusSuccess:
		return base.Foreground(ColorGreen)
	case toast.StatusInfo:
		return base.Foreground(ColorBlue)
	case toast.StatusNotice:
		return base.Foreground(ColorCyan)
	case toast.StatusWarning:
		return base.Foreground(ColorYellow)
	case toast.StatusDanger:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// Card renders one record as a bordered block.
func Card(r *toast.Record, now time.Time) string {
	head := StatusStyle(r.Status()).Render(strings.ToUpper(r.Status())) + " " + html.UnescapeString(r.Message())

	meta := []string{r.ID(), humanize.RelTime(r.FirstSeenAt(), now, "ago", "from now")}
	if n := r.Count(); n > 1 {
		meta = append(meta, "x"+strconv.Itoa(n))
	}
	if d, ok := r.EffectiveTimeout(); ok {
		meta = append(meta, "dismiss "+d.String())
	} else if r.Status() == toast.StatusDanger {
		meta = append(meta, "sticky")
	}

	lines := []string{head, metaStyle.Render(strings.Join(meta, " · "))}
	if d := r.Description(); d != nil {
		if text := strings.TrimSpace(html.UnescapeString(plain.Sanitize(*d))); text != "" {
			lines = append(lines, descStyle.Render(text))
		}
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// List renders records in order, one card each.
func List(records []*toast.Record, now time.Time) string {
	if len(records) == 0 {
		return emptyStyle.Render("no pending toasts")
	}
	cards := make([]string, 0, len(records))
	for _, r := range records {
		cards = append(cards, Card(r, now))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
