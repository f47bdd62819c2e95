package toast

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const iconSize = "1rem"

// compactTrim is stripped from both ends of the message in compact form.
const compactTrim = " \n\r\t\v\x00."

// View renders one record as a <toast> element.
type View struct {
	record  *Record
	icons   IconProvider
	compact bool
	hidden  bool
	now     func() time.Time
}

func NewView(r *Record, icons IconProvider) *View {
	return &View{record: r, icons: icons, compact: r.Compact(), now: time.Now}
}

// Compact drops the status label and trims trailing punctuation.
func (v *View) Compact(compact bool) *View {
	v.compact = compact
	return v
}

// Hidden adds the "hidden" class so client code can reveal toasts itself.
func (v *View) Hidden(hidden bool) *View {
	v.hidden = hidden
	return v
}

// Render renders r with its own compact flag.
func Render(r *Record, icons IconProvider) string {
	return NewView(r, icons).String()
}

// RenderAll renders records in order, one element per line block.
func RenderAll(records []*Record, icons IconProvider) string {
	parts := make([]string, 0, len(records))
	for _, r := range records {
		parts = append(parts, Render(r, icons))
	}
	return strings.Join(parts, "\n")
}

func (v *View) String() string {
	r := v.record
	first := r.FirstSeenAt()
	if first.IsZero() {
		first = v.now()
	}
	when := humanize.RelTime(first, v.now(), "ago", "from now")

	var typ, message string
	if v.compact {
		typ = `<span data-message>` + strings.Trim(r.Message(), compactTrim) + `</span>`
	} else {
		typ = `<span data-type>` + r.Status() + `</span>`
		message = `<span data-message>` + r.Message() + `</span>`
	}

	lines := []string{
		"<toast " + v.attributes() + ">",
		`<button class="close" aria-label="Close" type="button"></button>`,
		`<output role="status">`,
		`<i class="status">`,
	}
	if icon := v.icon(); icon != "" {
		lines = append(lines, icon)
	}
	lines = append(lines,
		typ,
		`<time datetime="`+strconv.FormatInt(first.Unix(), 10)+`">`+when+`</time>`,
		`</i>`,
	)
	if message != "" {
		lines = append(lines, message)
	}
	lines = append(lines, `</output>`)
	if d := r.Description(); d != nil && *d != "" {
		lines = append(lines, *d)
	}
	lines = append(lines, `</toast>`)

	return strings.Join(lines, "\n")
}

func (v *View) attributes() string {
	r := v.record
	class := "intent:" + r.Status()
	if v.hidden {
		class += " hidden"
	}
	attrs := `id="` + r.ID() + `" class="` + class + `"`
	if d, ok := r.EffectiveTimeout(); ok {
		attrs += ` data-timeout="` + strconv.FormatInt(int64(d/time.Second), 10) + `"`
	}
	if n := r.Count(); n > 1 {
		attrs += ` data-count="` + strconv.Itoa(n) + `"`
	}
	return attrs
}

func (v *View) icon() string {
	key := v.record.IconKey()
	if v.icons != nil {
		if markup, ok := v.icons.Icon(key, iconSize, iconSize); ok && markup != "" {
			return markup
		}
	}
	markup, _ := builtinIcon(key, iconSize, iconSize)
	return markup
}
