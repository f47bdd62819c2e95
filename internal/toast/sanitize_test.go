package toast

import (
	"strings"
	"testing"
)

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "script removed with content", in: "<script>x</script><b>ok</b>", want: "<b>ok</b>"},
		{name: "block tags unwrapped", in: "<div>hi <em>there</em></div>", want: "hi <em>there</em>"},
		{name: "style removed with content", in: "<style>b{}</style>plain", want: "plain"},
		{name: "trimmed", in: "  <code>go</code>  ", want: "<code>go</code>"},
		{name: "inline set kept", in: "<kbd>k</kbd><mark>m</mark><small>s</small>", want: "<kbd>k</kbd><mark>m</mark><small>s</small>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeDescription(tt.in)
			if got == nil {
				t.Fatalf("sanitizeDescription(%q) = nil", tt.in)
			}
			if *got != tt.want {
				t.Fatalf("sanitizeDescription(%q) = %q, want %q", tt.in, *got, tt.want)
			}
		})
	}
}

func TestSanitizeDescriptionEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "<script>only</script>", "<div></div>"} {
		if got := sanitizeDescription(in); got != nil {
			t.Fatalf("sanitizeDescription(%q) = %q, want nil", in, *got)
		}
	}
}

func TestSanitizeDropsEventHandlers(t *testing.T) {
	got := sanitizeDescription(`<a href="https://example.com" onclick="steal()">docs</a>`)
	if got == nil {
		t.Fatal("nil")
	}
	if strings.Contains(*got, "onclick") {
		t.Fatalf("event handler kept: %q", *got)
	}
	if !strings.Contains(*got, `href="https://example.com"`) {
		t.Fatalf("href dropped: %q", *got)
	}
}
