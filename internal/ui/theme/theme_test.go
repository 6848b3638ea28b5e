package theme

import (
	"strings"
	"testing"
)

func TestStatusKeepsText(t *testing.T) {
	for _, s := range []string{"to-read", "read-next", "reading", "read", "dnf", "paused"} {
		if got := Status(s); !strings.Contains(got, s) {
			t.Fatalf("Status(%q) = %q", s, got)
		}
	}
}

func TestFieldFillsEmptyValue(t *testing.T) {
	if got := Field("rating", ""); !strings.Contains(got, "-") {
		t.Fatalf("Field with empty value = %q", got)
	}
}
