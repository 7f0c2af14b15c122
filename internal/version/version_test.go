package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "9.9.9"

	if got := String(); !strings.Contains(got, "9.9.9") {
		t.Errorf("String() = %q", got)
	}
	if got := UserAgent(); got != "card-editor/9.9.9" {
		t.Errorf("UserAgent() = %q", got)
	}
}
