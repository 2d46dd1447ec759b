package version

import (
	"testing"

	"github.com/fatih/color"
)

func override(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = version, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name                  string
		version, commit, date string
		want                  string
	}{
		{"plain", "1.2.3", "", "", "vlxref 1.2.3"},
		{"commit", "1.2.3", "abc123", "", "vlxref 1.2.3 (abc123)"},
		{"commit and date", "1.2.3", "abc123", "2024-01-15", "vlxref 1.2.3 (abc123, 2024-01-15)"},
		{"date without commit", "1.2.3", "", "2024-01-15", "vlxref 1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			override(t, tt.version, tt.commit, tt.date)
			if got := Line(false); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColoredKeepsText(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	override(t, "0.4.1-rc1", "", "")
	if got := Colored(); got != "0.4.1-rc1" {
		t.Errorf("Colored() = %q", got)
	}
	override(t, "dev", "", "")
	if got := Colored(); got != "dev" {
		t.Errorf("Colored() = %q", got)
	}
}
