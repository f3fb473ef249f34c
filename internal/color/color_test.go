package color

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		isDarkMode bool
		expected   bool
	}{
		{"set dark mode", true, true},
		{"set light mode", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Initialize(tt.isDarkMode)
			if lipgloss.HasDarkBackground() != tt.expected {
				t.Errorf("lipgloss.HasDarkBackground() got %v, want %v after Initialize(%v)", lipgloss.HasDarkBackground(), tt.expected, tt.isDarkMode)
			}
		})
	}
} 
func TestStylesKeepText(t *testing.T) {
	for name, style := range map[string]lipgloss.Style{
		"banner": BannerStyle,
		"phase":  PhaseStyle,
		"notice": NoticeStyle,
		"error":  ErrorStyle,
		"muted":  MutedStyle,
		"header": TableHeaderStyle,
	} {
		t.Run(name, func(t *testing.T) {
			if got := style.Render("normbot"); !strings.Contains(got, "normbot") {
				t.Errorf("Render dropped text: %q", got)
			}
		})
	}
}
