package color

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.AdaptiveColor{Light: "#005FAF", Dark: "#5FAFFF"}
	success = lipgloss.AdaptiveColor{Light: "#007A3D", Dark: "#5FD787"}
	warning = lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFAF5F"}
	failure = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}
	muted   = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"}
)

var (
	BannerStyle = lipgloss.NewStyle().Bold(true).Foreground(primary)

	PhaseStyle = lipgloss.NewStyle().Bold(true).Foreground(success)

	NoticeStyle = lipgloss.NewStyle().Italic(true).Foreground(warning)

	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(failure)

	MutedStyle = lipgloss.NewStyle().Foreground(muted)

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(primary)
)

// Initialize sets the terminal background mode used to resolve adaptive
// colors.
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}
