// Package color provides the terminal styles used by the normbot CLI.
//
// Styles are package-level lipgloss values built from adaptive colors, so
// they pick the light or dark variant according to the terminal background.
// Initialize forces the background mode; lipgloss detects it otherwise.
//
// # Semantic styles
//
//   - BannerStyle: startup banner and section titles
//   - PhaseStyle: the current phase label in the prompt area
//   - NoticeStyle: informational notices such as the session reset
//   - ErrorStyle: per-turn failures
//   - MutedStyle: de-emphasized text such as tool descriptions
//   - TableHeaderStyle: the header row of the tool table
//
// # Usage Example
//
//	color.Initialize(true)
//	fmt.Println(color.NoticeStyle.Render("session reset"))
package color
