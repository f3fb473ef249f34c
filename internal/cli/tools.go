package cli

import (
	"fmt"
	"io"
	"strings"

	"normbot/internal/aggregator"
	"normbot/internal/color"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
)

const descriptionWidth = 60

// RenderTools writes the registered tools as a table.
func RenderTools(w io.Writer, tools []aggregator.Tool) {
	if len(tools) == 0 {
		fmt.Fprintln(w, color.NoticeStyle.Render("No tools found"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"TOOL", "SERVER", "DESCRIPTION"})

	for _, tool := range tools {
		t.AppendRow(table.Row{tool.Name, tool.Server, shortDescription(tool.Description)})
	}
	t.AppendFooter(table.Row{"", "TOTAL", fmt.Sprintf("%d tools", len(tools))})
	t.Render()
}

// shortDescription keeps the first line of a description, truncated to the
// column width.
func shortDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		desc = strings.TrimSpace(desc[:i])
	}
	if runewidth.StringWidth(desc) > descriptionWidth {
		desc = runewidth.Truncate(desc, descriptionWidth, "...")
	}
	return desc
}
