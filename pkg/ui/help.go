package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// helpMarkdown builds the overlay text from the live column table so the
// titles always match the selectors on screen.
func helpMarkdown(keys keyMap) string {
	var sb strings.Builder
	sb.WriteString("# Health indicators by state\n\n")
	sb.WriteString("Each circle is a state. Click an axis title, or press its key, ")
	sb.WriteString("to plot a different indicator. Hover a circle for its values.\n\n")

	sb.WriteString("## Axes\n\n| key | axis | indicator |\n|---|---|---|\n")
	for _, ck := range keys.columnKeys() {
		c, err := model.ParseColumn(ck.tag)
		if err != nil {
			continue
		}
		sb.WriteString("| `" + ck.binding.Help().Key + "` | " + c.Axis().String() + " | " + c.Title() + " |\n")
	}

	sb.WriteString("\n## Other keys\n\n")
	for _, b := range []struct{ k, d string }{
		{keys.NextPoint.Help().Key + " / " + keys.PrevPoint.Help().Key, "move the tooltip between states"},
		{keys.ClearHover.Help().Key, "hide the tooltip"},
		{keys.Copy.Help().Key, "copy the tooltip text to the clipboard"},
		{keys.Labels.Help().Key, "show or hide state codes"},
		{keys.Reload.Help().Key, "reload the data file"},
		{keys.Quit.Help().Key, "quit"},
	} {
		sb.WriteString("- `" + b.k + "` " + b.d + "\n")
	}
	sb.WriteString("\nThe chart reloads by itself when the data file changes.\n")
	return sb.String()
}

// renderHelp renders the markdown for a terminal of the given width,
// falling back to the raw text when glamour cannot build a renderer.
func renderHelp(keys keyMap, width int) string {
	md := helpMarkdown(keys)
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func newHelpViewport(keys keyMap, width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.SetContent(renderHelp(keys, width))
	return vp
}
