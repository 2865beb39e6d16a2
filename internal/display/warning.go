package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Details    []string // Numbered detail lines (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning, in yellow on a terminal
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	for i, detail := range w.Details {
		fmt.Fprintf(&b, "      %d. %s\n", i+1, detail)
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	paint(out, color.FgYellow).Fprint(out, b.String())
}

// AdvisoryWarning builds a warning listing the advisories of one source.
// A single advisory becomes the message; several are numbered.
func AdvisoryWarning(source string, advisories []string) Warning {
	w := Warning{Title: fmt.Sprintf("Advisory for %s", source)}
	switch len(advisories) {
	case 0:
	case 1:
		w.Message = advisories[0]
	default:
		w.Details = advisories
	}
	return w
}

// ShowAdvisories displays an AdvisoryWarning when there is anything to show.
func ShowAdvisories(out io.Writer, source string, advisories []string) {
	if len(advisories) == 0 {
		return
	}
	AdvisoryWarning(source, advisories).Display(out)
}
