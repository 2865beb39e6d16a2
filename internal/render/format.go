// Package render writes a models.TableData in one of several output formats.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
)

// Format names an output format.
type Format string

// Supported formats
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"

	// FormatAuto resolves to text on a terminal and CSV otherwise.
	FormatAuto Format = "auto"
)

// Formats lists the concrete formats in display order.
var Formats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatHTML, FormatJSON}

// ParseFormat validates a format name. Matching is case-insensitive and "md"
// is accepted for markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "text", "table":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: auto, %s)", name, joinFormats())
	}
}

// Resolve turns FormatAuto into a concrete format for w. Other formats are
// returned unchanged.
func (f Format) Resolve(w io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	if isTerminal(w) {
		return FormatText
	}
	return FormatCSV
}

// FormatForPath infers a format from an output file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatText, true
	case ".md", ".markdown":
		return FormatMarkdown, true
	case ".csv":
		return FormatCSV, true
	case ".html", ".htm":
		return FormatHTML, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func joinFormats() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
