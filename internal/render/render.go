package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/harrison/jsontable/internal/models"
	"github.com/yuin/goldmark/util"
)

// Options modify rendering. The zero value is valid.
type Options struct {
	// Base returns the styled table used for text output.
	// A plain bordered table is used if nil.
	Base func() *table.Table
	// Class is the CSS class of the HTML table element. Defaults to "json-table".
	Class string
}

// Write renders data to w in the given format. FormatAuto is resolved
// against w first.
func Write(w io.Writer, data models.TableData, format Format) error {
	return WriteWithOptions(w, data, format, Options{})
}

// WriteWithOptions is Write with explicit options.
func WriteWithOptions(w io.Writer, data models.TableData, format Format, opts Options) error {
	switch format.Resolve(w) {
	case FormatText:
		return writeText(w, data, opts)
	case FormatMarkdown:
		return writeMarkdown(w, data)
	case FormatCSV:
		return writeCSV(w, data)
	case FormatHTML:
		_, err := w.Write(HTML(data, opts.Class))
		return err
	case FormatJSON:
		return writeJSON(w, data)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, data models.TableData, opts Options) error {
	if data.IsEmpty() {
		_, err := io.WriteString(w, "(empty table)\n")
		return err
	}

	var t *table.Table
	if opts.Base != nil {
		t = opts.Base()
	} else {
		t = table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return lipgloss.NewStyle().Bold(true).Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
	}

	if header, ok := data.Header(); ok {
		t = t.Headers(header...)
	}
	for _, row := range data.Body() {
		t = t.Row(row...)
	}

	_, err := fmt.Fprintln(w, t.String())
	return err
}

func writeMarkdown(w io.Writer, data models.TableData) error {
	if data.IsEmpty() {
		return nil
	}

	var sb strings.Builder
	writeRow := func(row models.TableRow) {
		sb.WriteString("|")
		for _, cell := range row {
			sb.WriteString(" ")
			sb.WriteString(escapeMarkdown(cell))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	// Markdown tables require a header line, so a headerless table gets
	// blank labels.
	header, ok := data.Header()
	if !ok {
		header = make(models.TableRow, data.Width())
	}
	writeRow(header)
	sb.WriteString("|")
	for range header {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range data.Body() {
		writeRow(row)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func escapeMarkdown(cell string) string {
	cell = strings.ReplaceAll(cell, `\`, `\\`)
	cell = strings.ReplaceAll(cell, "|", `\|`)
	cell = strings.ReplaceAll(cell, "\r\n", "<br>")
	return strings.ReplaceAll(cell, "\n", "<br>")
}

func writeCSV(w io.Writer, data models.TableData) error {
	cw := csv.NewWriter(w)
	for _, row := range data.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// jsonTable is the JSON output document.
type jsonTable struct {
	Header []string   `json:"header,omitempty"`
	Rows   [][]string `json:"rows"`
}

func writeJSON(w io.Writer, data models.TableData) error {
	doc := jsonTable{Rows: make([][]string, 0, data.DataRows())}
	if header, ok := data.Header(); ok {
		doc.Header = header
	}
	for _, row := range data.Body() {
		doc.Rows = append(doc.Rows, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// HTML renders data as an HTML table element. Cell text is escaped.
func HTML(data models.TableData, class string) []byte {
	if class == "" {
		class = "json-table"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<table class=\"%s\">\n", util.EscapeHTML([]byte(class)))
	if header, ok := data.Header(); ok {
		buf.WriteString("<thead>\n<tr>\n")
		for _, cell := range header {
			buf.WriteString("<th>")
			buf.Write(util.EscapeHTML([]byte(cell)))
			buf.WriteString("</th>\n")
		}
		buf.WriteString("</tr>\n</thead>\n")
	}
	buf.WriteString("<tbody>\n")
	for _, row := range data.Body() {
		buf.WriteString("<tr>\n")
		for _, cell := range row {
			buf.WriteString("<td>")
			buf.Write(util.EscapeHTML([]byte(cell)))
			buf.WriteString("</td>\n")
		}
		buf.WriteString("</tr>\n")
	}
	buf.WriteString("</tbody>\n</table>\n")
	return buf.Bytes()
}
