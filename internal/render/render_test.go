package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/harrison/jsontable/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() models.TableData {
	return models.TableData{
		HasHeader: true,
		Rows: []models.TableRow{
			{"name", "note"},
			{"Alice", "a|b"},
			{"Bob", `<b>"x"</b>`},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"TEXT", FormatText, false},
		{"table", FormatText, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"csv", FormatCSV, false},
		{" html ", FormatHTML, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "valid: auto, text, markdown, csv, html, json")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAutoResolvesToCSVForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, FormatCSV, FormatAuto.Resolve(&buf))
	assert.Equal(t, FormatJSON, FormatJSON.Resolve(&buf))

	require.NoError(t, Write(&buf, sample(), FormatAuto))
	assert.True(t, strings.HasPrefix(buf.String(), "name,note\n"))
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), FormatText))

	out := buf.String()
	for _, cell := range []string{"name", "note", "Alice", "a|b", "Bob"} {
		assert.Contains(t, out, cell)
	}
	assert.Less(t, strings.Index(out, "name"), strings.Index(out, "Alice"))
	assert.Less(t, strings.Index(out, "Alice"), strings.Index(out, "Bob"))
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, models.EmptyTable(), FormatText))
	assert.Equal(t, "(empty table)\n", buf.String())
}

func TestWriteTextCustomBase(t *testing.T) {
	called := false
	opts := Options{Base: func() *table.Table {
		called = true
		return table.New()
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteWithOptions(&buf, sample(), FormatText, opts))
	assert.True(t, called)
	assert.Contains(t, buf.String(), "Alice")
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), FormatMarkdown))

	want := "| name | note |\n" +
		"| --- | --- |\n" +
		"| Alice | a\\|b |\n" +
		"| Bob | <b>\"x\"</b> |\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteMarkdownWithoutHeader(t *testing.T) {
	data := models.TableData{Rows: []models.TableRow{{"1", "2"}, {"3", "line1\nline2"}}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, data, FormatMarkdown))

	want := "|  |  |\n" +
		"| --- | --- |\n" +
		"| 1 | 2 |\n" +
		"| 3 | line1<br>line2 |\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), FormatCSV))

	want := "name,note\n" +
		"Alice,a|b\n" +
		"Bob,\"<b>\"\"x\"\"</b>\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteHTMLEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), FormatHTML))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<table class="json-table">`))
	assert.Contains(t, out, "<thead>\n<tr>\n<th>name</th>\n<th>note</th>\n</tr>\n</thead>")
	assert.Contains(t, out, "<td>&lt;b&gt;&quot;x&quot;&lt;/b&gt;</td>")
	assert.NotContains(t, out, "<b>")
}

func TestHTMLWithoutHeaderHasNoThead(t *testing.T) {
	data := models.TableData{Rows: []models.TableRow{{"1"}}}
	out := string(HTML(data, "custom"))

	assert.Contains(t, out, `<table class="custom">`)
	assert.NotContains(t, out, "<thead>")
	assert.Contains(t, out, "<td>1</td>")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), FormatJSON))

	var doc struct {
		Header []string   `json:"header"`
		Rows   [][]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []string{"name", "note"}, doc.Header)
	assert.Equal(t, [][]string{{"Alice", "a|b"}, {"Bob", `<b>"x"</b>`}}, doc.Rows)
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, models.EmptyTable(), FormatJSON))
	assert.JSONEq(t, `{"rows":[]}`, buf.String())
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"out.txt":       FormatText,
		"out.MD":        FormatMarkdown,
		"a/b.markdown":  FormatMarkdown,
		"table.csv":     FormatCSV,
		"page.htm":      FormatHTML,
		"page.html":     FormatHTML,
		"data.out.json": FormatJSON,
	}
	for path, want := range tests {
		got, ok := FormatForPath(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := FormatForPath("table.xlsx")
	assert.False(t, ok)
	_, ok = FormatForPath("noext")
	assert.False(t, ok)
}
