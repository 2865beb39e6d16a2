package directive

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/jsontable/internal/models"
	"github.com/harrison/jsontable/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

func renderDoc(t *testing.T, ext *Extension, src string) string {
	t.Helper()
	md := goldmark.New(goldmark.WithExtensions(ext))
	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte(src), &buf))
	return buf.String()
}

func fence(info, body string) string {
	return "```" + info + "\n" + body + "```\n"
}

func TestParseOptions(t *testing.T) {
	five := 5
	zero := 0

	tests := []struct {
		name    string
		info    string
		want    Options
		wantErr string
	}{
		{"empty", "", Options{}, ""},
		{"header flag", "header", Options{Header: true}, ""},
		{"header false", "header=false", Options{}, ""},
		{"all options", `file=data/users.json header limit=5 encoding=latin1`,
			Options{File: "data/users.json", Header: true, Limit: &five, Encoding: "latin1"}, ""},
		{"quoted path", `file="my data.json"`, Options{File: "my data.json"}, ""},
		{"unlimited", "limit=0", Options{Limit: &zero}, ""},
		{"tabs", "header\tlimit=5", Options{Header: true, Limit: &five}, ""},
		{"negative limit", "limit=-1", Options{}, "invalid row limit"},
		{"non numeric limit", "limit=many", Options{}, "invalid row limit"},
		{"empty limit", "limit=", Options{}, "option limit requires a value"},
		{"quoted empty limit", `limit=""`, Options{}, "option limit requires a value"},
		{"limit without value", "limit", Options{}, "requires a value"},
		{"file without path", "file=", Options{}, "requires a path"},
		{"bad header", "header=maybe", Options{}, "invalid boolean"},
		{"unknown", "colour=red", Options{}, `unknown option "colour"`},
		{"unterminated quote", `file="oops`, Options{}, "unterminated quote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptions(tt.info)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInlineDirectiveRendersTable(t *testing.T) {
	ext := New(service.DefaultConfig(), WithDocument("guide.md"))
	src := "# Users\n\n" +
		fence("json-table header", `[{"name":"Alice","age":30},{"name":"Bob"}]`+"\n") +
		"\nAfter.\n"

	out := renderDoc(t, ext, src)

	assert.Contains(t, out, "<h1>Users</h1>")
	assert.Contains(t, out, `<table class="json-table">`)
	assert.Contains(t, out, "<th>name</th>\n<th>age</th>")
	assert.Contains(t, out, "<td>Bob</td>\n<td></td>")
	assert.Contains(t, out, "<p>After.</p>")
	assert.NotContains(t, out, "<pre>")

	records := ext.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "guide.md#1", records[0].Source)
	assert.Equal(t, models.StatusOK, records[0].Status)
}

func TestOtherFencesUntouched(t *testing.T) {
	ext := New(service.DefaultConfig())
	out := renderDoc(t, ext, fence("go", "package main\n")+fence("json", "[[1]]\n"))

	assert.Contains(t, out, `<code class="language-go">`)
	assert.Contains(t, out, `<code class="language-json">`)
	assert.NotContains(t, out, "json-table")
	assert.Empty(t, ext.Records())
}

func TestFileDirectiveResolvesUnderBaseDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "rows.json"), []byte(`[[1,2],[3]]`), 0644))

	cfg := service.DefaultConfig()
	cfg.BaseDir = dir
	ext := New(cfg)

	out := renderDoc(t, ext, fence("json-table file=data/rows.json", ""))
	assert.Contains(t, out, "<td>1</td>\n<td>2</td>")
	assert.Contains(t, out, "<td>3</td>\n<td></td>")
	assert.NotContains(t, out, "<thead>")
}

func TestFileDirectiveEscapeRendersError(t *testing.T) {
	cfg := service.DefaultConfig()
	cfg.BaseDir = t.TempDir()
	ext := New(cfg)

	out := renderDoc(t, ext, fence("json-table file=../../etc/passwd", "")+"\nStill here.\n")
	assert.Contains(t, out, `<div class="json-table-error">`)
	assert.Contains(t, out, "<p>Still here.</p>")
	assert.NotContains(t, out, "<table")

	records := ext.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "path_security", records[0].ErrorKind)
}

func TestDirectiveErrorsDoNotAbortDocument(t *testing.T) {
	ext := New(service.DefaultConfig())
	src := fence("json-table colour=red", "[[1]]\n") +
		fence("json-table", "{not json\n") +
		fence("json-table file=x.json", "[[1]]\n") +
		fence("json-table limit=-3", "[[1]]\n") +
		fence("json-table", "[[\"<ok>\"]]\n")

	out := renderDoc(t, ext, src)

	assert.Equal(t, 4, strings.Count(out, `<div class="json-table-error">`))
	assert.Contains(t, out, "unknown option &quot;colour&quot;")
	assert.Contains(t, out, "mutually exclusive")
	assert.Contains(t, out, "<td>&lt;ok&gt;</td>")

	records := ext.Records()
	require.Len(t, records, 5)
	assert.Equal(t, "invalid_limit", records[3].ErrorKind)
	assert.Equal(t, "parse", records[1].ErrorKind)
	assert.Equal(t, models.StatusOK, records[4].Status)
}

func TestDirectiveAdvisory(t *testing.T) {
	cfg := service.DefaultConfig()
	cfg.Limits.DefaultCeiling = 2
	ext := New(cfg)

	out := renderDoc(t, ext, fence("json-table", "[[1],[2],[3]]\n"))
	assert.Contains(t, out, `<div class="json-table-advisory">Large dataset detected (3 rows). Showing first 2 rows.`)
	assert.Equal(t, 2, strings.Count(out, "<td>"))

	out = renderDoc(t, ext, fence("json-table limit=0", "[[1],[2],[3]]\n"))
	assert.NotContains(t, out, "json-table-advisory")
	assert.Equal(t, 3, strings.Count(out, "<td>"))
}

func TestDirectiveEmptyLimitIsAnError(t *testing.T) {
	cfg := service.DefaultConfig()
	cfg.Limits.DefaultCeiling = 2
	ext := New(cfg)

	out := renderDoc(t, ext, fence("json-table limit=", "[[1],[2],[3]]\n"))
	assert.Contains(t, out, `<div class="json-table-error">`)
	assert.Contains(t, out, "option limit requires a value")
	assert.NotContains(t, out, "json-table-advisory")
	assert.NotContains(t, out, "<table")
}

func TestDirectiveEncodingOption(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cafe.json"), []byte("[{\"name\":\"Caf\xe9\"}]"), 0644))

	cfg := service.DefaultConfig()
	cfg.BaseDir = dir
	ext := New(cfg)

	out := renderDoc(t, ext, fence("json-table file=cafe.json encoding=iso-8859-1", ""))
	assert.Contains(t, out, "<td>Café</td>")

	out = renderDoc(t, ext, fence("json-table file=cafe.json", ""))
	assert.Contains(t, out, `<div class="json-table-error">`)
}

func TestDirectiveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ext := New(service.DefaultConfig(), WithContext(ctx))
	out := renderDoc(t, ext, fence("json-table", "[[1]]\n"))
	assert.Contains(t, out, "context canceled")
}
