package display

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisplayWarning_TitleOnly(t *testing.T) {
	var buf bytes.Buffer
	Warning{Title: "Encoding Fallback"}.Display(&buf)

	output := buf.String()
	if output != "⚠️  Warning: Encoding Fallback\n" {
		t.Errorf("Expected plain title line, got %q", output)
	}
	if strings.Contains(output, "Suggestion") {
		t.Error("Did not expect suggestion section")
	}
}

func TestDisplayWarning_AllSections(t *testing.T) {
	var buf bytes.Buffer
	Warning{
		Title:      "Large dataset",
		Message:    "Output was truncated",
		Details:    []string{"users.json", "orders.json"},
		Suggestion: "Pass --limit 0",
	}.Display(&buf)

	output := buf.String()
	for _, want := range []string{
		"    Output was truncated\n",
		"      1. users.json\n",
		"      2. orders.json\n",
		"    Suggestion:\n    Pass --limit 0\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q missing %q", output, want)
		}
	}
}

func TestAdvisoryWarning(t *testing.T) {
	none := AdvisoryWarning("a.json", nil)
	if none.Message != "" || len(none.Details) != 0 {
		t.Errorf("unexpected content for no advisories: %+v", none)
	}

	one := AdvisoryWarning("a.json", []string{"Large dataset detected"})
	if one.Title != "Advisory for a.json" {
		t.Errorf("Title = %q", one.Title)
	}
	if one.Message != "Large dataset detected" {
		t.Errorf("Message = %q", one.Message)
	}

	many := AdvisoryWarning("<inline>", []string{"first", "second"})
	if len(many.Details) != 2 || many.Message != "" {
		t.Errorf("expected numbered details, got %+v", many)
	}
}

func TestShowAdvisories(t *testing.T) {
	var buf bytes.Buffer
	ShowAdvisories(&buf, "a.json", nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	ShowAdvisories(&buf, "a.json", []string{"Unsupported encoding"})
	if !strings.Contains(buf.String(), "Unsupported encoding") {
		t.Errorf("expected advisory in output, got %q", buf.String())
	}
}

func TestProgressIndicator(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressIndicator(&buf, 2)

	p.Start()
	p.Step("/docs/report.md")
	p.Step("/docs/guide.md")
	p.Complete()

	output := buf.String()
	for _, want := range []string{
		"Rendering 2 documents:\n",
		"  [1/2] report.md\n",
		"  [2/2] guide.md\n",
		"✓ Rendered 2 documents\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q missing %q", output, want)
		}
	}
}

func TestProgressIndicator_Failures(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressIndicator(&buf, 3)

	p.Step("a.md")
	p.Step("b.md")
	p.Fail("b.md", errors.New("permission denied"))
	p.Step("c.md")
	p.Complete()

	if p.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", p.Failed())
	}
	output := buf.String()
	if !strings.Contains(output, "✗ b.md: permission denied") {
		t.Errorf("missing failure line in %q", output)
	}
	if !strings.Contains(output, "Rendered 2 of 3 documents (1 failed)") {
		t.Errorf("missing failure summary in %q", output)
	}
}

func TestDisplayWarning_RedirectedFileHasNoEscapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stderr.log")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ShowAdvisories(f, "big.json", []string{"Large dataset detected (20000 rows)."})
	p := NewProgressIndicator(f, 1)
	p.Step("doc.md")
	p.Fail("doc.md", errors.New("boom"))
	p.Complete()
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Errorf("redirected output should be plain, got %q", data)
	}
	if !strings.Contains(string(data), "Large dataset detected (20000 rows).") {
		t.Errorf("advisory missing from %q", data)
	}
}
