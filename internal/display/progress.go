package display

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
)

// ProgressIndicator manages multi-document progress display, colored on a terminal
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
	failed  int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{writer: w, total: total}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Rendering %d documents:\n", p.total)
}

// Step displays progress for current item: [N/Total] filename (cyan)
func (p *ProgressIndicator) Step(filename string) {
	p.current++
	paint(p.writer, color.FgCyan).Fprintf(p.writer, "  [%d/%d] %s\n", p.current, p.total, filepath.Base(filename))
}

// Fail marks the current item as failed (red)
func (p *ProgressIndicator) Fail(filename string, err error) {
	p.failed++
	paint(p.writer, color.FgRed).Fprintf(p.writer, "  ✗ %s: %v\n", filepath.Base(filename), err)
}

// Complete displays a green checkmark, or a red summary when items failed
func (p *ProgressIndicator) Complete() {
	if p.failed > 0 {
		fmt.Fprintf(p.writer, "%s Rendered %d of %d documents (%d failed)\n",
			paint(p.writer, color.FgRed).Sprint("✗"), p.total-p.failed, p.total, p.failed)
		return
	}
	fmt.Fprintf(p.writer, "%s Rendered %d documents\n", paint(p.writer, color.FgGreen).Sprint("✓"), p.total)
}

// Failed returns how many items were marked as failed
func (p *ProgressIndicator) Failed() int {
	return p.failed
}
