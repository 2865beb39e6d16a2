package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/jsontable/internal/models"
)

// colorScheme defines consistent colors for different metric types.
// Green: success/positive metrics
// Red: failure/error metrics
// Yellow: warning/threshold metrics
// Cyan: labels and identifiers
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	value   *color.Color
}

// newColorScheme creates the standard color scheme for metrics.
func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite),
	}
}

// formatColorizedMetric formats a single metric as "label: value".
// A nil scheme produces plain text.
func formatColorizedMetric(label string, value interface{}, scheme *colorScheme) string {
	if scheme == nil {
		return fmt.Sprintf("%s: %v", label, value)
	}
	return fmt.Sprintf("%s: %s", scheme.label.Sprint(label), scheme.value.Sprintf("%v", value))
}

// formatConversionMetrics formats the size metrics of a record.
// Format: "(rows: N, cols: N, limit: L, est: N) 12ms"
// Failed records show the error kind instead of sizes.
func formatConversionMetrics(record models.ConversionRecord, scheme *colorScheme) string {
	var parts []string

	if record.Failed() {
		kind := record.ErrorKind
		if scheme != nil {
			kind = scheme.fail.Sprint(kind)
		}
		parts = append(parts, formatColorizedMetric("error", kind, nil))
	} else {
		parts = append(parts,
			formatColorizedMetric("rows", record.Rows, scheme),
			formatColorizedMetric("cols", record.Columns, scheme),
		)
		limitText := record.Limit
		if scheme != nil && record.Status == models.StatusTruncated {
			limitText = scheme.warn.Sprint(limitText)
		}
		parts = append(parts, formatColorizedMetric("limit", limitText, nil))
		if record.Estimated > record.Rows {
			parts = append(parts, formatColorizedMetric("est", record.Estimated, scheme))
		}
	}

	return fmt.Sprintf("(%s) %s", strings.Join(parts, ", "), formatDuration(record.Duration))
}
