// Package logger provides logging implementations for jsontable.
//
// Loggers report conversion outcomes and free-form messages at five levels
// (trace, debug, info, warn, error). Implementations are thread-safe and
// write to the console, to per-run log files, or nowhere.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/jsontable/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs to a writer with [HH:MM:SS] timestamps and level filtering.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// fatih/color already honors NO_COLOR and non-TTY output
		return !color.NoColor
	}
	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, colorLevel(level), message)
		return
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, level, message)
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogConversion logs one conversion outcome.
// Successful conversions are logged at DEBUG, truncated ones at WARN and
// failures at ERROR.
// Format: "[HH:MM:SS] <source>: <STATUS> (rows: N, cols: N, limit: L) <duration>"
func (cl *ConsoleLogger) LogConversion(record models.ConversionRecord) {
	if cl.writer == nil {
		return
	}

	level := recordLevel(record)
	if !cl.shouldLog(level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] %s: %s %s\n",
			ts, record.Source, colorStatus(record.Status), formatConversionMetrics(record, newColorScheme()))
	} else {
		fmt.Fprintf(cl.writer, "[%s] %s: %s %s\n",
			ts, record.Source, record.Status, formatConversionMetrics(record, nil))
	}
	if record.Message != "" {
		fmt.Fprintf(cl.writer, "[%s]   %s\n", ts, record.Message)
	}
}

// LogSummary logs totals for a batch of conversions at INFO level.
// Format: "[HH:MM:SS] Converted <n> tables: <ok> ok, <t> truncated, <f> failed (<duration>)"
func (cl *ConsoleLogger) LogSummary(records []models.ConversionRecord, elapsed time.Duration) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	ok, truncated, failed := countStatuses(records)

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] Converted %d tables: %s ok, %s truncated, %s failed (%s)\n",
			ts, len(records),
			color.New(color.FgGreen).Sprint(ok),
			color.New(color.FgYellow).Sprint(truncated),
			color.New(color.FgRed).Sprint(failed),
			formatDuration(elapsed))
		return
	}
	fmt.Fprintf(cl.writer, "[%s] Converted %d tables: %d ok, %d truncated, %d failed (%s)\n",
		ts, len(records), ok, truncated, failed, formatDuration(elapsed))
}

// LogProgress logs document progress at INFO level.
// Format: "[HH:MM:SS] Progress: [====      ] 2/5 (40%)"
func (cl *ConsoleLogger) LogProgress(completed, total int) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	pb := NewProgressBar(total, 10, cl.colorOutput)
	pb.Update(completed)

	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	fmt.Fprintf(cl.writer, "[%s] Progress: %s\n", timestamp(), pb.Render())
}

func recordLevel(record models.ConversionRecord) string {
	switch record.Status {
	case models.StatusFailed:
		return "error"
	case models.StatusTruncated:
		return "warn"
	default:
		return "debug"
	}
}

func colorStatus(status string) string {
	switch status {
	case models.StatusOK:
		return color.New(color.FgGreen).Sprint(status)
	case models.StatusTruncated:
		return color.New(color.FgYellow).Sprint(status)
	case models.StatusFailed:
		return color.New(color.FgRed).Sprint(status)
	default:
		return status
	}
}

func countStatuses(records []models.ConversionRecord) (ok, truncated, failed int) {
	for _, r := range records {
		switch r.Status {
		case models.StatusFailed:
			failed++
		case models.StatusTruncated:
			truncated++
		default:
			ok++
		}
	}
	return ok, truncated, failed
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "120ms", "5s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger discards all log messages.
// Useful for testing or when stdout carries a protocol (MCP over stdio).
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogDebug is a no-op implementation.
func (n *NoOpLogger) LogDebug(message string) {}

// LogInfo is a no-op implementation.
func (n *NoOpLogger) LogInfo(message string) {}

// LogWarn is a no-op implementation.
func (n *NoOpLogger) LogWarn(message string) {}

// LogError is a no-op implementation.
func (n *NoOpLogger) LogError(message string) {}

// LogConversion is a no-op implementation.
func (n *NoOpLogger) LogConversion(record models.ConversionRecord) {}
