package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/harrison/jsontable/internal/models"
)

// FileLogger writes a timestamped per-run log file and maintains a
// latest.log symlink pointing to the most recent run.
// It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	runID    string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger in logDir with the default "info" level.
func NewFileLogger(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithLevel(logDir, "info", "")
}

// NewFileLoggerWithLevel creates a FileLogger with a custom level. runID is
// written to the log header when non-empty, so a run log can be matched to
// its history rows.
func NewFileLoggerWithLevel(logDir, logLevel, runID string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Generate timestamped filename: run-YYYYMMDD-HHMMSS.log
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		runID:    runID,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== jsontable Run Log ===\n")
	if runID != "" {
		fl.writeRunLog(fmt.Sprintf("Run ID: %s\n", runID))
	}
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

// Path returns the path of the run log file.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("trace", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("debug", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("info", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("warn", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("error", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(level) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message))
}

// LogConversion writes a multi-line entry for one conversion. Unlike the
// console, the file always records every conversion that passes the level
// filter in full, including its record ID.
func (fl *FileLogger) LogConversion(record models.ConversionRecord) {
	if !fl.shouldLog(recordLevel(record)) {
		return
	}

	ts := record.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	entry := fmt.Sprintf("[%s] Conversion %s\n", ts.Format("15:04:05"), record.ID)
	entry += fmt.Sprintf("  Source: %s\n", record.Source)
	entry += fmt.Sprintf("  Status: %s\n", record.Status)
	if record.Failed() {
		entry += fmt.Sprintf("  Error: %s\n", record.ErrorKind)
	} else {
		entry += fmt.Sprintf("  Rows: %d\n", record.Rows)
		entry += fmt.Sprintf("  Columns: %d\n", record.Columns)
		entry += fmt.Sprintf("  Estimated: %d\n", record.Estimated)
		entry += fmt.Sprintf("  Limit: %s\n", record.Limit)
	}
	if record.Message != "" {
		entry += fmt.Sprintf("  Message: %s\n", record.Message)
	}
	entry += fmt.Sprintf("  Duration: %s\n\n", formatDuration(record.Duration))

	fl.writeRunLog(entry)
}

// LogSummary writes batch totals.
func (fl *FileLogger) LogSummary(records []models.ConversionRecord, elapsed time.Duration) {
	ok, truncated, failed := countStatuses(records)

	summary := "=== Summary ===\n"
	summary += fmt.Sprintf("Total conversions: %d\n", len(records))
	summary += fmt.Sprintf("OK: %d\n", ok)
	summary += fmt.Sprintf("Truncated: %d\n", truncated)
	summary += fmt.Sprintf("Failed: %d\n", failed)
	summary += fmt.Sprintf("Duration: %s\n", formatDuration(elapsed))

	fl.writeRunLog(summary)
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
