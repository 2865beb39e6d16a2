package models

import "time"

// Conversion status constants
const (
	StatusOK        = "OK"        // Converted without limiting
	StatusTruncated = "TRUNCATED" // Converted with an implicit ceiling applied
	StatusFailed    = "FAILED"    // Conversion returned an error
)

// ConversionRecord summarizes one conversion call for logs and history.
type ConversionRecord struct {
	ID        string        // Unique record identifier (UUID)
	Source    string        // File path or "<inline>"
	Status    string        // OK, TRUNCATED or FAILED
	Rows      int           // Data rows produced, header excluded
	Columns   int           // Table width
	Estimated int           // Size estimate of the input value
	Limit     string        // Effective limit as text
	ErrorKind string        // models.Classify of the failure, if any
	Message   string        // Error or advisory text
	Duration  time.Duration // Wall time of load + convert
	Timestamp time.Time     // When the conversion started
}

// Failed reports whether the record describes a failed conversion.
func (r ConversionRecord) Failed() bool {
	return r.Status == StatusFailed
}
