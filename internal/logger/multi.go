package logger

import "github.com/harrison/jsontable/internal/models"

// Sink is the method set shared by every logger in this package.
type Sink interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogConversion(record models.ConversionRecord)
}

// Multi forwards every call to each of its sinks in order.
type Multi []Sink

// NewMulti creates a Multi, dropping nil sinks.
func NewMulti(sinks ...Sink) Multi {
	m := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m Multi) LogDebug(message string) {
	for _, s := range m {
		s.LogDebug(message)
	}
}

func (m Multi) LogInfo(message string) {
	for _, s := range m {
		s.LogInfo(message)
	}
}

func (m Multi) LogWarn(message string) {
	for _, s := range m {
		s.LogWarn(message)
	}
}

func (m Multi) LogError(message string) {
	for _, s := range m {
		s.LogError(message)
	}
}

func (m Multi) LogConversion(record models.ConversionRecord) {
	for _, s := range m {
		s.LogConversion(record)
	}
}
