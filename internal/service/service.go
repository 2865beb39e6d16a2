// Package service is the host-facing entry point: it takes a JSON source
// descriptor plus options, runs load and conversion, and reports the outcome
// to loggers and the conversion history.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/jsontable/internal/converter"
	"github.com/harrison/jsontable/internal/jsonvalue"
	"github.com/harrison/jsontable/internal/limit"
	"github.com/harrison/jsontable/internal/loader"
	"github.com/harrison/jsontable/internal/models"
	"github.com/harrison/jsontable/internal/pathguard"
)

// Logger receives service events. logger.ConsoleLogger, logger.FileLogger,
// logger.Multi and logger.NoOpLogger all satisfy it.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogConversion(record models.ConversionRecord)
}

// Recorder persists conversion records. *history.Store satisfies it.
type Recorder interface {
	RecordConversion(ctx context.Context, record models.ConversionRecord) error
}

// Config is the immutable configuration of a TableService.
type Config struct {
	Encoding     string
	BaseDir      string
	MaxFileBytes int64
	Limits       converter.Limits
}

// DefaultConfig returns UTF-8, the working directory and stock limits.
func DefaultConfig() Config {
	return Config{
		Encoding:     loader.DefaultEncoding,
		BaseDir:      ".",
		MaxFileBytes: loader.DefaultMaxBytes,
		Limits:       converter.DefaultLimits(),
	}
}

// Request describes one conversion. One source is used: File when it is
// non-empty, then Data when it is non-nil, Lines otherwise. Data is raw
// content decoded with the configured encoding; Lines is already text.
type Request struct {
	File    string
	BaseDir string // overrides Config.BaseDir for this request when set
	Data    []byte
	Lines   []string

	IncludeHeader bool
	Limit         *int

	// Label names the request in records. Defaults to File or "<inline>".
	Label string
}

// Source returns the identifier used for the request in records.
func (r Request) Source() string {
	if r.Label != "" {
		return r.Label
	}
	if r.File != "" {
		return r.File
	}
	return loader.InlineSource
}

// Result is a successful conversion.
type Result struct {
	Data       models.TableData
	Advisories []string
	Record     models.ConversionRecord
}

// TableService runs conversions. It holds only immutable configuration and
// thread-safe collaborators, so one instance may serve concurrent calls.
type TableService struct {
	cfg       Config
	loader    *loader.Loader
	converter *converter.Converter
	logger    Logger
	recorder  Recorder
	now       func() time.Time
}

// Option configures a TableService.
type Option func(*TableService)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(s *TableService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder enables history recording.
func WithRecorder(r Recorder) Option {
	return func(s *TableService) {
		s.recorder = r
	}
}

// WithResolver replaces the filesystem path guard.
func WithResolver(r pathguard.Resolver) Option {
	return func(s *TableService) {
		s.loader = loader.New(s.cfg.Encoding, loader.WithResolver(r), loader.WithMaxBytes(s.cfg.MaxFileBytes))
	}
}

// New creates a TableService.
func New(cfg Config, opts ...Option) *TableService {
	s := &TableService{
		cfg:       cfg,
		loader:    loader.New(cfg.Encoding, loader.WithMaxBytes(cfg.MaxFileBytes)),
		converter: converter.New(cfg.Limits),
		logger:    discard{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, advisory := range s.loader.Advisories() {
		s.logger.LogWarn(advisory)
	}
	return s
}

// Encoding returns the encoding actually in use after fallback.
func (s *TableService) Encoding() string {
	return s.loader.Encoding()
}

// Convert loads the requested source and converts it. Failures are returned
// as the typed errors of package models and are also logged and recorded.
func (s *TableService) Convert(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.run(ctx, req.Source(), s.loader.Advisories(), func() (*converter.Result, error) {
		return s.convert(req)
	})
}

// ConvertValue converts an already parsed value, bypassing the loader.
// source only labels the record.
func (s *TableService) ConvertValue(ctx context.Context, source string, v jsonvalue.Value, opts converter.Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.run(ctx, source, nil, func() (*converter.Result, error) {
		return s.converter.Convert(v, opts)
	})
}

func (s *TableService) run(ctx context.Context, source string, advisories []string, fn func() (*converter.Result, error)) (*Result, error) {
	start := s.now()
	record := models.ConversionRecord{
		ID:        uuid.New().String(),
		Source:    source,
		Timestamp: start,
	}

	result, err := fn()
	record.Duration = s.now().Sub(start)

	if err != nil {
		record.Status = models.StatusFailed
		record.ErrorKind = models.Classify(err)
		record.Message = err.Error()
		s.finish(ctx, record)
		return nil, err
	}

	record.Status = models.StatusOK
	record.Rows = result.Data.DataRows()
	record.Columns = result.Data.Width()
	record.Estimated = result.Estimated
	record.Limit = result.Limit.String()

	out := &Result{Data: result.Data, Advisories: advisories}
	if result.Advisory != nil {
		record.Status = models.StatusTruncated
		record.Message = result.Advisory.String()
		out.Advisories = append(out.Advisories, result.Advisory.String())
	}

	s.finish(ctx, record)
	out.Record = record
	return out, nil
}

func (s *TableService) convert(req Request) (*converter.Result, error) {
	if err := limit.Validate(req.Limit); err != nil {
		return nil, err
	}

	var (
		v   jsonvalue.Value
		err error
	)
	if req.File != "" {
		baseDir := req.BaseDir
		if baseDir == "" {
			baseDir = s.cfg.BaseDir
		}
		s.logger.LogDebug(fmt.Sprintf("Loading %s (base %s, encoding %s)", req.File, baseDir, s.loader.Encoding()))
		v, err = s.loader.LoadFile(req.File, baseDir)
	} else if req.Data != nil {
		v, err = s.loader.LoadBytes(req.Data, req.Source())
	} else {
		v, err = s.loader.LoadText(req.Lines)
	}
	if err != nil {
		return nil, err
	}

	return s.converter.Convert(v, converter.Options{IncludeHeader: req.IncludeHeader, Limit: req.Limit})
}

func (s *TableService) finish(ctx context.Context, record models.ConversionRecord) {
	s.logger.LogConversion(record)
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordConversion(ctx, record); err != nil {
		s.logger.LogWarn(fmt.Sprintf("Failed to record conversion %s: %v", record.ID, err))
	}
}

type discard struct{}

func (discard) LogDebug(string)                       {}
func (discard) LogInfo(string)                        {}
func (discard) LogWarn(string)                        {}
func (discard) LogError(string)                       {}
func (discard) LogConversion(models.ConversionRecord) {}
