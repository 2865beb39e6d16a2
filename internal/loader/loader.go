// Package loader turns a JSON source, either a file under a base directory
// or inline text, into a parsed jsonvalue.Value.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/harrison/jsontable/internal/jsonvalue"
	"github.com/harrison/jsontable/internal/models"
	"github.com/harrison/jsontable/internal/pathguard"
)

const (
	// DefaultEncoding is used when none is configured or the configured
	// name is not supported.
	DefaultEncoding = "utf-8"

	// DefaultMaxBytes caps how much a single source may contain.
	DefaultMaxBytes int64 = 64 << 20

	// InlineSource identifies inline content in errors and records.
	InlineSource = "<inline>"
)

// Loader resolves JSON sources. Its encoding and byte cap are fixed at
// construction, so one Loader may serve concurrent calls.
type Loader struct {
	encoding   textEncoding
	guard      pathguard.Resolver
	maxBytes   int64
	advisories []string
}

// Option configures a Loader.
type Option func(*Loader)

// WithResolver replaces the filesystem path guard.
func WithResolver(r pathguard.Resolver) Option {
	return func(l *Loader) {
		l.guard = r
	}
}

// WithMaxBytes sets the per-source byte cap. Values <= 0 keep the default.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// New creates a Loader reading sources in the named encoding. An
// unsupported name never fails construction: the loader falls back to
// UTF-8 and records an advisory, available from Advisories.
func New(encodingName string, opts ...Option) *Loader {
	l := &Loader{
		guard:    pathguard.New(),
		maxBytes: DefaultMaxBytes,
	}

	enc, ok := lookupEncoding(encodingName)
	if !ok {
		l.advisories = append(l.advisories,
			fmt.Sprintf("Unsupported encoding %q, falling back to %s", encodingName, DefaultEncoding))
	}
	l.encoding = enc

	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Encoding returns the canonical name of the encoding in use.
func (l *Loader) Encoding() string {
	return l.encoding.name
}

// MaxBytes returns the per-source byte cap.
func (l *Loader) MaxBytes() int64 {
	return l.maxBytes
}

// Advisories returns notes recorded at construction, such as an encoding
// fallback.
func (l *Loader) Advisories() []string {
	out := make([]string, len(l.advisories))
	copy(out, l.advisories)
	return out
}

// LoadFile resolves source under baseDir, then reads and parses it.
func (l *Loader) LoadFile(source, baseDir string) (jsonvalue.Value, error) {
	resolved, err := l.guard.Resolve(source, baseDir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &models.NotFoundError{Path: source}
		}
		return nil, &models.ParseError{Source: source, Err: err}
	}
	if info.IsDir() {
		return nil, &models.ParseError{Source: source, Err: fmt.Errorf("%s is a directory", source)}
	}
	if info.Size() > l.maxBytes {
		return nil, &models.InputTooLargeError{Source: source, Size: info.Size(), Max: l.maxBytes}
	}

	data, err := os.ReadFile(resolved.Path)
	if err != nil {
		return nil, &models.ParseError{Source: source, Err: err}
	}
	return l.parse(data, source)
}

// LoadBytes decodes raw content, such as standard input, in the configured
// encoding and parses it. Blank content fails with EmptyInputError.
func (l *Loader) LoadBytes(data []byte, source string) (jsonvalue.Value, error) {
	if source == "" {
		source = InlineSource
	}
	if int64(len(data)) > l.maxBytes {
		return nil, &models.InputTooLargeError{Source: source, Size: int64(len(data)), Max: l.maxBytes}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &models.EmptyInputError{}
	}
	return l.parse(data, source)
}

func (l *Loader) parse(data []byte, source string) (jsonvalue.Value, error) {
	text, err := l.encoding.decode(data)
	if err != nil {
		return nil, &models.ParseError{Source: source, Err: fmt.Errorf("decode %s: %w", l.encoding.name, err)}
	}

	v, err := jsonvalue.Parse(text)
	if err != nil {
		return nil, &models.ParseError{Source: source, Err: err}
	}
	return v, nil
}

// LoadText parses inline content. Lines are joined with newlines; text is
// already decoded, so the configured encoding does not apply, but it must
// be valid UTF-8.
func (l *Loader) LoadText(lines []string) (jsonvalue.Value, error) {
	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, &models.EmptyInputError{}
	}
	if int64(len(text)) > l.maxBytes {
		return nil, &models.InputTooLargeError{Source: InlineSource, Size: int64(len(text)), Max: l.maxBytes}
	}
	if !utf8.ValidString(text) {
		return nil, &models.ParseError{Source: InlineSource, Err: errInvalidUTF8}
	}

	v, err := jsonvalue.Parse(bytes.TrimPrefix([]byte(text), utf8BOM))
	if err != nil {
		return nil, &models.ParseError{Source: InlineSource, Err: err}
	}
	return v, nil
}
