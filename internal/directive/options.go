// Package directive is a goldmark extension that replaces fenced code blocks
// tagged json-table with HTML tables built from their JSON.
//
//	```json-table file=data/users.json header limit=50
//	```
//
// Without a file option the block body is the JSON source.
package directive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/harrison/jsontable/internal/limit"
)

// Language is the fenced code block info word that marks a directive.
const Language = "json-table"

// Options are the per-block directive options.
type Options struct {
	File     string
	Header   bool
	Limit    *int
	Encoding string
}

// ParseOptions parses the text following the language word of a fence info
// string. Options are space separated; values may be double quoted.
// Recognized: file=PATH, header, header=BOOL, limit=N, encoding=NAME.
func ParseOptions(info string) (Options, error) {
	var opts Options

	tokens, err := splitInfo(info)
	if err != nil {
		return opts, err
	}

	for _, tok := range tokens {
		key, value, hasValue := strings.Cut(tok, "=")
		switch key {
		case "file":
			if !hasValue || value == "" {
				return opts, fmt.Errorf("option file requires a path")
			}
			opts.File = value
		case "header":
			if !hasValue {
				opts.Header = true
				continue
			}
			b, err := strconv.ParseBool(value)
			if err != nil {
				return opts, fmt.Errorf("option header: invalid boolean %q", value)
			}
			opts.Header = b
		case "limit":
			if !hasValue || strings.TrimSpace(value) == "" {
				return opts, fmt.Errorf("option limit requires a value")
			}
			n, err := limit.Parse(value)
			if err != nil {
				return opts, err
			}
			opts.Limit = n
		case "encoding":
			if !hasValue || value == "" {
				return opts, fmt.Errorf("option encoding requires a name")
			}
			opts.Encoding = value
		default:
			return opts, fmt.Errorf("unknown option %q", key)
		}
	}
	return opts, nil
}

func splitInfo(info string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		inQuote bool
		started bool
	)

	for _, r := range info {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case (r == ' ' || r == '\t') && !inQuote:
			if started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote in %q", info)
	}
	if started {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
