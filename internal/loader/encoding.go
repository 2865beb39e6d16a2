package loader

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var errInvalidUTF8 = errors.New("invalid UTF-8 byte sequence")

// textEncoding decodes raw file bytes to UTF-8. A nil enc means UTF-8,
// which is validated rather than transcoded.
type textEncoding struct {
	name string
	enc  encoding.Encoding
}

func (t textEncoding) decode(data []byte) ([]byte, error) {
	if t.enc == nil {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return nil, errInvalidUTF8
		}
		return data, nil
	}
	return t.enc.NewDecoder().Bytes(data)
}

// lookupEncoding resolves an encoding label through the WHATWG index first
// and the IANA registry second, trying the label as given and then with
// underscores read as hyphens ("latin_1", "utf_16"). The second result is
// false when the name is unknown and UTF-8 was substituted.
func lookupEncoding(name string) (textEncoding, bool) {
	label := strings.ToLower(strings.TrimSpace(name))
	candidates := []string{label}
	if hyphenated := strings.ReplaceAll(label, "_", "-"); hyphenated != label {
		candidates = append(candidates, hyphenated)
	}

	for _, candidate := range candidates {
		switch candidate {
		case "", "utf-8", "utf8", "utf-8-sig":
			return textEncoding{name: DefaultEncoding}, true
		case "latin-1":
			candidate = "iso-8859-1"
		}

		if enc, err := htmlindex.Get(candidate); err == nil {
			canonical, err := htmlindex.Name(enc)
			if err != nil {
				canonical = candidate
			}
			if canonical == DefaultEncoding {
				return textEncoding{name: DefaultEncoding}, true
			}
			return textEncoding{name: canonical, enc: enc}, true
		}

		if enc, err := ianaindex.IANA.Encoding(candidate); err == nil && enc != nil {
			canonical, err := ianaindex.IANA.Name(enc)
			if err != nil {
				canonical = candidate
			}
			return textEncoding{name: strings.ToLower(canonical), enc: enc}, true
		}
	}

	return textEncoding{name: DefaultEncoding}, false
}
