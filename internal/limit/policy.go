// Package limit decides how many rows a conversion may produce.
package limit

import (
	"strconv"
	"strings"

	"github.com/harrison/jsontable/internal/jsonvalue"
	"github.com/harrison/jsontable/internal/models"
)

// DefaultCeiling is the implicit row cap applied when the caller gives no
// explicit limit.
const DefaultCeiling = 10000

// Estimate returns the row count v would yield without traversing it:
// 1 for an object, the length for an array, 0 for anything else.
func Estimate(v jsonvalue.Value) int {
	switch t := v.(type) {
	case *jsonvalue.Object:
		return 1
	case jsonvalue.Array:
		return len(t)
	default:
		return 0
	}
}

// Policy combines an explicit caller limit with a configured ceiling.
// It holds only the immutable ceiling and is safe for concurrent use.
type Policy struct {
	ceiling int
}

// NewPolicy creates a Policy. A negative ceiling is treated as 0.
func NewPolicy(ceiling int) *Policy {
	if ceiling < 0 {
		ceiling = 0
	}
	return &Policy{ceiling: ceiling}
}

// Ceiling returns the configured default ceiling.
func (p *Policy) Ceiling() int {
	return p.ceiling
}

// Resolve returns the effective limit for v.
//
//   - explicit == nil: cap at the ceiling with an advisory when the estimate
//     exceeds it, otherwise unbounded.
//   - *explicit == 0: unbounded, the caller opted out of limiting.
//   - *explicit > 0: exactly that cap; caller intent beats the ceiling.
//
// Negative explicit limits must be rejected by the caller before Resolve.
func (p *Policy) Resolve(v jsonvalue.Value, explicit *int) (models.EffectiveLimit, *models.Advisory) {
	if explicit != nil {
		if *explicit == 0 {
			return models.Unbounded(), nil
		}
		return models.Cap(*explicit), nil
	}

	estimated := Estimate(v)
	if estimated > p.ceiling {
		return models.Cap(p.ceiling), &models.Advisory{
			EstimatedRows:  estimated,
			AppliedCeiling: p.ceiling,
		}
	}
	return models.Unbounded(), nil
}

// Validate rejects negative explicit limits. A nil limit is valid.
func Validate(explicit *int) error {
	if explicit != nil && *explicit < 0 {
		return &models.InvalidLimitError{Value: strconv.Itoa(*explicit)}
	}
	return nil
}

// Parse reads a limit option value. Empty text means "no explicit limit"
// and yields nil; anything other than a non-negative integer fails with
// InvalidLimitError.
func Parse(text string) (*int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return nil, &models.InvalidLimitError{Value: text}
	}
	return &n, nil
}
