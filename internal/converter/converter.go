// Package converter turns parsed JSON into a rectangular table of strings.
//
// Three shapes are convertible: a single object (one row), a list of
// objects (one row per object, columns from the union of their keys) and a
// list of lists (one row per inner list, positional columns). Anything else
// is rejected with an InvalidShapeError. A Converter holds only immutable
// configuration, so one instance serves concurrent calls.
package converter

import (
	"github.com/harrison/jsontable/internal/jsonvalue"
	"github.com/harrison/jsontable/internal/limit"
	"github.com/harrison/jsontable/internal/models"
)

// Options are the per-call conversion options.
type Options struct {
	IncludeHeader bool
	// Limit is the explicit row limit. nil applies the default ceiling,
	// 0 disables limiting, a positive value caps data rows.
	Limit *int
}

// Result is a successful conversion.
type Result struct {
	Data models.TableData
	// Advisory is set when the default ceiling truncated the input.
	Advisory *models.Advisory
	// Limit is the effective limit that was applied.
	Limit models.EffectiveLimit
	// Estimated is the row count estimated before any limit.
	Estimated int
}

// Converter converts JSON values to tables.
type Converter struct {
	limits  Limits
	headers *HeaderExtractor
	policy  *limit.Policy
}

// New creates a Converter with the given bounds.
func New(limits Limits) *Converter {
	return &Converter{
		limits:  limits,
		headers: NewHeaderExtractor(limits),
		policy:  limit.NewPolicy(limits.DefaultCeiling),
	}
}

// Limits returns the bounds the converter was built with.
func (c *Converter) Limits() Limits {
	return c.limits
}

// Convert builds a table from v. On failure no partial table is returned.
func (c *Converter) Convert(v jsonvalue.Value, opts Options) (*Result, error) {
	if err := limit.Validate(opts.Limit); err != nil {
		return nil, err
	}

	// An empty list is a valid, empty table; every other empty value is not.
	if arr, ok := v.(jsonvalue.Array); ok && len(arr) == 0 {
		return &Result{Data: models.EmptyTable(), Limit: models.Unbounded()}, nil
	}
	if jsonvalue.IsEmpty(v) {
		return nil, &models.EmptyDataError{Kind: kindOf(v)}
	}

	effective, advisory := c.policy.Resolve(v, opts.Limit)
	result := &Result{
		Advisory:  advisory,
		Limit:     effective,
		Estimated: limit.Estimate(v),
	}

	var (
		data models.TableData
		err  error
	)
	switch t := v.(type) {
	case *jsonvalue.Object:
		if effective.Apply(1) == 0 {
			data = models.EmptyTable()
			break
		}
		data, err = c.fromObjects([]jsonvalue.Value{t}, opts.IncludeHeader)
	case jsonvalue.Array:
		data, err = c.fromList(t[:effective.Apply(len(t))], opts.IncludeHeader)
	default:
		err = &models.InvalidShapeError{Reason: "data must be an object or array"}
	}
	if err != nil {
		return nil, err
	}

	result.Data = data
	return result, nil
}

// fromList dispatches on the first element of an already limited list.
func (c *Converter) fromList(items jsonvalue.Array, includeHeader bool) (models.TableData, error) {
	if len(items) == 0 {
		return models.EmptyTable(), nil
	}

	switch items[0].(type) {
	case jsonvalue.Null:
		return models.TableData{}, &models.InvalidShapeError{Reason: "null first element not supported"}
	case *jsonvalue.Object:
		if err := requireUniform(items, jsonvalue.KindObject); err != nil {
			return models.TableData{}, err
		}
		return c.fromObjects(items, includeHeader)
	case jsonvalue.Array:
		if err := requireUniform(items, jsonvalue.KindArray); err != nil {
			return models.TableData{}, err
		}
		return fromRows(items), nil
	default:
		return models.TableData{}, &models.InvalidShapeError{Reason: "array items must be objects or arrays"}
	}
}

func (c *Converter) fromObjects(items []jsonvalue.Value, includeHeader bool) (models.TableData, error) {
	headers := c.headers.Extract(items)

	rows := make([]models.TableRow, 0, len(items)+1)
	withHeader := includeHeader && len(headers) > 0
	if withHeader {
		rows = append(rows, models.TableRow(headers))
	}

	for _, item := range items {
		obj := item.(*jsonvalue.Object)
		row := make(models.TableRow, len(headers))
		for i, key := range headers {
			if value, ok := obj.Get(key); ok {
				row[i] = jsonvalue.Stringify(value)
			}
		}
		rows = append(rows, row)
	}

	return models.TableData{Rows: rows, HasHeader: withHeader}, nil
}

// fromRows stringifies inner lists positionally, padding short rows with
// empty cells to the widest row.
func fromRows(items jsonvalue.Array) models.TableData {
	width := 0
	for _, item := range items {
		width = max(width, len(item.(jsonvalue.Array)))
	}

	rows := make([]models.TableRow, 0, len(items))
	for _, item := range items {
		cells := item.(jsonvalue.Array)
		row := make(models.TableRow, width)
		for i, cell := range cells {
			row[i] = jsonvalue.Stringify(cell)
		}
		rows = append(rows, row)
	}
	return models.TableData{Rows: rows}
}

func requireUniform(items jsonvalue.Array, kind jsonvalue.Kind) error {
	for _, item := range items[1:] {
		if item == nil || item.Kind() != kind {
			return &models.InvalidShapeError{Reason: "mixed array item types"}
		}
	}
	return nil
}

func kindOf(v jsonvalue.Value) string {
	if v == nil {
		return jsonvalue.KindNull.String()
	}
	return v.Kind().String()
}
