package jsonvalue

import (
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
)

// Parse decodes a complete JSON document. Syntax is checked strictly before
// the ordered value tree is built, so trailing garbage and malformed
// literals are rejected with the standard library's positioned messages.
func Parse(data []byte) (Value, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	value, dataType, _, err := jsonparser.Get(raw)
	if err != nil {
		return nil, fmt.Errorf("read root value: %w", err)
	}
	return fromParsed(value, dataType)
}

// MustParse is like Parse but panics on error. Intended for literals in
// tests and examples.
func MustParse(s string) Value {
	v, err := Parse([]byte(s))
	if err != nil {
		panic(fmt.Sprintf("jsonvalue.MustParse(%q): %v", s, err))
	}
	return v
}

// fromParsed converts one jsonparser token into a Value. String tokens
// arrive without their quotes and with escapes still in place.
func fromParsed(data []byte, dataType jsonparser.ValueType) (Value, error) {
	switch dataType {
	case jsonparser.Null:
		return Null{}, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return nil, err
		}
		return Bool(b), nil
	case jsonparser.Number:
		return Number(string(data)), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case jsonparser.Array:
		return decodeArray(data)
	case jsonparser.Object:
		return decodeObject(data)
	default:
		return nil, fmt.Errorf("unexpected JSON token %q", dataType)
	}
}

func decodeArray(data []byte) (Value, error) {
	arr := Array{}
	var elemErr error

	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if elemErr != nil {
			return
		}
		if err != nil {
			elemErr = err
			return
		}
		v, err := fromParsed(value, dataType)
		if err != nil {
			elemErr = err
			return
		}
		arr = append(arr, v)
	})
	if err != nil {
		return nil, err
	}
	if elemErr != nil {
		return nil, elemErr
	}
	return arr, nil
}

// decodeObject keeps keys in document order. jsonparser hands keys over
// already unescaped.
func decodeObject(data []byte) (Value, error) {
	obj := NewObject()

	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		v, err := fromParsed(value, dataType)
		if err != nil {
			return err
		}
		obj.Set(string(key), v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}
