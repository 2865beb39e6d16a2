package jsonvalue

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NullText is the cell text for JSON null. A missing key renders the same
// way, so a table never distinguishes "absent" from "present but null".
const NullText = ""

// Stringify is the single coercion rule from a JSON value to cell text:
//
//	null            -> NullText
//	true / false    -> "true" / "false"
//	number          -> canonical text (see canonicalNumber)
//	string          -> unchanged
//	array / object  -> compact JSON, key order preserved
func Stringify(v Value) string {
	switch t := v.(type) {
	case nil, Null:
		return NullText
	case Bool:
		if t {
			return "true"
		}
		return "false"
	case Number:
		return canonicalNumber(string(t))
	case String:
		return string(t)
	case Array, *Object:
		var sb strings.Builder
		writeCompact(&sb, v)
		return sb.String()
	default:
		return NullText
	}
}

// Compact returns the compact JSON encoding of v.
func Compact(v Value) string {
	var sb strings.Builder
	writeCompact(&sb, v)
	return sb.String()
}

func writeCompact(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case nil, Null:
		sb.WriteString("null")
	case Bool:
		if t {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Number:
		sb.WriteString(canonicalNumber(string(t)))
	case String:
		writeQuoted(sb, string(t))
	case Array:
		sb.WriteByte('[')
		for i, el := range t {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCompact(sb, el)
		}
		sb.WriteByte(']')
	case *Object:
		sb.WriteByte('{')
		first := true
		t.Each(func(key string, el Value) bool {
			if !first {
				sb.WriteByte(',')
			}
			first = false
			writeQuoted(sb, key)
			sb.WriteByte(':')
			writeCompact(sb, el)
			return true
		})
		sb.WriteByte('}')
	}
}

// canonicalNumber normalizes a JSON number literal. Integer literals are
// kept digit for digit ("-0" becomes "0"). Other literals are read as
// float64 and written in shortest round-trip form: fixed notation with at
// least one fractional digit for exponents in [-4, 16), scientific
// otherwise ("1.50" -> "1.5", "1e3" -> "1000.0", "1e20" -> "1e+20").
// Literals outside the float64 range are kept as written.
func canonicalNumber(lit string) string {
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return "0"
		}
		return lit
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) {
		return lit
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return sci
	}
	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed
}

func writeQuoted(sb *strings.Builder, s string) {
	b, _ := json.Marshal(s)
	sb.Write(b)
}
