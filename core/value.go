package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// NameLimit is the longest package or variable name accepted, in bytes.
const NameLimit = 63

type ValueType int

const (
	StringType ValueType = iota
	IntType
	FloatType
	BoolType
	JsonType
	TimestampType
	RecordType
)

func (t ValueType) String() string {
	switch t {
	case StringType:
		return "STRING"
	case IntType:
		return "INT"
	case FloatType:
		return "FLOAT"
	case BoolType:
		return "BOOL"
	case JsonType:
		return "JSON"
	case TimestampType:
		return "TIMESTAMP"
	case RecordType:
		return "RECORD"
	default:
		return "UNKNOWN"
	}
}

// Value is one scalar payload: a declared type, the data in its canonical Go
// representation, and a null flag. The zero Value is a null string.
type Value struct {
	Type ValueType
	Data any
	Null bool
}

// NullValue returns a null value of the given type.
func NullValue(t ValueType) Value {
	return Value{Type: t, Null: true}
}

// ParseValue converts a textual literal into a canonical Value of type t.
// Canonical representations are int64, float64, bool, string and time.Time;
// JSON values keep their decoded any form.
func ParseValue(raw string, t ValueType) (Value, error) {
	switch t {
	case StringType:
		return Value{Type: t, Data: raw}, nil
	case IntType:
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return Value{}, fmt.Errorf("invalid INT literal %q: %w", raw, err)
		}
		return Value{Type: t, Data: n}, nil
	case FloatType:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return Value{}, fmt.Errorf("invalid FLOAT literal %q: %w", raw, err)
		}
		return Value{Type: t, Data: f}, nil
	case BoolType:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return Value{}, fmt.Errorf("invalid BOOL literal %q: %w", raw, err)
		}
		return Value{Type: t, Data: b}, nil
	case TimestampType:
		ts, err := cast.ToTimeE(raw)
		if err != nil {
			return Value{}, fmt.Errorf("invalid TIMESTAMP literal %q: %w", raw, err)
		}
		return Value{Type: t, Data: ts}, nil
	case JsonType:
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return Value{}, fmt.Errorf("invalid JSON literal: %w", err)
		}
		return Value{Type: t, Data: decoded}, nil
	default:
		return Value{}, fmt.Errorf("cannot parse literal of type %s", t)
	}
}

// Copy returns a deep copy of the value. Scalar representations (int64,
// float64, bool, string, time.Time) are by-value in Go; only decoded JSON
// trees need real copying.
func (v Value) Copy() Value {
	if v.Null {
		return Value{Type: v.Type, Null: true}
	}
	if v.Type == JsonType {
		return Value{Type: v.Type, Data: copyJSON(v.Data)}
	}
	return v
}

func copyJSON(data any) any {
	switch d := data.(type) {
	case map[string]any:
		m := make(map[string]any, len(d))
		for k, e := range d {
			m[k] = copyJSON(e)
		}
		return m
	case []any:
		s := make([]any, len(d))
		for i, e := range d {
			s[i] = copyJSON(e)
		}
		return s
	default:
		return d
	}
}

// Size approximates the payload footprint in bytes, for memory stats.
func (v Value) Size() int {
	if v.Null {
		return 0
	}
	switch d := v.Data.(type) {
	case string:
		return len(d)
	case int64, float64:
		return 8
	case bool:
		return 1
	case time.Time:
		return 24
	default:
		return jsonSize(v.Data)
	}
}

func jsonSize(data any) int {
	switch d := data.(type) {
	case map[string]any:
		n := 0
		for k, e := range d {
			n += len(k) + jsonSize(e)
		}
		return n
	case []any:
		n := 0
		for _, e := range d {
			n += jsonSize(e)
		}
		return n
	case string:
		return len(d)
	default:
		return 8
	}
}

// Text renders the value for display and wire responses.
func (v Value) Text() string {
	if v.Null {
		return "NULL"
	}
	switch d := v.Data.(type) {
	case string:
		return d
	case time.Time:
		return d.Format(time.RFC3339)
	case int64:
		return cast.ToString(d)
	case float64:
		return cast.ToString(d)
	case bool:
		return cast.ToString(d)
	default:
		raw, err := json.Marshal(d)
		if err != nil {
			return fmt.Sprintf("%v", d)
		}
		return string(raw)
	}
}
