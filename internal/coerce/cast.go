package coerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/conduit-lang/tabular/internal/schema"
)

// IsInstance reports whether v already has the Go type a value type maps to
func IsInstance(v any, t schema.ValueType) bool {
	switch t {
	case schema.TypeAny:
		return true
	case schema.TypeString, schema.TypeText:
		_, ok := v.(string)
		return ok
	case schema.TypeInt:
		_, ok := v.(int)
		return ok
	case schema.TypeBigInt:
		_, ok := v.(int64)
		return ok
	case schema.TypeFloat:
		_, ok := v.(float64)
		return ok
	case schema.TypeBool:
		_, ok := v.(bool)
		return ok
	case schema.TypeTimestamp:
		_, ok := v.(time.Time)
		return ok
	case schema.TypeDate:
		ts, ok := v.(time.Time)
		return ok && ts.Equal(truncateDay(ts))
	case schema.TypeUUID:
		_, ok := v.(uuid.UUID)
		return ok
	case schema.TypeJSON:
		switch v.(type) {
		case map[string]any, []any:
			return true
		}
	}
	return false
}

// Cast converts v to the Go type of t
func Cast(v any, t schema.ValueType) (any, error) {
	switch t {
	case schema.TypeAny:
		return v, nil
	case schema.TypeString, schema.TypeText:
		if b, ok := v.([]byte); ok {
			return string(b), nil
		}
		return cast.ToStringE(v)
	case schema.TypeInt:
		if s, ok := text(v); ok {
			n, err := strconv.ParseInt(s, 10, 0)
			return int(n), err
		}
		return cast.ToIntE(v)
	case schema.TypeBigInt:
		if s, ok := text(v); ok {
			return strconv.ParseInt(s, 10, 64)
		}
		return cast.ToInt64E(v)
	case schema.TypeFloat:
		if s, ok := text(v); ok {
			return strconv.ParseFloat(s, 64)
		}
		return cast.ToFloat64E(v)
	case schema.TypeBool:
		return cast.ToBoolE(v)
	case schema.TypeTimestamp:
		return toTime(v)
	case schema.TypeDate:
		ts, err := toTime(v)
		if err != nil {
			return nil, err
		}
		return truncateDay(ts), nil
	case schema.TypeUUID:
		return toUUID(v)
	case schema.TypeJSON:
		return toJSON(v)
	}
	return nil, fmt.Errorf("unsupported value type %s", t)
}

// text returns the trimmed content of string-like values
func text(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), true
	case []byte:
		return strings.TrimSpace(string(x)), true
	}
	return "", false
}

func toTime(v any) (time.Time, error) {
	if s, ok := text(v); ok {
		return dateparse.ParseAny(s)
	}
	return cast.ToTimeE(v)
}

func truncateDay(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}

func toUUID(v any) (uuid.UUID, error) {
	switch x := v.(type) {
	case string:
		return uuid.Parse(strings.TrimSpace(x))
	case []byte:
		if len(x) == 16 {
			return uuid.FromBytes(x)
		}
		return uuid.ParseBytes(x)
	case [16]byte:
		return uuid.UUID(x), nil
	case fmt.Stringer:
		return uuid.Parse(x.String())
	}
	return uuid.Nil, fmt.Errorf("unable to cast %#v of type %T to uuid", v, v)
}

func toJSON(v any) (any, error) {
	var raw []byte
	switch x := v.(type) {
	case string:
		raw = []byte(x)
	case []byte:
		raw = x
	case json.RawMessage:
		raw = x
	default:
		// Round-trip through the encoder to get plain maps and slices.
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
