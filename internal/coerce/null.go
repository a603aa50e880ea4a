package coerce

import (
	"database/sql/driver"
	"math"
	"reflect"
	"time"
)

// Nullable is implemented by values that decide for themselves whether they
// count as null. Records and collections implement it and always report false.
type Nullable interface {
	IsNull() bool
}

// Lengther is implemented by container values such as tables
type Lengther interface {
	Len() int
}

// IsNull reports whether v is a missing value. Empty containers only count as
// null when emptyAsNull is set.
func IsNull(v any, emptyAsNull bool) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return true
		}
	}

	switch x := v.(type) {
	case Nullable:
		return x.IsNull()
	case driver.Valuer:
		inner, err := x.Value()
		if err != nil {
			return false
		}
		return IsNull(inner, emptyAsNull)
	case Lengther:
		return emptyAsNull && x.Len() == 0
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	case time.Time:
		return x.IsZero()
	case *time.Time:
		return x.IsZero()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return emptyAsNull && rv.Len() == 0
	}
	return false
}

// isBlankText reports whether v is an empty string
func isBlankText(v any) bool {
	switch x := v.(type) {
	case string:
		return len(x) == 0
	case []byte:
		return len(x) == 0
	}
	return false
}
