// Package host models the pieces of a SQL engine's function-call interface
// that the extension relies on: dynamically typed values, tagged opaque
// pointers and per-call auxiliary data slots.
package host

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a SQL value as seen by a function: nil (NULL), int64, float64,
// string, []byte or Pointer.
type Value any

// Pointer is an opaque handle tagged with a type name. A consumer only
// trusts the Value when Tag is the one it expects.
type Pointer struct {
	Tag   string
	Value any
}

// IsNull reports whether v is SQL NULL.
func IsNull(v Value) bool {
	return v == nil
}

// Text returns v as text. Integers and floats are rendered in decimal, NULL
// and pointers are not text.
func Text(v Value) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	}
	return "", false
}

var (
	// ErrNotInteger is returned when a value has no integer reading.
	ErrNotInteger = errors.New("host: value is not an integer")
	// ErrOutOfRange is returned for integers outside the uint64 range.
	ErrOutOfRange = errors.New("host: integer out of range")
)

// twoTo64 is the smallest float64 above math.MaxUint64.
const twoTo64 = 1 << 64

// Uint64 returns v as an unsigned integer. Floats convert only when
// integral. Text converts only when it is a plain decimal integer, so values
// beyond int64 that the engine keeps as text still fit. Negative or
// oversized integers fail with ErrOutOfRange, anything else with
// ErrNotInteger.
func Uint64(v Value) (uint64, error) {
	switch x := v.(type) {
	case int64:
		if x < 0 {
			return 0, fmt.Errorf("%w: %d", ErrOutOfRange, x)
		}
		return uint64(x), nil
	case float64:
		if math.IsNaN(x) || x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %v", ErrNotInteger, x)
		}
		if x < 0 || x >= twoTo64 {
			return 0, fmt.Errorf("%w: %v", ErrOutOfRange, x)
		}
		return uint64(x), nil
	case string:
		return parseUint(x)
	case []byte:
		return parseUint(string(x))
	}
	return 0, ErrNotInteger
}

func parseUint(s string) (uint64, error) {
	if digits, ok := strings.CutPrefix(s, "-"); ok {
		if _, err := strconv.ParseUint(digits, 10, 64); err == nil || errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s", ErrOutOfRange, s)
		}
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, s)
	case err != nil:
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	return n, nil
}

// PointerValue returns the payload of v when v is a Pointer carrying tag.
func PointerValue(v Value, tag string) (any, bool) {
	p, ok := v.(Pointer)
	if !ok || p.Tag != tag {
		return nil, false
	}
	return p.Value, true
}
