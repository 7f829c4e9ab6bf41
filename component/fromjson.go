package component

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pdok/deckgo/mathgl"
)

// FromJSON converts a decoded JSON value to T. Supported are bool, int, float32, float64, string,
// Vector3 (an array of 3 numbers) and Matrix4 (an array of 16 numbers in row-major order).
func FromJSON[T any](value any) (T, error) {
	var zero T
	var (
		v   any
		err error
	)
	switch any(zero).(type) {
	case bool:
		v, err = boolFromJSON(value)
	case int:
		v, err = intFromJSON(value)
	case float32:
		var f float64
		f, err = floatFromJSON(value)
		v = float32(f)
	case float64:
		v, err = floatFromJSON(value)
	case string:
		v, err = stringFromJSON(value)
	case mathgl.Vector3[float32]:
		v, err = vector3FromJSON[float32](value)
	case mathgl.Vector3[float64]:
		v, err = vector3FromJSON[float64](value)
	case mathgl.Matrix4[float32]:
		v, err = matrix4FromJSON[float32](value)
	case mathgl.Matrix4[float64]:
		v, err = matrix4FromJSON[float64](value)
	default:
		return zero, fmt.Errorf(`%w: cannot decode %T from JSON`, ErrTypeMismatch, zero)
	}
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

func mismatch(want string, value any) error {
	return fmt.Errorf(`%w: expected %s, got %T`, ErrTypeMismatch, want, value)
}

func boolFromJSON(value any) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, mismatch("a boolean", value)
	}
	return b, nil
}

// intFromJSON accepts integral numbers only.
func intFromJSON(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		if v > math.MaxInt {
			return 0, mismatch("an int", value)
		}
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf(`%w: expected an int, got %s`, ErrTypeMismatch, v)
		}
		return int(i), nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
			return 0, fmt.Errorf(`%w: expected an int, got %v`, ErrTypeMismatch, v)
		}
		return int(v), nil
	}
	return 0, mismatch("an int", value)
}

func floatFromJSON(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf(`%w: expected a number, got %s`, ErrTypeMismatch, v)
		}
		return f, nil
	}
	return 0, mismatch("a number", value)
}

func stringFromJSON(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", mismatch("a string", value)
	}
	return s, nil
}

// FloatsFromJSON decodes an array of n numbers.
func FloatsFromJSON(value any, n int) ([]float64, error) {
	values, ok := value.([]any)
	if !ok {
		return nil, mismatch(fmt.Sprintf("an array of %d numbers", n), value)
	}
	if len(values) != n {
		return nil, fmt.Errorf(`%w: expected an array of %d numbers, got %d elements`, ErrTypeMismatch, n, len(values))
	}
	floats := make([]float64, n)
	for i, v := range values {
		f, err := floatFromJSON(v)
		if err != nil {
			return nil, fmt.Errorf(`element %d: %w`, i, err)
		}
		floats[i] = f
	}
	return floats, nil
}

func vector3FromJSON[T mathgl.Float](value any) (mathgl.Vector3[T], error) {
	f, err := FloatsFromJSON(value, 3)
	if err != nil {
		return mathgl.Vector3[T]{}, err
	}
	return mathgl.Vec3(T(f[0]), T(f[1]), T(f[2])), nil
}

func matrix4FromJSON[T mathgl.Float](value any) (mathgl.Matrix4[T], error) {
	var m mathgl.Matrix4[T]
	f, err := FloatsFromJSON(value, 16)
	if err != nil {
		return m, err
	}
	for i := range f {
		m[i] = T(f[i])
	}
	return m, nil
}
