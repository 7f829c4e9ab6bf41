package component

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pdok/deckgo/mathgl"
)

// Property describes one named field of a component class.
type Property interface {
	Name() string
	// TypeName is the class name nested values are resolved with, if any.
	TypeName() string
	IsList() bool
	Default() any
	Value(c Component) (any, error)
	SetValue(c Component, value any) error
	SetDefault(c Component) error
	Equals(a, b Component) bool
	SetFromJSON(c Component, value any, conv Converter) error
	String(c Component) string
}

// Decoder converts a JSON value (as produced by encoding/json or yaml.v3) to T.
type Decoder[T any] func(value any, conv Converter) (T, error)

type settings[T any] struct {
	typeName string
	isList   bool
	equal    func(a, b T) bool
	decode   Decoder[T]
	format   func(T) string
}

// Option customizes a bound property.
type Option[T any] func(*settings[T])

// WithEquals replaces the equality of the property values.
func WithEquals[T any](equal func(a, b T) bool) Option[T] {
	return func(s *settings[T]) { s.equal = equal }
}

// WithDecoder replaces the JSON decoder of the property.
func WithDecoder[T any](decode Decoder[T]) Option[T] {
	return func(s *settings[T]) { s.decode = decode }
}

// WithFormat replaces the formatting of the property values.
func WithFormat[T any](format func(T) string) Option[T] {
	return func(s *settings[T]) { s.format = format }
}

// PropertyT is a property of type T on props struct P, accessed through closures bound at registration.
type PropertyT[P Component, T any] struct {
	settings[T]
	name         string
	get          func(P) T
	set          func(P, T)
	defaultValue T
}

// Bind creates a property descriptor from a getter and a setter.
func Bind[P Component, T any](name string, get func(P) T, set func(P, T), defaultValue T, opts ...Option[T]) *PropertyT[P, T] {
	p := &PropertyT[P, T]{
		settings: settings[T]{
			equal: equalFunc[T](),
			decode: func(value any, _ Converter) (T, error) {
				return FromJSON[T](value)
			},
			format: func(v T) string { return fmt.Sprint(v) },
		},
		name:         name,
		get:          get,
		set:          set,
		defaultValue: defaultValue,
	}
	for _, opt := range opts {
		opt(&p.settings)
	}
	return p
}

// Field binds a property to a field of the props struct.
func Field[P Component, T any](name string, ptr func(P) *T, defaultValue T, opts ...Option[T]) *PropertyT[P, T] {
	return Bind(name, func(p P) T { return *ptr(p) }, func(p P, v T) { *ptr(p) = v }, defaultValue, opts...)
}

// Optional binds a property that may be absent; JSON null unsets it.
func Optional[P Component, T any](name string, get func(P) *T, set func(P, *T), opts ...Option[T]) *PropertyT[P, *T] {
	inner := Bind[P, T](name, nil, nil, *new(T), opts...)
	return Bind(name, get, set, nil,
		WithEquals(func(a, b *T) bool {
			if a == nil || b == nil {
				return a == b
			}
			return inner.equal(*a, *b)
		}),
		WithDecoder(func(value any, conv Converter) (*T, error) {
			if value == nil {
				return nil, nil
			}
			v, err := inner.decode(value, conv)
			if err != nil {
				return nil, err
			}
			return &v, nil
		}),
		WithFormat(func(v *T) string {
			if v == nil {
				return "null"
			}
			return inner.format(*v)
		}),
	)
}

// Nested binds a property holding a single nested component of class C.
// JSON values are resolved with typeName as the class hint.
func Nested[P Component, C Component](name, typeName string, get func(P) C, set func(P, C)) *PropertyT[P, C] {
	p := Bind(name, get, set, *new(C),
		WithEquals(func(a, b C) bool { return Equals(a, b) }),
		WithDecoder(func(value any, conv Converter) (C, error) {
			return convertNested[C](value, typeName, conv)
		}),
		WithFormat(func(v C) string { return Describe(v) }),
	)
	p.typeName = typeName
	return p
}

// NestedList binds a property holding a list of nested components of class C.
func NestedList[P Component, C Component](name, typeName string, get func(P) []C, set func(P, []C)) *PropertyT[P, []C] {
	p := Bind(name, get, set, nil,
		WithEquals(func(a, b []C) bool {
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if !Equals(a[i], b[i]) {
					return false
				}
			}
			return true
		}),
		WithDecoder(func(value any, conv Converter) ([]C, error) {
			values, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf(`%w: expected a list of %s, got %T`, ErrTypeMismatch, typeName, value)
			}
			list := make([]C, 0, len(values))
			for i, v := range values {
				c, err := convertNested[C](v, typeName, conv)
				if err != nil {
					return nil, fmt.Errorf(`element %d: %w`, i, err)
				}
				list = append(list, c)
			}
			return list, nil
		}),
		WithFormat(func(v []C) string {
			descriptions := make([]string, len(v))
			for i := range v {
				descriptions[i] = Describe(v[i])
			}
			return "[" + strings.Join(descriptions, ", ") + "]"
		}),
	)
	p.typeName = typeName
	p.isList = true
	return p
}

func convertNested[C Component](value any, typeName string, conv Converter) (C, error) {
	var zero C
	if conv == nil {
		return zero, fmt.Errorf(`%w: no converter for nested %s`, ErrConversion, typeName)
	}
	c, err := conv.ConvertClass(value, typeName)
	if err != nil {
		return zero, err
	}
	typed, ok := c.(C)
	if !ok {
		return zero, fmt.Errorf(`%w: expected %s, got %s`, ErrTypeMismatch, typeName, ClassName(c))
	}
	return typed, nil
}

func (p *PropertyT[P, T]) Name() string     { return p.name }
func (p *PropertyT[P, T]) TypeName() string { return p.typeName }
func (p *PropertyT[P, T]) IsList() bool     { return p.isList }
func (p *PropertyT[P, T]) Default() any     { return p.defaultValue }

// Get returns the value of the property of c.
func (p *PropertyT[P, T]) Get(c P) T { return p.get(c) }

// Set assigns the value of the property of c.
func (p *PropertyT[P, T]) Set(c P, v T) { p.set(c, v) }

func (p *PropertyT[P, T]) target(c Component) (P, error) {
	target, ok := c.(P)
	if !ok {
		return target, fmt.Errorf(`%w: property %s does not belong to %s`, ErrTypeMismatch, p.name, ClassName(c))
	}
	return target, nil
}

func (p *PropertyT[P, T]) Value(c Component) (any, error) {
	target, err := p.target(c)
	if err != nil {
		return nil, err
	}
	return p.get(target), nil
}

func (p *PropertyT[P, T]) SetValue(c Component, value any) error {
	target, err := p.target(c)
	if err != nil {
		return err
	}
	typed, ok := value.(T)
	if !ok && (value != nil || !nillable[T]()) {
		return fmt.Errorf(`%w: property %s.%s expects %v, got %T`, ErrTypeMismatch, ClassName(c), p.name,
			reflect.TypeOf((*T)(nil)).Elem(), value)
	}
	p.set(target, typed)
	return nil
}

// nillable reports whether nil is a valid value of T.
func nillable[T any]() bool {
	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func (p *PropertyT[P, T]) SetDefault(c Component) error {
	target, err := p.target(c)
	if err != nil {
		return err
	}
	p.set(target, p.defaultValue)
	return nil
}

// Equals compares the property values of a and b. Components of another class are never equal.
func (p *PropertyT[P, T]) Equals(a, b Component) bool {
	ta, err := p.target(a)
	if err != nil {
		return false
	}
	tb, err := p.target(b)
	if err != nil {
		return false
	}
	return p.equal(p.get(ta), p.get(tb))
}

func (p *PropertyT[P, T]) SetFromJSON(c Component, value any, conv Converter) error {
	target, err := p.target(c)
	if err != nil {
		return err
	}
	v, err := p.decode(value, conv)
	if err != nil {
		return fmt.Errorf(`property %s.%s: %w`, ClassName(c), p.name, err)
	}
	p.set(target, v)
	return nil
}

func (p *PropertyT[P, T]) String(c Component) string {
	target, err := p.target(c)
	if err != nil {
		return err.Error()
	}
	return p.format(p.get(target))
}

func equalFunc[T any]() func(a, b T) bool {
	var zero T
	switch any(zero).(type) {
	case float32:
		return func(a, b T) bool { return mathgl.EqualsApprox(any(a).(float32), any(b).(float32)) }
	case float64:
		return func(a, b T) bool { return mathgl.EqualsApprox(any(a).(float64), any(b).(float64)) }
	case mathgl.Vector3[float32]:
		return func(a, b T) bool { return any(a).(mathgl.Vector3[float32]).Equals(any(b).(mathgl.Vector3[float32])) }
	case mathgl.Vector3[float64]:
		return func(a, b T) bool { return any(a).(mathgl.Vector3[float64]).Equals(any(b).(mathgl.Vector3[float64])) }
	case mathgl.Matrix4[float32]:
		return func(a, b T) bool { return any(a).(mathgl.Matrix4[float32]).Equals(any(b).(mathgl.Matrix4[float32])) }
	case mathgl.Matrix4[float64]:
		return func(a, b T) bool { return any(a).(mathgl.Matrix4[float64]).Equals(any(b).(mathgl.Matrix4[float64])) }
	}
	return func(a, b T) bool { return EqualValues(a, b) }
}

// EqualValues compares two values deeply. Functions are equal when they share their code pointer.
func EqualValues(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Func && vb.Kind() == reflect.Func {
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return va.Pointer() == vb.Pointer()
	}
	return reflect.DeepEqual(a, b)
}
