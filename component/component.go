// Package component implements typed property descriptors for configuration objects (layers,
// views, decks). Descriptors give generic code access to the fields of a component: comparing
// two instances, filling in defaults and assigning values decoded from JSON.
package component

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/muesli/reflow/truncate"
)

var (
	// ErrTypeMismatch is returned when a value does not have the type a property or class expects.
	ErrTypeMismatch = errors.New(`type mismatch`)
	// ErrLookup is returned for unknown classes and property names.
	ErrLookup = errors.New(`lookup failed`)
	// ErrConversion is returned when a class factory does not produce a usable instance.
	ErrConversion = errors.New(`conversion failed`)
)

// Component is a property-bearing object. Implementations are pointers to props structs.
type Component interface {
	// Properties returns the descriptor table of the concrete class.
	Properties() *Properties
}

// Converter resolves nested JSON objects to components.
type Converter interface {
	ConvertClass(value any, typeHint string) (Component, error)
}

// MaxValueWidth is the width at which Describe truncates property values.
var MaxValueWidth uint = 60

// ClassName returns the class name of c, or "nil".
func ClassName(c Component) string {
	if isNil(c) {
		return "nil"
	}
	return c.Properties().ClassName()
}

func isNil(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Equals reports whether a and b are of the same class and all their properties are equal.
func Equals(a, b Component) bool {
	return Compare(a, b) == ""
}

// Compare describes the first difference between a and b, in property order.
// It returns an empty string when they are equal.
func Compare(a, b Component) string {
	switch {
	case isNil(a) && isNil(b):
		return ""
	case isNil(a) || isNil(b):
		return fmt.Sprintf("%s compared to %s", ClassName(a), ClassName(b))
	case a == b:
		return ""
	}
	props := a.Properties()
	if props.ClassName() != ClassName(b) {
		return fmt.Sprintf("class changed from %s to %s", props.ClassName(), ClassName(b))
	}
	for _, prop := range props.All() {
		if !prop.Equals(a, b) {
			return fmt.Sprintf("%s.%s changed", props.ClassName(), prop.Name())
		}
	}
	return ""
}

// Describe formats all properties of c on one line, truncating long values.
func Describe(c Component) string {
	if isNil(c) {
		return "nil"
	}
	props := c.Properties()
	fields := make([]string, 0, props.Len())
	for _, prop := range props.All() {
		value := truncate.StringWithTail(prop.String(c), MaxValueWidth, "...")
		fields = append(fields, prop.Name()+": "+value)
	}
	return props.ClassName() + "{" + strings.Join(fields, ", ") + "}"
}

// HasProp reports whether the class of c has a property with the given name.
func HasProp(c Component, name string) bool {
	return c.Properties().Has(name)
}

// GetProperty returns the descriptor of a property of c.
func GetProperty(c Component, name string) (Property, error) {
	prop, ok := c.Properties().Get(name)
	if !ok {
		return nil, fmt.Errorf(`%w: %s has no property %q`, ErrLookup, ClassName(c), name)
	}
	return prop, nil
}

// GetPropertyT returns the typed descriptor of a property of c.
func GetPropertyT[P Component, T any](c Component, name string) (*PropertyT[P, T], error) {
	prop, err := GetProperty(c, name)
	if err != nil {
		return nil, err
	}
	typed, ok := prop.(*PropertyT[P, T])
	if !ok {
		var zero T
		return nil, fmt.Errorf(`%w: property %s.%s is not of type %T`, ErrTypeMismatch, ClassName(c), name, zero)
	}
	return typed, nil
}

// Get returns the value of a property of c.
func Get[T any](c Component, name string) (T, error) {
	var zero T
	prop, err := GetProperty(c, name)
	if err != nil {
		return zero, err
	}
	value, err := prop.Value(c)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf(`%w: property %s.%s holds %T, not %T`, ErrTypeMismatch, ClassName(c), name, value, zero)
	}
	return typed, nil
}

// Set assigns the value of a property of c.
func Set(c Component, name string, value any) error {
	prop, err := GetProperty(c, name)
	if err != nil {
		return err
	}
	return prop.SetValue(c, value)
}

// SetDefaults assigns the default value of every property of c.
func SetDefaults(c Component) error {
	for _, prop := range c.Properties().All() {
		if err := prop.SetDefault(c); err != nil {
			return err
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the `validate` struct tags of the props struct behind c.
func Validate(c Component) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf(`invalid %s: %w`, ClassName(c), err)
	}
	return nil
}
