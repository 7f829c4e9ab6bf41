// Package jsonconv turns JSON (or YAML) documents into component object graphs. Every object
// names its class with an @@type key; nested objects without one take the class their property
// declares.
package jsonconv

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/perimeterx/marshmallow"
	"gopkg.in/yaml.v3"

	"github.com/pdok/deckgo/component"
)

// TypeKey is the key naming the class of a JSON object.
const TypeKey = "@@type"

var ErrParse = errors.New(`parse error`)

type header struct {
	Type string `json:"@@type"`
}

// Converter converts JSON values to instances of the classes in its registry.
type Converter struct {
	registry *component.Registry
}

func New(registry *component.Registry) *Converter {
	return &Converter{registry: registry}
}

// Convert converts raw, JSON text as a string or []byte or an already decoded value, to a
// component. Only object roots are supported.
func (c *Converter) Convert(raw any, typeHint string) (component.Component, error) {
	var value any
	switch r := raw.(type) {
	case []byte:
		if err := json.Unmarshal(r, &value); err != nil {
			return nil, fmt.Errorf(`%w: %w`, ErrParse, err)
		}
	case string:
		if err := json.Unmarshal([]byte(r), &value); err != nil {
			return nil, fmt.Errorf(`%w: %w`, ErrParse, err)
		}
	default:
		value = raw
	}
	return c.ConvertClass(value, typeHint)
}

// ConvertYAML converts a YAML document with the same structure as the JSON ones.
func (c *Converter) ConvertYAML(data []byte, typeHint string) (component.Component, error) {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf(`%w: %w`, ErrParse, err)
	}
	return c.ConvertClass(value, typeHint)
}

// ConvertClass converts a decoded JSON object. The @@type key wins over typeHint. Keys the
// class has no property for are ignored.
func (c *Converter) ConvertClass(value any, typeHint string) (component.Component, error) {
	object, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf(`%w: JSON expect object to convert into class %s`, component.ErrTypeMismatch, typeHint)
	}
	var h header
	rest, err := marshmallow.UnmarshalFromJSONMap(object, &h, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return nil, fmt.Errorf(`%w: %s must be a string: %w`, component.ErrTypeMismatch, TypeKey, err)
	}
	className := h.Type
	if className == "" {
		className = typeHint
	}
	if className == "" {
		return nil, fmt.Errorf(`%w: unknown %s`, component.ErrLookup, TypeKey)
	}

	instance, err := c.registry.New(className)
	if err != nil {
		return nil, err
	}
	for _, prop := range instance.Properties().All() {
		v, ok := rest[prop.Name()]
		if !ok {
			continue
		}
		if err := prop.SetFromJSON(instance, v, c); err != nil {
			return nil, err
		}
	}
	return instance, nil
}
