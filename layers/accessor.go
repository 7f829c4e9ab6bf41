package layers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"github.com/pdok/deckgo/attribute"
	"github.com/pdok/deckgo/component"
	"github.com/pdok/deckgo/table"
)

// ExpressionPrefix marks a JSON string as an accessor expression naming a column.
const ExpressionPrefix = "@@="

// ErrMissingValue is returned by accessors for rows that lack the column (or geometry) they read.
var ErrMissingValue = errors.New(`missing value`)

// Accessor yields a value per row. It is a constant, a Go function, or the column named by Expr.
type Accessor[T any] struct {
	Expr  string
	Value T
	Func  func(row table.Row) (T, error)
}

func Constant[T any](v T) Accessor[T] { return Accessor[T]{Value: v} }

func FromFunc[T any](f func(row table.Row) (T, error)) Accessor[T] { return Accessor[T]{Func: f} }

// Get evaluates the accessor for row.
func (a Accessor[T]) Get(row table.Row) (T, error) {
	if a.Func == nil {
		return a.Value, nil
	}
	return a.Func(row)
}

func (a Accessor[T]) IsConstant() bool { return a.Func == nil }

func (a Accessor[T]) String() string {
	switch {
	case a.Expr != "":
		return ExpressionPrefix + a.Expr
	case a.Func != nil:
		return "func"
	}
	return fmt.Sprint(a.Value)
}

func accessorEquals[T any](a, b Accessor[T]) bool {
	if a.Expr != b.Expr || !component.EqualValues(a.Value, b.Value) {
		return false
	}
	// expressions define their function
	return a.Expr != "" || component.EqualValues(a.Func, b.Func)
}

// column returns an accessor reading the named column. The geometry column is read through
// fromGeometry when given.
func column[T any](name string, decode func(any) (T, error), fromGeometry func(orb.Geometry) (T, error)) Accessor[T] {
	a := Accessor[T]{Expr: name}
	if name == table.GeometryColumn && fromGeometry != nil {
		a.Func = func(row table.Row) (T, error) {
			g := row.Geometry()
			if g == nil {
				var zero T
				return zero, fmt.Errorf(`%w: row %d has no geometry`, ErrMissingValue, row.Index())
			}
			return fromGeometry(g)
		}
		return a
	}
	a.Func = func(row table.Row) (T, error) {
		v, ok := row.Get(name)
		if !ok {
			var zero T
			return zero, fmt.Errorf(`%w: row %d has no column %q`, ErrMissingValue, row.Index(), name)
		}
		return decode(v)
	}
	return a
}

func decodeAccessor[T any](decode func(any) (T, error), fromGeometry func(orb.Geometry) (T, error)) component.Decoder[Accessor[T]] {
	return func(value any, _ component.Converter) (Accessor[T], error) {
		if s, ok := value.(string); ok {
			name, found := strings.CutPrefix(s, ExpressionPrefix)
			if !found || name == "" {
				return Accessor[T]{}, fmt.Errorf(`%w: accessor expressions look like %scolumn, got %q`,
					component.ErrTypeMismatch, ExpressionPrefix, s)
			}
			return column(name, decode, fromGeometry), nil
		}
		v, err := decode(value)
		if err != nil {
			return Accessor[T]{}, err
		}
		return Constant(v), nil
	}
}

// accessorField binds an accessor property to a field of the props struct.
func accessorField[P component.Component, T any](name string, ptr func(P) *Accessor[T], defaultValue Accessor[T],
	decode func(any) (T, error), fromGeometry func(orb.Geometry) (T, error)) *component.PropertyT[P, Accessor[T]] {
	return component.Field(name, ptr, defaultValue,
		component.WithEquals(accessorEquals[T]),
		component.WithDecoder(decodeAccessor(decode, fromGeometry)),
	)
}

func positionAccessor(name string) Accessor[Vec3] {
	return column(name, positionFromJSON, positionFromGeometry)
}

// positions is an attribute with the float32 part of a position, positionsLow holds the rest.
func positions(a Accessor[Vec3]) attribute.Accessor {
	return func(row table.Row) ([]float32, error) {
		p, err := a.Get(row)
		if err != nil {
			return nil, err
		}
		return []float32{float32(p.X), float32(p.Y), float32(p.Z)}, nil
	}
}

func positionsLow(a Accessor[Vec3]) attribute.Accessor {
	return func(row table.Row) ([]float32, error) {
		p, err := a.Get(row)
		if err != nil {
			return nil, err
		}
		return appendLow(nil, p), nil
	}
}

func appendLow(values []float32, p Vec3) []float32 {
	return append(values,
		float32(p.X-float64(float32(p.X))),
		float32(p.Y-float64(float32(p.Y))),
		float32(p.Z-float64(float32(p.Z))))
}

func scalars(a Accessor[float64]) attribute.Accessor {
	return func(row table.Row) ([]float32, error) {
		v, err := a.Get(row)
		if err != nil {
			return nil, err
		}
		return []float32{float32(v)}, nil
	}
}

func colors(a Accessor[Color]) attribute.Accessor {
	return func(row table.Row) ([]float32, error) {
		c, err := a.Get(row)
		if err != nil {
			return nil, err
		}
		return c.Floats(), nil
	}
}

// vertices flattens the positions a row yields, lowParts selects the remainders instead.
func vertices(get func(row table.Row) ([]Vec3, error), lowParts bool) attribute.Accessor {
	return func(row table.Row) ([]float32, error) {
		path, err := get(row)
		if err != nil {
			return nil, err
		}
		values := make([]float32, 0, 3*len(path))
		for _, p := range path {
			if lowParts {
				values = appendLow(values, p)
			} else {
				values = append(values, float32(p.X), float32(p.Y), float32(p.Z))
			}
		}
		return values, nil
	}
}

func flattenRings(rings [][]Vec3) []Vec3 {
	var flat []Vec3
	for _, ring := range rings {
		flat = append(flat, ring...)
	}
	return flat
}
