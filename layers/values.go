package layers

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/pdok/deckgo/component"
	"github.com/pdok/deckgo/mathgl"
)

type (
	Vec3 = mathgl.Vector3[float64]
	Mat4 = mathgl.Matrix4[float64]
)

// Color is an RGBA color with 8 bits per channel.
type Color [4]uint8

var Black = Color{0, 0, 0, 255}

// Floats returns the channels normalized to [0, 1].
func (c Color) Floats() []float32 {
	return []float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255}
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %d)", c[0], c[1], c[2], c[3])
}

// colorFromJSON decodes [r, g, b] or [r, g, b, a] with channels in [0, 255].
func colorFromJSON(value any) (Color, error) {
	values, ok := value.([]any)
	if !ok || (len(values) != 3 && len(values) != 4) {
		return Color{}, fmt.Errorf(`%w: expected a color of 3 or 4 channels, got %v`, component.ErrTypeMismatch, value)
	}
	c := Black
	for i, v := range values {
		channel, err := component.FromJSON[int](v)
		if err != nil {
			return Color{}, fmt.Errorf(`channel %d: %w`, i, err)
		}
		if channel < 0 || channel > 255 {
			return Color{}, fmt.Errorf(`%w: channel %d out of range: %d`, component.ErrTypeMismatch, i, channel)
		}
		c[i] = uint8(channel)
	}
	return c, nil
}

// positionFromJSON decodes [x, y] or [x, y, z].
func positionFromJSON(value any) (Vec3, error) {
	values, ok := value.([]any)
	if !ok {
		return Vec3{}, fmt.Errorf(`%w: expected a position, got %T`, component.ErrTypeMismatch, value)
	}
	switch len(values) {
	case 2:
		f, err := component.FloatsFromJSON(value, 2)
		if err != nil {
			return Vec3{}, err
		}
		return Vec3{X: f[0], Y: f[1]}, nil
	case 3:
		return component.FromJSON[Vec3](value)
	}
	return Vec3{}, fmt.Errorf(`%w: a position has 2 or 3 coordinates, got %d`, component.ErrTypeMismatch, len(values))
}

func pathFromJSON(value any) ([]Vec3, error) {
	values, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf(`%w: expected a path, got %T`, component.ErrTypeMismatch, value)
	}
	path := make([]Vec3, len(values))
	for i, v := range values {
		p, err := positionFromJSON(v)
		if err != nil {
			return nil, fmt.Errorf(`vertex %d: %w`, i, err)
		}
		path[i] = p
	}
	return path, nil
}

// polygonFromJSON decodes a list of rings, or a single ring.
func polygonFromJSON(value any) ([][]Vec3, error) {
	values, ok := value.([]any)
	if !ok || len(values) == 0 {
		return nil, fmt.Errorf(`%w: expected a polygon, got %v`, component.ErrTypeMismatch, value)
	}
	if first, ok := values[0].([]any); ok && len(first) > 0 {
		if _, nested := first[0].([]any); nested {
			rings := make([][]Vec3, len(values))
			for i, v := range values {
				ring, err := pathFromJSON(v)
				if err != nil {
					return nil, fmt.Errorf(`ring %d: %w`, i, err)
				}
				rings[i] = ring
			}
			return rings, nil
		}
	}
	ring, err := pathFromJSON(value)
	if err != nil {
		return nil, err
	}
	return [][]Vec3{ring}, nil
}

func pointToVec3(p orb.Point) Vec3 { return Vec3{X: p[0], Y: p[1]} }

func lineToPath(points []orb.Point) []Vec3 {
	path := make([]Vec3, len(points))
	for i, p := range points {
		path[i] = pointToVec3(p)
	}
	return path
}

func positionFromGeometry(g orb.Geometry) (Vec3, error) {
	if p, ok := g.(orb.Point); ok {
		return pointToVec3(p), nil
	}
	return Vec3{}, fmt.Errorf(`%w: expected a Point geometry, got %s`, component.ErrTypeMismatch, g.GeoJSONType())
}

func pathFromGeometry(g orb.Geometry) ([]Vec3, error) {
	switch line := g.(type) {
	case orb.LineString:
		return lineToPath(line), nil
	case orb.Ring:
		return lineToPath(line), nil
	}
	return nil, fmt.Errorf(`%w: expected a LineString geometry, got %s`, component.ErrTypeMismatch, g.GeoJSONType())
}

func polygonFromGeometry(g orb.Geometry) ([][]Vec3, error) {
	switch polygon := g.(type) {
	case orb.Polygon:
		rings := make([][]Vec3, len(polygon))
		for i, ring := range polygon {
			rings[i] = lineToPath(ring)
		}
		return rings, nil
	case orb.Ring:
		return [][]Vec3{lineToPath(polygon)}, nil
	}
	return nil, fmt.Errorf(`%w: expected a Polygon geometry, got %s`, component.ErrTypeMismatch, g.GeoJSONType())
}
