package viewport

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/pdok/deckgo/webmercator"
)

// Rect is the screen rectangle of a viewport, in pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64 `default:"1" validate:"gte=0"`
	Height float64 `default:"1" validate:"gte=0"`
}

// ViewMatrixOptions describe the camera pose.
type ViewMatrixOptions struct {
	// Uncentered view matrix, nil for identity
	ViewMatrix *Mat4
	// Geographic anchor. Nil makes the viewport non-geospatial.
	LngLat *Vec2
	// Nil derives the zoom from the meter zoom at the anchor
	Zoom *float64
	// Camera target in meters (geospatial) or world units
	Position Vec3
	// Optional model matrix applied to Position
	ModelMatrix *Mat4
	// Distance scales of a non-geospatial viewport
	DistanceScales *webmercator.DistanceScales
	FocalDistance  float64 `default:"1" validate:"gt=0"`
}

// ProjectionMatrixOptions describe the camera lens.
type ProjectionMatrixOptions struct {
	// Explicit projection matrix, skips all other lens parameters
	ProjectionMatrix *Mat4
	Orthographic     bool
	// Vertical field of view in degrees
	Fovy          float64 `default:"75" validate:"gt=0,lt=180"`
	Near          float64 `default:"0.1" validate:"gt=0"`
	Far           float64 `default:"1000" validate:"gtfield=Near"`
	FocalDistance float64 `default:"1" validate:"gt=0"`
	// Overrides FocalDistance for orthographic projections
	OrthographicFocalDistance float64
}

// WebMercatorOptions describe a map camera.
type WebMercatorOptions struct {
	ID        string `default:"default-view"`
	X         float64
	Y         float64
	Width     float64 `default:"1" validate:"gte=0"`
	Height    float64 `default:"1" validate:"gte=0"`
	Longitude float64
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Zoom      float64
	// Pitch in degrees
	Pitch float64 `validate:"gte=0,lt=90"`
	// Bearing in degrees
	Bearing float64
	// Camera altitude in viewport heights, ignored when Fovy is set
	Altitude float64 `default:"1.5" validate:"gt=0"`
	// Vertical field of view in degrees
	Fovy            float64 `validate:"gte=0,lt=180"`
	NearZMultiplier float64 `default:"0.1" validate:"gt=0"`
	FarZMultiplier  float64 `default:"1.01" validate:"gt=0"`
	Orthographic    bool
	// Meter offset of the camera target from the anchor
	Position Vec3
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// prepare fills in the defaults of opts (a pointer to an options struct) and validates it.
func prepare(opts any) error {
	if err := defaults.Set(opts); err != nil {
		return err
	}
	if err := validate.Struct(opts); err != nil {
		return fmt.Errorf(`invalid viewport options: %w`, err)
	}
	return nil
}
