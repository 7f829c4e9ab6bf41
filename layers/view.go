package layers

import (
	"math"

	"github.com/pdok/deckgo/component"
	"github.com/pdok/deckgo/mathgl"
	"github.com/pdok/deckgo/viewport"
)

// ViewState is the camera state views turn into viewports.
type ViewState struct {
	Longitude float64
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Zoom      float64
	Pitch     float64 `validate:"gte=0,lt=90"`
	Bearing   float64
	Altitude  float64 `validate:"gt=0"`
	// Target of non-geospatial views, in world units
	Target Vec3
}

func (s *ViewState) Properties() *component.Properties { return viewStateProperties }

var viewStateProperties = component.NewProperties("ViewState", nil,
	component.Field("longitude", func(s *ViewState) *float64 { return &s.Longitude }, 0),
	component.Field("latitude", func(s *ViewState) *float64 { return &s.Latitude }, 0),
	component.Field("zoom", func(s *ViewState) *float64 { return &s.Zoom }, 0),
	component.Field("pitch", func(s *ViewState) *float64 { return &s.Pitch }, 0),
	component.Field("bearing", func(s *ViewState) *float64 { return &s.Bearing }, 0),
	component.Field("altitude", func(s *ViewState) *float64 { return &s.Altitude }, 1.5),
	component.Field("target", func(s *ViewState) *Vec3 { return &s.Target }, Vec3{},
		component.WithDecoder(func(value any, _ component.Converter) (Vec3, error) { return positionFromJSON(value) })),
)

// AnyView is implemented by all view classes.
type AnyView interface {
	component.Component
	ViewProps() *View
	// Viewport builds the viewport of the view for a canvas of width by height pixels.
	Viewport(state *ViewState, width, height float64) (*viewport.Viewport, error)
}

// View holds the props all views share. Width and Height default to the canvas size.
type View struct {
	ID         string
	X          float64
	Y          float64
	Width      *float64 `validate:"omitempty,gte=0"`
	Height     *float64 `validate:"omitempty,gte=0"`
	Controller bool
}

func (v *View) ViewProps() *View { return v }

// rect places the view on a canvas of width by height pixels.
func (v *View) rect(width, height float64) viewport.Rect {
	r := viewport.Rect{X: v.X, Y: v.Y, Width: width, Height: height}
	if v.Width != nil {
		r.Width = *v.Width
	}
	if v.Height != nil {
		r.Height = *v.Height
	}
	return r
}

var viewProperties = component.NewProperties("View", nil,
	component.Field("id", func(v AnyView) *string { return &v.ViewProps().ID }, ""),
	component.Field("x", func(v AnyView) *float64 { return &v.ViewProps().X }, 0),
	component.Field("y", func(v AnyView) *float64 { return &v.ViewProps().Y }, 0),
	component.Optional("width",
		func(v AnyView) *float64 { return v.ViewProps().Width },
		func(v AnyView, w *float64) { v.ViewProps().Width = w }),
	component.Optional("height",
		func(v AnyView) *float64 { return v.ViewProps().Height },
		func(v AnyView, h *float64) { v.ViewProps().Height = h }),
	component.Field("controller", func(v AnyView) *bool { return &v.ViewProps().Controller }, false),
)

// MapView looks at the world from a geographic camera.
type MapView struct {
	View
	Repeat          bool
	NearZMultiplier float64 `validate:"gt=0"`
	FarZMultiplier  float64 `validate:"gt=0"`
	Orthographic    bool
}

func (v *MapView) Properties() *component.Properties { return mapViewProperties }

var mapViewProperties = component.NewProperties("MapView", viewProperties,
	component.Field("repeat", func(v *MapView) *bool { return &v.Repeat }, false),
	component.Field("nearZMultiplier", func(v *MapView) *float64 { return &v.NearZMultiplier }, 0.1),
	component.Field("farZMultiplier", func(v *MapView) *float64 { return &v.FarZMultiplier }, 1.01),
	component.Field("orthographic", func(v *MapView) *bool { return &v.Orthographic }, false),
)

func (v *MapView) Viewport(state *ViewState, width, height float64) (*viewport.Viewport, error) {
	r := v.rect(width, height)
	return viewport.NewWebMercator(viewport.WebMercatorOptions{
		ID:              v.ID,
		X:               r.X,
		Y:               r.Y,
		Width:           r.Width,
		Height:          r.Height,
		Longitude:       state.Longitude,
		Latitude:        state.Latitude,
		Zoom:            state.Zoom,
		Pitch:           state.Pitch,
		Bearing:         state.Bearing,
		Altitude:        state.Altitude,
		NearZMultiplier: v.NearZMultiplier,
		FarZMultiplier:  v.FarZMultiplier,
		Orthographic:    v.Orthographic,
	})
}

// OrthographicView looks straight down at a non-geospatial world.
type OrthographicView struct {
	View
	// FlipY makes y grow downwards, like pixel coordinates
	FlipY bool
	Near  float64 `validate:"gt=0"`
	Far   float64 `validate:"gtfield=Near"`
}

func (v *OrthographicView) Properties() *component.Properties { return orthographicViewProperties }

var orthographicViewProperties = component.NewProperties("OrthographicView", viewProperties,
	component.Field("flipY", func(v *OrthographicView) *bool { return &v.FlipY }, true),
	component.Field("near", func(v *OrthographicView) *float64 { return &v.Near }, 0.1),
	component.Field("far", func(v *OrthographicView) *float64 { return &v.Far }, 1000),
)

func (v *OrthographicView) Viewport(state *ViewState, width, height float64) (*viewport.Viewport, error) {
	r := v.rect(width, height)
	scale := math.Pow(2, state.Zoom)
	scaleY := scale
	if v.FlipY {
		scaleY = -scale
	}
	viewMatrix := mathgl.Translation4(Vec3{Z: -1}).Scale(Vec3{X: scale, Y: scaleY, Z: scale})
	projection := mathgl.Ortho(-r.Width/2, r.Width/2, -r.Height/2, r.Height/2, v.Near, v.Far)
	zoom := state.Zoom
	return viewport.New(v.ID, r,
		viewport.ViewMatrixOptions{
			ViewMatrix: &viewMatrix,
			Zoom:       &zoom,
			Position:   state.Target,
		},
		viewport.ProjectionMatrixOptions{ProjectionMatrix: &projection},
	)
}
