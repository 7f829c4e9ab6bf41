package layers

import (
	"errors"
	"fmt"

	"github.com/pdok/deckgo/attribute"
	"github.com/pdok/deckgo/component"
	"github.com/pdok/deckgo/project"
	"github.com/pdok/deckgo/viewport"
)

var (
	ErrNoSize      = errors.New(`deck has no size`)
	ErrNoViewState = errors.New(`deck has no view state`)
)

// Deck is the root of a declarative document: layers drawn through views.
type Deck struct {
	Width            float64 `validate:"gte=0"`
	Height           float64 `validate:"gte=0"`
	Layers           []AnyLayer
	Views            []AnyView
	InitialViewState *ViewState
	// ViewState overrides InitialViewState
	ViewState *ViewState
}

func (d *Deck) Properties() *component.Properties { return deckProperties }

var deckProperties = component.NewProperties("Deck", nil,
	component.Field("width", func(d *Deck) *float64 { return &d.Width }, 0),
	component.Field("height", func(d *Deck) *float64 { return &d.Height }, 0),
	component.NestedList("layers", "Layer",
		func(d *Deck) []AnyLayer { return d.Layers },
		func(d *Deck, layers []AnyLayer) { d.Layers = layers }),
	component.NestedList("views", "View",
		func(d *Deck) []AnyView { return d.Views },
		func(d *Deck, views []AnyView) { d.Views = views }),
	component.Nested("initialViewState", "ViewState",
		func(d *Deck) *ViewState { return d.InitialViewState },
		func(d *Deck, s *ViewState) { d.InitialViewState = s }),
	component.Nested("viewState", "ViewState",
		func(d *Deck) *ViewState { return d.ViewState },
		func(d *Deck, s *ViewState) { d.ViewState = s }),
)

// CurrentViewState returns the view state the viewports are built from.
func (d *Deck) CurrentViewState() *ViewState {
	if d.ViewState != nil {
		return d.ViewState
	}
	return d.InitialViewState
}

// Viewports builds a viewport per view, or a single map viewport without views.
func (d *Deck) Viewports() ([]*viewport.Viewport, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf(`%w: %vx%v`, ErrNoSize, d.Width, d.Height)
	}
	state := d.CurrentViewState()
	if state == nil {
		return nil, ErrNoViewState
	}
	views := d.Views
	if len(views) == 0 {
		mapView := &MapView{}
		if err := component.SetDefaults(mapView); err != nil {
			return nil, err
		}
		views = []AnyView{mapView}
	}
	viewports := make([]*viewport.Viewport, 0, len(views))
	for i, view := range views {
		vp, err := view.Viewport(state, d.Width, d.Height)
		if err != nil {
			return nil, fmt.Errorf(`view %d (%s): %w`, i, component.ClassName(view), err)
		}
		viewports = append(viewports, vp)
	}
	return viewports, nil
}

// Validate checks the deck, its view states, views and layers.
func (d *Deck) Validate() error {
	if err := component.Validate(d); err != nil {
		return err
	}
	for _, state := range []*ViewState{d.InitialViewState, d.ViewState} {
		if state == nil {
			continue
		}
		if err := component.Validate(state); err != nil {
			return err
		}
	}
	for i, view := range d.Views {
		if err := component.Validate(view); err != nil {
			return fmt.Errorf(`view %d: %w`, i, err)
		}
	}
	for i, layer := range d.Layers {
		if err := component.Validate(layer); err != nil {
			return fmt.Errorf(`layer %d (%s): %w`, i, layer.LayerProps().ID, err)
		}
	}
	return nil
}

// LayerUniforms returns the projection uniforms of layer drawn in vp.
func LayerUniforms(vp *viewport.Viewport, layer AnyLayer, devicePixelRatio float64) (project.Uniforms, error) {
	props := layer.LayerProps()
	return project.GetUniforms(vp, project.UniformOptions{
		CoordinateSystem: props.CoordinateSystem,
		CoordinateOrigin: props.CoordinateOrigin,
		ModelMatrix:      props.ModelMatrix,
		WrapLongitude:    props.WrapLongitude,
		DevicePixelRatio: devicePixelRatio,
	})
}

// LayerAttributes computes the attributes of layer for its data.
func LayerAttributes(layer AnyLayer) (*attribute.Manager, error) {
	props := layer.LayerProps()
	m := attribute.NewManager(props.ID)
	if err := layer.AddAttributes(m); err != nil {
		return nil, err
	}
	if err := m.Initialize(); err != nil {
		return nil, err
	}
	if err := m.Update(props.Data); err != nil {
		return nil, err
	}
	return m, nil
}
