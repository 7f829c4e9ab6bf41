// Package layers holds the component classes of a declarative deck document: the deck itself,
// its views and view state, and the layers with their vertex attributes.
package layers

import (
	"sync"

	"github.com/pdok/deckgo/component"
)

// Registry returns the frozen registry of all classes in this package.
var Registry = sync.OnceValue(func() *component.Registry {
	return component.NewRegistry().
		Register(deckProperties, factory(func() *Deck { return &Deck{} })).
		Register(viewStateProperties, factory(func() *ViewState { return &ViewState{} })).
		Register(mapViewProperties, factory(func() *MapView { return &MapView{} })).
		Register(orthographicViewProperties, factory(func() *OrthographicView { return &OrthographicView{} })).
		Register(scatterplotLayerProperties, factory(func() *ScatterplotLayer { return &ScatterplotLayer{} })).
		Register(lineLayerProperties, factory(func() *LineLayer { return &LineLayer{} })).
		Register(pathLayerProperties, factory(func() *PathLayer { return &PathLayer{} })).
		Register(solidPolygonLayerProperties, factory(func() *SolidPolygonLayer { return &SolidPolygonLayer{} })).
		Freeze()
})

// factory wraps newInstance to set the defaults of every instance.
func factory[C component.Component](newInstance func() C) component.Factory {
	return func() component.Component {
		c := newInstance()
		if err := component.SetDefaults(c); err != nil {
			// defaults are bound to the class, so this is a programming error
			panic(err)
		}
		return c
	}
}
