package component

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/pdok/deckgo/mapslicehelp"
)

// Properties is the immutable descriptor table of a component class. It holds the descriptors of
// the class and all of its ancestors: parent descriptors first, in their order, then the class's own.
// An own descriptor replaces a parent's descriptor with the same name, keeping the parent's position.
type Properties struct {
	className string
	parent    *Properties
	byName    *orderedmap.OrderedMap[string, Property]
	all       []Property
}

// NewProperties builds the descriptor table of className, inheriting from parent (may be nil).
func NewProperties(className string, parent *Properties, own ...Property) *Properties {
	byName := orderedmap.New[string, Property]()
	if parent != nil {
		for pair := parent.byName.Oldest(); pair != nil; pair = pair.Next() {
			byName.Set(pair.Key, pair.Value)
		}
	}
	for _, prop := range own {
		byName.Set(prop.Name(), prop)
	}
	return &Properties{
		className: className,
		parent:    parent,
		byName:    byName,
		all:       mapslicehelp.OrderedMapValues(byName),
	}
}

func (p *Properties) ClassName() string { return p.className }

// Parent returns the table of the parent class, nil for a root class.
func (p *Properties) Parent() *Properties { return p.parent }

func (p *Properties) Len() int { return len(p.all) }

func (p *Properties) Get(name string) (Property, bool) {
	return p.byName.Get(name)
}

func (p *Properties) Has(name string) bool {
	_, ok := p.byName.Get(name)
	return ok
}

// All returns the descriptors in table order. The slice must not be modified.
func (p *Properties) All() []Property { return p.all }

// Names returns the property names in table order.
func (p *Properties) Names() []string {
	return mapslicehelp.OrderedMapKeys(p.byName)
}

// IsA reports whether the class is className or inherits from it.
func (p *Properties) IsA(className string) bool {
	for t := p; t != nil; t = t.parent {
		if t.className == className {
			return true
		}
	}
	return false
}
