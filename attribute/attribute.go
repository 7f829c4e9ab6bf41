// Package attribute evaluates layer accessors over table rows into the float32 columns that
// are uploaded as GPU vertex attributes.
package attribute

import (
	"errors"
	"fmt"
	"log"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/umpc/go-sortedmap"

	"github.com/pdok/deckgo/mapslicehelp"
	"github.com/pdok/deckgo/table"
)

var (
	// ErrUnknownAttribute is returned when invalidating an attribute that was never added.
	ErrUnknownAttribute = errors.New(`unknown attribute`)
	// ErrInitialized is returned when adding attributes to an initialized manager.
	ErrInitialized = errors.New(`attribute manager already initialized`)
)

// Accessor computes the values of an attribute for one row. An instanced attribute yields
// exactly Size values, others yield Size values per vertex.
type Accessor func(row table.Row) ([]float32, error)

// Descriptor describes an attribute.
type Descriptor struct {
	Name string `validate:"required"`
	// Number of components per vertex
	Size int `default:"1" validate:"gte=1,lte=4"`
	// Shader location, attributes are ordered by it
	Location  int `validate:"gte=0"`
	Instanced bool
	Accessor  Accessor `validate:"required"`
}

// Attribute is an evaluated attribute column.
type Attribute struct {
	Descriptor
	// Value holds Size components per vertex, for all rows.
	Value []float32
	// StartIndices holds the first vertex of every row, followed by the total vertex count.
	StartIndices []int
	needsUpdate  bool
}

func (a *Attribute) NeedsUpdate() bool { return a.needsUpdate }

// NumVertices returns the number of vertices (or instances) in Value.
func (a *Attribute) NumVertices() int { return len(a.Value) / a.Size }

// Manager keeps the attributes of one layer up to date with its data.
type Manager struct {
	id          string
	pending     []Descriptor
	attributes  *sortedmap.SortedMap
	initialized bool
	needsRedraw bool
	numRows     int
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func NewManager(id string) *Manager {
	return &Manager{
		id: id,
		attributes: sortedmap.New(0, func(i, j interface{}) bool {
			a, b := i.(*Attribute), j.(*Attribute)
			if a.Location != b.Location {
				return a.Location < b.Location
			}
			return a.Name < b.Name
		}),
		numRows: -1,
	}
}

// Add registers per-vertex attributes.
func (m *Manager) Add(descriptors ...Descriptor) error {
	return m.add(false, descriptors)
}

// AddInstanced registers per-instance attributes.
func (m *Manager) AddInstanced(descriptors ...Descriptor) error {
	return m.add(true, descriptors)
}

func (m *Manager) add(instanced bool, descriptors []Descriptor) error {
	if m.initialized {
		return fmt.Errorf(`%w: cannot add attributes to %s`, ErrInitialized, m.id)
	}
	for _, d := range descriptors {
		d.Instanced = instanced
		if err := defaults.Set(&d); err != nil {
			return err
		}
		if err := validate.Struct(&d); err != nil {
			return fmt.Errorf(`invalid attribute %q of %s: %w`, d.Name, m.id, err)
		}
		m.pending = append(m.pending, d)
	}
	return nil
}

// Initialize creates the attributes from the registered descriptors and clears the registrations.
func (m *Manager) Initialize() error {
	if m.initialized {
		return fmt.Errorf(`%w: %s`, ErrInitialized, m.id)
	}
	for _, d := range m.pending {
		if !m.attributes.Insert(d.Name, &Attribute{Descriptor: d, needsUpdate: true}) {
			return fmt.Errorf(`attribute %q of %s is added twice`, d.Name, m.id)
		}
	}
	m.pending = nil
	m.initialized = true
	return nil
}

func (m *Manager) Initialized() bool { return m.initialized }

// Attributes returns the attributes ordered by shader location.
func (m *Manager) Attributes() []*Attribute {
	return mapslicehelp.SortedMapValues[*Attribute](m.attributes)
}

func (m *Manager) Get(name string) (*Attribute, bool) {
	v, ok := m.attributes.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Attribute), true
}

// Update evaluates the accessors of the attributes that need an update over all rows of t.
// A change in the number of rows updates all attributes. Update does nothing before Initialize.
func (m *Manager) Update(t table.Table) error {
	if !m.initialized {
		return nil
	}
	numRows := 0
	if t != nil {
		numRows = t.NumRows()
	}
	if numRows != m.numRows {
		m.InvalidateAll()
		m.numRows = numRows
	}

	updated := 0
	for _, attr := range m.Attributes() {
		if !attr.needsUpdate {
			continue
		}
		if err := attr.update(t, numRows); err != nil {
			return fmt.Errorf(`updating attribute %q of %s: %w`, attr.Name, m.id, err)
		}
		updated++
	}
	if updated > 0 {
		m.needsRedraw = true
		log.Printf("%s: updated %d attribute(s) for %d rows", m.id, updated, numRows)
	}
	return nil
}

func (a *Attribute) update(t table.Table, numRows int) error {
	a.Value = a.Value[:0]
	a.StartIndices = make([]int, 0, numRows+1)
	for i := 0; i < numRows; i++ {
		a.StartIndices = append(a.StartIndices, len(a.Value)/a.Size)
		values, err := a.Accessor(t.Row(i))
		if err != nil {
			return fmt.Errorf(`row %d: %w`, i, err)
		}
		if a.Instanced && len(values) != a.Size || len(values)%a.Size != 0 {
			return fmt.Errorf(`row %d: accessor returned %d values for size %d`, i, len(values), a.Size)
		}
		a.Value = append(a.Value, values...)
	}
	a.StartIndices = append(a.StartIndices, len(a.Value)/a.Size)
	a.needsUpdate = false
	return nil
}

// Invalidate marks one attribute for update.
func (m *Manager) Invalidate(name string) error {
	attr, ok := m.Get(name)
	if !ok {
		return fmt.Errorf(`%w: %s has no attribute %q`, ErrUnknownAttribute, m.id, name)
	}
	attr.needsUpdate = true
	return nil
}

// InvalidateAll marks all attributes for update.
func (m *Manager) InvalidateAll() {
	for _, attr := range m.Attributes() {
		attr.needsUpdate = true
	}
}

// NeedsRedraw reports whether attributes changed since the flag was last cleared.
func (m *Manager) NeedsRedraw(clear bool) bool {
	needsRedraw := m.needsRedraw
	if clear {
		m.needsRedraw = false
	}
	return needsRedraw
}

func (m *Manager) SetNeedsRedraw() { m.needsRedraw = true }
