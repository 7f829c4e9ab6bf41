package attribute

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/deckgo/table"
)

func testTable(t *testing.T, n int) table.Table {
	t.Helper()
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{"x": float64(i), "y": float64(10 * i)}
	}
	tbl, err := table.NewRowTable(rows)
	require.NoError(t, err)
	return tbl
}

func column(name string) Accessor {
	return func(row table.Row) ([]float32, error) {
		v, ok := row.Get(name)
		if !ok {
			return nil, errors.New("missing " + name)
		}
		return []float32{float32(v.(float64))}, nil
	}
}

func positions(row table.Row) ([]float32, error) {
	x, _ := row.Get("x")
	y, _ := row.Get("y")
	return []float32{float32(x.(float64)), float32(y.(float64)), 0}, nil
}

// path yields one vertex per index up to the row index
func path(row table.Row) ([]float32, error) {
	values := make([]float32, 0, 2*(row.Index()+1))
	for i := 0; i <= row.Index(); i++ {
		values = append(values, float32(i), float32(row.Index()))
	}
	return values, nil
}

func newManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager("points")
	require.NoError(t, m.AddInstanced(
		Descriptor{Name: "instancePositions", Size: 3, Location: 0, Accessor: positions},
		Descriptor{Name: "instanceRadius", Location: 2, Accessor: column("x")},
	))
	require.NoError(t, m.Add(Descriptor{Name: "vertices", Size: 2, Location: 1, Accessor: path}))
	require.NoError(t, m.Initialize())
	return m
}

func TestUpdateBeforeInitializeIsNoop(t *testing.T) {
	m := NewManager("points")
	require.NoError(t, m.Add(Descriptor{Name: "a", Accessor: column("x")}))
	require.NoError(t, m.Update(testTable(t, 3)))
	assert.False(t, m.Initialized())
	assert.Empty(t, m.Attributes())
	assert.False(t, m.NeedsRedraw(false))
}

func TestInitialize(t *testing.T) {
	m := newManager(t)
	assert.True(t, m.Initialized())
	assert.Empty(t, m.pending)

	attrs := m.Attributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, "instancePositions", attrs[0].Name)
	assert.Equal(t, "vertices", attrs[1].Name)
	assert.Equal(t, "instanceRadius", attrs[2].Name)
	assert.True(t, attrs[0].Instanced)
	assert.False(t, attrs[1].Instanced)
	assert.Equal(t, 1, attrs[2].Size)
	for _, attr := range attrs {
		assert.True(t, attr.NeedsUpdate())
	}

	require.ErrorIs(t, m.Initialize(), ErrInitialized)
	require.ErrorIs(t, m.Add(Descriptor{Name: "late", Accessor: path}), ErrInitialized)
}

func TestAddInvalidDescriptor(t *testing.T) {
	m := NewManager("points")
	tests := map[string]Descriptor{
		"no name":     {Accessor: path},
		"no accessor": {Name: "a"},
		"size":        {Name: "a", Size: 5, Accessor: path},
		"location":    {Name: "a", Location: -1, Accessor: path},
	}
	for name, d := range tests {
		t.Run(name, func(t *testing.T) {
			err := m.Add(d)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid attribute")
		})
	}
}

func TestInitializeDuplicate(t *testing.T) {
	m := NewManager("points")
	require.NoError(t, m.Add(Descriptor{Name: "a", Accessor: path}))
	require.NoError(t, m.AddInstanced(Descriptor{Name: "a", Accessor: path}))
	assert.Error(t, m.Initialize())
}

func TestUpdate(t *testing.T) {
	m := newManager(t)
	require.NoError(t, m.Update(testTable(t, 3)))

	positions, ok := m.Get("instancePositions")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 0, 0, 1, 10, 0, 2, 20, 0}, positions.Value)
	assert.Equal(t, []int{0, 1, 2, 3}, positions.StartIndices)
	assert.Equal(t, 3, positions.NumVertices())

	vertices, ok := m.Get("vertices")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 0, 0, 1, 1, 1, 0, 2, 1, 2, 2, 2}, vertices.Value)
	assert.Equal(t, []int{0, 1, 3, 6}, vertices.StartIndices)

	for _, attr := range m.Attributes() {
		assert.False(t, attr.NeedsUpdate())
	}
	assert.True(t, m.NeedsRedraw(true))
	assert.False(t, m.NeedsRedraw(false))

	// nothing invalidated, nothing to do
	require.NoError(t, m.Update(testTable(t, 3)))
	assert.False(t, m.NeedsRedraw(false))
}

func TestInvalidateSingleAttribute(t *testing.T) {
	m := newManager(t)
	require.NoError(t, m.Update(testTable(t, 2)))
	m.NeedsRedraw(true)

	radius, _ := m.Get("instanceRadius")
	positions, _ := m.Get("instancePositions")
	require.NoError(t, m.Invalidate("instanceRadius"))
	assert.True(t, radius.NeedsUpdate())
	assert.False(t, positions.NeedsUpdate())

	// the new accessor is only evaluated for the invalidated attribute
	radius.Accessor = column("y")
	positions.Accessor = func(table.Row) ([]float32, error) { return nil, errors.New("should not be called") }
	require.NoError(t, m.Update(testTable(t, 2)))
	assert.Equal(t, []float32{0, 10}, radius.Value)
	assert.True(t, m.NeedsRedraw(false))

	require.ErrorIs(t, m.Invalidate("colors"), ErrUnknownAttribute)
}

func TestInvalidateAll(t *testing.T) {
	m := newManager(t)
	require.NoError(t, m.Update(testTable(t, 2)))
	m.InvalidateAll()
	for _, attr := range m.Attributes() {
		assert.True(t, attr.NeedsUpdate())
	}
}

func TestRowCountChangeUpdatesAll(t *testing.T) {
	m := newManager(t)
	require.NoError(t, m.Update(testTable(t, 2)))
	require.NoError(t, m.Update(testTable(t, 4)))
	positions, _ := m.Get("instancePositions")
	assert.Equal(t, 4, positions.NumVertices())

	require.NoError(t, m.Update(nil))
	assert.Empty(t, positions.Value)
	assert.Equal(t, []int{0}, positions.StartIndices)
}

func TestUpdateErrors(t *testing.T) {
	m := NewManager("broken")
	require.NoError(t, m.AddInstanced(Descriptor{Name: "size", Size: 2, Accessor: column("x")}))
	require.NoError(t, m.Initialize())
	err := m.Update(testTable(t, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `updating attribute "size" of broken: row 0: accessor returned 1 values for size 2`)

	m = NewManager("missing")
	require.NoError(t, m.Add(Descriptor{Name: "z", Accessor: column("z")}))
	require.NoError(t, m.Initialize())
	err = m.Update(testTable(t, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing z")
	assert.False(t, m.NeedsRedraw(false))
}

func TestSetNeedsRedraw(t *testing.T) {
	m := NewManager("points")
	assert.False(t, m.NeedsRedraw(false))
	m.SetNeedsRedraw()
	assert.True(t, m.NeedsRedraw(true))
	assert.False(t, m.NeedsRedraw(true))
}
