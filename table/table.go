// Package table provides the row data that layers render: plain JSON rows or GeoJSON features.
package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrUnsupported is returned for data that is neither a list of rows nor a FeatureCollection.
var ErrUnsupported = errors.New(`unsupported data`)

// GeometryColumn is the column holding a row's GeoJSON geometry.
const GeometryColumn = "geometry"

// Row is one record of a table.
type Row interface {
	Index() int
	// Get returns the value of a column; values are decoded JSON values.
	Get(column string) (any, bool)
	// Geometry returns the geometry of the row, nil when it has none.
	Geometry() orb.Geometry
}

// Table is a sequence of rows.
type Table interface {
	NumRows() int
	Row(i int) Row
	Columns() []string
}

// RowTable is a table of JSON objects.
type RowTable struct {
	columns    []string
	rows       []map[string]any
	geometries []orb.Geometry
}

// NewRowTable creates a table from row objects. Values of the geometry column that hold a
// GeoJSON geometry are decoded.
func NewRowTable(rows []map[string]any) (*RowTable, error) {
	t := &RowTable{rows: rows, geometries: make([]orb.Geometry, len(rows))}
	seen := map[string]struct{}{}
	for i, row := range rows {
		for column := range row {
			if _, ok := seen[column]; !ok {
				seen[column] = struct{}{}
				t.columns = append(t.columns, column)
			}
		}
		if raw, ok := row[GeometryColumn]; ok {
			g, err := decodeGeometry(raw)
			if err != nil {
				return nil, fmt.Errorf(`row %d: %w`, i, err)
			}
			t.geometries[i] = g
		}
	}
	slices.Sort(t.columns)
	return t, nil
}

func decodeGeometry(raw any) (orb.Geometry, error) {
	if _, ok := raw.(map[string]any); !ok {
		return nil, fmt.Errorf(`%w: geometry must be a GeoJSON object, got %T`, ErrUnsupported, raw)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf(`invalid geometry: %w`, err)
	}
	return g.Geometry(), nil
}

func (t *RowTable) NumRows() int      { return len(t.rows) }
func (t *RowTable) Columns() []string { return t.columns }

func (t *RowTable) Row(i int) Row {
	return rowRef{index: i, values: t.rows[i], geometry: t.geometries[i]}
}

type rowRef struct {
	index    int
	values   map[string]any
	geometry orb.Geometry
}

func (r rowRef) Index() int             { return r.index }
func (r rowRef) Geometry() orb.Geometry { return r.geometry }

func (r rowRef) Get(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

// FeatureTable is a table of GeoJSON features; columns are feature properties.
type FeatureTable struct {
	features []*geojson.Feature
	columns  []string
}

func NewFeatureTable(fc *geojson.FeatureCollection) *FeatureTable {
	t := &FeatureTable{features: fc.Features}
	seen := map[string]struct{}{}
	for _, f := range fc.Features {
		for column := range f.Properties {
			if _, ok := seen[column]; !ok {
				seen[column] = struct{}{}
				t.columns = append(t.columns, column)
			}
		}
	}
	slices.Sort(t.columns)
	return t
}

// ParseGeoJSON reads a FeatureCollection.
func ParseGeoJSON(data []byte) (*FeatureTable, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf(`invalid FeatureCollection: %w`, err)
	}
	return NewFeatureTable(fc), nil
}

func (t *FeatureTable) NumRows() int      { return len(t.features) }
func (t *FeatureTable) Columns() []string { return t.columns }

func (t *FeatureTable) Row(i int) Row {
	f := t.features[i]
	return rowRef{index: i, values: f.Properties, geometry: f.Geometry}
}

// FromJSON creates a table from a decoded JSON value: a list of row objects or a GeoJSON
// FeatureCollection.
func FromJSON(value any) (Table, error) {
	switch v := value.(type) {
	case []any:
		rows := make([]map[string]any, len(v))
		for i := range v {
			row, ok := v[i].(map[string]any)
			if !ok {
				return nil, fmt.Errorf(`%w: row %d is a %T, not an object`, ErrUnsupported, i, v[i])
			}
			rows[i] = row
		}
		t, err := NewRowTable(rows)
		if err != nil {
			return nil, err
		}
		return t, nil
	case map[string]any:
		if v["type"] != "FeatureCollection" {
			return nil, fmt.Errorf(`%w: object of type %v`, ErrUnsupported, v["type"])
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		t, err := ParseGeoJSON(data)
		if err != nil {
			return nil, err
		}
		return t, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf(`%w: %T`, ErrUnsupported, value)
}
