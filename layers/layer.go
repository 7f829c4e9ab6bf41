package layers

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdok/deckgo/attribute"
	"github.com/pdok/deckgo/component"
	"github.com/pdok/deckgo/geomhelp"
	"github.com/pdok/deckgo/project"
	"github.com/pdok/deckgo/table"
)

// AnyLayer is implemented by all layer classes.
type AnyLayer interface {
	component.Component
	LayerProps() *Layer
	// AddAttributes registers the vertex attributes of the layer.
	AddAttributes(m *attribute.Manager) error
}

// Layer holds the props all layers share.
type Layer struct {
	ID               string
	Visible          bool
	Opacity          float64 `validate:"gte=0,lte=1"`
	Pickable         bool
	CoordinateSystem project.CoordinateSystem `validate:"gte=-1,lte=3"`
	CoordinateOrigin Vec3
	ModelMatrix      *Mat4
	WrapLongitude    bool
	Data             table.Table
}

func (l *Layer) LayerProps() *Layer { return l }

const coordinateSystemPrefix = "@@#COORDINATE_SYSTEM."

// coordinateSystemFromJSON accepts the enum value or its (prefixed) name.
func coordinateSystemFromJSON(value any, _ component.Converter) (project.CoordinateSystem, error) {
	if name, ok := value.(string); ok {
		c, err := project.ParseCoordinateSystem(strings.TrimPrefix(name, coordinateSystemPrefix))
		if err != nil {
			return project.Default, fmt.Errorf(`%w: %w`, component.ErrTypeMismatch, err)
		}
		return c, nil
	}
	i, err := component.FromJSON[int](value)
	if err != nil {
		return project.Default, err
	}
	c := project.CoordinateSystem(i)
	if c < project.Default || c > project.LngLatOffsets {
		return project.Default, fmt.Errorf(`%w: unknown coordinate system %d`, component.ErrTypeMismatch, i)
	}
	return c, nil
}

func dataFromJSON(value any, _ component.Converter) (table.Table, error) {
	return table.FromJSON(value)
}

var layerProperties = component.NewProperties("Layer", nil,
	component.Field("id", func(l AnyLayer) *string { return &l.LayerProps().ID }, ""),
	component.Field("visible", func(l AnyLayer) *bool { return &l.LayerProps().Visible }, true),
	component.Field("opacity", func(l AnyLayer) *float64 { return &l.LayerProps().Opacity }, 1),
	component.Field("pickable", func(l AnyLayer) *bool { return &l.LayerProps().Pickable }, false),
	component.Field("coordinateSystem", func(l AnyLayer) *project.CoordinateSystem { return &l.LayerProps().CoordinateSystem },
		project.Default, component.WithDecoder(coordinateSystemFromJSON)),
	component.Field("coordinateOrigin", func(l AnyLayer) *Vec3 { return &l.LayerProps().CoordinateOrigin }, Vec3{},
		component.WithDecoder(func(value any, _ component.Converter) (Vec3, error) { return positionFromJSON(value) })),
	component.Optional("modelMatrix",
		func(l AnyLayer) *Mat4 { return l.LayerProps().ModelMatrix },
		func(l AnyLayer, m *Mat4) { l.LayerProps().ModelMatrix = m }),
	component.Field("wrapLongitude", func(l AnyLayer) *bool { return &l.LayerProps().WrapLongitude }, false),
	component.Field("data", func(l AnyLayer) *table.Table { return &l.LayerProps().Data }, table.Table(nil),
		component.WithDecoder(dataFromJSON)),
)

// Units of sizes.
const (
	Meters = "meters"
	Common = "common"
	Pixels = "pixels"
)

// maxPixels is the default upper bound of pixel sizes.
const maxPixels = math.MaxInt32

// ScatterplotLayer renders circles at positions.
type ScatterplotLayer struct {
	Layer
	RadiusUnits        string  `validate:"oneof=meters common pixels"`
	RadiusScale        float64 `validate:"gte=0"`
	RadiusMinPixels    float64 `validate:"gte=0"`
	RadiusMaxPixels    float64 `validate:"gtefield=RadiusMinPixels"`
	LineWidthUnits     string  `validate:"oneof=meters common pixels"`
	LineWidthScale     float64 `validate:"gte=0"`
	LineWidthMinPixels float64 `validate:"gte=0"`
	LineWidthMaxPixels float64 `validate:"gtefield=LineWidthMinPixels"`
	Stroked            bool
	Filled             bool
	Billboard          bool
	Antialiasing       bool
	GetPosition        Accessor[Vec3]
	GetRadius          Accessor[float64]
	GetFillColor       Accessor[Color]
	GetLineColor       Accessor[Color]
	GetLineWidth       Accessor[float64]
}

func (l *ScatterplotLayer) Properties() *component.Properties { return scatterplotLayerProperties }

var scatterplotLayerProperties = component.NewProperties("ScatterplotLayer", layerProperties,
	component.Field("radiusUnits", func(l *ScatterplotLayer) *string { return &l.RadiusUnits }, Meters),
	component.Field("radiusScale", func(l *ScatterplotLayer) *float64 { return &l.RadiusScale }, 1),
	component.Field("radiusMinPixels", func(l *ScatterplotLayer) *float64 { return &l.RadiusMinPixels }, 0),
	component.Field("radiusMaxPixels", func(l *ScatterplotLayer) *float64 { return &l.RadiusMaxPixels }, maxPixels),
	component.Field("lineWidthUnits", func(l *ScatterplotLayer) *string { return &l.LineWidthUnits }, Meters),
	component.Field("lineWidthScale", func(l *ScatterplotLayer) *float64 { return &l.LineWidthScale }, 1),
	component.Field("lineWidthMinPixels", func(l *ScatterplotLayer) *float64 { return &l.LineWidthMinPixels }, 0),
	component.Field("lineWidthMaxPixels", func(l *ScatterplotLayer) *float64 { return &l.LineWidthMaxPixels }, maxPixels),
	component.Field("stroked", func(l *ScatterplotLayer) *bool { return &l.Stroked }, false),
	component.Field("filled", func(l *ScatterplotLayer) *bool { return &l.Filled }, true),
	component.Field("billboard", func(l *ScatterplotLayer) *bool { return &l.Billboard }, false),
	component.Field("antialiasing", func(l *ScatterplotLayer) *bool { return &l.Antialiasing }, true),
	accessorField("getPosition", func(l *ScatterplotLayer) *Accessor[Vec3] { return &l.GetPosition },
		positionAccessor("position"), positionFromJSON, positionFromGeometry),
	accessorField("getRadius", func(l *ScatterplotLayer) *Accessor[float64] { return &l.GetRadius },
		Constant(1.0), component.FromJSON[float64], nil),
	accessorField("getFillColor", func(l *ScatterplotLayer) *Accessor[Color] { return &l.GetFillColor },
		Constant(Black), colorFromJSON, nil),
	accessorField("getLineColor", func(l *ScatterplotLayer) *Accessor[Color] { return &l.GetLineColor },
		Constant(Black), colorFromJSON, nil),
	accessorField("getLineWidth", func(l *ScatterplotLayer) *Accessor[float64] { return &l.GetLineWidth },
		Constant(1.0), component.FromJSON[float64], nil),
)

func (l *ScatterplotLayer) AddAttributes(m *attribute.Manager) error {
	return m.AddInstanced(
		attribute.Descriptor{Name: "instancePositions", Size: 3, Location: 0, Accessor: positions(l.GetPosition)},
		attribute.Descriptor{Name: "instancePositions64Low", Size: 3, Location: 1, Accessor: positionsLow(l.GetPosition)},
		attribute.Descriptor{Name: "instanceRadius", Size: 1, Location: 2, Accessor: scalars(l.GetRadius)},
		attribute.Descriptor{Name: "instanceFillColors", Size: 4, Location: 3, Accessor: colors(l.GetFillColor)},
		attribute.Descriptor{Name: "instanceLineColors", Size: 4, Location: 4, Accessor: colors(l.GetLineColor)},
		attribute.Descriptor{Name: "instanceLineWidths", Size: 1, Location: 5, Accessor: scalars(l.GetLineWidth)},
	)
}

// LineLayer renders straight lines between source and target positions.
type LineLayer struct {
	Layer
	WidthUnits        string  `validate:"oneof=meters common pixels"`
	WidthScale        float64 `validate:"gte=0"`
	WidthMinPixels    float64 `validate:"gte=0"`
	WidthMaxPixels    float64 `validate:"gtefield=WidthMinPixels"`
	GetSourcePosition Accessor[Vec3]
	GetTargetPosition Accessor[Vec3]
	GetColor          Accessor[Color]
	GetWidth          Accessor[float64]
}

func (l *LineLayer) Properties() *component.Properties { return lineLayerProperties }

var lineLayerProperties = component.NewProperties("LineLayer", layerProperties,
	component.Field("widthUnits", func(l *LineLayer) *string { return &l.WidthUnits }, Pixels),
	component.Field("widthScale", func(l *LineLayer) *float64 { return &l.WidthScale }, 1),
	component.Field("widthMinPixels", func(l *LineLayer) *float64 { return &l.WidthMinPixels }, 0),
	component.Field("widthMaxPixels", func(l *LineLayer) *float64 { return &l.WidthMaxPixels }, maxPixels),
	accessorField("getSourcePosition", func(l *LineLayer) *Accessor[Vec3] { return &l.GetSourcePosition },
		positionAccessor("sourcePosition"), positionFromJSON, positionFromGeometry),
	accessorField("getTargetPosition", func(l *LineLayer) *Accessor[Vec3] { return &l.GetTargetPosition },
		positionAccessor("targetPosition"), positionFromJSON, positionFromGeometry),
	accessorField("getColor", func(l *LineLayer) *Accessor[Color] { return &l.GetColor },
		Constant(Black), colorFromJSON, nil),
	accessorField("getWidth", func(l *LineLayer) *Accessor[float64] { return &l.GetWidth },
		Constant(1.0), component.FromJSON[float64], nil),
)

func (l *LineLayer) AddAttributes(m *attribute.Manager) error {
	return m.AddInstanced(
		attribute.Descriptor{Name: "instanceSourcePositions", Size: 3, Location: 0, Accessor: positions(l.GetSourcePosition)},
		attribute.Descriptor{Name: "instanceTargetPositions", Size: 3, Location: 1, Accessor: positions(l.GetTargetPosition)},
		attribute.Descriptor{Name: "instanceSourcePositions64Low", Size: 3, Location: 2, Accessor: positionsLow(l.GetSourcePosition)},
		attribute.Descriptor{Name: "instanceTargetPositions64Low", Size: 3, Location: 3, Accessor: positionsLow(l.GetTargetPosition)},
		attribute.Descriptor{Name: "instanceColors", Size: 4, Location: 4, Accessor: colors(l.GetColor)},
		attribute.Descriptor{Name: "instanceWidths", Size: 1, Location: 5, Accessor: scalars(l.GetWidth)},
	)
}

// PathLayer renders polylines.
type PathLayer struct {
	Layer
	WidthUnits     string  `validate:"oneof=meters common pixels"`
	WidthScale     float64 `validate:"gte=0"`
	WidthMinPixels float64 `validate:"gte=0"`
	WidthMaxPixels float64 `validate:"gtefield=WidthMinPixels"`
	JointRounded   bool
	CapRounded     bool
	MiterLimit     float64 `validate:"gte=0"`
	Billboard      bool
	GetPath        Accessor[[]Vec3]
	GetColor       Accessor[Color]
	GetWidth       Accessor[float64]
}

func (l *PathLayer) Properties() *component.Properties { return pathLayerProperties }

var pathLayerProperties = component.NewProperties("PathLayer", layerProperties,
	component.Field("widthUnits", func(l *PathLayer) *string { return &l.WidthUnits }, Meters),
	component.Field("widthScale", func(l *PathLayer) *float64 { return &l.WidthScale }, 1),
	component.Field("widthMinPixels", func(l *PathLayer) *float64 { return &l.WidthMinPixels }, 0),
	component.Field("widthMaxPixels", func(l *PathLayer) *float64 { return &l.WidthMaxPixels }, maxPixels),
	component.Field("jointRounded", func(l *PathLayer) *bool { return &l.JointRounded }, false),
	component.Field("capRounded", func(l *PathLayer) *bool { return &l.CapRounded }, false),
	component.Field("miterLimit", func(l *PathLayer) *float64 { return &l.MiterLimit }, 4),
	component.Field("billboard", func(l *PathLayer) *bool { return &l.Billboard }, false),
	accessorField("getPath", func(l *PathLayer) *Accessor[[]Vec3] { return &l.GetPath },
		column("path", pathFromJSON, pathFromGeometry), pathFromJSON, pathFromGeometry),
	accessorField("getColor", func(l *PathLayer) *Accessor[Color] { return &l.GetColor },
		Constant(Black), colorFromJSON, nil),
	accessorField("getWidth", func(l *PathLayer) *Accessor[float64] { return &l.GetWidth },
		Constant(1.0), component.FromJSON[float64], nil),
)

func (l *PathLayer) AddAttributes(m *attribute.Manager) error {
	err := m.Add(
		attribute.Descriptor{Name: "positions", Size: 3, Location: 0, Accessor: vertices(l.GetPath.Get, false)},
		attribute.Descriptor{Name: "positions64Low", Size: 3, Location: 1, Accessor: vertices(l.GetPath.Get, true)},
	)
	if err != nil {
		return err
	}
	return m.AddInstanced(
		attribute.Descriptor{Name: "instanceColors", Size: 4, Location: 2, Accessor: colors(l.GetColor)},
		attribute.Descriptor{Name: "instanceWidths", Size: 1, Location: 3, Accessor: scalars(l.GetWidth)},
	)
}

// SolidPolygonLayer renders filled and optionally extruded polygons.
type SolidPolygonLayer struct {
	Layer
	Filled         bool
	Extruded       bool
	Wireframe      bool
	ElevationScale float64 `validate:"gte=0"`
	// Normalize winds outer rings in WindingOrder and holes the other way
	Normalize    bool
	WindingOrder string `validate:"oneof=CW CCW"`
	GetPolygon   Accessor[[][]Vec3]
	GetElevation Accessor[float64]
	GetFillColor Accessor[Color]
	GetLineColor Accessor[Color]
}

func (l *SolidPolygonLayer) Properties() *component.Properties { return solidPolygonLayerProperties }

var solidPolygonLayerProperties = component.NewProperties("SolidPolygonLayer", layerProperties,
	component.Field("filled", func(l *SolidPolygonLayer) *bool { return &l.Filled }, true),
	component.Field("extruded", func(l *SolidPolygonLayer) *bool { return &l.Extruded }, false),
	component.Field("wireframe", func(l *SolidPolygonLayer) *bool { return &l.Wireframe }, false),
	component.Field("elevationScale", func(l *SolidPolygonLayer) *float64 { return &l.ElevationScale }, 1),
	component.Field("normalize", func(l *SolidPolygonLayer) *bool { return &l.Normalize }, true),
	component.Field("_windingOrder", func(l *SolidPolygonLayer) *string { return &l.WindingOrder }, "CW"),
	accessorField("getPolygon", func(l *SolidPolygonLayer) *Accessor[[][]Vec3] { return &l.GetPolygon },
		column("polygon", polygonFromJSON, polygonFromGeometry), polygonFromJSON, polygonFromGeometry),
	accessorField("getElevation", func(l *SolidPolygonLayer) *Accessor[float64] { return &l.GetElevation },
		Constant(1000.0), component.FromJSON[float64], nil),
	accessorField("getFillColor", func(l *SolidPolygonLayer) *Accessor[Color] { return &l.GetFillColor },
		Constant(Black), colorFromJSON, nil),
	accessorField("getLineColor", func(l *SolidPolygonLayer) *Accessor[Color] { return &l.GetLineColor },
		Constant(Black), colorFromJSON, nil),
)

func (l *SolidPolygonLayer) AddAttributes(m *attribute.Manager) error {
	rings := func(row table.Row) ([]Vec3, error) {
		polygon, err := l.GetPolygon.Get(row)
		return flattenRings(l.orient(polygon)), err
	}
	err := m.Add(
		attribute.Descriptor{Name: "positions", Size: 3, Location: 0, Accessor: vertices(rings, false)},
		attribute.Descriptor{Name: "positions64Low", Size: 3, Location: 1, Accessor: vertices(rings, true)},
	)
	if err != nil {
		return err
	}
	return m.AddInstanced(
		attribute.Descriptor{Name: "fillColors", Size: 4, Location: 2, Accessor: colors(l.GetFillColor)},
		attribute.Descriptor{Name: "lineColors", Size: 4, Location: 3, Accessor: colors(l.GetLineColor)},
		attribute.Descriptor{Name: "elevations", Size: 1, Location: 4, Accessor: scalars(l.GetElevation)},
	)
}

// orient returns polygon with its rings wound as the layer asks for.
func (l *SolidPolygonLayer) orient(polygon [][]Vec3) [][]Vec3 {
	if !l.Normalize {
		return polygon
	}
	oriented := make([][]Vec3, len(polygon))
	for i, ring := range polygon {
		pts := make([][2]float64, len(ring))
		for j, p := range ring {
			pts[j] = [2]float64{p.X, p.Y}
		}
		clockwise := (i == 0) == (l.WindingOrder == "CW")
		oriented[i] = make([]Vec3, len(ring))
		for j, k := range geomhelp.Orient(pts, clockwise) {
			oriented[i][j] = ring[k]
		}
	}
	return oriented
}
