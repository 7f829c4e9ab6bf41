// Package project derives the per-frame projection uniforms that a layer's shaders need
// from a viewport and the layer's coordinate system.
package project

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/pdok/deckgo/mathgl"
	"github.com/pdok/deckgo/viewport"
	"github.com/pdok/deckgo/webmercator"
)

type (
	Vec2 = mathgl.Vector2[float64]
	Vec3 = mathgl.Vector3[float64]
	Vec4 = mathgl.Vector4[float64]
	Mat4 = mathgl.Matrix4[float64]
)

// CoordinateSystem tells how the positions of a layer are to be interpreted.
type CoordinateSystem int

const (
	// Default is LngLat in geospatial viewports and Cartesian otherwise.
	Default CoordinateSystem = -1
	// Cartesian positions are in common space.
	Cartesian CoordinateSystem = 0
	// LngLat positions are longitude, latitude and meters.
	LngLat CoordinateSystem = 1
	// MeterOffsets positions are meter offsets from the coordinate origin.
	MeterOffsets CoordinateSystem = 2
	// LngLatOffsets positions are degree offsets from the coordinate origin.
	LngLatOffsets CoordinateSystem = 3
)

var coordinateSystemNames = map[CoordinateSystem]string{
	Default:       "DEFAULT",
	Cartesian:     "CARTESIAN",
	LngLat:        "LNGLAT",
	MeterOffsets:  "METER_OFFSETS",
	LngLatOffsets: "LNGLAT_OFFSETS",
}

func (c CoordinateSystem) String() string {
	if name, ok := coordinateSystemNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CoordinateSystem(%d)", int(c))
}

// ParseCoordinateSystem returns the coordinate system with the given name.
func ParseCoordinateSystem(name string) (CoordinateSystem, error) {
	for c, n := range coordinateSystemNames {
		if n == name {
			return c, nil
		}
	}
	return Default, fmt.Errorf(`unknown coordinate system: %q`, name)
}

// UniformOptions are the per-layer inputs of GetUniforms.
type UniformOptions struct {
	// The zero value is Cartesian, layers default to Default
	CoordinateSystem CoordinateSystem `validate:"gte=-1,lte=3"`
	CoordinateOrigin Vec3
	// Optional layer model matrix, nil for identity
	ModelMatrix      *Mat4
	WrapLongitude    bool
	DevicePixelRatio float64 `default:"1" validate:"gt=0"`
}

// Uniforms is the numeric bundle a shader binding layer uploads for one layer and one viewport.
type Uniforms struct {
	ViewProjectionMatrix     Mat4
	ModelMatrix              Mat4
	CoordinateSystem         CoordinateSystem
	ProjectionMode           viewport.ProjectionMode
	Scale                    float64
	Antimeridian             float64
	WrapLongitude            bool
	DevicePixelRatio         float64
	FocalDistance            float64
	ViewportSize             Vec2
	CoordinateOrigin         Vec3
	CommonOrigin             Vec3
	Center                   Vec4
	CameraPosition           Vec3
	CommonUnitsPerMeter      Vec3
	CommonUnitsPerWorldUnit  Vec3
	CommonUnitsPerWorldUnit2 Vec3
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// GetUniforms computes the projection uniforms of a layer rendered in vp.
func GetUniforms(vp *viewport.Viewport, opts UniformOptions) (Uniforms, error) {
	if err := defaults.Set(&opts); err != nil {
		return Uniforms{}, err
	}
	if err := validate.Struct(&opts); err != nil {
		return Uniforms{}, fmt.Errorf(`invalid uniform options: %w`, err)
	}

	coordinateSystem := opts.CoordinateSystem
	if coordinateSystem == Default {
		coordinateSystem = Cartesian
		if vp.IsGeospatial() {
			coordinateSystem = LngLat
		}
	}

	mo, err := calculateMatrixAndOffset(vp, coordinateSystem, opts.CoordinateOrigin)
	if err != nil {
		return Uniforms{}, err
	}

	modelMatrix := mathgl.Identity4[float64]()
	if opts.ModelMatrix != nil {
		modelMatrix = *opts.ModelMatrix
	}

	u := Uniforms{
		ViewProjectionMatrix:     mo.viewProjectionMatrix,
		ModelMatrix:              modelMatrix,
		CoordinateSystem:         coordinateSystem,
		ProjectionMode:           vp.ProjectionMode(),
		Scale:                    vp.Scale(),
		Antimeridian:             vp.LngLat().X - 180,
		WrapLongitude:            opts.WrapLongitude,
		DevicePixelRatio:         opts.DevicePixelRatio,
		FocalDistance:            vp.FocalDistance(),
		ViewportSize:             Vec2{X: vp.Width() * opts.DevicePixelRatio, Y: vp.Height() * opts.DevicePixelRatio},
		CoordinateOrigin:         mo.shaderCoordinateOrigin,
		CommonOrigin:             mo.originCommon,
		Center:                   mo.projectionCenter,
		CameraPosition:           mo.cameraPosCommon,
		CommonUnitsPerMeter:      vp.DistanceScales().UnitsPerMeter,
		CommonUnitsPerWorldUnit:  Vec3{X: 1, Y: 1, Z: 1},
		CommonUnitsPerWorldUnit2: Vec3{},
	}

	if mo.geospatialOrigin != nil {
		scales, err := webmercator.GetDistanceScales(mo.geospatialOrigin.XY(), true)
		if err != nil {
			return Uniforms{}, err
		}
		switch coordinateSystem {
		case MeterOffsets:
			u.CommonUnitsPerWorldUnit = scales.UnitsPerMeter
			u.CommonUnitsPerWorldUnit2 = scales.UnitsPerMeter2
		case LngLat, LngLatOffsets:
			u.CommonUnitsPerMeter = scales.UnitsPerMeter
			u.CommonUnitsPerWorldUnit = scales.UnitsPerDegree
			u.CommonUnitsPerWorldUnit2 = scales.UnitsPerDegree2
		case Cartesian:
			u.CommonUnitsPerWorldUnit = Vec3{X: 1, Y: 1, Z: scales.UnitsPerMeter.Z}
			u.CommonUnitsPerWorldUnit2 = Vec3{Z: scales.UnitsPerMeter2.Z}
		}
	}
	return u, nil
}

type matrixAndOffset struct {
	viewProjectionMatrix   Mat4
	shaderCoordinateOrigin Vec3
	geospatialOrigin       *Vec3
	originCommon           Vec3
	projectionCenter       Vec4
	cameraPosCommon        Vec3
}

// toPointMatrix drops the w component of a position, so that offsets are not translated.
var toPointMatrix = Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 0,
}

func calculateMatrixAndOffset(vp *viewport.Viewport, coordinateSystem CoordinateSystem, coordinateOrigin Vec3) (matrixAndOffset, error) {
	mo := matrixAndOffset{
		viewProjectionMatrix: vp.ViewProjectionMatrix(),
		cameraPosCommon:      vp.CameraPosition(),
	}
	offsetMode, err := mo.offsetOrigin(vp, coordinateSystem, coordinateOrigin)
	if err != nil || !offsetMode {
		return mo, err
	}

	origin := mo.shaderCoordinateOrigin
	if mo.geospatialOrigin != nil {
		origin = *mo.geospatialOrigin
	}
	if mo.originCommon, err = vp.ProjectPosition(origin); err != nil {
		return mo, err
	}
	mo.cameraPosCommon = mo.cameraPosCommon.Sub(mo.originCommon)
	mo.projectionCenter = mo.viewProjectionMatrix.MulVector(mo.originCommon.Vec4(1))
	mo.viewProjectionMatrix = vp.ProjectionMatrix().Mul(vp.ViewMatrixUncentered()).Mul(toPointMatrix)
	return mo, nil
}

// offsetOrigin picks the origin positions are made relative to on the GPU, to keep 32-bit precision.
func (mo *matrixAndOffset) offsetOrigin(vp *viewport.Viewport, coordinateSystem CoordinateSystem, coordinateOrigin Vec3) (bool, error) {
	mo.shaderCoordinateOrigin = coordinateOrigin
	switch {
	case coordinateSystem == LngLatOffsets || coordinateSystem == MeterOffsets:
		origin := coordinateOrigin
		mo.geospatialOrigin = &origin
	case vp.IsGeospatial():
		origin := Vec3{X: float64(float32(vp.LngLat().X)), Y: float64(float32(vp.LngLat().Y))}
		mo.geospatialOrigin = &origin
	}

	switch vp.ProjectionMode() {
	case viewport.WebMercator:
		if coordinateSystem == LngLat || coordinateSystem == Cartesian {
			mo.geospatialOrigin = &Vec3{}
			return false, nil
		}
	case viewport.WebMercatorAutoOffset:
		switch coordinateSystem {
		case LngLat:
			mo.shaderCoordinateOrigin = *mo.geospatialOrigin
		case Cartesian:
			center := vp.Center()
			origin := Vec3{X: float64(float32(center.X)), Y: float64(float32(center.Y))}
			geospatial := vp.UnprojectPosition(origin)
			mo.geospatialOrigin = &geospatial
			mo.shaderCoordinateOrigin = origin.Sub(coordinateOrigin)
		}
	case viewport.Identity:
		position := vp.Position()
		mo.shaderCoordinateOrigin = Vec3{X: float64(float32(position.X)), Y: float64(float32(position.Y)), Z: float64(float32(position.Z))}
	default:
		return false, nil
	}
	return true, nil
}
