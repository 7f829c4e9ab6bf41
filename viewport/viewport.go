// Package viewport computes the matrices and derived values of a camera looking at the map
// (or at a non-geospatial scene) and converts between positions and screen pixels.
// A Viewport is immutable: changing the camera means constructing a new one.
package viewport

import (
	"fmt"
	"math"

	"github.com/pdok/deckgo/mathgl"
	"github.com/pdok/deckgo/mathhelp"
	"github.com/pdok/deckgo/webmercator"
)

type (
	Vec2 = mathgl.Vector2[float64]
	Vec3 = mathgl.Vector3[float64]
	Mat4 = mathgl.Matrix4[float64]
)

// ProjectionMode selects how positions are projected into common space on the GPU.
type ProjectionMode int

const (
	Identity              ProjectionMode = 0
	WebMercator           ProjectionMode = 1
	WebMercatorAutoOffset ProjectionMode = 4
)

// autoOffsetZoom is the zoom from which 32-bit precision on the GPU needs the coordinate origin
// moved to the viewport center.
const autoOffsetZoom = 12

func (m ProjectionMode) String() string {
	switch m {
	case Identity:
		return "IDENTITY"
	case WebMercator:
		return "WEB_MERCATOR"
	case WebMercatorAutoOffset:
		return "WEB_MERCATOR_AUTO_OFFSET"
	}
	return fmt.Sprintf("ProjectionMode(%d)", int(m))
}

var defaultDistanceScales = webmercator.DistanceScales{
	UnitsPerMeter:  Vec3{X: 1, Y: 1, Z: 1},
	MetersPerUnit:  Vec3{X: 1, Y: 1, Z: 1},
	UnitsPerDegree: Vec3{X: 1, Y: 1, Z: 1},
	DegreesPerUnit: Vec3{X: 1, Y: 1, Z: 1},
}

type Viewport struct {
	id   string
	rect Rect

	isGeospatial   bool
	lngLat         Vec2
	zoom           float64
	scale          float64
	metersPerPixel float64
	distanceScales webmercator.DistanceScales
	focalDistance  float64
	projectionMode ProjectionMode

	// map camera only, in degrees
	pitch float64
	fovy  float64

	position    Vec3
	meterOffset Vec3
	center      Vec3

	viewMatrixUncentered    Mat4
	viewMatrix              Mat4
	viewMatrixInverse       Mat4
	projectionMatrix        Mat4
	viewProjectionMatrix    Mat4
	viewportMatrix          Mat4
	pixelProjectionMatrix   Mat4
	pixelUnprojectionMatrix Mat4

	cameraPosition  Vec3
	cameraDirection Vec3
	cameraUp        Vec3
}

// New constructs a viewport from a camera pose, a lens and a screen rectangle.
func New(id string, rect Rect, view ViewMatrixOptions, projection ProjectionMatrixOptions) (*Viewport, error) {
	if err := prepare(&rect); err != nil {
		return nil, err
	}
	if err := prepare(&view); err != nil {
		return nil, err
	}
	if err := prepare(&projection); err != nil {
		return nil, err
	}
	vp := &Viewport{id: id, rect: rect}
	if err := vp.initViewMatrix(view); err != nil {
		return nil, err
	}
	vp.initProjectionMatrix(projection)
	if err := vp.initPixelMatrices(); err != nil {
		return nil, err
	}
	return vp, nil
}

func (vp *Viewport) initViewMatrix(opts ViewMatrixOptions) error {
	vp.isGeospatial = opts.LngLat != nil
	vp.focalDistance = opts.FocalDistance

	switch {
	case opts.Zoom != nil:
		vp.zoom = *opts.Zoom
	case vp.isGeospatial:
		vp.zoom = webmercator.GetMeterZoom(opts.LngLat.Y) + math.Log2(opts.FocalDistance)
	default:
		vp.zoom = 0
	}
	vp.scale = webmercator.ZoomToScale(vp.zoom)

	switch {
	case vp.isGeospatial:
		scales, err := webmercator.GetDistanceScales(*opts.LngLat, false)
		if err != nil {
			return err
		}
		vp.distanceScales = scales
		vp.lngLat = *opts.LngLat
	case opts.DistanceScales != nil:
		vp.distanceScales = *opts.DistanceScales
	default:
		vp.distanceScales = defaultDistanceScales
	}
	vp.metersPerPixel = vp.distanceScales.MetersPerUnit.Z / vp.scale

	switch {
	case !vp.isGeospatial:
		vp.projectionMode = Identity
	case vp.zoom < autoOffsetZoom:
		vp.projectionMode = WebMercator
	default:
		vp.projectionMode = WebMercatorAutoOffset
	}

	vp.position = opts.Position
	vp.meterOffset = opts.Position
	if opts.ModelMatrix != nil {
		vp.meterOffset = opts.ModelMatrix.TransformPoint(opts.Position)
	}

	if vp.isGeospatial {
		center, err := vp.ProjectPosition(Vec3{X: vp.lngLat.X, Y: vp.lngLat.Y})
		if err != nil {
			return err
		}
		vp.center = center.Add(vp.meterOffset.Mul(vp.distanceScales.UnitsPerMeter))
	} else {
		center, err := vp.ProjectPosition(vp.position)
		if err != nil {
			return err
		}
		vp.center = center
	}

	vp.viewMatrixUncentered = mathgl.Identity4[float64]()
	if opts.ViewMatrix != nil {
		vp.viewMatrixUncentered = *opts.ViewMatrix
	}
	vp.viewMatrix = vp.viewMatrixUncentered.Translate(vp.center.Negate())
	return nil
}

func (vp *Viewport) initProjectionMatrix(opts ProjectionMatrixOptions) {
	if opts.ProjectionMatrix != nil {
		vp.projectionMatrix = *opts.ProjectionMatrix
		return
	}
	fovy := mathgl.ToRadians(opts.Fovy)
	aspect := vp.rect.Width / vp.rect.Height
	if opts.Orthographic {
		focalDistance := opts.FocalDistance
		if opts.OrthographicFocalDistance > 0 {
			focalDistance = opts.OrthographicFocalDistance
		}
		vp.projectionMatrix = mathgl.OrthographicFromFovy(fovy, aspect, focalDistance, opts.Near, opts.Far)
		return
	}
	vp.projectionMatrix = mathgl.Perspective(fovy, aspect, opts.Near, opts.Far)
}

func (vp *Viewport) initPixelMatrices() error {
	vp.viewProjectionMatrix = vp.projectionMatrix.Mul(vp.viewMatrix)

	inv, err := vp.viewMatrix.Invert()
	if err != nil {
		// degenerate camera, keep the forward matrix
		inv = vp.viewMatrix
	}
	vp.viewMatrixInverse = inv
	vp.cameraPosition = Vec3{X: inv.At(0, 3), Y: inv.At(1, 3), Z: inv.At(2, 3)}
	if vp.cameraDirection, err = inv.TransformDirection(Vec3{Z: -1}).Normalize(); err != nil {
		return err
	}
	if vp.cameraUp, err = inv.TransformDirection(Vec3{Y: 1}).Normalize(); err != nil {
		return err
	}

	// NDC to pixels, origin at the top left
	vp.viewportMatrix = mathgl.Scaling4(Vec3{X: vp.rect.Width / 2, Y: -vp.rect.Height / 2, Z: 1}).
		Translate(Vec3{X: 1, Y: -1})
	vp.pixelProjectionMatrix = vp.viewportMatrix.Mul(vp.viewProjectionMatrix)
	vp.pixelUnprojectionMatrix, err = vp.pixelProjectionMatrix.Invert()
	if err != nil {
		return fmt.Errorf(`could not invert pixel projection matrix of viewport %q: %w`, vp.id, err)
	}
	return nil
}

// NewWebMercator constructs a geospatial viewport for a map camera.
func NewWebMercator(opts WebMercatorOptions) (*Viewport, error) {
	if err := prepare(&opts); err != nil {
		return nil, err
	}
	scale := webmercator.ZoomToScale(opts.Zoom)
	altitude := opts.Altitude
	fovy := opts.Fovy
	if fovy > 0 {
		altitude = webmercator.FovyToAltitude(fovy)
	} else {
		fovy = webmercator.AltitudeToFovy(altitude)
	}

	params, err := webmercator.GetProjectionParameters(webmercator.ProjectionParams{
		Width:           opts.Width,
		Height:          opts.Height,
		Pitch:           opts.Pitch,
		Fovy:            fovy,
		NearZMultiplier: opts.NearZMultiplier,
		FarZMultiplier:  opts.FarZMultiplier,
	})
	if err != nil {
		return nil, err
	}
	viewMatrix, err := webmercator.GetViewMatrix(webmercator.ViewMatrixParams{
		Height:   opts.Height,
		Pitch:    opts.Pitch,
		Bearing:  opts.Bearing,
		Altitude: altitude,
		Scale:    scale,
	})
	if err != nil {
		return nil, err
	}

	zoom := opts.Zoom
	vp, err := New(opts.ID,
		Rect{X: opts.X, Y: opts.Y, Width: opts.Width, Height: opts.Height},
		ViewMatrixOptions{
			ViewMatrix:    &viewMatrix,
			LngLat:        &Vec2{X: mathhelp.WrapLongitude(opts.Longitude), Y: opts.Latitude},
			Zoom:          &zoom,
			Position:      opts.Position,
			FocalDistance: altitude,
		},
		ProjectionMatrixOptions{
			Orthographic:  opts.Orthographic,
			Fovy:          fovy,
			Near:          params.Near,
			Far:           params.Far,
			FocalDistance: altitude,
		},
	)
	if err != nil {
		return nil, err
	}
	vp.pitch = opts.Pitch
	vp.fovy = fovy
	return vp, nil
}
