package webmercator

import (
	"math"

	"github.com/creasty/defaults"

	"github.com/pdok/deckgo/mathgl"
)

// ViewMatrixParams describes the camera pose of a map view.
type ViewMatrixParams struct {
	// Viewport height in pixels
	Height float64
	// Pitch in degrees
	Pitch float64
	// Bearing in degrees
	Bearing float64
	// Camera altitude in viewport heights
	Altitude float64 `default:"1.5"`
	// 2^zoom
	Scale float64 `default:"1"`
	// Optional world position the camera looks at, nil keeps the view uncentered
	Center *Vec3
}

// GetViewMatrix builds the view matrix for a map camera.
func GetViewMatrix(p ViewMatrixParams) (Mat4, error) {
	if err := defaults.Set(&p); err != nil {
		return Mat4{}, err
	}
	vm := mathgl.Identity4[float64]().
		Translate(Vec3{X: 0, Y: 0, Z: -p.Altitude}).
		RotateX(-p.Pitch * degreesToRadians).
		RotateZ(p.Bearing * degreesToRadians)
	scale := p.Scale
	if p.Height > 0 {
		scale /= p.Height
	}
	vm = vm.Scale(Vec3{X: scale, Y: scale, Z: scale})
	if p.Center != nil {
		vm = vm.Translate(p.Center.Negate())
	}
	return vm, nil
}

// ProjectionParams describes the lens of a map camera.
type ProjectionParams struct {
	Width  float64 `default:"1"`
	Height float64 `default:"1"`
	// Pitch in degrees
	Pitch float64
	// Camera altitude in viewport heights, ignored when Fovy is set
	Altitude float64 `default:"1.5"`
	// Vertical field of view in degrees
	Fovy            float64
	NearZMultiplier float64 `default:"1"`
	FarZMultiplier  float64 `default:"1"`
}

// ProjectionParameters are the perspective parameters derived from ProjectionParams.
type ProjectionParameters struct {
	// Fov is the vertical field of view in radians
	Fov           float64
	Aspect        float64
	FocalDistance float64
	Near          float64
	Far           float64
}

// GetProjectionParameters calculates the frustum so that the far plane just contains the
// top edge of the (pitched) map.
func GetProjectionParameters(p ProjectionParams) (ProjectionParameters, error) {
	if err := defaults.Set(&p); err != nil {
		return ProjectionParameters{}, err
	}
	fovy := p.Fovy
	if fovy == 0 {
		fovy = AltitudeToFovy(p.Altitude)
	}
	halfFov := 0.5 * fovy * degreesToRadians
	focalDistance := FovyToAltitude(fovy)
	pitchRadians := p.Pitch * degreesToRadians

	// law of sines, distance from the center to the top of the map
	topHalfSurfaceDistance := math.Sin(halfFov) * focalDistance /
		math.Sin(math.Min(math.Max(math.Pi/2-pitchRadians-halfFov, 0.01), math.Pi-0.01))
	farZ := math.Sin(pitchRadians)*topHalfSurfaceDistance + focalDistance

	return ProjectionParameters{
		Fov:           2 * halfFov,
		Aspect:        p.Width / p.Height,
		FocalDistance: focalDistance,
		Near:          p.NearZMultiplier,
		Far:           farZ * p.FarZMultiplier,
	}, nil
}

// GetProjectionMatrix builds the perspective matrix for GetProjectionParameters.
func GetProjectionMatrix(p ProjectionParams) (Mat4, error) {
	pp, err := GetProjectionParameters(p)
	if err != nil {
		return Mat4{}, err
	}
	return mathgl.Perspective(pp.Fov, pp.Aspect, pp.Near, pp.Far), nil
}
