package webmercator

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/deckgo/mathgl"
)

var testLngLats = []Vec2{
	{X: -122, Y: 38},
	{X: -122.45, Y: 37.75},
	{X: 0, Y: 0},
	{X: 4.9, Y: 52.37},
	{X: 179.9, Y: -75},
	{X: -73.97, Y: 40.78},
}

func TestLngLatToWorld(t *testing.T) {
	got, err := LngLatToWorld(Vec2{X: -122, Y: 38})
	require.NoError(t, err)
	assert.InDelta(t, 82.48888888888889, got.X, 1e-9)
	assert.InDelta(t, 314.50692551385134, got.Y, 1e-9)
}

func TestLngLatToWorldInvalidLatitude(t *testing.T) {
	for _, lat := range []float64{-90.0001, 91, math.NaN()} {
		t.Run(fmt.Sprint(lat), func(t *testing.T) {
			_, err := LngLatToWorld(Vec2{X: 0, Y: lat})
			require.ErrorIs(t, err, mathgl.ErrDomain)
			assert.Contains(t, err.Error(), "invalid latitude")
		})
	}
}

func TestWorldToLngLatRoundTrip(t *testing.T) {
	for _, lngLat := range testLngLats {
		t.Run(lngLat.String(), func(t *testing.T) {
			world, err := LngLatToWorld(lngLat)
			require.NoError(t, err)
			back := WorldToLngLat(world)
			assert.InDelta(t, lngLat.X, back.X, 1e-6)
			assert.InDelta(t, lngLat.Y, back.Y, 1e-6)
		})
	}
}

func TestZoomScaleInverse(t *testing.T) {
	for _, zoom := range []float64{-3, 0, 0.5, 1, 11.7, 12, 20} {
		assert.InDelta(t, zoom, ScaleToZoom(ZoomToScale(zoom)), 1e-12)
	}
	assert.Equal(t, 4096.0, ZoomToScale(12))
}

func TestFovyAltitude(t *testing.T) {
	assert.InDelta(t, 1.5, FovyToAltitude(AltitudeToFovy(1.5)), 1e-12)
	assert.InDelta(t, 36.86989764584402, AltitudeToFovy(1.5), 1e-9)
}

func TestDistanceScalesReciprocal(t *testing.T) {
	for _, lngLat := range testLngLats {
		t.Run(lngLat.String(), func(t *testing.T) {
			scales, err := GetDistanceScales(lngLat, false)
			require.NoError(t, err)
			assert.InDelta(t, 1, scales.MetersPerUnit.X*scales.UnitsPerMeter.X, 1e-9)
			assert.InDelta(t, 1, scales.MetersPerUnit.Y*scales.UnitsPerMeter.Y, 1e-9)
			assert.InDelta(t, 1, scales.MetersPerUnit.Z*scales.UnitsPerMeter.Z, 1e-9)
			assert.InDelta(t, 1, scales.DegreesPerUnit.X*scales.UnitsPerDegree.X, 1e-9)
			assert.InDelta(t, 1, scales.DegreesPerUnit.Y*scales.UnitsPerDegree.Y, 1e-9)
			assert.InDelta(t, 1, scales.DegreesPerUnit.Z*scales.UnitsPerDegree.Z, 1e-9)
			assert.Equal(t, Vec3{}, scales.UnitsPerMeter2)
		})
	}
}

func TestGetMeterZoom(t *testing.T) {
	for _, lat := range []float64{0, 37.5, 75} {
		t.Run(fmt.Sprint(lat), func(t *testing.T) {
			scales, err := GetDistanceScales(Vec2{X: 0, Y: lat}, false)
			require.NoError(t, err)
			scale := ZoomToScale(GetMeterZoom(lat))
			assert.InDelta(t, 1, scales.UnitsPerMeter.X*scale, 5e-4)
			assert.InDelta(t, 1, scales.UnitsPerMeter.Y*scale, 5e-4)
			assert.InDelta(t, 1, scales.UnitsPerMeter.Z*scale, 5e-4)
		})
	}
}

const testZoomScale = 4096 // errors are measured in pixels at zoom 12

func TestDistanceScalesUnitsPerDegree(t *testing.T) {
	const z = 1000.0
	for _, anchor := range testLngLats[:4] {
		scales, err := GetDistanceScales(anchor, true)
		require.NoError(t, err)
		origin, err := LngLatToWorld(anchor)
		require.NoError(t, err)

		for _, delta := range []float64{0.001, 0.01, 0.05, 0.1, 0.3} {
			t.Run(fmt.Sprintf("%v+%v", anchor, delta), func(t *testing.T) {
				pt := Vec2{X: anchor.X + delta, Y: anchor.Y + delta}
				world, err := LngLatToWorld(pt)
				require.NoError(t, err)
				ptScales, err := GetDistanceScales(pt, false)
				require.NoError(t, err)
				real := Vec3{X: world.X - origin.X, Y: world.Y - origin.Y, Z: z * ptScales.UnitsPerMeter.Z}

				adjusted := Vec3{
					X: delta * (scales.UnitsPerDegree.X + scales.UnitsPerDegree2.X*delta),
					Y: delta * (scales.UnitsPerDegree.Y + scales.UnitsPerDegree2.Y*delta),
					Z: z * (scales.UnitsPerDegree.Z + scales.UnitsPerDegree2.Z*delta),
				}
				assert.Less(t, adjusted.Sub(real).Length()*testZoomScale, 2.0)

				if delta <= 0.05 {
					unadjusted := Vec3{
						X: delta * scales.UnitsPerDegree.X,
						Y: delta * scales.UnitsPerDegree.Y,
						Z: z * scales.UnitsPerDegree.Z,
					}
					assert.Less(t, unadjusted.Sub(real).Length()*testZoomScale, 2.0)
				}
			})
		}
	}
}

func TestDistanceScalesUnitsPerMeter(t *testing.T) {
	for _, anchor := range testLngLats[:4] {
		scales, err := GetDistanceScales(anchor, true)
		require.NoError(t, err)
		origin, err := LngLatToWorld(anchor)
		require.NoError(t, err)

		for _, delta := range []float64{10, 100, 1000, 5000, 10000, 30000} {
			t.Run(fmt.Sprintf("%v+%vm", anchor, delta), func(t *testing.T) {
				// go delta meters north, then measure delta meters east along that parallel
				north := Vec2{X: anchor.X, Y: anchor.Y + delta/EarthCircumference*360}
				northWorld, err := LngLatToWorld(north)
				require.NoError(t, err)
				northScales, err := GetDistanceScales(north, false)
				require.NoError(t, err)
				realX := delta * northScales.UnitsPerMeter.X
				realY := northWorld.Y - origin.Y

				adjustedX := delta * (scales.UnitsPerMeter.X + scales.UnitsPerMeter2.X*delta)
				assert.Less(t, math.Abs(adjustedX-realX)*testZoomScale, 2.0)
				if delta <= 10000 {
					assert.Less(t, math.Abs(delta*scales.UnitsPerMeter.Y-realY)*testZoomScale, 2.0)
				}
			})
		}
	}
}

func TestAddMetersToLngLat(t *testing.T) {
	for _, anchor := range testLngLats[:4] {
		t.Run(anchor.String(), func(t *testing.T) {
			got, err := AddMetersToLngLat(anchor, Vec2{X: 0, Y: 1000})
			require.NoError(t, err)
			assert.InDelta(t, anchor.X, got.X, 1e-9)
			assert.InDelta(t, anchor.Y+1000/EarthCircumference*360, got.Y, 1e-4)

			got3, err := AddMetersToLngLatZ(Vec3{X: anchor.X, Y: anchor.Y, Z: 10}, Vec3{X: 1000, Y: 1000, Z: 5})
			require.NoError(t, err)
			assert.Greater(t, got3.X, anchor.X)
			assert.Greater(t, got3.Y, anchor.Y)
			assert.Equal(t, 15.0, got3.Z)
		})
	}
	_, err := AddMetersToLngLat(Vec2{X: 0, Y: 100}, Vec2{X: 1, Y: 1})
	require.ErrorIs(t, err, mathgl.ErrDomain)
}

func TestGetProjectionParameters(t *testing.T) {
	got, err := GetProjectionParameters(ProjectionParams{Width: 800, Height: 600})
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3, got.Aspect, 1e-12)
	assert.InDelta(t, 1.5, got.FocalDistance, 1e-12)
	assert.InDelta(t, 2*math.Atan(0.5/1.5), got.Fov, 1e-12)
	assert.Equal(t, 1.0, got.Near)
	// no pitch: the far plane is at the focal distance
	assert.InDelta(t, 1.5, got.Far, 1e-12)

	pitched, err := GetProjectionParameters(ProjectionParams{Width: 800, Height: 600, Pitch: 60, FarZMultiplier: 1.01})
	require.NoError(t, err)
	assert.Greater(t, pitched.Far, got.Far*1.01)
}

func TestGetViewMatrix(t *testing.T) {
	vm, err := GetViewMatrix(ViewMatrixParams{Height: 600, Scale: 600})
	require.NoError(t, err)
	// scale/height = 1, so only the altitude translation remains
	assert.True(t, vm.Equals(mathgl.Translation4(Vec3{Z: -1.5})))

	center := Vec3{X: 10, Y: 20}
	centered, err := GetViewMatrix(ViewMatrixParams{Height: 600, Scale: 600, Pitch: 30, Bearing: 45, Center: &center})
	require.NoError(t, err)
	// the center ends up straight in front of the camera
	assert.True(t, centered.TransformPoint(center).Equals(Vec3{Z: -1.5}))
}

func TestPixelsWorldRoundTrip(t *testing.T) {
	vm, err := GetViewMatrix(ViewMatrixParams{Height: 600, Scale: ZoomToScale(11), Pitch: 40, Bearing: -20})
	require.NoError(t, err)
	pm, err := GetProjectionMatrix(ProjectionParams{Width: 800, Height: 600, Pitch: 40})
	require.NoError(t, err)
	viewportMatrix := mathgl.Scaling4(Vec3{X: 400, Y: -300, Z: 1}).Translate(Vec3{X: 1, Y: -1})
	pixelProjection := viewportMatrix.Mul(pm).Mul(vm)
	pixelUnprojection, err := pixelProjection.Invert()
	require.NoError(t, err)

	for _, world := range []Vec3{{X: 0.01, Y: 0.02}, {X: -0.05, Y: 0.1, Z: 0.001}} {
		pixel := WorldToPixels(world, pixelProjection)
		back := PixelsToWorld(pixel, pixelUnprojection)
		assert.InDelta(t, world.X, back.X, 1e-9)
		assert.InDelta(t, world.Y, back.Y, 1e-9)
		assert.InDelta(t, world.Z, back.Z, 1e-9)

		onPlane := PixelsToWorldAt(pixel.XY(), pixelUnprojection, world.Z)
		assert.InDelta(t, world.X, onPlane.X, 1e-9)
		assert.InDelta(t, world.Y, onPlane.Y, 1e-9)
	}

	center := PixelsToWorld2(Vec2{X: 400, Y: 300}, pixelUnprojection)
	assert.InDelta(t, 0, center.X, 1e-9)
	assert.InDelta(t, 0, center.Y, 1e-9)
	assert.InDelta(t, 400, WorldToPixels2(Vec2{}, pixelProjection).X, 1e-9)
}
