// Package webmercator converts between longitude/latitude, Web-Mercator world coordinates (the
// 512x512 zoom 0 tile) and screen pixels, and builds the camera matrices for a map view.
// Results follow the conventions of the math.gl web-mercator module.
package webmercator

import (
	"fmt"
	"math"

	"github.com/pdok/deckgo/mathgl"
)

const (
	TileSize           = 512
	EarthCircumference = 40.03e6
	DefaultAltitude    = 1.5

	piOver4          = math.Pi / 4
	degreesToRadians = math.Pi / 180
	radiansToDegrees = 180 / math.Pi
)

type (
	Vec2 = mathgl.Vector2[float64]
	Vec3 = mathgl.Vector3[float64]
	Mat4 = mathgl.Matrix4[float64]
)

func validateLatitude(latitude float64) error {
	if latitude < -90 || latitude > 90 || math.IsNaN(latitude) {
		return fmt.Errorf(`%w: invalid latitude %v`, mathgl.ErrDomain, latitude)
	}
	return nil
}

// LngLatToWorld projects a longitude/latitude (degrees) to world coordinates.
func LngLatToWorld(lngLat Vec2) (Vec2, error) {
	if err := validateLatitude(lngLat.Y); err != nil {
		return Vec2{}, err
	}
	lambda2 := lngLat.X * degreesToRadians
	phi2 := lngLat.Y * degreesToRadians
	x := TileSize * (lambda2 + math.Pi) / (2 * math.Pi)
	y := TileSize * (math.Pi + math.Log(math.Tan(piOver4+phi2*0.5))) / (2 * math.Pi)
	return Vec2{X: x, Y: y}, nil
}

// WorldToLngLat is the inverse of LngLatToWorld.
func WorldToLngLat(xy Vec2) Vec2 {
	lambda2 := (xy.X/TileSize)*(2*math.Pi) - math.Pi
	phi2 := 2 * (math.Atan(math.Exp((xy.Y/TileSize)*(2*math.Pi)-math.Pi)) - piOver4)
	return Vec2{X: lambda2 * radiansToDegrees, Y: phi2 * radiansToDegrees}
}

func ZoomToScale(zoom float64) float64 {
	return math.Pow(2, zoom)
}

func ScaleToZoom(scale float64) float64 {
	return math.Log2(scale)
}

// GetMeterZoom returns the zoom level at which one common space unit equals one meter
// at the given latitude.
func GetMeterZoom(latitude float64) float64 {
	latCosine := math.Cos(latitude * degreesToRadians)
	return ScaleToZoom(EarthCircumference*latCosine) - 9
}

// AltitudeToFovy converts a camera altitude (in viewport heights) to a vertical field of view in degrees.
func AltitudeToFovy(altitude float64) float64 {
	return 2 * math.Atan(0.5/altitude) * radiansToDegrees
}

// FovyToAltitude is the inverse of AltitudeToFovy.
func FovyToAltitude(fovy float64) float64 {
	return 0.5 / math.Tan(0.5*fovy*degreesToRadians)
}
