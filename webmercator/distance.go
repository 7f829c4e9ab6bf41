package webmercator

import "math"

// DistanceScales converts between meters/degrees and common space units around an anchor.
// The second order terms are only set for high precision scales.
type DistanceScales struct {
	UnitsPerMeter   Vec3
	MetersPerUnit   Vec3
	UnitsPerDegree  Vec3
	DegreesPerUnit  Vec3
	UnitsPerDegree2 Vec3
	UnitsPerMeter2  Vec3
}

// GetDistanceScales calculates the distance scales at lngLat. With highPrecision the second
// order corrections for larger offsets are included.
func GetDistanceScales(lngLat Vec2, highPrecision bool) (DistanceScales, error) {
	if err := validateLatitude(lngLat.Y); err != nil {
		return DistanceScales{}, err
	}
	latitude := lngLat.Y
	worldSize := float64(TileSize)
	latCosine := math.Cos(latitude * degreesToRadians)

	unitsPerDegreeX := worldSize / 360
	unitsPerDegreeY := unitsPerDegreeX / latCosine
	altUnitsPerMeter := worldSize / EarthCircumference / latCosine

	result := DistanceScales{
		UnitsPerMeter:  Vec3{X: altUnitsPerMeter, Y: altUnitsPerMeter, Z: altUnitsPerMeter},
		MetersPerUnit:  Vec3{X: 1 / altUnitsPerMeter, Y: 1 / altUnitsPerMeter, Z: 1 / altUnitsPerMeter},
		UnitsPerDegree: Vec3{X: unitsPerDegreeX, Y: unitsPerDegreeY, Z: altUnitsPerMeter},
		DegreesPerUnit: Vec3{X: 1 / unitsPerDegreeX, Y: 1 / unitsPerDegreeY, Z: 1 / altUnitsPerMeter},
	}

	if highPrecision {
		latCosine2 := degreesToRadians * math.Tan(latitude*degreesToRadians) / latCosine
		unitsPerDegreeY2 := unitsPerDegreeX * latCosine2 / 2
		altUnitsPerDegree2 := worldSize / EarthCircumference * latCosine2
		altUnitsPerMeter2 := altUnitsPerDegree2 / unitsPerDegreeY * altUnitsPerMeter

		result.UnitsPerDegree2 = Vec3{X: 0, Y: unitsPerDegreeY2, Z: altUnitsPerDegree2}
		result.UnitsPerMeter2 = Vec3{X: altUnitsPerMeter2, Y: 0, Z: altUnitsPerMeter2}
	}
	return result, nil
}

// AddMetersToLngLat offsets a longitude/latitude by meters (x east, y north).
func AddMetersToLngLat(lngLat Vec2, meters Vec2) (Vec2, error) {
	scales, err := GetDistanceScales(lngLat, true)
	if err != nil {
		return Vec2{}, err
	}
	world, err := LngLatToWorld(lngLat)
	if err != nil {
		return Vec2{}, err
	}
	world.X += meters.X * (scales.UnitsPerMeter.X + scales.UnitsPerMeter2.X*meters.Y)
	world.Y += meters.Y * (scales.UnitsPerMeter.Y + scales.UnitsPerMeter2.Y*meters.Y)
	return WorldToLngLat(world), nil
}

// AddMetersToLngLatZ is AddMetersToLngLat with an altitude; z offsets are added as is.
func AddMetersToLngLatZ(lngLatZ Vec3, meters Vec3) (Vec3, error) {
	lngLat, err := AddMetersToLngLat(lngLatZ.XY(), meters.XY())
	if err != nil {
		return Vec3{}, err
	}
	return Vec3{X: lngLat.X, Y: lngLat.Y, Z: lngLatZ.Z + meters.Z}, nil
}
