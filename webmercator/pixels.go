package webmercator

// WorldToPixels projects a world position with a pixel projection matrix.
func WorldToPixels(xyz Vec3, pixelProjectionMatrix Mat4) Vec3 {
	return pixelProjectionMatrix.TransformPoint(xyz)
}

// WorldToPixels2 is WorldToPixels for a position on the z=0 plane.
func WorldToPixels2(xy Vec2, pixelProjectionMatrix Mat4) Vec2 {
	return WorldToPixels(Vec3{X: xy.X, Y: xy.Y}, pixelProjectionMatrix).XY()
}

// PixelsToWorld unprojects a pixel that carries a depth (normalized device z).
func PixelsToWorld(xyz Vec3, pixelUnprojectionMatrix Mat4) Vec3 {
	return pixelUnprojectionMatrix.TransformPoint(xyz)
}

// PixelsToWorldAt unprojects a pixel without depth by intersecting its ray with the plane z=targetZ.
func PixelsToWorldAt(xy Vec2, pixelUnprojectionMatrix Mat4, targetZ float64) Vec3 {
	coord0 := pixelUnprojectionMatrix.TransformPoint(Vec3{X: xy.X, Y: xy.Y, Z: 0})
	coord1 := pixelUnprojectionMatrix.TransformPoint(Vec3{X: xy.X, Y: xy.Y, Z: 1})
	var t float64
	if coord0.Z != coord1.Z {
		t = (targetZ - coord0.Z) / (coord1.Z - coord0.Z)
	}
	return coord0.Lerp(coord1, t)
}

// PixelsToWorld2 unprojects a pixel onto the z=0 plane.
func PixelsToWorld2(xy Vec2, pixelUnprojectionMatrix Mat4) Vec2 {
	return PixelsToWorldAt(xy, pixelUnprojectionMatrix, 0).XY()
}
