package viewport

import (
	"github.com/pdok/deckgo/webmercator"
)

func (vp *Viewport) ID() string                                 { return vp.id }
func (vp *Viewport) Rect() Rect                                 { return vp.rect }
func (vp *Viewport) Width() float64                             { return vp.rect.Width }
func (vp *Viewport) Height() float64                            { return vp.rect.Height }
func (vp *Viewport) IsGeospatial() bool                         { return vp.isGeospatial }
func (vp *Viewport) LngLat() Vec2                               { return vp.lngLat }
func (vp *Viewport) Zoom() float64                              { return vp.zoom }
func (vp *Viewport) Scale() float64                             { return vp.scale }
func (vp *Viewport) MetersPerPixel() float64                    { return vp.metersPerPixel }
func (vp *Viewport) DistanceScales() webmercator.DistanceScales { return vp.distanceScales }
func (vp *Viewport) FocalDistance() float64                     { return vp.focalDistance }
func (vp *Viewport) Pitch() float64                             { return vp.pitch }
func (vp *Viewport) Fovy() float64                              { return vp.fovy }
func (vp *Viewport) ProjectionMode() ProjectionMode             { return vp.projectionMode }
func (vp *Viewport) Center() Vec3                               { return vp.center }
func (vp *Viewport) Position() Vec3                             { return vp.position }
func (vp *Viewport) ViewMatrix() Mat4                           { return vp.viewMatrix }
func (vp *Viewport) ViewMatrixUncentered() Mat4                 { return vp.viewMatrixUncentered }
func (vp *Viewport) ProjectionMatrix() Mat4                     { return vp.projectionMatrix }
func (vp *Viewport) ViewProjectionMatrix() Mat4                 { return vp.viewProjectionMatrix }
func (vp *Viewport) PixelProjectionMatrix() Mat4                { return vp.pixelProjectionMatrix }
func (vp *Viewport) PixelUnprojectionMatrix() Mat4              { return vp.pixelUnprojectionMatrix }
func (vp *Viewport) CameraPosition() Vec3                       { return vp.cameraPosition }
func (vp *Viewport) CameraDirection() Vec3                      { return vp.cameraDirection }
func (vp *Viewport) CameraUp() Vec3                             { return vp.cameraUp }

// Equals compares the dimensions, scale and matrices of two viewports.
func (vp *Viewport) Equals(other *Viewport) bool {
	if other == nil {
		return false
	}
	if vp == other {
		return true
	}
	return vp.rect.Width == other.rect.Width &&
		vp.rect.Height == other.rect.Height &&
		vp.scale == other.scale &&
		vp.projectionMatrix.Equals(other.projectionMatrix) &&
		vp.viewMatrix.Equals(other.viewMatrix)
}

// ContainsPixel reports whether the query rectangle overlaps the viewport's screen rectangle.
// A query without size is a point, the viewport rectangle is half open.
func (vp *Viewport) ContainsPixel(x, y, width, height float64) bool {
	return overlaps(x, width, vp.rect.X, vp.rect.Width) && overlaps(y, height, vp.rect.Y, vp.rect.Height)
}

func overlaps(start, size, rangeStart, rangeSize float64) bool {
	if size <= 0 {
		return rangeStart <= start && start < rangeStart+rangeSize
	}
	return start < rangeStart+rangeSize && rangeStart < start+size
}

// ProjectFlat projects a longitude/latitude to world coordinates; non-geospatial positions pass through.
func (vp *Viewport) ProjectFlat(xy Vec2) (Vec2, error) {
	if !vp.isGeospatial {
		return xy, nil
	}
	return webmercator.LngLatToWorld(xy)
}

// UnprojectFlat is the inverse of ProjectFlat.
func (vp *Viewport) UnprojectFlat(xy Vec2) Vec2 {
	if !vp.isGeospatial {
		return xy
	}
	return webmercator.WorldToLngLat(xy)
}

// ProjectPosition converts a position (longitude, latitude, meters) to common space.
func (vp *Viewport) ProjectPosition(xyz Vec3) (Vec3, error) {
	xy, err := vp.ProjectFlat(xyz.XY())
	if err != nil {
		return Vec3{}, err
	}
	return Vec3{X: xy.X, Y: xy.Y, Z: xyz.Z * vp.distanceScales.UnitsPerMeter.Z}, nil
}

// UnprojectPosition converts a common space position back to (longitude, latitude, meters).
func (vp *Viewport) UnprojectPosition(xyz Vec3) Vec3 {
	xy := vp.UnprojectFlat(xyz.XY())
	return Vec3{X: xy.X, Y: xy.Y, Z: xyz.Z * vp.distanceScales.MetersPerUnit.Z}
}

// Project converts a position to pixels relative to the top left of the viewport.
// Z of the result is the normalized depth.
func (vp *Viewport) Project(xyz Vec3) (Vec3, error) {
	world, err := vp.ProjectPosition(xyz)
	if err != nil {
		return Vec3{}, err
	}
	return webmercator.WorldToPixels(world, vp.pixelProjectionMatrix), nil
}

// Unproject converts a pixel to the position where its ray hits the plane at targetZ meters.
func (vp *Viewport) Unproject(pixel Vec2, targetZ float64) Vec3 {
	world := webmercator.PixelsToWorldAt(pixel, vp.pixelUnprojectionMatrix, targetZ*vp.distanceScales.UnitsPerMeter.Z)
	pos := vp.UnprojectPosition(world)
	pos.Z = targetZ
	return pos
}

// UnprojectDepth converts a pixel with a normalized depth (as returned by Project) to a position.
func (vp *Viewport) UnprojectDepth(pixel Vec3) Vec3 {
	return vp.UnprojectPosition(webmercator.PixelsToWorld(pixel, vp.pixelUnprojectionMatrix))
}
