package viewport

import (
	"math"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/slippy"

	"github.com/pdok/deckgo/mathgl"
	"github.com/pdok/deckgo/mathhelp"
	"github.com/pdok/deckgo/webmercator"
)

// Bounds returns the extent of the ground (z=0) visible in the viewport, in longitude/latitude
// for geospatial viewports and world units otherwise.
// When the top of the screen shows the sky, the ground is cut off at the far plane.
func (vp *Viewport) Bounds() geom.Extent {
	top := func(x float64) Vec3 { return vp.Unproject(Vec2{X: x, Y: 0}, 0) }
	if vp.seesHorizon() {
		top = func(x float64) Vec3 { return vp.unprojectOnFarPlane(x, 0) }
	}
	corners := []Vec3{
		top(0),
		top(vp.rect.Width),
		vp.Unproject(Vec2{X: 0, Y: vp.rect.Height}, 0),
		vp.Unproject(Vec2{X: vp.rect.Width, Y: vp.rect.Height}, 0),
	}
	extent := geom.Extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, pos := range corners {
		extent[0] = math.Min(extent[0], pos.X)
		extent[1] = math.Min(extent[1], pos.Y)
		extent[2] = math.Max(extent[2], pos.X)
		extent[3] = math.Max(extent[3], pos.Y)
	}
	return extent
}

// seesHorizon reports whether the top edge of the frustum points at or above the horizon.
func (vp *Viewport) seesHorizon() bool {
	if vp.fovy <= 0 {
		return false
	}
	halfFovy := mathgl.ToRadians(vp.fovy / 2)
	angleToGround := mathgl.ToRadians(90 - vp.pitch)
	return halfFovy > angleToGround-0.01
}

// unprojectOnFarPlane returns the point at targetZ on the far plane below pixel column x.
func (vp *Viewport) unprojectOnFarPlane(x, targetZ float64) Vec3 {
	coord0 := webmercator.PixelsToWorld(Vec3{X: x, Y: 0, Z: 1}, vp.pixelUnprojectionMatrix)
	coord1 := webmercator.PixelsToWorld(Vec3{X: x, Y: vp.rect.Height, Z: 1}, vp.pixelUnprojectionMatrix)
	z := targetZ * vp.distanceScales.UnitsPerMeter.Z
	var t float64
	if coord1.Z != coord0.Z {
		t = (z - coord0.Z) / (coord1.Z - coord0.Z)
	}
	world := coord0.Lerp(coord1, t)
	world.Z = z
	pos := vp.UnprojectPosition(world)
	pos.Z = targetZ
	return pos
}

// Tiles returns the XYZ (slippy map) tiles at zoom that cover Bounds, row by row from the top.
// Non-geospatial viewports have no tiles.
func (vp *Viewport) Tiles(zoom uint) []*slippy.Tile {
	if !vp.isGeospatial {
		return nil
	}
	bounds := vp.Bounds()
	minX, maxY := tileIndex(bounds.MinX(), bounds.MinY(), zoom)
	maxX, minY := tileIndex(bounds.MaxX(), bounds.MaxY(), zoom)

	tiles := make([]*slippy.Tile, 0, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			tiles = append(tiles, slippy.NewTile(zoom, x, y))
		}
	}
	return tiles
}

// tileIndex returns the column and row of the tile containing lng/lat, clamped to the matrix.
func tileIndex(lng, lat float64, zoom uint) (uint, uint) {
	lat = mathhelp.Clamp(lat, -maxMercatorLatitude, maxMercatorLatitude)
	world, _ := webmercator.LngLatToWorld(Vec2{X: lng, Y: lat})
	n := float64(uint(1) << zoom)
	col := clampIndex(math.Floor(world.X/webmercator.TileSize*n), n)
	// slippy rows count from the top, world y from the bottom
	row := clampIndex(math.Floor((1-world.Y/webmercator.TileSize)*n), n)
	return col, row
}

const maxMercatorLatitude = 85.05112878

func clampIndex(v, n float64) uint {
	return uint(mathhelp.Clamp(v, 0, n-1))
}
