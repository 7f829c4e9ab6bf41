package viewport

import (
	"fmt"
	"testing"

	"github.com/go-spatial/geom/slippy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/deckgo/mathgl"
)

func sanFrancisco(zoom, pitch, bearing float64) WebMercatorOptions {
	return WebMercatorOptions{
		Width:     800,
		Height:    600,
		Longitude: -122.43,
		Latitude:  37.75,
		Zoom:      zoom,
		Pitch:     pitch,
		Bearing:   bearing,
	}
}

func TestNewWebMercatorProjectionMode(t *testing.T) {
	tests := []struct {
		zoom float64
		want ProjectionMode
	}{
		{zoom: 0, want: WebMercator},
		{zoom: 11, want: WebMercator},
		{zoom: 11.99, want: WebMercator},
		{zoom: 12, want: WebMercatorAutoOffset},
		{zoom: 18, want: WebMercatorAutoOffset},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("zoom %v", tt.zoom), func(t *testing.T) {
			vp, err := NewWebMercator(sanFrancisco(tt.zoom, 0, 0))
			require.NoError(t, err)
			assert.Equal(t, tt.want, vp.ProjectionMode())
			assert.True(t, vp.IsGeospatial())
		})
	}
}

func TestNewWebMercatorDefaults(t *testing.T) {
	vp, err := NewWebMercator(WebMercatorOptions{})
	require.NoError(t, err)
	assert.Equal(t, "default-view", vp.ID())
	assert.Equal(t, 1.0, vp.Width())
	assert.Equal(t, 1.0, vp.Height())
	assert.Equal(t, 1.0, vp.Scale())
	assert.Equal(t, 1.5, vp.FocalDistance())
}

func TestNewWebMercatorInvalidOptions(t *testing.T) {
	tests := map[string]WebMercatorOptions{
		"latitude": {Latitude: 100},
		"pitch":    {Pitch: 90},
		"width":    {Width: -1},
		"fovy":     {Fovy: 180},
	}
	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewWebMercator(opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid viewport options")
		})
	}
}

func TestProjectCenterToMiddleOfScreen(t *testing.T) {
	for _, pitch := range []float64{0, 30, 60} {
		for _, bearing := range []float64{0, -45, 90} {
			t.Run(fmt.Sprintf("pitch %v bearing %v", pitch, bearing), func(t *testing.T) {
				vp, err := NewWebMercator(sanFrancisco(11.5, pitch, bearing))
				require.NoError(t, err)
				pixel, err := vp.Project(Vec3{X: -122.43, Y: 37.75})
				require.NoError(t, err)
				assert.InDelta(t, 400, pixel.X, 1e-6)
				assert.InDelta(t, 300, pixel.Y, 1e-6)
			})
		}
	}
}

func TestProjectNorthIsUp(t *testing.T) {
	vp, err := NewWebMercator(sanFrancisco(11.5, 0, 0))
	require.NoError(t, err)
	north, err := vp.Project(Vec3{X: -122.43, Y: 37.8})
	require.NoError(t, err)
	east, err := vp.Project(Vec3{X: -122.4, Y: 37.75})
	require.NoError(t, err)
	assert.Less(t, north.Y, 300.0)
	assert.InDelta(t, 400, north.X, 1e-6)
	assert.Greater(t, east.X, 400.0)
	assert.InDelta(t, 300, east.Y, 1e-6)
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	positions := []Vec3{
		{X: -122.43, Y: 37.75},
		{X: -122.41, Y: 37.76},
		{X: -122.45, Y: 37.73},
		{X: -122.44, Y: 37.77, Z: 100},
	}
	for _, pitch := range []float64{0, 45} {
		vp, err := NewWebMercator(sanFrancisco(12.5, pitch, 20))
		require.NoError(t, err)
		for _, pos := range positions {
			t.Run(fmt.Sprintf("pitch %v %v", pitch, pos), func(t *testing.T) {
				pixel, err := vp.Project(pos)
				require.NoError(t, err)

				got := vp.Unproject(pixel.XY(), pos.Z)
				assert.InDelta(t, pos.X, got.X, 1e-7)
				assert.InDelta(t, pos.Y, got.Y, 1e-7)
				assert.Equal(t, pos.Z, got.Z)

				got = vp.UnprojectDepth(pixel)
				assert.InDelta(t, pos.X, got.X, 1e-7)
				assert.InDelta(t, pos.Y, got.Y, 1e-7)
				assert.InDelta(t, pos.Z, got.Z, 1e-3)
			})
		}
	}
}

func TestProjectInvalidLatitude(t *testing.T) {
	vp, err := NewWebMercator(sanFrancisco(11.5, 0, 0))
	require.NoError(t, err)
	_, err = vp.Project(Vec3{Y: 95})
	require.ErrorIs(t, err, mathgl.ErrDomain)
}

func TestProjectPositionMeters(t *testing.T) {
	vp, err := NewWebMercator(sanFrancisco(11.5, 0, 0))
	require.NoError(t, err)
	got, err := vp.ProjectPosition(Vec3{X: -122.43, Y: 37.75, Z: 1000})
	require.NoError(t, err)
	assert.InDelta(t, 1000*vp.DistanceScales().UnitsPerMeter.Z, got.Z, 1e-12)
	back := vp.UnprojectPosition(got)
	assert.InDelta(t, 1000, back.Z, 1e-9)
}

func TestNonGeospatialViewport(t *testing.T) {
	vp, err := New("cartesian", Rect{Width: 100, Height: 100},
		ViewMatrixOptions{Position: Vec3{X: 10, Y: 20}},
		ProjectionMatrixOptions{Orthographic: true, Near: 0.1, Far: 10})
	require.NoError(t, err)
	assert.False(t, vp.IsGeospatial())
	assert.Equal(t, Identity, vp.ProjectionMode())
	assert.Equal(t, 0.0, vp.Zoom())
	assert.Equal(t, Vec3{X: 10, Y: 20}, vp.Center())

	pos := Vec3{X: 12, Y: 21, Z: 3}
	got, err := vp.ProjectPosition(pos)
	require.NoError(t, err)
	assert.Equal(t, pos, got)
	assert.Equal(t, pos, vp.UnprojectPosition(pos))
	assert.Empty(t, vp.Tiles(3))
}

func TestContainsPixel(t *testing.T) {
	vp, err := New("minimap", Rect{X: 10, Y: 20, Width: 100, Height: 50},
		ViewMatrixOptions{}, ProjectionMatrixOptions{})
	require.NoError(t, err)

	tests := []struct {
		x, y, w, h float64
		want       bool
	}{
		{x: 10, y: 20, want: true},
		{x: 50, y: 40, want: true},
		{x: 109.9, y: 69.9, want: true},
		{x: 110, y: 40, want: false},
		{x: 50, y: 70, want: false},
		{x: 9, y: 40, want: false},
		{x: 0, y: 0, w: 11, h: 21, want: true},
		{x: 0, y: 0, w: 10, h: 20, want: false},
		{x: 105, y: 65, w: 20, h: 20, want: true},
		{x: 0, y: 0, w: 500, h: 500, want: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v,%v %vx%v", tt.x, tt.y, tt.w, tt.h), func(t *testing.T) {
			assert.Equal(t, tt.want, vp.ContainsPixel(tt.x, tt.y, tt.w, tt.h))
		})
	}
}

func TestEquals(t *testing.T) {
	a, err := NewWebMercator(sanFrancisco(11.5, 30, 0))
	require.NoError(t, err)
	b, err := NewWebMercator(sanFrancisco(11.5, 30, 0))
	require.NoError(t, err)
	c, err := NewWebMercator(sanFrancisco(11.6, 30, 0))
	require.NoError(t, err)
	d, err := NewWebMercator(sanFrancisco(11.5, 40, 0))
	require.NoError(t, err)

	assert.True(t, a.Equals(a))
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(d))
	assert.False(t, a.Equals(nil))
}

func TestCameraVectors(t *testing.T) {
	vp, err := NewWebMercator(sanFrancisco(11.5, 0, 0))
	require.NoError(t, err)
	assert.True(t, vp.CameraDirection().Equals(Vec3{Z: -1}))
	assert.True(t, vp.CameraUp().Equals(Vec3{Y: 1}))
	// looking straight down, the camera is above the center
	assert.InDelta(t, vp.Center().X, vp.CameraPosition().X, 1e-6)
	assert.InDelta(t, vp.Center().Y, vp.CameraPosition().Y, 1e-6)
	assert.Greater(t, vp.CameraPosition().Z, 0.0)

	pitched, err := NewWebMercator(sanFrancisco(11.5, 60, 0))
	require.NoError(t, err)
	// tilted towards the north
	assert.Greater(t, pitched.CameraDirection().Y, 0.0)
	assert.Less(t, pitched.CameraPosition().Y, pitched.Center().Y)
}

func TestMetersPerPixel(t *testing.T) {
	vp, err := NewWebMercator(sanFrancisco(0, 0, 0))
	require.NoError(t, err)
	zoomed, err := NewWebMercator(sanFrancisco(1, 0, 0))
	require.NoError(t, err)
	assert.InDelta(t, vp.MetersPerPixel()/2, zoomed.MetersPerPixel(), 1e-9)
}

func TestBounds(t *testing.T) {
	vp, err := NewWebMercator(sanFrancisco(11.5, 0, 0))
	require.NoError(t, err)
	bounds := vp.Bounds()
	assert.Less(t, bounds.MinX(), -122.43)
	assert.Greater(t, bounds.MaxX(), -122.43)
	assert.Less(t, bounds.MinY(), 37.75)
	assert.Greater(t, bounds.MaxY(), 37.75)
	assert.Less(t, bounds.MaxX()-bounds.MinX(), 1.0)
}

func TestBoundsAtHighPitch(t *testing.T) {
	tests := []struct {
		pitch       float64
		seesHorizon bool
	}{
		{pitch: 0, seesHorizon: false},
		{pitch: 45, seesHorizon: false},
		{pitch: 75, seesHorizon: true},
		{pitch: 85, seesHorizon: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("pitch %v", tt.pitch), func(t *testing.T) {
			vp, err := NewWebMercator(WebMercatorOptions{
				Width:     800,
				Height:    600,
				Longitude: 5,
				Latitude:  52,
				Zoom:      10,
				Pitch:     tt.pitch,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.seesHorizon, vp.seesHorizon())

			bounds := vp.Bounds()
			assert.Less(t, bounds.MinX(), 5.0)
			assert.Greater(t, bounds.MaxX(), 5.0)
			assert.Less(t, bounds.MinY(), 52.0)
			assert.Greater(t, bounds.MaxY(), 52.0)

			col, row := tileIndex(5, 52, 10)
			assert.Contains(t, vp.Tiles(10), slippy.NewTile(10, col, row))
		})
	}
}

func TestBoundsNonGeospatialIgnoresHorizon(t *testing.T) {
	vp, err := New("flat", Rect{Width: 100, Height: 100}, ViewMatrixOptions{}, ProjectionMatrixOptions{})
	require.NoError(t, err)
	assert.Zero(t, vp.Fovy())
	assert.False(t, vp.seesHorizon())
}

func TestTiles(t *testing.T) {
	vp, err := NewWebMercator(sanFrancisco(11.5, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, []*slippy.Tile{slippy.NewTile(0, 0, 0)}, vp.Tiles(0))
	// San Francisco lies in the north west quadrant of the world
	assert.Equal(t, []*slippy.Tile{slippy.NewTile(1, 0, 0)}, vp.Tiles(1))

	tiles := vp.Tiles(12)
	require.NotEmpty(t, tiles)
	for _, tile := range tiles {
		assert.Equal(t, uint(12), tile.Z)
		// column of -122.43 at zoom 12
		assert.InDelta(t, 655, float64(tile.X), 2)
	}
}

func TestNewWebMercatorWrapsLongitude(t *testing.T) {
	opts := sanFrancisco(3, 0, 0)
	opts.Longitude = 237.57
	vp, err := NewWebMercator(opts)
	require.NoError(t, err)
	assert.InDelta(t, -122.43, vp.LngLat().X, 1e-9)

	reference, err := NewWebMercator(sanFrancisco(3, 0, 0))
	require.NoError(t, err)
	assert.True(t, vp.ViewMatrix().Equals(reference.ViewMatrix()))
}

func TestNewWebMercatorKeepsAntimeridian(t *testing.T) {
	tests := []struct {
		lng  float64
		want float64
	}{
		{lng: 180, want: 180},
		{lng: -180, want: -180},
		{lng: 181, want: -179},
		{lng: -540, want: -180},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("lng %v", tt.lng), func(t *testing.T) {
			opts := sanFrancisco(3, 0, 0)
			opts.Longitude = tt.lng
			vp, err := NewWebMercator(opts)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, vp.LngLat().X, 1e-9)
		})
	}
}
