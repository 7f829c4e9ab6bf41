package project

import "github.com/pdok/deckgo/mathhelp"

// UniformBlockName is the name of the uniform block Pack fills.
const UniformBlockName = "project"

// PackedSize is the number of float32 values in a packed uniform block.
const PackedSize = 16 + 16 + 4 + 6*4 + 4 + 4 + 4

// UniformSink receives packed uniform blocks, typically a GPU binding layer.
type UniformSink interface {
	SetUniformBlock(name string, data []float32) error
}

// Pack lays out the uniforms as a std140 block of float32 values:
//
//	mat4 viewProjectionMatrix (column major)
//	mat4 modelMatrix (column major)
//	vec4 center
//	vec3 coordinateOrigin, commonOrigin, cameraPosition,
//	     commonUnitsPerMeter, commonUnitsPerWorldUnit, commonUnitsPerWorldUnit2 (each padded to vec4)
//	vec2 viewportSize, float devicePixelRatio, float focalDistance
//	float scale, float antimeridian, float coordinateSystem, float projectionMode
//	float wrapLongitude (0 or 1), padding
func (u Uniforms) Pack() []float32 {
	data := make([]float32, 0, PackedSize)
	vp := u.ViewProjectionMatrix.Transpose().Float32()
	data = append(data, vp[:]...)
	model := u.ModelMatrix.Transpose().Float32()
	data = append(data, model[:]...)
	data = appendFloats(data, u.Center.X, u.Center.Y, u.Center.Z, u.Center.W)
	for _, v := range []Vec3{
		u.CoordinateOrigin,
		u.CommonOrigin,
		u.CameraPosition,
		u.CommonUnitsPerMeter,
		u.CommonUnitsPerWorldUnit,
		u.CommonUnitsPerWorldUnit2,
	} {
		data = appendFloats(data, v.X, v.Y, v.Z, 0)
	}
	data = appendFloats(data, u.ViewportSize.X, u.ViewportSize.Y, u.DevicePixelRatio, u.FocalDistance)
	data = appendFloats(data, u.Scale, u.Antimeridian, float64(u.CoordinateSystem), float64(u.ProjectionMode))
	return appendFloats(data, mathhelp.Bool2Float(u.WrapLongitude), 0, 0, 0)
}

func appendFloats(data []float32, values ...float64) []float32 {
	for _, v := range values {
		data = append(data, float32(v))
	}
	return data
}

// Upload packs the uniforms into sink.
func (u Uniforms) Upload(sink UniformSink) error {
	return sink.SetUniformBlock(UniformBlockName, u.Pack())
}
