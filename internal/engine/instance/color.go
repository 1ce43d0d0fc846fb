package instance

import "github.com/go-gl/mathgl/mgl32"

// Design colors travel as packed 0xAARRGGBB integers. The helpers below
// convert between that form and the normalized Vec4 the pipeline uses.

// ColorFromU32 converts a packed RGB color to an opaque Vec4.
func ColorFromU32(color uint32) mgl32.Vec4 {
	red := (color & 0xFF0000) >> 16
	green := (color & 0x00FF00) >> 8
	blue := color & 0x0000FF
	return mgl32.Vec4{
		float32(red) / 255,
		float32(green) / 255,
		float32(blue) / 255,
		1,
	}
}

// ColorFromAU32 converts a packed ARGB color to a Vec4.
func ColorFromAU32(color uint32) mgl32.Vec4 {
	alpha := (color & 0xFF000000) >> 24
	c := ColorFromU32(color)
	c[3] = float32(alpha) / 255
	return c
}

// UnclearColorFromU32 converts a packed ARGB color to a Vec4, promoting a
// zero alpha channel to fully opaque. Legacy designs stored RGB-only
// colors with an empty top byte.
func UnclearColorFromU32(color uint32) mgl32.Vec4 {
	alpha := (color & 0xFF000000) >> 24
	c := ColorFromU32(color)
	if alpha != 0 {
		c[3] = float32(alpha) / 255
	}
	return c
}

// GreyU32 returns the packed RGB color for a grey level in [0, 1].
func GreyU32(grey float32) uint32 {
	g := uint32(grey*255 + 0.5)
	return g<<16 | g<<8 | g
}

// GreyAU32 returns the packed ARGB color for a grey level and alpha in [0, 1].
func GreyAU32(grey, alpha float32) uint32 {
	a := uint32(alpha*255 + 0.5)
	return GreyU32(grey) | a<<24
}

// WithAlphaScaled returns color with its alpha channel multiplied by
// scale, clamped to [0, 255].
func WithAlphaScaled(color uint32, scale float32) uint32 {
	alpha := float32((color&0xFF000000)>>24) * scale
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 255 {
		alpha = 255
	}
	return color&0x00FFFFFF | uint32(alpha+0.5)<<24
}
