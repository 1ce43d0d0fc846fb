package instance

import "github.com/go-gl/mathgl/mgl32"

// The identity pass encodes the 32-bit picking id into the four color
// channels of an offscreen buffer. The channel order is a fixed wire
// contract shared with the picking decoder: R carries bits 16-23, G bits
// 8-15, B bits 0-7 and A the top byte, each normalized by 255.

// EncodeID packs id into a normalized RGBA color for the identity pass.
func EncodeID(id uint32) mgl32.Vec4 {
	r := (id & 0x00FF0000) >> 16
	g := (id & 0x0000FF00) >> 8
	b := id & 0x000000FF
	a := (id & 0xFF000000) >> 24
	return mgl32.Vec4{
		float32(r) / 255,
		float32(g) / 255,
		float32(b) / 255,
		float32(a) / 255,
	}
}

// DecodeID recovers the id from a normalized RGBA color. It is the exact
// inverse of EncodeID for every 32-bit id.
func DecodeID(c mgl32.Vec4) uint32 {
	r := uint32(c.X()*255 + 0.5)
	g := uint32(c.Y()*255 + 0.5)
	b := uint32(c.Z()*255 + 0.5)
	a := uint32(c.W()*255 + 0.5)
	return r<<16 | g<<8 | b | a<<24
}

// DecodePixel recovers the id from raw 8-bit RGBA channels, as read back
// from the identity buffer.
func DecodePixel(r, g, b, a uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b) | uint32(a)<<24
}
