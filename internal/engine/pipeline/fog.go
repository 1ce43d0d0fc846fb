package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/strandlab/helixview/internal/engine/instance"
)

// fogDiscardThreshold drops fragments once fog has eaten 20% of their
// visibility, which is what produces the hard cutaway edge.
const fogDiscardThreshold = 0.80

// Smoothstep is the GLSL smoothstep: 0 below edge0, 1 above edge1, smooth
// Hermite ramp in between.
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// Visibility returns the fog visibility factor in [0, 1] for a fragment
// at world, measured from the camera or the fog center. Non-increasing in
// distance for FogNormal, non-decreasing for FogInverted, constant 1 for
// FogOff.
func (f *Fog) Visibility(world, camera mgl32.Vec3) float32 {
	if f.Mode == FogOff {
		return 1
	}
	origin := f.Center
	if f.FromCamera {
		origin = camera
	}
	dist := world.Sub(origin).Len()
	visibility := 1 - Smoothstep(f.Length, f.Length+f.Radius, dist)
	if f.Mode == FogInverted {
		visibility = 1 - visibility
	}
	return visibility
}

// FragmentVisible decides whether a fragment survives the fog discard,
// the phantom-kind alpha rule and the optional cut plane. It is the
// single discard policy shared by the main and identity passes; the two
// hand-copied shader variants of the original are collapsed into this one
// function parameterized by the record's kind.
func FragmentVisible(ctx *Context, world mgl32.Vec3, rec *instance.Record) bool {
	if rec.Kind.Fake() && rec.Color.W() < instance.FakeAlphaThreshold {
		return false
	}
	if p := ctx.CutPlane; p != nil {
		if p.Normal.Dot(world)+p.Offset < 0 {
			return false
		}
	}
	if ctx.Fog.Mode != FogOff {
		if ctx.Fog.Visibility(world, ctx.CameraPosition) < fogDiscardThreshold {
			return false
		}
	}
	return true
}
