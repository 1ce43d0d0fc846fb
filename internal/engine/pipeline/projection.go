package pipeline

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// poleGuard bounds how close a projected point may come to the
// stereographic pole before the x/y division would blow up. The guard
// scales with zoom: at higher zoom the blow-up starts further from the
// pole.
const poleGuard = 1e-3

// Project maps a world-space position to clip coordinates, in either
// perspective or stereographic mode. It is pure and called once per
// vertex after joint resolution.
func Project(ctx *Context, world mgl32.Vec3) mgl32.Vec4 {
	if ctx.Stereography.Enabled && ctx.Stereography.Radius != 0 {
		return projectStereographic(ctx, world)
	}
	return ctx.Proj.Mul4(ctx.View).Mul4x1(world.Vec4(1))
}

// projectStereographic maps the point onto the unit sphere around the
// viewer and unrolls it with the azimuthal stereographic formula, giving
// the immersive "little planet" view. Depth stays finite and monotonic
// for any distance; points at the projection pole are clamped to the far
// plane instead of dividing by zero.
func projectStereographic(ctx *Context, world mgl32.Vec3) mgl32.Vec4 {
	zoom := ctx.Stereography.Zoom
	if zoom == 0 {
		zoom = 1
	}

	viewPoint := ctx.View.Mul4x1(world.Vec4(1)).Vec3()
	point := viewPoint.Mul(1 / ctx.Stereography.Radius)

	dist := point.Len()
	if dist < Epsilon {
		// The viewer's own position projects to the screen center.
		return mgl32.Vec4{0, 0, 0, 1}
	}
	projected := point.Mul(1 / dist)

	depth := math32.Atan(dist) * (2 / math32.Pi)
	if projected.Z() > 1-poleGuard/zoom {
		// close_to_pole: the azimuthal formula divides by 1-z. Push the
		// vertex to the far plane rather than emit Inf.
		return mgl32.Vec4{0, 0, 1, 1}
	}

	d := (1 - projected.Z()) * zoom
	return mgl32.Vec4{
		projected.X() / d / ctx.AspectRatio,
		projected.Y() / d,
		depth,
		1,
	}
}
