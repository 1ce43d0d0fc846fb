package pipeline

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/strandlab/helixview/internal/engine/instance"
)

// Epsilon gates every degenerate-adjacency test. Below it a joint is
// treated as a flat cap and left undeformed; degenerate geometry is never
// an error.
const Epsilon = 1e-5

var xAxis = mgl32.Vec3{1, 0, 0}

// ResolveJoint deforms a sliced-tube vertex so that the segment's end
// rings meet its chained neighbors on the mitering plane, turning a
// ladder of disjoint cylinders into one continuous chain. Position must
// already carry the instance scale; index is the vertex's position in the
// reference mesh, which classifies it as start ring, middle band or end
// ring. Middle-band vertices and instances without the relevant neighbor
// come back unchanged.
func ResolveJoint(position, normal mgl32.Vec3, index int, rec *instance.Record, nbRay int) (mgl32.Vec3, mgl32.Vec3) {
	if !rec.Kind.Chained() {
		return position, normal
	}
	switch {
	case index < nbRay:
		return miterStart(position, normal, rec.Prev)
	case index >= 2*nbRay && index < 3*nbRay:
		return miterEnd(position, normal, rec.Next)
	}
	return position, normal
}

// miterStart bends a start-ring vertex toward the previous segment.
func miterStart(position, normal, prev mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	if prev.Len() < Epsilon {
		return position, normal
	}
	dir := prev.Normalize()
	planeNormal, ok := miterPlane(dir, dir.Sub(xAxis), dir.Cross(xAxis))
	if !ok {
		return position, normal
	}

	position[0] -= (planeNormal.Y()*position.Y() + planeNormal.Z()*position.Z()) / planeNormal.X()

	// Reproject the cross-section tangent onto the mitering plane, then
	// rebuild the normal perpendicular to both.
	tangent := mgl32.Vec3{0, normal.Z(), -normal.Y()}
	tangent[0] = -(planeNormal.Y()*tangent.Y() + planeNormal.Z()*tangent.Z()) / planeNormal.X()
	return position, tangent.Cross(planeNormal).Normalize()
}

// miterEnd bends an end-ring vertex toward the next segment. The bisector
// and tangent are mirrored so the rebuilt normal still points outward.
func miterEnd(position, normal, next mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	if next.Len() < Epsilon {
		return position, normal
	}
	dir := next.Normalize()
	planeNormal, ok := miterPlane(dir, xAxis.Sub(dir), xAxis.Cross(dir))
	if !ok {
		return position, normal
	}

	position[0] -= (planeNormal.Y()*position.Y() + planeNormal.Z()*position.Z()) / planeNormal.X()

	tangent := mgl32.Vec3{0, -normal.Z(), normal.Y()}
	tangent[0] = -(planeNormal.Y()*tangent.Y() + planeNormal.Z()*tangent.Z()) / planeNormal.X()
	return position, planeNormal.Cross(tangent).Normalize()
}

// miterPlane computes the normal of the plane bisecting the angle between
// the tube axis and the neighbor direction dir (already normalized). The
// second return is false when the joint is degenerate: neighbor aligned
// with the axis (flat cap, nothing to miter) or a near-180° turn where
// the bisector collapses and the plane is undefined.
func miterPlane(dir, bisector, perp mgl32.Vec3) (mgl32.Vec3, bool) {
	if math32.Abs(dir.Y())+math32.Abs(dir.Z()) < Epsilon {
		return mgl32.Vec3{}, false
	}
	if bisector.Len() < Epsilon {
		return mgl32.Vec3{}, false
	}
	planeNormal := bisector.Normalize().Cross(perp)
	if planeNormal.Len() < Epsilon {
		return mgl32.Vec3{}, false
	}
	planeNormal = planeNormal.Normalize()
	// The plane solve divides by the axis component.
	if math32.Abs(planeNormal.X()) < Epsilon {
		return mgl32.Vec3{}, false
	}
	return planeNormal, true
}
