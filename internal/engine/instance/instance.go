// Package instance defines the per-primitive placement record consumed by
// the render pipeline and the mesh exporter.
package instance

import "github.com/go-gl/mathgl/mgl32"

// MeshKind selects which reference geometry an instance is drawn with and
// which special-case rules apply to it.
type MeshKind uint32

const (
	KindSphere MeshKind = iota
	KindTube
	KindSlicedTube
	KindTubeLid
	KindPrime3Cone
	KindBaseEllipsoid
	// Phantom ("fake") kinds render as ghosts: fragments with alpha below
	// FakeAlphaThreshold are dropped and invisible to picking.
	KindFakeSphere
	KindFakeTube
)

// FakeAlphaThreshold is the opacity below which phantom geometry is
// discarded, independent of fog.
const FakeAlphaThreshold = 0.6

// Fake reports whether the kind is phantom geometry.
func (k MeshKind) Fake() bool {
	return k == KindFakeSphere || k == KindFakeTube
}

// Chained reports whether the kind participates in joint adjacency
// deformation (its end rings are mitered toward its neighbors).
func (k MeshKind) Chained() bool {
	return k == KindSlicedTube || k == KindFakeTube
}

func (k MeshKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindTube:
		return "tube"
	case KindSlicedTube:
		return "sliced_tube"
	case KindTubeLid:
		return "tube_lid"
	case KindPrime3Cone:
		return "prime3_cone"
	case KindBaseEllipsoid:
		return "base_ellipsoid"
	case KindFakeSphere:
		return "fake_sphere"
	case KindFakeTube:
		return "fake_tube"
	}
	return "unknown"
}

// Record is one placed copy of a reference mesh. Records are immutable
// during a frame and replaced wholesale when the upstream design changes.
type Record struct {
	// Model places the reference mesh in world space.
	Model mgl32.Mat4
	// InverseModel is the exact inverse of Model, supplied by the builder
	// and never re-derived at draw time. Its transposed upper 3x3 is the
	// normal matrix, which keeps normals correct under non-uniform Scale.
	InverseModel mgl32.Mat4
	// Scale is applied to the reference mesh before Model.
	Scale mgl32.Vec3
	// Color is RGBA; alpha drives the phantom discard rule.
	Color mgl32.Vec4
	// ID is the picking identifier, unique among pickable objects. It is
	// never used for visual color.
	ID uint32
	Kind MeshKind
	// Prev and Next point toward the chained neighbor's axis direction,
	// expressed in the instance's local frame (tube axis = local x). The
	// zero vector means no neighbor on that side.
	Prev mgl32.Vec3
	Next mgl32.Vec3
}

// NormalMatrix returns the matrix transforming reference-mesh normals to
// world space.
func (r *Record) NormalMatrix() mgl32.Mat3 {
	return r.InverseModel.Transpose().Mat3()
}
