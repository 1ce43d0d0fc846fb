package pipeline

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/strandlab/helixview/internal/engine/instance"
	"github.com/strandlab/helixview/internal/engine/mesh"
)

func slicedRecord(prev, next mgl32.Vec3) *instance.Record {
	return &instance.Record{
		Model:        mgl32.Ident4(),
		InverseModel: mgl32.Ident4(),
		Scale:        mgl32.Vec3{1, 1, 1},
		Kind:         instance.KindSlicedTube,
		Prev:         prev,
		Next:         next,
	}
}

func TestResolveJointIsolatedSegment(t *testing.T) {
	// Both neighbors absent: the reference mesh is used bit-exact.
	rec := slicedRecord(mgl32.Vec3{}, mgl32.Vec3{})
	ref := mesh.SlicedTube(mesh.NbRayTube)
	for i, v := range ref.Vertices {
		p, n := ResolveJoint(v.Position, v.Normal, i, rec, mesh.NbRayTube)
		if p != v.Position || n != v.Normal {
			t.Fatalf("vertex %d deformed without neighbors: %v %v", i, p, n)
		}
	}
}

func TestResolveJointAxisAlignedNeighbor(t *testing.T) {
	// A neighbor exactly on the tube axis has no off-axis component: the
	// joint is a flat cap and the epsilon gate must skip deformation.
	rec := slicedRecord(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 0, 0})
	pos := mgl32.Vec3{-0.5, 1, 0}
	normal := mgl32.Vec3{0, 1, 0}
	p, n := ResolveJoint(pos, normal, 0, rec, mesh.NbRayTube)
	if p != pos || n != normal {
		t.Errorf("axis-aligned neighbor must not deform: got %v %v", p, n)
	}
}

func TestResolveJointMiddleBandUntouched(t *testing.T) {
	rec := slicedRecord(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0})
	pos := mgl32.Vec3{0, 1, 0}
	normal := mgl32.Vec3{0, 1, 0}
	p, n := ResolveJoint(pos, normal, mesh.NbRayTube, rec, mesh.NbRayTube)
	if p != pos || n != normal {
		t.Errorf("middle band vertex deformed: got %v %v", p, n)
	}
}

func TestResolveJointNonChainedKind(t *testing.T) {
	rec := slicedRecord(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{})
	rec.Kind = instance.KindSphere
	pos := mgl32.Vec3{-0.5, 1, 0}
	p, _ := ResolveJoint(pos, mgl32.Vec3{0, 1, 0}, 0, rec, mesh.NbRayTube)
	if p != pos {
		t.Errorf("non-chained kind deformed: got %v", p)
	}
}

func TestMiterStartRightAngle(t *testing.T) {
	// Previous segment at 90° above the axis: the mitering plane sits at
	// 45°, so the start ring shears by x' = x - y.
	rec := slicedRecord(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{})
	for i, tc := range []struct{ pos, normal mgl32.Vec3 }{
		{mgl32.Vec3{-0.5, 1, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-0.5, -1, 0}, mgl32.Vec3{0, -1, 0}},
		{mgl32.Vec3{-0.5, 0, 1}, mgl32.Vec3{0, 0, 1}},
	} {
		p, n := ResolveJoint(tc.pos, tc.normal, 0, rec, mesh.NbRayTube)
		want := mgl32.Vec3{tc.pos.X() - tc.pos.Y(), tc.pos.Y(), tc.pos.Z()}
		if p.Sub(want).Len() > 1e-5 {
			t.Errorf("case %d: position %v, want %v", i, p, want)
		}
		if math32.Abs(n.Len()-1) > 1e-5 {
			t.Errorf("case %d: rebuilt normal not unit: %v", i, n)
		}
	}
}

func TestMiterEndRightAngle(t *testing.T) {
	rec := slicedRecord(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	pos := mgl32.Vec3{0.5, 1, 0}
	p, n := ResolveJoint(pos, mgl32.Vec3{0, 1, 0}, 2*mesh.NbRayTube, rec, mesh.NbRayTube)
	want := mgl32.Vec3{pos.X() - pos.Y(), pos.Y(), pos.Z()}
	if p.Sub(want).Len() > 1e-5 {
		t.Errorf("position %v, want %v", p, want)
	}
	if math32.Abs(n.Len()-1) > 1e-5 {
		t.Errorf("rebuilt normal not unit: %v", n)
	}
}

func TestMiterStartRingStaysPlanar(t *testing.T) {
	// Every deformed start-ring vertex must land on the same mitering
	// plane, whatever the neighbor direction.
	dirs := []mgl32.Vec3{
		{0, 1, 0},
		{0.5, 0.5, 0},
		{0.3, -0.2, 0.9},
		{-0.1, 0.7, 0.7},
	}
	ref := mesh.SlicedTube(mesh.NbRayTube)
	for _, dir := range dirs {
		rec := slicedRecord(dir, mgl32.Vec3{})
		var pts []mgl32.Vec3
		for i := 0; i < mesh.NbRayTube; i++ {
			v := ref.Vertices[i]
			p, _ := ResolveJoint(v.Position, v.Normal, i, rec, mesh.NbRayTube)
			pts = append(pts, p)
		}
		// Fit the plane from three points and check the rest.
		n := pts[1].Sub(pts[0]).Cross(pts[2].Sub(pts[0])).Normalize()
		for i, p := range pts {
			if d := math32.Abs(n.Dot(p.Sub(pts[0]))); d > 1e-4 {
				t.Errorf("dir %v: ring vertex %d off plane by %v", dir, i, d)
			}
		}
	}
}

func TestResolveJointNearReversalNoNaN(t *testing.T) {
	// A near-180° turn collapses the bisector; the resolver must fall
	// back to the flat cap instead of emitting NaN.
	reversals := []mgl32.Vec3{
		{-1, 0, 0},
		{-1, 1e-7, 0},
		{-1, 0, 1e-8},
	}
	for _, prev := range reversals {
		rec := slicedRecord(prev, mgl32.Vec3{})
		pos := mgl32.Vec3{-0.5, 1, 0}
		normal := mgl32.Vec3{0, 1, 0}
		p, n := ResolveJoint(pos, normal, 0, rec, mesh.NbRayTube)
		for i := 0; i < 3; i++ {
			if math32.IsNaN(p[i]) || math32.IsNaN(n[i]) {
				t.Fatalf("prev %v produced NaN: %v %v", prev, p, n)
			}
		}
		if p != pos || n != normal {
			t.Errorf("prev %v should fall back to the undeformed cap, got %v %v", prev, p, n)
		}
	}
}

func TestResolveJointTinyNeighborIgnored(t *testing.T) {
	rec := slicedRecord(mgl32.Vec3{0, 1e-6, 0}, mgl32.Vec3{})
	pos := mgl32.Vec3{-0.5, 1, 0}
	p, _ := ResolveJoint(pos, mgl32.Vec3{0, 1, 0}, 0, rec, mesh.NbRayTube)
	if p != pos {
		t.Errorf("sub-epsilon neighbor must not deform, got %v", p)
	}
}
