package export

import (
	"context"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/strandlab/helixview/internal/engine/instance"
	"github.com/strandlab/helixview/internal/engine/mesh"
)

func TestSpheresTranslation(t *testing.T) {
	// Every emitted vertex must equal the reference vertex plus the
	// placement center.
	ref := mesh.UnitSphere()
	center := mgl32.Vec3{3, -2, 7}
	tris, err := Spheres(context.Background(), []SpherePlacement{{Center: center, Scale: 1}}, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != ref.TriangleCount() {
		t.Fatalf("got %d triangles, want %d", len(tris), ref.TriangleCount())
	}
	for i, tri := range tris {
		for _, v := range [][3]float32{tri.V1, tri.V2, tri.V3} {
			p := mgl32.Vec3{v[0], v[1], v[2]}.Sub(center)
			if d := math32.Abs(p.Len() - 1); d > 1e-5 {
				t.Fatalf("triangle %d: vertex off the translated unit sphere by %v", i, d)
			}
		}
		if tri.Normal != [3]float32{} {
			t.Fatalf("triangle %d: placement pathway must emit zero normals, got %v", i, tri.Normal)
		}
	}
}

func TestSpheresDegenerateSkipped(t *testing.T) {
	ref := mesh.UnitSphere()
	tris, err := Spheres(context.Background(), []SpherePlacement{
		{Center: mgl32.Vec3{1, 1, 1}, Scale: 0},
		{Center: mgl32.Vec3{0, 0, 0}, Scale: 1},
	}, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != ref.TriangleCount() {
		t.Errorf("zero-scale placement should be skipped: got %d triangles, want %d", len(tris), ref.TriangleCount())
	}
}

func TestTubesEndPoints(t *testing.T) {
	ref := mesh.Tube(mesh.NbRayTube)
	from := mgl32.Vec3{2, 3, 4}
	to := mgl32.Vec3{2, 3, 8}
	tris, err := Tubes(context.Background(), []TubePlacement{{From: from, To: to, RadialScale: 0.5}}, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != ref.TriangleCount() {
		t.Fatalf("got %d triangles, want %d", len(tris), ref.TriangleCount())
	}
	// All vertices lie on the cylinder around the segment: axial
	// coordinate within [0, length], radial distance = RadialScale.
	axis := to.Sub(from).Normalize()
	for i, tri := range tris {
		for _, raw := range [][3]float32{tri.V1, tri.V2, tri.V3} {
			v := mgl32.Vec3{raw[0], raw[1], raw[2]}.Sub(from)
			along := v.Dot(axis)
			if along < -1e-4 || along > 4+1e-4 {
				t.Fatalf("triangle %d: vertex outside the segment span: %v", i, along)
			}
			radial := v.Sub(axis.Mul(along)).Len()
			if math32.Abs(radial-0.5) > 1e-4 {
				t.Fatalf("triangle %d: radial distance %v, want 0.5", i, radial)
			}
		}
	}
}

func TestInstancesOrderDeterministic(t *testing.T) {
	refs := func(k instance.MeshKind) *mesh.Mesh {
		if k == instance.KindSphere {
			return mesh.UnitSphere()
		}
		return nil
	}
	records := []instance.Record{
		sphereRecord(mgl32.Vec3{0, 0, 0}, 1),
		sphereRecord(mgl32.Vec3{5, 0, 0}, 2),
	}
	a, err := Instances(context.Background(), records, refs)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Instances(context.Background(), records, refs)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) || len(a) != 2*mesh.UnitSphere().TriangleCount() {
		t.Fatalf("unexpected triangle counts: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("triangle %d differs between runs", i)
		}
	}
	// Instance order then index order: the first half belongs to the
	// first record, centered at the origin.
	first := a[0].V1
	if mgl32.Vec3(first).Len() > 1.01 {
		t.Errorf("first triangle should come from the origin sphere, got %v", first)
	}
}

func TestInstancesDegenerateZScaleSkipped(t *testing.T) {
	refs := func(instance.MeshKind) *mesh.Mesh { return mesh.UnitSphere() }
	rec := sphereRecord(mgl32.Vec3{}, 1)
	rec.Scale[2] = 0
	tris, err := Instances(context.Background(), []instance.Record{rec}, refs)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 0 {
		t.Errorf("flattened instance should be skipped, got %d triangles", len(tris))
	}
}

func TestInstancesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	refs := func(instance.MeshKind) *mesh.Mesh { return mesh.UnitSphere() }
	_, err := Instances(ctx, []instance.Record{sphereRecord(mgl32.Vec3{}, 1)}, refs)
	if err == nil {
		t.Fatal("canceled export should return the context error")
	}
	if err != context.Canceled {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestInstancesSlicedTubeMitered(t *testing.T) {
	// A chained segment with a perpendicular neighbor must shear its
	// start ring off the flat cap plane.
	refs := func(k instance.MeshKind) *mesh.Mesh {
		if k == instance.KindSlicedTube {
			return mesh.SlicedTube(mesh.NbRayTube)
		}
		return nil
	}
	model := mgl32.Ident4()
	rec := instance.Record{
		Model:        model,
		InverseModel: model.Inv(),
		Scale:        mgl32.Vec3{2, 0.5, 0.5},
		Kind:         instance.KindSlicedTube,
		Prev:         mgl32.Vec3{0, 1, 0},
	}
	tris, err := Instances(context.Background(), []instance.Record{rec}, refs)
	if err != nil {
		t.Fatal(err)
	}
	sheared := false
	for _, tri := range tris {
		for _, v := range [][3]float32{tri.V1, tri.V2, tri.V3} {
			if v[0] < -1-1e-4 || v[0] > 1+1e-4 {
				// Outside the undeformed span [-1, 1]: the miter moved it.
				sheared = true
			}
		}
	}
	if !sheared {
		t.Error("expected the mitered start ring to leave the flat cap span")
	}
}

func sphereRecord(center mgl32.Vec3, scale float32) instance.Record {
	model := mgl32.Translate3D(center.X(), center.Y(), center.Z())
	return instance.Record{
		Model:        model,
		InverseModel: model.Inv(),
		Scale:        mgl32.Vec3{scale, scale, scale},
		Kind:         instance.KindSphere,
	}
}
