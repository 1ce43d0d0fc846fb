package mesh

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestTriangleListFromStrip(t *testing.T) {
	got := TriangleListFromStrip([]uint32{0, 1, 2, 3})
	// Odd triangles flip their first two indices to keep the winding.
	want := []uint32{0, 1, 2, 2, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("got %d indices, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTriangleListFromStripShort(t *testing.T) {
	if got := TriangleListFromStrip([]uint32{0, 1}); got != nil {
		t.Errorf("strip shorter than 3 should produce no triangles, got %v", got)
	}
}

func TestSphereUnitRadius(t *testing.T) {
	m := UnitSphere()
	if len(m.Vertices) == 0 {
		t.Fatal("sphere has no vertices")
	}
	for i, v := range m.Vertices {
		if r := v.Position.Len(); math32.Abs(r-1) > 1e-5 {
			t.Fatalf("vertex %d radius %v, want 1", i, r)
		}
		if l := v.Normal.Len(); math32.Abs(l-1) > 1e-5 {
			t.Fatalf("vertex %d normal length %v, want 1", i, l)
		}
	}
}

func TestSlicedTubeRings(t *testing.T) {
	m := SlicedTube(NbRayTube)
	if len(m.Vertices) != 3*NbRayTube {
		t.Fatalf("sliced tube should have %d vertices, got %d", 3*NbRayTube, len(m.Vertices))
	}
	wantX := []float32{-0.5, 0, 0.5}
	for i, v := range m.Vertices {
		ring := i / NbRayTube
		if v.Position.X() != wantX[ring] {
			t.Errorf("vertex %d: axis coordinate %v, want %v", i, v.Position.X(), wantX[ring])
		}
		if v.Normal.X() != 0 {
			t.Errorf("vertex %d: tube normal must be off-axis, got x=%v", i, v.Normal.X())
		}
	}
}

func TestIndexBounds(t *testing.T) {
	meshes := map[string]*Mesh{
		"sphere":      UnitSphere(),
		"tube":        Tube(NbRayTube),
		"sliced_tube": SlicedTube(NbRayTube),
		"tube_lid":    TubeLid(NbRayTube),
		"cone":        Cone(NbRayTube),
	}
	for name, m := range meshes {
		if len(m.Indices)%3 != 0 {
			t.Errorf("%s: index count %d not a multiple of 3", name, len(m.Indices))
		}
		for _, idx := range m.Indices {
			if int(idx) >= len(m.Vertices) {
				t.Fatalf("%s: index %d out of range (%d vertices)", name, idx, len(m.Vertices))
			}
		}
	}
}

func TestTubeBandCount(t *testing.T) {
	// One closed band of n quads yields 2n triangles.
	m := Tube(NbRayTube)
	if got := m.TriangleCount(); got != 2*NbRayTube {
		t.Errorf("tube triangles: got %d, want %d", got, 2*NbRayTube)
	}
	s := SlicedTube(NbRayTube)
	if got := s.TriangleCount(); got != 4*NbRayTube {
		t.Errorf("sliced tube triangles: got %d, want %d", got, 4*NbRayTube)
	}
}
