// Package mesh generates the reference primitives the pipeline instances:
// spheres for nucleotides, tubes for bonds and helices, cones for 3' ends.
// Vertices are in the mesh-local frame with the tube axis on local x, and
// are shared read-only across every instance of a kind.
package mesh

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// NbRayTube is the number of vertices in one tube cross-section ring. It
// doubles as the classification threshold separating a sliced tube's
// start cap, middle band and end cap in the vertex stream.
const NbRayTube = 12

// Vertex is one reference-mesh vertex. Immutable once generated.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

// Mesh is a reference primitive: shared vertices plus triangle-list
// indices.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// TriangleListFromStrip converts triangle-strip indices to a triangle
// list, flipping the winding of every odd triangle so all faces keep the
// same orientation.
func TriangleListFromStrip(strip []uint32) []uint32 {
	if len(strip) < 3 {
		return nil
	}
	list := make([]uint32, 0, 3*(len(strip)-2))
	for i := 0; i+2 < len(strip); i++ {
		if i%2 == 0 {
			list = append(list, strip[i], strip[i+1], strip[i+2])
		} else {
			list = append(list, strip[i+1], strip[i], strip[i+2])
		}
	}
	return list
}

// Sphere generates a unit sphere with the given latitude stacks and
// longitude slices.
func Sphere(stacks, slices int) *Mesh {
	m := &Mesh{}
	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		y := float32(math.Cos(phi))
		r := float32(math.Sin(phi))
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			p := mgl32.Vec3{
				r * float32(math.Cos(theta)),
				y,
				r * float32(math.Sin(theta)),
			}
			m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: p})
		}
	}
	cols := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i)*cols + uint32(j)
			b := a + cols
			m.Indices = append(m.Indices,
				a, b, a+1,
				a+1, b, b+1,
			)
		}
	}
	return m
}

// UnitSphere generates the default nucleotide sphere.
func UnitSphere() *Mesh {
	return Sphere(NbRayTube, 2*NbRayTube)
}

// ring appends one cross-section ring of nbRay vertices at axis
// coordinate x. Ring radius is 1; instances carry the real radius in
// their scale.
func ring(m *Mesh, x float32, nbRay int) {
	for i := 0; i < nbRay; i++ {
		theta := 2 * math32.Pi * float32(i) / float32(nbRay)
		n := mgl32.Vec3{0, math32.Cos(theta), math32.Sin(theta)}
		m.Vertices = append(m.Vertices, Vertex{
			Position: mgl32.Vec3{x, n.Y(), n.Z()},
			Normal:   n,
		})
	}
}

// bandStrip returns the triangle-strip indices joining ring a to ring b,
// closed around the circumference.
func bandStrip(a, b, nbRay int) []uint32 {
	strip := make([]uint32, 0, 2*(nbRay+1))
	for i := 0; i <= nbRay; i++ {
		strip = append(strip, uint32(a+i%nbRay), uint32(b+i%nbRay))
	}
	return strip
}

// Tube generates a plain bond tube: two rings at x = ±0.5.
func Tube(nbRay int) *Mesh {
	m := &Mesh{}
	ring(m, -0.5, nbRay)
	ring(m, 0.5, nbRay)
	m.Indices = TriangleListFromStrip(bandStrip(0, nbRay, nbRay))
	return m
}

// SlicedTube generates the chained helix segment: three rings of nbRay
// vertices. Vertices [0, nbRay) form the start cap ring, [nbRay, 2*nbRay)
// the middle band, [2*nbRay, 3*nbRay) the end cap ring. Only the cap
// rings are deformed by the joint resolver; the middle band is fixed.
func SlicedTube(nbRay int) *Mesh {
	m := &Mesh{}
	ring(m, -0.5, nbRay)
	ring(m, 0, nbRay)
	ring(m, 0.5, nbRay)
	m.Indices = append(
		TriangleListFromStrip(bandStrip(0, nbRay, nbRay)),
		TriangleListFromStrip(bandStrip(nbRay, 2*nbRay, nbRay))...,
	)
	return m
}

// TubeLid generates the disc closing an open tube end, facing -x.
func TubeLid(nbRay int) *Mesh {
	m := &Mesh{}
	normal := mgl32.Vec3{-1, 0, 0}
	m.Vertices = append(m.Vertices, Vertex{Position: mgl32.Vec3{-0.5, 0, 0}, Normal: normal})
	for i := 0; i < nbRay; i++ {
		theta := 2 * math32.Pi * float32(i) / float32(nbRay)
		m.Vertices = append(m.Vertices, Vertex{
			Position: mgl32.Vec3{-0.5, math32.Cos(theta), math32.Sin(theta)},
			Normal:   normal,
		})
	}
	for i := 0; i < nbRay; i++ {
		next := uint32(1 + (i+1)%nbRay)
		m.Indices = append(m.Indices, 0, uint32(1+i), next)
	}
	return m
}

// Cone generates the 3' end arrow head: a ring at x = 0 closing onto an
// apex at x = 1.
func Cone(nbRay int) *Mesh {
	m := &Mesh{}
	// Slanted side normals: the cone has unit base radius and unit height.
	s := 1 / math32.Sqrt(2)
	for i := 0; i < nbRay; i++ {
		theta := 2 * math32.Pi * float32(i) / float32(nbRay)
		c, sn := math32.Cos(theta), math32.Sin(theta)
		m.Vertices = append(m.Vertices, Vertex{
			Position: mgl32.Vec3{0, c, sn},
			Normal:   mgl32.Vec3{s, s * c, s * sn},
		})
	}
	apex := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, Vertex{
		Position: mgl32.Vec3{1, 0, 0},
		Normal:   mgl32.Vec3{1, 0, 0},
	})
	for i := 0; i < nbRay; i++ {
		next := uint32((i + 1) % nbRay)
		m.Indices = append(m.Indices, uint32(i), next, apex)
	}
	return m
}

// Ellipsoid reuses the sphere tessellation; instances shape it through
// their non-uniform scale.
func Ellipsoid() *Mesh {
	return UnitSphere()
}
