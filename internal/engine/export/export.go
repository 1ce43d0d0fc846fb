// Package export triangulates instance placements into world-space
// triangles for fabrication output. Triangulation walks the reference
// index buffer in consecutive triples, in instance order then index
// order, so the emitted stream is deterministic and locality-friendly for
// consumers that regenerate normals.
package export

import (
	"context"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/strandlab/helixview/internal/engine/instance"
	"github.com/strandlab/helixview/internal/engine/mesh"
	"github.com/strandlab/helixview/internal/engine/pipeline"
	"github.com/strandlab/helixview/pkg/stl"
)

// degenerateScale skips instances flattened to nothing, such as collapsed
// bonds mid-edit.
const degenerateScale = 1e-6

var xAxis = mgl32.Vec3{1, 0, 0}

// SpherePlacement is the simplified export placement: a translated,
// uniformly scaled copy of the reference sphere. No rotation is carried
// on this pathway.
type SpherePlacement struct {
	Center mgl32.Vec3
	Scale  float32
}

// TubePlacement is a bond or helix segment between two points with a
// radial scale.
type TubePlacement struct {
	From        mgl32.Vec3
	To          mgl32.Vec3
	RadialScale float32
}

// References returns the reference mesh lookup used by the instance
// pathway. Fake kinds are absent so phantom geometry never reaches
// fabrication output.
func References() func(instance.MeshKind) *mesh.Mesh {
	cache := map[instance.MeshKind]*mesh.Mesh{
		instance.KindSphere:        mesh.UnitSphere(),
		instance.KindTube:          mesh.Tube(mesh.NbRayTube),
		instance.KindSlicedTube:    mesh.SlicedTube(mesh.NbRayTube),
		instance.KindTubeLid:       mesh.TubeLid(mesh.NbRayTube),
		instance.KindPrime3Cone:    mesh.Cone(mesh.NbRayTube),
		instance.KindBaseEllipsoid: mesh.Ellipsoid(),
	}
	return func(kind instance.MeshKind) *mesh.Mesh {
		return cache[kind]
	}
}

// Spheres triangulates sphere placements against the reference mesh.
// Emitted triangles carry a zero face normal: this is conformant binary
// STL and a deliberate contract, consumers recompute normals on import.
func Spheres(ctx context.Context, placements []SpherePlacement, ref *mesh.Mesh) ([]stl.Triangle, error) {
	var out []stl.Triangle
	for i := range placements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := &placements[i]
		if math32.Abs(p.Scale) < degenerateScale {
			continue
		}
		world := make([]mgl32.Vec3, len(ref.Vertices))
		for j, v := range ref.Vertices {
			world[j] = v.Position.Mul(p.Scale).Add(p.Center)
		}
		out = appendTriangles(out, world, ref.Indices)
	}
	return out, nil
}

// Tubes triangulates tube placements: the reference tube is stretched to
// the segment length, scaled radially, rotated from the canonical x axis
// onto the segment direction and centered between the end points.
func Tubes(ctx context.Context, placements []TubePlacement, ref *mesh.Mesh) ([]stl.Triangle, error) {
	var out []stl.Triangle
	for i := range placements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := &placements[i]
		axis := p.To.Sub(p.From)
		length := axis.Len()
		if math32.Abs(p.RadialScale) < degenerateScale || length < degenerateScale {
			continue
		}
		center := p.From.Add(p.To).Mul(0.5)
		rot := mgl32.QuatBetweenVectors(xAxis, axis.Mul(1/length))

		world := make([]mgl32.Vec3, len(ref.Vertices))
		for j, v := range ref.Vertices {
			local := mgl32.Vec3{
				v.Position.X() * length,
				v.Position.Y() * p.RadialScale,
				v.Position.Z() * p.RadialScale,
			}
			world[j] = rot.Rotate(local).Add(center)
		}
		out = appendTriangles(out, world, ref.Indices)
	}
	return out, nil
}

// Instances triangulates full instance records: model matrix, non-uniform
// scale, and adjacency-deformed end rings for chained tube kinds, exactly
// as the render pipeline shapes them. Per-vertex normals are computed on
// this pathway (the placement pathways emit zero normals); each triangle
// carries its second vertex's normal.
func Instances(ctx context.Context, records []instance.Record, refs func(instance.MeshKind) *mesh.Mesh) ([]stl.Triangle, error) {
	nbRay := mesh.NbRayTube
	var out []stl.Triangle
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := &records[i]
		if math32.Abs(rec.Scale.Z()) < degenerateScale {
			continue
		}
		ref := refs(rec.Kind)
		if ref == nil {
			continue
		}

		normalMatrix := rec.NormalMatrix()
		world := make([]mgl32.Vec3, len(ref.Vertices))
		normals := make([]mgl32.Vec3, len(ref.Vertices))
		for j, v := range ref.Vertices {
			scaled := mgl32.Vec3{
				v.Position.X() * rec.Scale.X(),
				v.Position.Y() * rec.Scale.Y(),
				v.Position.Z() * rec.Scale.Z(),
			}
			position, normal := pipeline.ResolveJoint(scaled, v.Normal, j, rec, nbRay)
			world[j] = rec.Model.Mul4x1(position.Vec4(1)).Vec3()
			n := normalMatrix.Mul3x1(normal)
			if l := n.Len(); l > 0 {
				n = n.Mul(1 / l)
			}
			normals[j] = n
		}

		for j := 0; j+2 < len(ref.Indices); j += 3 {
			out = append(out, stl.Triangle{
				Normal: vec3(normals[ref.Indices[j+1]]),
				V1:     vec3(world[ref.Indices[j]]),
				V2:     vec3(world[ref.Indices[j+1]]),
				V3:     vec3(world[ref.Indices[j+2]]),
			})
		}
	}
	return out, nil
}

func appendTriangles(out []stl.Triangle, world []mgl32.Vec3, indices []uint32) []stl.Triangle {
	for i := 0; i+2 < len(indices); i += 3 {
		out = append(out, stl.Triangle{
			V1: vec3(world[indices[i]]),
			V2: vec3(world[indices[i+1]]),
			V3: vec3(world[indices[i+2]]),
		})
	}
	return out
}

func vec3(v mgl32.Vec3) [3]float32 {
	return [3]float32{v.X(), v.Y(), v.Z()}
}
