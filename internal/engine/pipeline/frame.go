package pipeline

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/strandlab/helixview/internal/engine/instance"
	"github.com/strandlab/helixview/internal/engine/mesh"
)

// TransformedVertex is the output of the vertex stages for one vertex of
// one instance.
type TransformedVertex struct {
	// Clip is the projected position in clip/device coordinates.
	Clip mgl32.Vec4
	// World is the deformed position in world space, fed to the fog test.
	World mgl32.Vec3
	// Normal is the deformed, world-space unit normal.
	Normal mgl32.Vec3
}

// TransformVertex runs scale, joint resolution, model transform and
// projection for a single reference-mesh vertex of rec. It is stateless
// and safe to call from any number of goroutines.
func TransformVertex(ctx *Context, rec *instance.Record, v mesh.Vertex, index int) TransformedVertex {
	scaled := mgl32.Vec3{
		v.Position.X() * rec.Scale.X(),
		v.Position.Y() * rec.Scale.Y(),
		v.Position.Z() * rec.Scale.Z(),
	}
	position, normal := ResolveJoint(scaled, v.Normal, index, rec, ctx.NbRayTube)

	world := rec.Model.Mul4x1(position.Vec4(1)).Vec3()
	worldNormal := rec.NormalMatrix().Mul3x1(normal)
	if l := worldNormal.Len(); l > 0 {
		worldNormal = worldNormal.Mul(1 / l)
	}

	return TransformedVertex{
		Clip:   Project(ctx, world),
		World:  world,
		Normal: worldNormal,
	}
}

// TransformInstance runs the vertex stages over every vertex of one
// instance, in mesh order.
func TransformInstance(ctx *Context, rec *instance.Record, ref *mesh.Mesh) []TransformedVertex {
	out := make([]TransformedVertex, len(ref.Vertices))
	for i, v := range ref.Vertices {
		out[i] = TransformVertex(ctx, rec, v, i)
	}
	return out
}

// ProcessFrame runs the vertex stages for every instance of a frame,
// data-parallel across instances with stateless workers, and assembles
// the results in instance order. The frame either completes or is
// discarded wholesale; there is no mid-frame cancellation.
func ProcessFrame(ctx *Context, records []instance.Record, refs func(instance.MeshKind) *mesh.Mesh) [][]TransformedVertex {
	out := make([][]TransformedVertex, len(records))
	if len(records) == 0 {
		return out
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(records) {
		workers = len(records)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec := &records[i]
				if ref := refs(rec.Kind); ref != nil {
					out[i] = TransformInstance(ctx, rec, ref)
				}
			}
		}()
	}
	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
