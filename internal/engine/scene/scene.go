// Package scene renders the instanced nanostructure primitives with
// OpenGL 4.1.
package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/strandlab/helixview/internal/engine/framebuffer"
	"github.com/strandlab/helixview/internal/engine/instance"
	"github.com/strandlab/helixview/internal/engine/mesh"
	"github.com/strandlab/helixview/internal/engine/pipeline"
	"github.com/strandlab/helixview/internal/engine/scene/shaders"
	"github.com/strandlab/helixview/internal/engine/shader"
)

// Per-instance record layout in the instance VBO, in floats:
// model mat4 (16), normal mat3 (9), scale (3), color (4), id color (4),
// prev (3), next (3), fake flag (1).
const instanceFloats = 43

const instanceStride = instanceFloats * 4

// glMesh is the GPU copy of one reference mesh plus its instance buffer.
type glMesh struct {
	vao           uint32
	vbo           uint32
	ebo           uint32
	instanceVBO   uint32
	indexCount    int32
	instanceCount int32
	chained       bool
}

// Renderer draws every instance of every mesh kind in two passes: the
// shaded main pass and the identity pass used for picking.
type Renderer struct {
	program uint32

	locView          int32
	locProj          int32
	locChained       int32
	locNbRay         int32
	locStereoEnabled int32
	locStereoRadius  int32
	locStereoZoom    int32
	locAspect        int32

	locCameraPos     int32
	locFogMode       int32
	locFogLength     int32
	locFogRadius     int32
	locFogFromCamera int32
	locFogCenter     int32
	locUseCutPlane   int32
	locCutNormal     int32
	locCutOffset     int32
	locIdentityPass  int32

	meshes map[instance.MeshKind]*glMesh
}

// New compiles the instanced shader and uploads the reference meshes.
func New(nbRay int) (*Renderer, error) {
	r := &Renderer{
		meshes: make(map[instance.MeshKind]*glMesh),
	}

	program, err := shader.CompileProgram(shaders.DNAVertexShader, shaders.DNAFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("dna shader: %w", err)
	}
	r.program = program

	r.locView = shader.GetUniform(program, "uView")
	r.locProj = shader.GetUniform(program, "uProj")
	r.locChained = shader.GetUniform(program, "uChained")
	r.locNbRay = shader.GetUniform(program, "uNbRay")
	r.locStereoEnabled = shader.GetUniform(program, "uStereoEnabled")
	r.locStereoRadius = shader.GetUniform(program, "uStereoRadius")
	r.locStereoZoom = shader.GetUniform(program, "uStereoZoom")
	r.locAspect = shader.GetUniform(program, "uAspect")

	r.locCameraPos = shader.GetUniform(program, "uCameraPos")
	r.locFogMode = shader.GetUniform(program, "uFogMode")
	r.locFogLength = shader.GetUniform(program, "uFogLength")
	r.locFogRadius = shader.GetUniform(program, "uFogRadius")
	r.locFogFromCamera = shader.GetUniform(program, "uFogFromCamera")
	r.locFogCenter = shader.GetUniform(program, "uFogCenter")
	r.locUseCutPlane = shader.GetUniform(program, "uUseCutPlane")
	r.locCutNormal = shader.GetUniform(program, "uCutNormal")
	r.locCutOffset = shader.GetUniform(program, "uCutOffset")
	r.locIdentityPass = shader.GetUniform(program, "uIdentityPass")

	references := map[instance.MeshKind]*mesh.Mesh{
		instance.KindSphere:        mesh.UnitSphere(),
		instance.KindTube:          mesh.Tube(nbRay),
		instance.KindSlicedTube:    mesh.SlicedTube(nbRay),
		instance.KindTubeLid:       mesh.TubeLid(nbRay),
		instance.KindPrime3Cone:    mesh.Cone(nbRay),
		instance.KindBaseEllipsoid: mesh.Ellipsoid(),
		instance.KindFakeSphere:    mesh.UnitSphere(),
		instance.KindFakeTube:      mesh.SlicedTube(nbRay),
	}
	for kind, ref := range references {
		r.meshes[kind] = uploadMesh(ref, kind.Chained())
	}

	return r, nil
}

func uploadMesh(m *mesh.Mesh, chained bool) *glMesh {
	gm := &glMesh{chained: chained}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	vertexSize := int(unsafe.Sizeof(mesh.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*vertexSize, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
	gm.indexCount = int32(len(m.Indices))

	gl.GenBuffers(1, &gm.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.instanceVBO)

	// iModel, four vec4 columns
	for col := uint32(0); col < 4; col++ {
		loc := 2 + col
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, instanceStride, uintptr(col*16))
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}
	// iNormalMatrix, three vec3 columns
	for col := uint32(0); col < 3; col++ {
		loc := 6 + col
		gl.VertexAttribPointerWithOffset(loc, 3, gl.FLOAT, false, instanceStride, uintptr(64+col*12))
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}
	// iScale
	gl.VertexAttribPointerWithOffset(9, 3, gl.FLOAT, false, instanceStride, 100)
	gl.EnableVertexAttribArray(9)
	gl.VertexAttribDivisor(9, 1)
	// iColor
	gl.VertexAttribPointerWithOffset(10, 4, gl.FLOAT, false, instanceStride, 112)
	gl.EnableVertexAttribArray(10)
	gl.VertexAttribDivisor(10, 1)
	// iIDColor
	gl.VertexAttribPointerWithOffset(11, 4, gl.FLOAT, false, instanceStride, 128)
	gl.EnableVertexAttribArray(11)
	gl.VertexAttribDivisor(11, 1)
	// iPrev
	gl.VertexAttribPointerWithOffset(12, 3, gl.FLOAT, false, instanceStride, 144)
	gl.EnableVertexAttribArray(12)
	gl.VertexAttribDivisor(12, 1)
	// iNext
	gl.VertexAttribPointerWithOffset(13, 3, gl.FLOAT, false, instanceStride, 156)
	gl.EnableVertexAttribArray(13)
	gl.VertexAttribDivisor(13, 1)
	// iFake
	gl.VertexAttribPointerWithOffset(14, 1, gl.FLOAT, false, instanceStride, 168)
	gl.EnableVertexAttribArray(14)
	gl.VertexAttribDivisor(14, 1)

	gl.BindVertexArray(0)
	return gm
}

// SetInstances replaces the drawn instances. Records are bucketed by
// mesh kind and each bucket is uploaded to the kind's instance buffer.
func (r *Renderer) SetInstances(records []instance.Record) {
	buckets := make(map[instance.MeshKind][]float32)
	counts := make(map[instance.MeshKind]int32)

	for i := range records {
		rec := &records[i]
		buckets[rec.Kind] = packInstance(buckets[rec.Kind], rec)
		counts[rec.Kind]++
	}

	for kind, gm := range r.meshes {
		data := buckets[kind]
		gm.instanceCount = counts[kind]
		if len(data) == 0 {
			continue
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, gm.instanceVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func packInstance(dst []float32, rec *instance.Record) []float32 {
	dst = append(dst, rec.Model[:]...)
	nm := rec.NormalMatrix()
	dst = append(dst, nm[:]...)
	dst = append(dst, rec.Scale.X(), rec.Scale.Y(), rec.Scale.Z())
	dst = append(dst, rec.Color.X(), rec.Color.Y(), rec.Color.Z(), rec.Color.W())
	id := instance.EncodeID(rec.ID)
	dst = append(dst, id.X(), id.Y(), id.Z(), id.W())
	dst = append(dst, rec.Prev.X(), rec.Prev.Y(), rec.Prev.Z())
	dst = append(dst, rec.Next.X(), rec.Next.Y(), rec.Next.Z())
	fake := float32(0)
	if rec.Kind.Fake() {
		fake = 1
	}
	return append(dst, fake)
}

// Render draws the shaded main pass into the current framebuffer.
func (r *Renderer) Render(ctx *pipeline.Context) {
	r.draw(ctx, false)
}

// RenderIdentity draws encoded instance ids into the identity buffer.
// The caller owns the clear and the bind/restore of fb.
func (r *Renderer) RenderIdentity(ctx *pipeline.Context, fb *framebuffer.Identity) {
	restore := fb.Bind()
	defer restore()
	fb.Clear()
	r.draw(ctx, true)
}

func (r *Renderer) draw(ctx *pipeline.Context, identity bool) {
	gl.UseProgram(r.program)

	shader.SetMat4(r.locView, ctx.View)
	shader.SetMat4(r.locProj, ctx.Proj)
	shader.SetInt(r.locNbRay, int32(ctx.NbRayTube))
	shader.SetBool(r.locStereoEnabled, ctx.Stereography.Enabled)
	shader.SetFloat(r.locStereoRadius, ctx.Stereography.Radius)
	shader.SetFloat(r.locStereoZoom, ctx.Stereography.Zoom)
	shader.SetFloat(r.locAspect, ctx.AspectRatio)

	shader.SetVec3(r.locCameraPos, ctx.CameraPosition)
	shader.SetInt(r.locFogMode, int32(ctx.Fog.Mode))
	shader.SetFloat(r.locFogLength, ctx.Fog.Length)
	shader.SetFloat(r.locFogRadius, ctx.Fog.Radius)
	shader.SetBool(r.locFogFromCamera, ctx.Fog.FromCamera)
	shader.SetVec3(r.locFogCenter, ctx.Fog.Center)

	if ctx.CutPlane != nil {
		shader.SetBool(r.locUseCutPlane, true)
		shader.SetVec3(r.locCutNormal, ctx.CutPlane.Normal)
		shader.SetFloat(r.locCutOffset, ctx.CutPlane.Offset)
	} else {
		shader.SetBool(r.locUseCutPlane, false)
	}

	shader.SetBool(r.locIdentityPass, identity)

	gl.Enable(gl.DEPTH_TEST)
	if identity {
		// Blending would corrupt the encoded ids.
		gl.Disable(gl.BLEND)
	} else {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}

	for _, gm := range r.meshes {
		if gm.instanceCount == 0 {
			continue
		}
		shader.SetBool(r.locChained, gm.chained)
		gl.BindVertexArray(gm.vao)
		gl.DrawElementsInstanced(gl.TRIANGLES, gm.indexCount, gl.UNSIGNED_INT, nil, gm.instanceCount)
	}
	gl.BindVertexArray(0)
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for _, gm := range r.meshes {
		if gm.vao != 0 {
			gl.DeleteVertexArrays(1, &gm.vao)
		}
		if gm.vbo != 0 {
			gl.DeleteBuffers(1, &gm.vbo)
		}
		if gm.ebo != 0 {
			gl.DeleteBuffers(1, &gm.ebo)
		}
		if gm.instanceVBO != 0 {
			gl.DeleteBuffers(1, &gm.instanceVBO)
		}
	}
	r.meshes = nil
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}
