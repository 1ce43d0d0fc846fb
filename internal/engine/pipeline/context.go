// Package pipeline implements the per-vertex transform stages of the
// instanced renderer: joint adjacency mitering, perspective and
// stereographic projection, and fog visibility. The same math runs on the
// GPU through the scene shaders; this package is the CPU reference used
// by the exporter, the headless paths and the tests.
package pipeline

import "github.com/go-gl/mathgl/mgl32"

// FogMode selects the depth-cueing behavior.
type FogMode int32

const (
	FogOff FogMode = iota
	FogNormal
	FogInverted
)

// Fog holds the depth-cueing parameters.
type Fog struct {
	Mode   FogMode
	Length float32
	Radius float32
	// FromCamera selects the distance origin: the camera position when
	// true, Center otherwise.
	FromCamera bool
	Center     mgl32.Vec3
}

// Stereography holds the immersive projection parameters.
type Stereography struct {
	Enabled bool
	// Radius scales the scene onto the projection sphere. A zero radius
	// degrades exactly to perspective projection.
	Radius float32
	Zoom   float32
}

// CutPlane discards fragments on its negative side for cutaway views.
type CutPlane struct {
	Normal mgl32.Vec3
	Offset float32
}

// Context is the per-frame uniform block. It is built once before any
// vertex is processed and read-only for the rest of the frame.
type Context struct {
	CameraPosition mgl32.Vec3
	View           mgl32.Mat4
	Proj           mgl32.Mat4
	InverseView    mgl32.Mat4
	AspectRatio    float32

	Fog          Fog
	Stereography Stereography

	// NbRayTube is the vertex-count threshold classifying sliced-tube
	// vertices into start cap, middle band and end cap.
	NbRayTube int

	// CutPlane is optional; nil disables the cutaway test.
	CutPlane *CutPlane
}
