// Package viewer implements the interactive application loop: camera
// control, picking, fog and projection toggles, and STL export.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/strandlab/helixview/internal/config"
	"github.com/strandlab/helixview/internal/design"
	"github.com/strandlab/helixview/internal/engine/camera"
	"github.com/strandlab/helixview/internal/engine/export"
	"github.com/strandlab/helixview/internal/engine/framebuffer"
	"github.com/strandlab/helixview/internal/engine/input"
	"github.com/strandlab/helixview/internal/engine/instance"
	"github.com/strandlab/helixview/internal/engine/picking"
	"github.com/strandlab/helixview/internal/engine/pipeline"
	"github.com/strandlab/helixview/internal/engine/scene"
	"github.com/strandlab/helixview/internal/engine/window"
	"github.com/strandlab/helixview/internal/logger"
	"github.com/strandlab/helixview/pkg/stl"
)

// Viewer is the main application instance.
type Viewer struct {
	config  *config.Config
	running bool

	window   *window.Window
	renderer *scene.Renderer
	identity *framebuffer.Identity
	camera   *camera.OrbitCamera
	input    *input.Input

	records  []instance.Record
	selected uint32

	fog    pipeline.Fog
	stereo pipeline.Stereography

	// identityStale forces an identity pass before the next pick.
	identityStale bool
}

// New creates the viewer: window, GL state, renderer and demo design.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		config:        cfg,
		selected:      picking.NoHit,
		identityStale: true,
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "HelixView",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := gl.Init(); err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	v.renderer, err = scene.New(cfg.Graphics.NbRayTube)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	width, height := v.window.Size()
	v.identity, err = framebuffer.New(width, height)
	if err != nil {
		v.renderer.Destroy()
		v.window.Close()
		return nil, fmt.Errorf("failed to create identity buffer: %w", err)
	}

	v.input = input.New()
	v.camera = camera.NewOrbitCamera()

	v.records = design.DoubleHelix(design.DefaultParams())
	v.renderer.SetInstances(v.records)
	min, max := design.Bounds(v.records)
	v.camera.FitToBounds(min, max)

	v.fog = pipeline.Fog{
		Mode:       pipeline.FogOff,
		Length:     cfg.Fog.Length,
		Radius:     cfg.Fog.Radius,
		FromCamera: cfg.Fog.FromCamera,
		Center:     min.Add(max).Mul(0.5),
	}
	if cfg.Fog.Enabled {
		v.fog.Mode = pipeline.FogNormal
		if cfg.Fog.Inverted {
			v.fog.Mode = pipeline.FogInverted
		}
	}
	v.stereo = pipeline.Stereography{
		Enabled: cfg.Stereographic.Enabled,
		Radius:  cfg.Stereographic.Radius,
		Zoom:    cfg.Stereographic.Zoom,
	}

	logger.Info("viewer initialized",
		zap.Int("instances", len(v.records)),
		zap.Int("nb_ray_tube", cfg.Graphics.NbRayTube),
	)
	return v, nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}

		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}

		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Sugar.Debugf("fps: %d, frame: %.2fms", frameCount, dt*1000)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		width, height := v.window.Size()
		gl.Viewport(0, 0, width, height)
		v.identity.Resize(width, height)
		v.identityStale = true

	case input.EventKeyDown:
		v.handleKey(event.Key)

	case input.EventMouseMove:
		if event.Dragging {
			v.camera.HandleDrag(float32(event.RelX), float32(event.RelY))
			v.identityStale = true
		}

	case input.EventMouseWheel:
		v.camera.HandleZoom(event.WheelY)
		v.identityStale = true

	case input.EventMouseDown:
		if event.Button == sdl.BUTTON_RIGHT {
			v.pick(int32(event.MouseX), int32(event.MouseY))
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false

	case sdl.SCANCODE_F:
		switch v.fog.Mode {
		case pipeline.FogOff:
			v.fog.Mode = pipeline.FogNormal
		case pipeline.FogNormal:
			v.fog.Mode = pipeline.FogInverted
		default:
			v.fog.Mode = pipeline.FogOff
		}
		logger.Info("fog mode changed", zap.Int32("mode", int32(v.fog.Mode)))
		v.identityStale = true

	case sdl.SCANCODE_C:
		v.fog.FromCamera = !v.fog.FromCamera
		logger.Info("fog origin changed", zap.Bool("from_camera", v.fog.FromCamera))
		v.identityStale = true

	case sdl.SCANCODE_P:
		v.stereo.Enabled = !v.stereo.Enabled
		logger.Info("stereographic projection toggled", zap.Bool("enabled", v.stereo.Enabled))
		v.identityStale = true

	case sdl.SCANCODE_E:
		if err := v.exportSTL(v.config.Export.OutputPath); err != nil {
			logger.Error("export failed", zap.Error(err))
		}
	}
}

// frameContext builds the per-frame uniform block.
func (v *Viewer) frameContext() *pipeline.Context {
	view := v.camera.ViewMatrix()
	aspect := v.window.AspectRatio()
	return &pipeline.Context{
		CameraPosition: v.camera.Position(),
		View:           view,
		Proj:           perspective(aspect),
		InverseView:    view.Inv(),
		AspectRatio:    aspect,
		Fog:            v.fog,
		Stereography:   v.stereo,
		NbRayTube:      v.config.Graphics.NbRayTube,
	}
}

func (v *Viewer) render() {
	gl.ClearColor(0.05, 0.05, 0.08, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	v.renderer.Render(v.frameContext())
}

// pick refreshes the identity buffer if needed and reads the instance
// under the cursor.
func (v *Viewer) pick(x, y int32) {
	if v.identityStale {
		v.renderer.RenderIdentity(v.frameContext(), v.identity)
		v.identityStale = false
	}

	id := picking.Pick(v.identity, x, y)
	v.selected = id
	if id == picking.NoHit {
		logger.Debug("pick: background")
		return
	}
	logger.Info("picked instance", zap.Uint32("id", id))
}

// exportSTL writes the current design through the raw instance pathway.
func (v *Viewer) exportSTL(path string) error {
	start := time.Now()

	triangles, err := export.Instances(context.Background(), v.records, export.References())
	if err != nil {
		return err
	}
	if err := stl.WriteFile(path, triangles); err != nil {
		return err
	}

	logger.Info("design exported",
		zap.String("path", path),
		zap.Int("triangles", len(triangles)),
		zap.Int("bytes", stl.Size(len(triangles))),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func perspective(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(60), aspect, 0.1, 1000)
}

// Close releases all resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.identity != nil {
		v.identity.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Destroy()
	}
	if v.window != nil {
		v.window.Close()
	}
}
