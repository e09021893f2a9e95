package app

import (
	"fmt"

	"github.com/gekko3d/forwardplus/clusterrt/rt/cluster"
	"github.com/gekko3d/forwardplus/clusterrt/rt/core"
	"github.com/gekko3d/forwardplus/clusterrt/rt/gpu"
	"github.com/gekko3d/forwardplus/clusterrt/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

type Logger interface {
	DebugEnabled() bool
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// ClusterSource assigns lights to clusters for one frame. The returned buffer
// must be published and stay untouched until the next call.
type ClusterSource interface {
	Clusters(cam core.CameraParams, lights []core.Light) *cluster.Buffer
}

type Options struct {
	Shader     shaders.Params
	ClusterFar float32
	Spawn      core.LightSpawn
	Animate    bool
	// Camera is the starting camera; nil uses core.NewCameraState.
	Camera *core.CameraState
}

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	RenderPipeline *wgpu.RenderPipeline

	BufferManager *gpu.GpuBufferManager
	Scene         *core.Scene
	Camera        *core.CameraState
	Source        ClusterSource
	Profiler      *Profiler
	Log           Logger
	Options       Options

	LastTime       float64
	LastRenderTime float64
	MouseCaptured  bool
	MouseX, MouseY float64
	DebugMode      bool

	// frameReady is false when the last Update failed to upload.
	frameReady bool

	FrameCount int
	FPS        float64
	FPSTime    float64
}

// NewApp spawns the light scene. source may be nil when opts.Shader does not
// use cluster lookup.
func NewApp(window *glfw.Window, opts Options, source ClusterSource, log Logger) (*App, error) {
	if opts.Shader.ClusterLookup && source == nil {
		return nil, fmt.Errorf("cluster lookup needs a cluster source")
	}
	scene, err := core.NewRandomScene(opts.Spawn)
	if err != nil {
		return nil, fmt.Errorf("light scene: %w", err)
	}
	camera := opts.Camera
	if camera == nil {
		camera = core.NewCameraState()
	}
	return &App{
		Window:   window,
		Camera:   camera,
		Scene:    scene,
		Source:   source,
		Profiler: NewProfiler(),
		Log:      log,
		Options:  opts,
	}, nil
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)

	surface := a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))
	a.Surface = surface

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, a.Device, a.Config)

	code, err := shaders.RenderForwardPlus(a.Options.Shader)
	if err != nil {
		return err
	}
	module, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Shading VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return fmt.Errorf("shader module: %w", err)
	}
	defer module.Release()

	a.RenderPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Shading Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}

	a.BufferManager = gpu.NewGpuBufferManager(a.Device, a.Options.Shader.ClusterLookup)
	a.LastTime = glfw.GetTime()

	a.Log.Infof("renderer ready: %dx%d, %d lights, cluster lookup %v", width, height, len(a.Scene.Lights), a.Options.Shader.ClusterLookup)
	return nil
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
	}
}

func (a *App) aspect() float32 {
	if a.Config.Height == 0 {
		return 1.0
	}
	return float32(a.Config.Width) / float32(a.Config.Height)
}

func (a *App) Update() {
	now := glfw.GetTime()
	dt := float32(now - a.LastTime)
	a.LastTime = now

	a.moveCamera(dt)
	if a.Options.Animate {
		a.Scene.Update()
	}

	aspect := a.aspect()
	cam := a.Camera.Params(aspect, a.Options.ClusterFar)
	viewProj := a.Camera.GetProjectionMatrix(aspect).Mul4(a.Camera.GetViewMatrix())
	lights := a.Scene.Lights

	var buf *cluster.Buffer
	if a.Options.Shader.ClusterLookup {
		a.Profiler.BeginScope("clusters")
		buf = a.Source.Clusters(cam, lights)
		a.Profiler.EndScope("clusters")
	}

	a.Profiler.BeginScope("upload")
	a.frameReady = a.upload(&gpu.FrameUniforms{
		InvViewProj: viewProj.Inv(),
		Camera:      cam,
		Width:       a.Config.Width,
		Height:      a.Config.Height,
		LightCount:  uint32(len(lights)),
	}, lights, buf)
	a.Profiler.EndScope("upload")
	a.Profiler.SetCount("lights", len(lights))
}

func (a *App) upload(frame *gpu.FrameUniforms, lights []core.Light, buf *cluster.Buffer) bool {
	m := a.BufferManager
	if err := m.UpdateFrame(frame); err != nil {
		a.Log.Errorf("frame uniforms: %v", err)
		return false
	}
	if err := m.UpdateLights(lights); err != nil {
		a.Log.Errorf("lights: %v", err)
		return false
	}
	if buf != nil {
		if _, err := m.UpdateClusters(buf); err != nil {
			a.Log.Errorf("clusters: %v", err)
			return false
		}
	}
	if m.BindGroupStale() {
		if err := m.CreateBindGroups(a.RenderPipeline); err != nil {
			a.Log.Errorf("%v", err)
			return false
		}
	}
	return true
}

// RespawnOldestLight swaps the oldest light for a new one. The cluster lists are
// rebuilt from the new index order on the next Update.
func (a *App) RespawnOldestLight() {
	removed, added, err := a.Scene.Respawn()
	if err != nil {
		a.Log.Errorf("%v", err)
		return
	}
	a.Log.Infof("light %s replaced by %s at index %d", removed, added, a.Scene.Index(added))
}

func (a *App) moveCamera(dt float32) {
	if dt <= 0 {
		return
	}
	step := a.Camera.Speed * dt
	forward := a.Camera.GetForward()
	right := a.Camera.GetRight()
	up := mgl32.Vec3{0, 0, 1}

	move := func(key glfw.Key, dir mgl32.Vec3) {
		if a.Window.GetKey(key) == glfw.Press {
			a.Camera.Position = a.Camera.Position.Add(dir.Mul(step))
		}
	}
	move(glfw.KeyW, forward)
	move(glfw.KeyS, forward.Mul(-1))
	move(glfw.KeyD, right)
	move(glfw.KeyA, right.Mul(-1))
	move(glfw.KeySpace, up)
	move(glfw.KeyLeftControl, up.Mul(-1))
}

// HandleMouseMove turns the camera while the mouse is captured.
func (a *App) HandleMouseMove(xpos, ypos float64) {
	dx := float32(xpos - a.MouseX)
	dy := float32(ypos - a.MouseY)
	a.MouseX, a.MouseY = xpos, ypos
	if !a.MouseCaptured {
		return
	}

	a.Camera.Yaw -= dx * a.Camera.Sensitivity
	a.Camera.Pitch -= dy * a.Camera.Sensitivity
	const limit = 1.55
	a.Camera.Pitch = mgl32.Clamp(a.Camera.Pitch, -limit, limit)
}

func (a *App) Render() {
	if !a.frameReady {
		return
	}

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{0, 0, 0, 1},
		}},
	})
	rPass.SetPipeline(a.RenderPipeline)
	rPass.SetBindGroup(0, a.BufferManager.BindGroup0, nil)
	rPass.Draw(3, 1, 0, 0)

	err = rPass.End()
	if err != nil {
		a.Log.Errorf("Render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Errorf("Encoder Finish failed: %v", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			a.FrameCount = 0
			a.FPSTime = 0
			if a.DebugMode && a.Log.DebugEnabled() {
				a.Log.Debugf("%.1f fps\n%s", a.FPS, a.Profiler.GetStatsString())
			}
		}
	}
	a.LastRenderTime = now
}

func (a *App) Release() {
	if a.BufferManager != nil {
		a.BufferManager.Release()
	}
	if a.RenderPipeline != nil {
		a.RenderPipeline.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}
