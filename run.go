package forwardplus

import (
	"fmt"

	"github.com/gekko3d/forwardplus/clusterrt/rt/app"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Run opens the demo window and renders until it is closed. It must be called
// from the main goroutine with the OS thread locked.
func Run(cfg *Config, log Logger) error {
	log = orNop(log)
	if err := cfg.Validate(); err != nil {
		return err
	}
	strategy, err := SelectStrategy(cfg, log)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()
	log.Infof("Created window (%dx%d) '%s'", cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)

	application, err := app.NewApp(window, app.Options{
		Shader:     strategy.ShaderParams(),
		ClusterFar: cfg.ClusterFar,
		Spawn:      cfg.LightSpawn(),
		Animate:    cfg.Lights.Animate,
		Camera:     cfg.CameraState(),
	}, strategy.Source(), log)
	if err != nil {
		return err
	}
	application.DebugMode = cfg.Debug
	if err := application.Init(); err != nil {
		return fmt.Errorf("renderer init: %w", err)
	}
	defer application.Release()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		application.HandleMouseMove(xpos, ypos)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyTab:
			application.MouseCaptured = !application.MouseCaptured
			if application.MouseCaptured {
				w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			} else {
				w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			}
		case glfw.KeyF1:
			application.DebugMode = !application.DebugMode
			log.SetDebug(application.DebugMode)
		case glfw.KeyP:
			application.Options.Animate = !application.Options.Animate
		case glfw.KeyR:
			application.RespawnOldestLight()
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		application.Update()
		application.Render()
	}
	return nil
}
