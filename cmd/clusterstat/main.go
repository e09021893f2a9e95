// Command clusterstat runs cluster assignment for the configured scene without a
// window, prints the per-frame stats and optionally writes a light-count heatmap
// and a CPU-shaded preview of the demo floor.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gekko3d/forwardplus"
	"github.com/gekko3d/forwardplus/clusterrt/rt/core"
	"github.com/gekko3d/forwardplus/clusterrt/rt/debug"
)

type options struct {
	config  string
	heatmap string
	preview string
	frames  int
	cell    int
	// previewWidth is in pixels; the height follows the window aspect.
	previewWidth int
}

func main() {
	var opts options
	flag.StringVar(&opts.config, "config", "", "YAML config file (defaults apply when empty)")
	flag.StringVar(&opts.heatmap, "out", "", "Write a light-count heatmap (.png or .webp)")
	flag.StringVar(&opts.preview, "shade", "", "Write the floor shaded on the CPU with the configured renderer (.png or .webp)")
	flag.IntVar(&opts.frames, "frames", 1, "Frames to simulate; lights drift between frames when animated")
	flag.IntVar(&opts.cell, "cell", 8, "Heatmap pixels per cluster")
	flag.IntVar(&opts.previewWidth, "shade-width", 320, "Preview width in pixels")
	verbose := flag.Bool("v", false, "Log every frame")
	flag.Parse()

	logger := forwardplus.NewDefaultLogger("clusterstat", *verbose)
	if err := run(opts, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(opts options, logger forwardplus.Logger) error {
	cfg := forwardplus.DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = forwardplus.LoadConfig(opts.config); err != nil {
			return err
		}
	}
	if opts.frames < 1 {
		return fmt.Errorf("frames must be at least 1, got %d", opts.frames)
	}
	if opts.preview != "" && opts.previewWidth < 1 {
		return fmt.Errorf("preview width must be at least 1, got %d", opts.previewWidth)
	}

	scene, err := core.NewRandomScene(cfg.LightSpawn())
	if err != nil {
		return err
	}
	pipeline, err := forwardplus.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}
	cam := cfg.CameraState().Params(cfg.Aspect(), cfg.ClusterFar)

	for i := 0; i < opts.frames; i++ {
		if i > 0 && cfg.Lights.Animate {
			scene.Update()
		}
		pipeline.Frame(cam, scene.Lights)
	}

	stats := pipeline.LastStats()
	grid := pipeline.Grid()
	fmt.Printf("grid        %s (%d clusters)\n", grid, grid.Count())
	fmt.Printf("lights      %d (%d outside the clustered volume)\n", len(scene.Lights), stats.Culled)
	fmt.Printf("assigned    %d indices in %d clusters\n", stats.Assigned, stats.NonEmpty)
	fmt.Printf("fullest     %d / %d\n", stats.MaxCount, cfg.MaxLightsPerCluster)
	fmt.Printf("dropped     %d\n", stats.Dropped)
	if stats.NonEmpty > 0 {
		fmt.Printf("mean        %.2f lights per non-empty cluster\n", float64(stats.Assigned)/float64(stats.NonEmpty))
	}

	if opts.heatmap != "" {
		hm := debug.DefaultHeatmapOptions()
		hm.CellSize = opts.cell
		img := debug.Heatmap(pipeline.Buffer(), grid, hm)
		if err := debug.Save(opts.heatmap, img); err != nil {
			return fmt.Errorf("save heatmap: %w", err)
		}
		logger.Infof("Wrote %s (%dx%d)", opts.heatmap, img.Bounds().Dx(), img.Bounds().Dy())
	}

	if opts.preview != "" {
		strategy, err := forwardplus.SelectStrategy(cfg, logger)
		if err != nil {
			return err
		}
		height := max(1, int(float32(opts.previewWidth)/cfg.Aspect()+0.5))
		img := debug.Preview(strategy.Evaluator(cam, scene.Lights), cam, opts.previewWidth, height)
		if err := debug.Save(opts.preview, img); err != nil {
			return fmt.Errorf("save preview: %w", err)
		}
		logger.Infof("Wrote %s (%dx%d, %s)", opts.preview, opts.previewWidth, height, strategy.Name())
	}
	return nil
}
