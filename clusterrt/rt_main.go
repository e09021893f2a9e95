package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/forwardplus"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults apply when empty)")
	renderer := flag.String("renderer", "", "Override the renderer: forward, forward+ or clustered-deferred")
	debug := flag.Bool("debug", false, "Enable debug logging and profiler output")
	flag.Parse()

	cfg := forwardplus.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = forwardplus.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *renderer != "" {
		name, err := forwardplus.ParseRendererName(*renderer)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg.Renderer = name
	}
	cfg.Debug = cfg.Debug || *debug

	logger := forwardplus.NewDefaultLogger("forwardplus", cfg.Debug)
	if err := forwardplus.Run(cfg, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
