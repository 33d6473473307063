// pathtool is a CLI utility for sampling path documents and exporting strip meshes.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-path/internal/config"
	"github.com/Faultbox/midgard-path/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	command := flag.Arg(0)
	if command == "help" {
		printUsage()
		return
	}
	if err := run(cfg, command, flag.Args()[1:], os.Stdout); err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pathtool - terrain path sampling and strip mesh utility

Usage:
  pathtool [flags] <command> [options]

Commands:
  init <path.yaml>                   Write an example path document
  info <path.yaml>                   Show waypoint, length and sample counts
  samples <path.yaml>                Print distance/position/tangent per step
  mesh <path.yaml> <out.obj>         Export the strip (and base) mesh as OBJ
  preview <path.yaml> [out.png]      Render a top-down PNG preview
  pick <path.yaml> <x> <z>           Report whether a ground point lies on the strip

Flags:
  -config <file>       Config file (default ./pathtool.yaml, ./config.yaml or user config dir)
  -debug               Enable debug logging
  -resolution <d>      Distance between cached samples
  -closed              Treat the path as a closed circuit
  -double-sided        Emit back faces
  -uv <mode>           UV mode: path or landscape
  -heightmap <file>    Grayscale terrain heightmap for snapping

Examples:
  pathtool init road.yaml
  pathtool -resolution 1 info road.yaml
  pathtool samples -step 5 -mode linear road.yaml
  pathtool -double-sided mesh road.yaml road.obj
  pathtool preview road.yaml road.png`)
}
