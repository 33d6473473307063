package config

import (
	"flag"

	"github.com/Faultbox/midgard-path/internal/engine/path"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagResolution  = flag.Float64("resolution", 0, "Distance between cached samples")
	flagClosed      = flag.Bool("closed", false, "Treat the path as a closed circuit")
	flagDoubleSided = flag.Bool("double-sided", false, "Emit back faces")
	flagUV          = flag.String("uv", "", "UV mode: path or landscape")
	flagHeightmap   = flag.String("heightmap", "", "Grayscale terrain heightmap")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagResolution > 0 {
		cfg.Path.Resolution = float32(*flagResolution)
	}
	if *flagClosed {
		cfg.Path.Closed = true
	}
	if *flagDoubleSided {
		cfg.Path.DoubleSided = true
	}
	if *flagUV != "" {
		mode, err := path.ParseUVMode(*flagUV)
		if err != nil {
			return err
		}
		cfg.Path.UVMode = mode
	}
	if *flagHeightmap != "" {
		cfg.Terrain.Heightmap = *flagHeightmap
	}
	return nil
}
