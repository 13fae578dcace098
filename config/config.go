package config

import (
	"fmt"
	"image"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chaos-io/logokit/favicon"
	"github.com/chaos-io/logokit/optimize"
	"github.com/chaos-io/logokit/rembg"
)

// Config represents the application configuration
type Config struct {
	RemBG    RemBGConfig    `yaml:"rembg"`
	Favicon  FaviconConfig  `yaml:"favicon"`
	Optimize OptimizeConfig `yaml:"optimize"`
	Server   ServerConfig   `yaml:"server"`
}

type RemBGConfig struct {
	Tolerance float64 `yaml:"tolerance"`
	// Sample pixel, counted from the top-left corner.
	SampleX int `yaml:"sample_x"`
	SampleY int `yaml:"sample_y"`
}

type FaviconConfig struct {
	ICOSize int `yaml:"ico_size"`
	PNGSize int `yaml:"png_size"`
}

type OptimizeConfig struct {
	MaxWidth    int    `yaml:"max_width"`
	JPEGQuality int    `yaml:"jpeg_quality"`
	Schedule    string `yaml:"schedule"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// MaxUploadBytes caps multipart uploads.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		RemBG: RemBGConfig{Tolerance: rembg.DefaultTolerance},
		Favicon: FaviconConfig{
			ICOSize: favicon.DefaultICOSize,
			PNGSize: favicon.DefaultPNGSize,
		},
		Optimize: OptimizeConfig{
			MaxWidth:    optimize.DefaultMaxWidth,
			JPEGQuality: optimize.DefaultJPEGQuality,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 20 << 20,
		},
	}
}

// Load reads and parses the configuration file. Keys missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.RemBG.Tolerance < 0 {
		return fmt.Errorf("rembg.tolerance must not be negative")
	}
	if c.RemBG.SampleX < 0 || c.RemBG.SampleY < 0 {
		return fmt.Errorf("rembg.sample_x and rembg.sample_y must not be negative")
	}
	if c.Favicon.ICOSize < 1 || c.Favicon.ICOSize > favicon.MaxICOSize {
		return fmt.Errorf("favicon.ico_size must be between 1 and %d", favicon.MaxICOSize)
	}
	if c.Favicon.PNGSize < 1 {
		return fmt.Errorf("favicon.png_size must be positive")
	}
	if c.Optimize.MaxWidth < 1 {
		return fmt.Errorf("optimize.max_width must be positive")
	}
	if c.Optimize.JPEGQuality < 1 || c.Optimize.JPEGQuality > 100 {
		return fmt.Errorf("optimize.jpeg_quality must be between 1 and 100")
	}
	if c.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	return nil
}

// RemBGOptions turns the rembg section into remover options.
func (c *Config) RemBGOptions() []rembg.Option {
	return []rembg.Option{
		rembg.WithTolerance(c.RemBG.Tolerance),
		rembg.WithSampler(rembg.PointSampler{Point: image.Pt(c.RemBG.SampleX, c.RemBG.SampleY)}),
	}
}

func (c *Config) FaviconOptions() favicon.Options {
	opts := favicon.DefaultOptions()
	opts.ICOSize = c.Favicon.ICOSize
	opts.PNGSize = c.Favicon.PNGSize
	opts.PNGName = fmt.Sprintf("icon-%d.png", c.Favicon.PNGSize)
	return opts
}

func (c *Config) OptimizeOptions() optimize.Options {
	return optimize.Options{
		MaxWidth:    c.Optimize.MaxWidth,
		JPEGQuality: c.Optimize.JPEGQuality,
	}
}
