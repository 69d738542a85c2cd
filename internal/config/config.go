// Package config holds the runtime configuration for the capture tool.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/blademainer/screen-capture/internal/encoder"
)

// Config holds all runtime configuration.
type Config struct {
	// OutputDir overrides the default ScreenCaptures directory. Empty
	// means default.
	OutputDir string `mapstructure:"output_dir"`
	// TokenFile is where the persisted directory grant lives. Empty
	// disables scoped-token resolution.
	TokenFile string `mapstructure:"token_file"`

	Format  string `mapstructure:"format"`
	Quality int    `mapstructure:"quality"`

	Display int  `mapstructure:"display"`
	FPS     int  `mapstructure:"fps"`
	Audio   bool `mapstructure:"audio"`

	FFmpegPath  string `mapstructure:"ffmpeg_path"`
	BitrateKbps int    `mapstructure:"bitrate_kbps"`

	// RegionCommand overrides the platform region-selection tool. Use
	// "{out}" where the output path belongs.
	RegionCommand []string `mapstructure:"region_command"`

	LogLevel string `mapstructure:"log_level"`
}

// SetDefaults registers defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("format", encoder.DefaultFormat)
	v.SetDefault("quality", 85)
	v.SetDefault("display", -1)
	v.SetDefault("fps", 30)
	v.SetDefault("audio", false)
	v.SetDefault("bitrate_kbps", 8000)
	v.SetDefault("log_level", "info")
}

// Load unmarshals and validates configuration from a viper instance.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects out-of-range settings.
func (c *Config) Validate() error {
	if c.FPS <= 0 || c.FPS > 60 {
		return fmt.Errorf("fps must be 1-60, got %d", c.FPS)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be 1-100, got %d", c.Quality)
	}
	if c.BitrateKbps <= 0 {
		return fmt.Errorf("bitrate_kbps must be positive, got %d", c.BitrateKbps)
	}
	if _, err := encoder.ForFormat(c.Format, c.Quality); err != nil {
		return err
	}
	return nil
}
