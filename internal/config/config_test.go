package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FPS != 30 {
		t.Errorf("FPS = %d, want 30", cfg.FPS)
	}
	if cfg.Format != "png" {
		t.Errorf("Format = %q, want png", cfg.Format)
	}
	if cfg.Display != -1 {
		t.Errorf("Display = %d, want -1", cfg.Display)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fps zero", func(c *Config) { c.FPS = 0 }},
		{"fps too high", func(c *Config) { c.FPS = 61 }},
		{"quality zero", func(c *Config) { c.Quality = 0 }},
		{"quality too high", func(c *Config) { c.Quality = 101 }},
		{"bitrate zero", func(c *Config) { c.BitrateKbps = 0 }},
		{"unknown format", func(c *Config) { c.Format = "webp" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			cfg, err := Load(v)
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadRejectsInvalidOverride(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("fps", 999)
	if _, err := Load(v); err == nil {
		t.Error("expected error for fps override out of range")
	}
}
