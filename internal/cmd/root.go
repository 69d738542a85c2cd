// Package cmd wires the capture coordinator into a command-line tool.
package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blademainer/screen-capture/internal/capture"
	"github.com/blademainer/screen-capture/internal/config"
	"github.com/blademainer/screen-capture/internal/coordinator"
	"github.com/blademainer/screen-capture/internal/muxer"
	"github.com/blademainer/screen-capture/internal/selection"
	"github.com/blademainer/screen-capture/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:           "screencap",
	Short:         "Capture screen content as stills or recordings",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("output-dir", "", "output directory (default: the ScreenCaptures folder)")
	flags.String("format", "", "still image format (png, jpeg, tiff, bmp)")
	flags.Int("quality", 85, "jpeg quality 1-100")
	flags.Int("display", -1, "display index to capture (-1 = first)")
	flags.Int("fps", 30, "recording frame rate 1-60")
	flags.Bool("audio", false, "include audio when an audio source is configured")
	flags.String("ffmpeg", "", "ffmpeg binary path")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	viper.SetDefault("token_file", filepath.Join(xdg.ConfigHome, "screencap", "output-token.json"))
	config.SetDefaults(viper.GetViper())

	cobra.OnInitialize(func() {
		viper.BindPFlag("output_dir", flags.Lookup("output-dir"))
		viper.BindPFlag("format", flags.Lookup("format"))
		viper.BindPFlag("quality", flags.Lookup("quality"))
		viper.BindPFlag("display", flags.Lookup("display"))
		viper.BindPFlag("fps", flags.Lookup("fps"))
		viper.BindPFlag("audio", flags.Lookup("audio"))
		viper.BindPFlag("ffmpeg_path", flags.Lookup("ffmpeg"))
		viper.BindPFlag("log_level", flags.Lookup("log-level"))

		viper.SetConfigName("screencap")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, "screencap"))
		viper.SetEnvPrefix("SCREENCAP")
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()
	})
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(h)
}

// buildCoordinator assembles the production service from config.
func buildCoordinator() (*coordinator.Coordinator, *config.Config, *slog.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, nil, err
	}
	log := newLogger(cfg.LogLevel)

	defaultDir := cfg.OutputDir
	if defaultDir == "" {
		defaultDir = storage.DefaultDir()
	}
	guard := storage.NewGuard(log, defaultDir, cfg.TokenFile)

	deps := coordinator.Deps{
		Guard: guard,
		NewContainer: func() muxer.Container {
			return muxer.NewFFmpegContainer(log, cfg.FFmpegPath, cfg.BitrateKbps)
		},
		Events: coordinator.Events{
			OnSessionStart: func() { log.Info("session started") },
			OnSessionStop:  func(path string) { log.Info("session stopped", "output", path) },
			OnImageSaved:   func(path string) { log.Info("image saved", "output", path) },
		},
	}
	if tool := selection.NewTool(log, cfg.RegionCommand); tool != nil {
		deps.Selector = tool
	}
	return coordinator.New(log, deps), cfg, log, nil
}

func captureConfig(cfg *config.Config) coordinator.Config {
	return coordinator.Config{
		Mode:     capture.TargetDisplay,
		TargetID: cfg.Display,
		Format:   cfg.Format,
		Quality:  cfg.Quality,
		FPS:      cfg.FPS,
		Audio:    cfg.Audio,
	}
}
