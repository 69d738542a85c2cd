// Package selection runs the platform's interactive region-selection tool
// and reads back the image it produced.
package selection

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/blademainer/screen-capture/internal/capture"
)

// OutPlaceholder marks where the output path goes in a custom command.
const OutPlaceholder = "{out}"

// Selector produces a region capture through user interaction.
type Selector interface {
	Select(ctx context.Context) (image.Image, error)
}

// Tool shells out to an external interactive selector. The tool draws its
// own selection UI, writes a PNG to the path it is given, and signals
// cancellation through a non-zero exit code.
type Tool struct {
	log     *slog.Logger
	command []string
}

// NewTool builds a selector from an explicit command containing the
// OutPlaceholder. An empty command picks the platform default; nil is
// returned when the platform has no interactive selector.
func NewTool(log *slog.Logger, command []string) *Tool {
	if len(command) == 0 {
		command = defaultCommand()
		if command == nil {
			return nil
		}
	}
	return &Tool{log: log, command: command}
}

func defaultCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"screencapture", "-i", "-x", OutPlaceholder}
	case "linux":
		// ImageMagick's import: click-drag selects, Escape cancels.
		return []string{"import", OutPlaceholder}
	default:
		return nil
	}
}

// Select runs the tool and decodes its output. A non-zero exit or an empty
// output file is the user backing out and maps to ErrUserCancelled; the
// temp file is removed in every case.
func (t *Tool) Select(ctx context.Context) (image.Image, error) {
	tmp, err := os.CreateTemp("", "region-*.png")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", capture.ErrWriteFailed, err)
	}
	out := tmp.Name()
	tmp.Close()
	defer os.Remove(out)

	argv := make([]string, len(t.command))
	for i, a := range t.command {
		argv[i] = strings.ReplaceAll(a, OutPlaceholder, out)
	}
	t.log.Debug("running region selector", "command", argv)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok || ctx.Err() != nil {
			return nil, capture.ErrUserCancelled
		}
		return nil, fmt.Errorf("%w: selector: %v", capture.ErrStreamFailed, err)
	}

	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		// Zero exit but nothing written: some tools report cancellation
		// this way.
		return nil, capture.ErrUserCancelled
	}
	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", capture.ErrWriteFailed, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode selector output: %v", capture.ErrWriteFailed, err)
	}
	return img, nil
}
