package capture

import (
	"errors"
	"image"
	"testing"
	"time"
)

func TestVideoFrameCarriesDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1921, 1081))
	f := VideoFrame(img, time.Now())

	if f.Kind != KindVideo {
		t.Errorf("Kind = %v, want video", f.Kind)
	}
	if f.Width != 1921 || f.Height != 1081 {
		t.Errorf("dimensions %dx%d, want 1921x1081", f.Width, f.Height)
	}
}

func TestAudioFrameKeepsSamples(t *testing.T) {
	f := AudioFrame([]byte{1, 2, 3, 4}, time.Now())
	if f.Kind != KindAudio {
		t.Errorf("Kind = %v, want audio", f.Kind)
	}
	if len(f.Samples) != 4 {
		t.Errorf("Samples len = %d, want 4", len(f.Samples))
	}
}

func TestTargetString(t *testing.T) {
	tgt := Target{Kind: TargetDisplay, ID: 0, Name: "display-0", Bounds: image.Rect(0, 0, 2560, 1440)}
	want := "display 0 (display-0, 2560x1440)"
	if got := tgt.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDisplayEnumeratorSnapshot(t *testing.T) {
	targets, err := DisplayEnumerator{}.ListTargets()
	if errors.Is(err, ErrNoTargetAvailable) {
		t.Skip("no displays attached")
	}
	if err != nil {
		t.Fatalf("ListTargets: %v", err)
	}
	for i, tgt := range targets {
		if tgt.Kind != TargetDisplay {
			t.Errorf("target %d kind = %v, want display", i, tgt.Kind)
		}
		if tgt.ID != i {
			t.Errorf("target %d has ID %d", i, tgt.ID)
		}
		if tgt.Bounds.Empty() {
			t.Errorf("target %d has empty bounds", i)
		}
	}
}

func TestKindStrings(t *testing.T) {
	if KindVideo.String() != "video" || KindAudio.String() != "audio" {
		t.Error("FrameKind strings wrong")
	}
	if TargetRegion.String() != "region" || TargetWindow.String() != "window" {
		t.Error("TargetKind strings wrong")
	}
}
