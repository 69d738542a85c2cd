package coordinator

import "testing"

func TestTransitionRelation(t *testing.T) {
	tests := []struct {
		from, to State
		ok       bool
	}{
		{Idle, Screenshotting, true},
		{Idle, Recording, true},
		{Idle, Paused, false},
		{Idle, Idle, false},
		{Screenshotting, Idle, true},
		{Screenshotting, Recording, false},
		{Screenshotting, Paused, false},
		{Recording, Paused, true},
		{Recording, Idle, true},
		{Recording, Screenshotting, false},
		{Paused, Recording, true},
		{Paused, Idle, true},
		{Paused, Screenshotting, false},
	}
	for _, tt := range tests {
		if got := canTransition(tt.from, tt.to); got != tt.ok {
			t.Errorf("canTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestStateStrings(t *testing.T) {
	want := map[State]string{
		Idle:           "idle",
		Screenshotting: "screenshotting",
		Recording:      "recording",
		Paused:         "paused",
		State(42):      "unknown",
	}
	for s, str := range want {
		if s.String() != str {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), str)
		}
	}
}
