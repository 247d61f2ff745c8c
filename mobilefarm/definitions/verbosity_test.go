package definitions

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseVerbosity(t *testing.T) {
	cases := map[string]VerbosityTier{
		"minimal":   Minimal,
		"standard":  Standard,
		"normal":    Standard,
		" Verbose ": Verbose,
	}
	for in, want := range cases {
		got, err := ParseVerbosity(in)
		if err != nil {
			t.Errorf("ParseVerbosity(%q) returned error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseVerbosity(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseVerbosity("loud"); err == nil {
		t.Errorf("Expected error for unknown verbosity")
	}
}

func TestVerbosityFromLevel(t *testing.T) {
	cases := []struct {
		level zerolog.Level
		want  VerbosityTier
	}{
		{zerolog.TraceLevel, Verbose},
		{zerolog.DebugLevel, Verbose},
		{zerolog.InfoLevel, Standard},
		{zerolog.WarnLevel, Minimal},
		{zerolog.ErrorLevel, Minimal},
	}
	for _, c := range cases {
		if got := VerbosityFromLevel(c.level); got != c.want {
			t.Errorf("VerbosityFromLevel(%v) = %v, want %v", c.level, got, c.want)
		}
	}
}

func TestVerbosityOrdering(t *testing.T) {
	if !Verbose.AtLeast(Standard) || !Standard.AtLeast(Minimal) {
		t.Errorf("Expected minimal < standard < verbose")
	}
	if Minimal.AtLeast(Standard) {
		t.Errorf("Minimal must not enable standard events")
	}
	t.Logf("tiers: %s, %s, %s", Minimal, Standard, Verbose)
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	if c := r.Center(); c != (Point{X: 60, Y: 45}) {
		t.Errorf("Center() = %+v", c)
	}
}
