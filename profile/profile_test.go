package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Start_EmptyModeIsNoop(t *testing.T) {
	s := Profiler{Path: t.TempDir()}.Start()

	if _, ok := s.(ignore); !ok {
		t.Fatalf("expected no-op stopper, got %T", s)
	}

	s.Stop()
	s.Stop()
}

func TestProfiler_Start_UnknownModeIsNoop(t *testing.T) {
	s := Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}.Start()

	if _, ok := s.(ignore); !ok {
		t.Fatalf("expected no-op stopper, got %T", s)
	}

	s.Stop()
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !Enabled {
		if len(modes) != 0 {
			t.Errorf("expected no modes without the %s tag, got %v", Tag, modes)
		}

		return
	}

	if !slices.IsSorted(modes) {
		t.Errorf("modes are not sorted: %v", modes)
	}

	for _, m := range []string{"cpu", "heap", "trace"} {
		if !slices.Contains(modes, m) {
			t.Errorf("expected mode %q in %v", m, modes)
		}
	}
}
