package engine

import (
	"testing"
)

func TestStepLayering(t *testing.T) {
	e := NewEngine()

	var days, weeks, seasons int
	e.OnDay = func(uint64) { days++ }
	e.OnWeek = func(uint64) { weeks++ }
	e.OnSeason = func(uint64) { seasons++ }

	for i := 0; i < DaysPerSeason; i++ {
		e.step()
	}

	if days != DaysPerSeason {
		t.Errorf("day callbacks = %d, want %d", days, DaysPerSeason)
	}
	if want := DaysPerSeason / DaysPerWeek; weeks != want {
		t.Errorf("week callbacks = %d, want %d", weeks, want)
	}
	if seasons != 1 {
		t.Errorf("season callbacks = %d, want 1", seasons)
	}
}

func TestStepNilCallbacks(t *testing.T) {
	e := NewEngine()
	// Must not panic with nothing wired.
	for i := 0; i < DaysPerSeason; i++ {
		e.step()
	}
	if e.Day() != DaysPerSeason {
		t.Errorf("day = %d, want %d", e.Day(), DaysPerSeason)
	}
}

func TestSimTime(t *testing.T) {
	tests := []struct {
		day  uint64
		want string
	}{
		{day: 0, want: "Kharif Day 1, Year 1"},
		{day: 33, want: "Kharif Day 34, Year 1"},
		{day: 120, want: "Rabi Day 1, Year 1"},
		{day: 360, want: "Off-season Day 1, Year 1"},
		{day: 480, want: "Kharif Day 1, Year 2"},
	}
	for _, tt := range tests {
		if got := SimTime(tt.day); got != tt.want {
			t.Errorf("SimTime(%d) = %q, want %q", tt.day, got, tt.want)
		}
	}
}

func TestSpeedAndRunningAccessors(t *testing.T) {
	e := NewEngine()
	if got := e.Speed(); got != 1.0 {
		t.Errorf("default speed = %v, want 1.0", got)
	}
	e.SetSpeed(5.5)
	if got := e.Speed(); got != 5.5 {
		t.Errorf("speed = %v, want 5.5", got)
	}
	e.SetDay(240)
	if got := e.Day(); got != 240 {
		t.Errorf("day = %d, want 240", got)
	}
	if e.Running() {
		t.Error("engine reports running before Run")
	}
	e.Stop()
	if e.Running() {
		t.Error("engine reports running after Stop")
	}
}
