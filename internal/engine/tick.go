// Package engine drives the farm simulation on a layered daily clock.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"
)

// Cadence of the farming calendar: each tick is one sim-day.
const (
	DaysPerWeek   = 7
	DaysPerSeason = 120
)

// Engine advances the simulation one day per tick.
type Engine struct {
	Interval time.Duration // Base tick interval

	// The day counter, speed and running state are touched by the tick
	// loop and by API handlers on other goroutines, so all live behind
	// atomics.
	day     atomic.Uint64 // Monotonic, never resets
	speed   atomic.Uint64 // float64 bits
	running atomic.Bool

	// Callbacks per layer, populated during setup.
	OnDay    func(day uint64) // Every day
	OnWeek   func(day uint64) // Every 7 days
	OnSeason func(day uint64) // Every 120 days
}

// NewEngine creates an engine with default pacing.
func NewEngine() *Engine {
	e := &Engine{Interval: time.Second}
	e.SetSpeed(1.0)
	return e
}

// Day returns the monotonic day counter.
func (e *Engine) Day() uint64 {
	return e.day.Load()
}

// SetDay positions the day counter, typically when resuming a save.
func (e *Engine) SetDay(d uint64) {
	e.day.Store(d)
}

// Speed returns the current tick multiplier: 1.0 = one day per interval,
// 0 = paused.
func (e *Engine) Speed() float64 {
	return math.Float64frombits(e.speed.Load())
}

// SetSpeed changes the tick multiplier. Safe to call while Run is looping.
func (e *Engine) SetSpeed(v float64) {
	e.speed.Store(math.Float64bits(v))
}

// Running reports whether the tick loop is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run starts the loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("simulation engine started", "day", e.Day(), "speed", e.Speed())

	for e.running.Load() {
		speed := e.Speed()
		if speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		e.step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "day", e.Day())
}

// Stop halts the loop after the current tick.
func (e *Engine) Stop() {
	e.running.Store(false)
}

func (e *Engine) step() {
	day := e.day.Add(1)

	if e.OnDay != nil {
		e.OnDay(day)
	}
	if day%DaysPerWeek == 0 && e.OnWeek != nil {
		e.OnWeek(day)
	}
	if day%DaysPerSeason == 0 && e.OnSeason != nil {
		e.OnSeason(day)
	}
}

// SimTime renders a day counter as calendar text.
func SimTime(day uint64) string {
	seasonNames := [4]string{"Kharif", "Rabi", "Zaid", "Off-season"}
	dayOfSeason := day%DaysPerSeason + 1
	seasons := day / DaysPerSeason
	season := seasons % 4
	year := seasons/4 + 1
	return fmt.Sprintf("%s Day %d, Year %d", seasonNames[season], dayOfSeason, year)
}
