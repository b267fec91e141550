// Command farmsim runs the Harvest Hope farming simulation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/talgya/harvest-hope/internal/api"
	"github.com/talgya/harvest-hope/internal/config"
	"github.com/talgya/harvest-hope/internal/engine"
	"github.com/talgya/harvest-hope/internal/entropy"
	"github.com/talgya/harvest-hope/internal/events"
	"github.com/talgya/harvest-hope/internal/llm"
	"github.com/talgya/harvest-hope/internal/market"
	"github.com/talgya/harvest-hope/internal/meteo"
	"github.com/talgya/harvest-hope/internal/persistence"
	"github.com/talgya/harvest-hope/internal/risk"
	"github.com/talgya/harvest-hope/internal/state"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Harvest Hope — farming life simulation")

	cfgPath := "farm.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("config load failed", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	os.MkdirAll(cfg.SnapshotDir, 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or Bootstrap Game State ──────────────────────────────────
	weather := meteo.NewService(cfg.Seed)

	gs, err := db.Load(cfg.PlayerID, cfg.SaveSlot)
	switch {
	case err == nil:
		slog.Info("save restored",
			"player", gs.PlayerID,
			"season", gs.Season,
			"day", gs.Farm.Day,
			"money", gs.Farm.Money,
		)
	case errors.Is(err, persistence.ErrNotFound):
		slog.Info("no save found, starting a new farm", "slot", cfg.SaveSlot)
		gs = newGame(cfg, weather)
		if err := db.Save(cfg.PlayerID, cfg.SaveSlot, gs, cfg.DeviceID); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	default:
		slog.Error("failed to load save", "error", err)
		os.Exit(1)
	}

	// ── Crisis Pipeline ───────────────────────────────────────────────
	llmClient := llm.NewClient(cfg.AnthropicKey)
	if llmClient != nil {
		slog.Info("LLM client enabled (Haiku)")
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set — event descriptions will use templates")
	}

	rng := entropy.NewClient(cfg.RandomOrgKey)
	var rollSource func() float64
	if rng.Enabled() {
		rollSource = rng.Source()
		slog.Info("trigger entropy: random.org pool")
	} else {
		rollSource = entropy.CryptoFloat
		slog.Info("trigger entropy: crypto/rand")
	}

	gate := risk.NewTriggerGate(rollSource)
	generator := events.NewGenerator(llmClient, nil)
	orchestrator := events.NewOrchestrator(gate, generator)

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(gs, weather, market.NewService(cfg.Seed), orchestrator)

	eng := engine.NewEngine()
	eng.SetSpeed(cfg.Speed)
	eng.Interval = time.Duration(cfg.TickIntervalMs) * time.Millisecond
	// Resume the monotonic day counter: prefer the recorded value (it
	// survives year rollovers), fall back to the save position.
	eng.SetDay(uint64(gs.Season)*engine.DaysPerSeason + uint64(gs.Farm.Day-1))
	if dayStr, err := db.GetMeta("engine_day"); err == nil {
		if d, err := strconv.ParseUint(dayStr, 10, 64); err == nil && d > eng.Day() {
			eng.SetDay(d)
		}
	}

	ctx := context.Background()
	eng.OnDay = func(day uint64) {
		sim.RLock()
		pendingBefore := len(sim.Pending)
		sim.RUnlock()

		sim.TickDay(ctx)

		sim.RLock()
		if pendingBefore > len(sim.Pending) {
			pendingBefore = len(sim.Pending) // resolved via API mid-tick
		}
		newEvents := append([]*events.ExtremeEvent(nil), sim.Pending[pendingBefore:]...)
		farmDay := gs.Farm.Day
		sim.RUnlock()

		for _, ev := range newEvents {
			if err := db.LogCrisis(cfg.PlayerID, farmDay, ev.Type, ev.Severity.String(), ev.Title); err != nil {
				slog.Error("crisis log failed", "error", err)
			}
		}
		if farmDay%cfg.AutosaveDays == 0 {
			sim.RLock()
			err := db.Save(cfg.PlayerID, cfg.SaveSlot, gs, cfg.DeviceID)
			sim.RUnlock()
			if err != nil {
				slog.Error("autosave failed", "error", err)
			}
			if err := db.SaveMeta("engine_day", strconv.FormatUint(day, 10)); err != nil {
				slog.Error("meta save failed", "error", err)
			}
		}
	}
	eng.OnSeason = func(day uint64) {
		sim.TickSeason()
		sim.RLock()
		path := filepath.Join(cfg.SnapshotDir,
			fmt.Sprintf("%s-%s.snap", cfg.PlayerID, gs.Season))
		err := persistence.WriteSnapshot(path, gs)
		sim.RUnlock()
		if err != nil {
			slog.Error("season snapshot failed", "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("FARMSIM_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}

	apiServer := &api.Server{
		Sim:      sim,
		Eng:      eng,
		DB:       db,
		Port:     cfg.APIPort,
		AdminKey: cfg.AdminKey,
		PlayerID: cfg.PlayerID,
		Slot:     cfg.SaveSlot,
		DeviceID: cfg.DeviceID,
		SnapDir:  cfg.SnapshotDir,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\n%s is growing: %s, day %d, ₹%d in hand.\n",
		gs.Farm.Name, gs.Season, gs.Farm.Day, gs.Farm.Money)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.APIPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	// Final save on shutdown. The API server may still be serving.
	slog.Info("final save...")
	sim.RLock()
	err = db.Save(cfg.PlayerID, cfg.SaveSlot, gs, cfg.DeviceID)
	sim.RUnlock()
	if err != nil {
		slog.Error("final save failed", "error", err)
	}
	if err := db.SaveMeta("engine_day", strconv.FormatUint(eng.Day(), 10)); err != nil {
		slog.Error("meta save failed", "error", err)
	}

	fmt.Println("Simulation stopped. Farm saved.")
}

// newGame bootstraps a marginal-farmer starting position: two hectares,
// one rice crop in the ground, a worn tractor, and a fresh monsoon outlook.
func newGame(cfg config.Config, weather *meteo.Service) *state.GameState {
	gs := &state.GameState{
		PlayerID: cfg.PlayerID,
		Season:   state.SeasonKharif,
		Farm: state.Farm{
			Name:       cfg.FarmName,
			Day:        1,
			Money:      50_000,
			SoilHealth: 70,
			LandAreaHa: 2.0,
			Crops: []state.Crop{
				{Type: "rice", GrowthStage: state.StageSeedling, Health: 90, AreaHa: 1.5, PlantedDay: 1},
			},
			Equipment: []state.Equipment{
				{Name: "Tractor", Condition: 80},
				{Name: "Water Pump", Condition: 70},
			},
		},
		Economics: state.Economics{
			BankAccount: 10_000,
			CreditScore: 650,
		},
	}
	gs.Weather.Monsoon = weather.PredictMonsoon(gs.Season)
	slog.Info("new farm created",
		"name", gs.Farm.Name,
		"monsoon", meteo.Describe(gs.Weather.Monsoon),
	)
	return gs
}
