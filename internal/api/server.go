// Package api serves the farm state over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/harvest-hope/internal/engine"
	"github.com/talgya/harvest-hope/internal/events"
	"github.com/talgya/harvest-hope/internal/finance"
	"github.com/talgya/harvest-hope/internal/market"
	"github.com/talgya/harvest-hope/internal/meteo"
	"github.com/talgya/harvest-hope/internal/persistence"
	"github.com/talgya/harvest-hope/internal/risk"
)

// Server serves the simulation over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	PlayerID string
	Slot     string
	DeviceID string
	SnapDir  string // Directory for snapshot files.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	// Advice endpoints walk every crop and recompute recommendations;
	// cheap, but no reason to let a scraper hammer them.
	adviceLimiter := NewRateLimiter(60, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/state", s.handleState)
	mux.HandleFunc("/api/v1/risk", s.handleRisk)
	mux.HandleFunc("/api/v1/warnings", s.handleWarnings)
	mux.HandleFunc("/api/v1/weather", s.handleWeather)
	mux.HandleFunc("/api/v1/market", s.handleMarketRoutes)
	mux.HandleFunc("/api/v1/market/", s.handleMarketRoutes)
	mux.HandleFunc("/api/v1/finance", s.handleFinance)
	mux.HandleFunc("/api/v1/schemes", s.handleSchemes)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/journal", s.handleJournal)
	mux.HandleFunc("/api/v1/crises", s.handleCrises)
	mux.HandleFunc("/api/v1/advice", RateLimitMiddleware(adviceLimiter, s.handleAdvice))

	// Live journal stream (websocket).
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/save", s.adminOnly(s.handleSave))
	mux.HandleFunc("/api/v1/snapshot", s.adminOnly(s.handleSnapshot))
	mux.HandleFunc("/api/v1/resolve", s.adminOnly(s.handleResolve))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both GET and POST).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no FARMSIM_ADMIN_KEY set)", http.StatusForbidden)
				return
			}

			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()

	gs := s.Sim.State
	assessment := risk.Assess(gs)

	status := map[string]any{
		"name":           gs.Farm.Name,
		"player_id":      gs.PlayerID,
		"day":            gs.Farm.Day,
		"sim_time":       engine.SimTime(s.Eng.Day()),
		"season":         gs.Season.String(),
		"speed":          s.Eng.Speed(),
		"running":        s.Eng.Running(),
		"money":          gs.Farm.Money,
		"credit_score":   gs.Economics.CreditScore,
		"debt":           gs.Economics.OutstandingDebt(),
		"crops":          len(gs.Farm.Crops),
		"soil_health":    gs.Farm.SoilHealth,
		"risk_level":     assessment.RiskLevel.String(),
		"pending_events": len(s.Sim.Pending),
		"weather":        gs.Weather.Current.Sky,
	}
	writeJSON(w, status)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()
	writeJSON(w, s.Sim.State)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()

	assessment := risk.Assess(s.Sim.State)

	type threatEntry struct {
		Kind        string  `json:"kind"`
		Severity    string  `json:"severity"`
		Probability float64 `json:"probability"`
		Description string  `json:"description"`
	}
	threats := make([]threatEntry, 0, len(assessment.ImmediateThreats))
	for _, t := range assessment.ImmediateThreats {
		threats = append(threats, threatEntry{
			Kind:        t.Kind.String(),
			Severity:    t.Severity.String(),
			Probability: t.Probability,
			Description: t.Description,
		})
	}

	writeJSON(w, map[string]any{
		"risk_level":     assessment.RiskLevel.String(),
		"threats":        threats,
		"trigger_chance": risk.TriggerChance(assessment.RiskLevel),
	})
}

func (s *Server) handleWarnings(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()

	warnings := s.Sim.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, map[string]any{
		"day":      s.Sim.State.Farm.Day,
		"warnings": warnings,
	})
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()

	gs := s.Sim.State
	writeJSON(w, map[string]any{
		"current":  gs.Weather.Current,
		"forecast": gs.Weather.Forecast,
		"monsoon":  gs.Weather.Monsoon,
		"outlook":  meteo.Describe(gs.Weather.Monsoon),
	})
}

// handleMarketRoutes dispatches between the quote board (GET /api/v1/market)
// and channel detail (GET /api/v1/market/:crop/channels).
func (s *Server) handleMarketRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/market")
	if path == "" || path == "/" {
		s.Sim.RLock()
		defer s.Sim.RUnlock()
		writeJSON(w, s.Sim.Quotes)
		return
	}
	s.handleChannels(w, r)
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	// /api/v1/market/:crop/channels → parts[4]=crop parts[5]="channels"
	if len(parts) < 6 || parts[5] != "channels" {
		http.Error(w, "usage: /api/v1/market/:crop/channels", http.StatusBadRequest)
		return
	}
	cropType := parts[4]

	quantity := 1000.0
	if q := r.URL.Query().Get("quantity"); q != "" {
		if v, err := strconv.ParseFloat(q, 64); err == nil && v > 0 {
			quantity = v
		}
	}
	quality := r.URL.Query().Get("quality")
	if quality == "" {
		quality = "standard"
	}

	s.Sim.RLock()
	defer s.Sim.RUnlock()

	quote, ok := s.Sim.Quotes[cropType]
	if !ok {
		quote = s.Sim.Market.SimulatePrice(cropType, s.Sim.State.Season, s.Sim.State.Weather,
			market.SupplyFactors{}, market.DemandFactors{})
	}

	writeJSON(w, map[string]any{
		"crop_type":     cropType,
		"current_price": quote.CurrentPrice,
		"msp":           quote.MSP,
		"options":       market.SellingOptions(cropType, quantity, quality, quote.CurrentPrice),
	})
}

func (s *Server) handleFinance(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()

	gs := s.Sim.State

	type loanView struct {
		ID         string  `json:"id"`
		Type       string  `json:"type"`
		Remaining  float64 `json:"remaining"`
		AnnualRate float64 `json:"annual_rate_pct"`
		EMI        float64 `json:"emi"`
	}
	loans := make([]loanView, 0, len(gs.Economics.Loans))
	for _, l := range gs.Economics.Loans {
		if l.Remaining <= 0 {
			continue
		}
		emi := 0.0
		if res, err := finance.CalculateEMI(l.Principal, l.AnnualRate, l.TermMonths); err == nil {
			emi = res.EMIAmount
		}
		loans = append(loans, loanView{
			ID:         l.ID,
			Type:       l.Type.String(),
			Remaining:  l.Remaining,
			AnnualRate: l.AnnualRate,
			EMI:        emi,
		})
	}

	hasCollateral := gs.Farm.LandAreaHa >= 1.0
	writeJSON(w, map[string]any{
		"money":              gs.Farm.Money,
		"bank_account":       gs.Economics.BankAccount,
		"credit_score":       gs.Economics.CreditScore,
		"outstanding_debt":   gs.Economics.OutstandingDebt(),
		"high_interest_debt": gs.Economics.HasHighInterestDebt(),
		"loans":              loans,
		"offers":             finance.LoanOffers(gs.Economics.CreditScore, hasCollateral, gs.Farm.LandAreaHa),
	})
}

func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()
	writeJSON(w, finance.EligibleSchemes(s.Sim.State))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()

	pending := s.Sim.Pending
	if pending == nil {
		pending = []*events.ExtremeEvent{}
	}
	writeJSON(w, pending)
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	s.Sim.RLock()
	defer s.Sim.RUnlock()

	entries := s.Sim.Entries

	// Optional category filter.
	if cat := r.URL.Query().Get("category"); cat != "" {
		var filtered []engine.Journal
		for _, e := range entries {
			if e.Category == cat {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	start := 0
	if len(entries) > limit {
		start = len(entries) - limit
	}
	writeJSON(w, entries[start:])
}

func (s *Server) handleCrises(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	records, err := s.DB.RecentCrises(s.PlayerID, limit)
	if err != nil {
		slog.Error("crisis history query failed", "error", err)
		writeJSON(w, []persistence.CrisisRecord{})
		return
	}
	if records == nil {
		records = []persistence.CrisisRecord{}
	}
	writeJSON(w, records)
}

// handleAdvice returns day-to-day guidance: crop care for the current
// weather plus a sell/hold call for each crop the farm is growing.
func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()

	gs := s.Sim.State

	type cropAdvice struct {
		Crop    string        `json:"crop"`
		Stage   string        `json:"growth_stage"`
		Care    []string      `json:"care"`
		Selling market.Advice `json:"selling"`
	}

	hasStorage := r.URL.Query().Get("storage") == "true"
	urgentCash := gs.Farm.Money < 10_000

	advice := make([]cropAdvice, 0, len(gs.Farm.Crops))
	for _, crop := range gs.Farm.Crops {
		quote, ok := s.Sim.Quotes[crop.Type]
		if !ok {
			continue
		}
		advice = append(advice, cropAdvice{
			Crop:    crop.Type,
			Stage:   crop.GrowthStage.String(),
			Care:    meteo.CareRecommendations(gs.Weather.Current, crop.Type, crop.GrowthStage),
			Selling: market.SellingAdvice(crop.Type, quote.CurrentPrice, hasStorage, urgentCash),
		})
	}
	writeJSON(w, advice)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Eng.SetSpeed(req.Speed)
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	s.Sim.RLock()
	defer s.Sim.RUnlock()

	if err := s.DB.Save(s.PlayerID, s.Slot, s.Sim.State, s.DeviceID); err != nil {
		slog.Error("save failed", "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"day":     s.Sim.State.Farm.Day,
		"slot":    s.Slot,
		"message": "game saved",
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.Sim.RLock()
	defer s.Sim.RUnlock()

	path := fmt.Sprintf("%s/%s-day%d.snap", s.SnapDir, s.PlayerID, s.Sim.State.Farm.Day)
	if err := persistence.WriteSnapshot(path, s.Sim.State); err != nil {
		slog.Error("snapshot failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"day":     s.Sim.State.Farm.Day,
		"path":    path,
		"message": "snapshot written",
	})
}

// handleResolve applies the player's choice on a pending crisis event.
// The financial effects land on the game state immediately; the event is
// removed from the pending queue and logged to the crisis history.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		EventID  string `json:"event_id"`
		ChoiceID string `json:"choice_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.Sim.Lock()
	defer s.Sim.Unlock()

	var ev *events.ExtremeEvent
	idx := -1
	for i, pending := range s.Sim.Pending {
		if pending.ID == req.EventID {
			ev = pending
			idx = i
			break
		}
	}
	if ev == nil {
		http.Error(w, "event not found", http.StatusNotFound)
		return
	}

	outcome, err := events.ResolveChoice(ev, req.ChoiceID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	gs := s.Sim.State
	gs.Farm.Money -= outcome.Cost
	if v, ok := outcome.Immediate["money_change"]; ok {
		gs.Farm.Money += int64(v)
	}

	s.Sim.Pending = append(s.Sim.Pending[:idx], s.Sim.Pending[idx+1:]...)

	if s.DB != nil {
		if err := s.DB.LogCrisis(s.PlayerID, gs.Farm.Day, ev.Type, ev.Severity.String(), ev.Title); err != nil {
			slog.Error("crisis log failed", "error", err)
		}
	}

	slog.Info("crisis resolved",
		"event", ev.Type, "choice", req.ChoiceID, "cost", outcome.Cost)
	writeJSON(w, outcome)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
