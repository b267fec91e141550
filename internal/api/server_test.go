package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/talgya/harvest-hope/internal/engine"
	"github.com/talgya/harvest-hope/internal/events"
	"github.com/talgya/harvest-hope/internal/market"
	"github.com/talgya/harvest-hope/internal/meteo"
	"github.com/talgya/harvest-hope/internal/risk"
	"github.com/talgya/harvest-hope/internal/state"
)

func testState() *state.GameState {
	return &state.GameState{
		PlayerID: "player-1",
		Season:   state.SeasonKharif,
		Farm: state.Farm{
			Name:       "Sita Farm",
			Day:        12,
			Money:      45_000,
			SoilHealth: 70,
			LandAreaHa: 2,
			Crops: []state.Crop{
				{Type: "rice", GrowthStage: state.StageVegetative, Health: 85, AreaHa: 1.5, PlantedDay: 1},
			},
			Equipment: []state.Equipment{{Name: "Tractor", Condition: 75}},
		},
		Economics: state.Economics{CreditScore: 640},
		Weather: state.Weather{
			Monsoon: state.MonsoonPrediction{Strength: "moderate", DroughtRisk: 0.2, FloodRisk: 0.15, Confidence: 0.8},
		},
	}
}

func newTestServer(gs *state.GameState) *Server {
	gate := risk.NewTriggerGate(func() float64 { return 1.0 }) // never fires
	gen := events.NewGenerator(nil, func() float64 { return 0.0 })
	sim := engine.NewSimulation(gs, meteo.NewService(7), market.NewService(7), events.NewOrchestrator(gate, gen))

	return &Server{
		Sim:      sim,
		Eng:      engine.NewEngine(),
		AdminKey: "test-key",
		PlayerID: gs.PlayerID,
		Slot:     "slot-1",
		DeviceID: "device-a",
	}
}

func TestStatusEndpoint(t *testing.T) {
	s := newTestServer(testState())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	s.handleStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var status map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if status["name"] != "Sita Farm" {
		t.Errorf("name = %v, want Sita Farm", status["name"])
	}
	if status["season"] != "Kharif" {
		t.Errorf("season = %v, want Kharif", status["season"])
	}
	if status["day"].(float64) != 12 {
		t.Errorf("day = %v, want 12", status["day"])
	}
}

func TestRiskEndpointUnderDistress(t *testing.T) {
	gs := testState()
	gs.Farm.Money = 5_000
	gs.Economics.Loans = []state.Loan{
		{ID: "l1", Type: state.LoanBank, Principal: 100_000, Remaining: 80_000, AnnualRate: 7, TermMonths: 36},
		{ID: "l2", Type: state.LoanMoneylender, Principal: 30_000, Remaining: 28_000, AnnualRate: 36, TermMonths: 12},
	}
	s := newTestServer(gs)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/risk", nil)
	rec := httptest.NewRecorder()
	s.handleRisk(rec, req)

	var resp struct {
		RiskLevel     string  `json:"risk_level"`
		TriggerChance float64 `json:"trigger_chance"`
		Threats       []struct {
			Kind string `json:"kind"`
		} `json:"threats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.RiskLevel != "critical" {
		t.Errorf("risk_level = %q, want critical", resp.RiskLevel)
	}
	if resp.TriggerChance != 0.75 {
		t.Errorf("trigger_chance = %v, want 0.75", resp.TriggerChance)
	}
	if len(resp.Threats) == 0 {
		t.Error("no threats reported under financial distress")
	}
}

func TestChannelsEndpoint(t *testing.T) {
	s := newTestServer(testState())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/market/wheat/channels?quantity=500&quality=premium", nil)
	rec := httptest.NewRecorder()
	s.handleMarketRoutes(rec, req)

	var resp struct {
		CropType string `json:"crop_type"`
		MSP      float64
		Options  []market.SellingOption `json:"options"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.CropType != "wheat" {
		t.Errorf("crop_type = %q, want wheat", resp.CropType)
	}
	if len(resp.Options) == 0 {
		t.Error("no selling options returned")
	}
}

func TestAdminAuthRequired(t *testing.T) {
	s := newTestServer(testState())

	body := strings.NewReader(`{"speed": 5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/speed", body)
	rec := httptest.NewRecorder()
	s.adminOnly(s.handleSpeed)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", rec.Code)
	}

	body = strings.NewReader(`{"speed": 5}`)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/speed", body)
	req.Header.Set("Authorization", "Bearer wrong-key")
	rec = httptest.NewRecorder()
	s.adminOnly(s.handleSpeed)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 with wrong token", rec.Code)
	}

	body = strings.NewReader(`{"speed": 5}`)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/speed", body)
	req.Header.Set("Authorization", "Bearer test-key")
	rec = httptest.NewRecorder()
	s.adminOnly(s.handleSpeed)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with valid token", rec.Code)
	}
	if s.Eng.Speed() != 5 {
		t.Errorf("speed = %v, want 5", s.Eng.Speed())
	}
}

func TestAdminDisabledWithoutKey(t *testing.T) {
	s := newTestServer(testState())
	s.AdminKey = ""

	req := httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader(`{"speed": 2}`))
	rec := httptest.NewRecorder()
	s.adminOnly(s.handleSpeed)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 when admin key unset", rec.Code)
	}
}

func TestSpeedValidation(t *testing.T) {
	s := newTestServer(testState())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader(`{"speed": 2000}`))
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	s.adminOnly(s.handleSpeed)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for out-of-range speed", rec.Code)
	}
}

func TestResolveAppliesChoice(t *testing.T) {
	s := newTestServer(testState())

	// Queue a severe drought and take the livestock sale option:
	// immediate_cash 60000 scaled by the severe multiplier 1.5.
	gen := events.NewGenerator(nil, func() float64 { return 0.9 })
	ev, err := gen.Generate(context.Background(), risk.ThreatDrought, risk.SeverityCritical)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if ev.Type != "severe_drought" {
		t.Fatalf("event type = %q, want severe_drought", ev.Type)
	}
	s.Sim.Pending = append(s.Sim.Pending, ev)
	moneyBefore := s.Sim.State.Farm.Money

	body := strings.NewReader(`{"event_id": "` + ev.ID + `", "choice_id": "sell_livestock"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resolve", body)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	s.adminOnly(s.handleResolve)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var outcome events.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if outcome.Immediate["money_change"] != 90_000 {
		t.Errorf("money_change = %v, want 90000", outcome.Immediate["money_change"])
	}
	if got := s.Sim.State.Farm.Money; got != moneyBefore+90_000 {
		t.Errorf("money = %d, want %d", got, moneyBefore+90_000)
	}
	if len(s.Sim.Pending) != 0 {
		t.Errorf("pending = %d, want 0 after resolution", len(s.Sim.Pending))
	}
}

func TestResolveUnknownEvent(t *testing.T) {
	s := newTestServer(testState())

	body := strings.NewReader(`{"event_id": "nope", "choice_id": "wait_and_pray"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resolve", body)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	s.adminOnly(s.handleResolve)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestJournalLimitAndFilter(t *testing.T) {
	s := newTestServer(testState())
	for i := 0; i < 10; i++ {
		s.Sim.Entries = append(s.Sim.Entries, engine.Journal{Day: i, Description: "paid", Category: "finance"})
		s.Sim.Entries = append(s.Sim.Entries, engine.Journal{Day: i, Description: "rain", Category: "weather"})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/journal?limit=5&category=finance", nil)
	rec := httptest.NewRecorder()
	s.handleJournal(rec, req)

	var entries []engine.Journal
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("entries = %d, want 5", len(entries))
	}
	for _, e := range entries {
		if e.Category != "finance" {
			t.Errorf("category = %q, want finance", e.Category)
		}
	}
}

// Handlers read simulation state while the tick loop rewrites it; run with
// -race to catch unguarded access, in particular the quote map rebuilt
// every day.
func TestHandlersDuringTicks(t *testing.T) {
	s := newTestServer(testState())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			s.Sim.TickDay(context.Background())
		}
	}()

	paths := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/api/v1/state", s.handleState},
		{"/api/v1/market", s.handleMarketRoutes},
		{"/api/v1/status", s.handleStatus},
		{"/api/v1/journal", s.handleJournal},
	}
	for {
		select {
		case <-done:
			return
		default:
		}
		for _, p := range paths {
			req := httptest.NewRequest(http.MethodGet, p.path, nil)
			rec := httptest.NewRecorder()
			p.handler(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s = %d, want 200", p.path, rec.Code)
			}
		}
	}
}

func TestCrisesWithoutDB(t *testing.T) {
	s := newTestServer(testState())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/crises", nil)
	rec := httptest.NewRecorder()
	s.handleCrises(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 without a database", rec.Code)
	}
}
