// Package server exposes the simulation core over HTTP: an untrusted tool
// endpoint that fully validates its payload, a trusted endpoint for callers
// that already build typed requests, and a websocket preview stream for the
// canvas renderer.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"game-sim/internal/config"
	"game-sim/internal/logger"
	"game-sim/internal/physics"
	"game-sim/internal/simtool"
)

// Server holds the HTTP surface. Config is read through a Store so a hot
// reload applies to new preview connections without a restart.
type Server struct {
	cfg      *config.Store
	log      *logger.Logger
	upgrader websocket.Upgrader
}

// New returns a Server using the given config store and logger.
func New(cfg *config.Store, log *logger.Logger) *Server {
	return &Server{
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tools/game_physics", s.handleTool)
	mux.HandleFunc("/api/simulate", s.handleSimulate)
	mux.HandleFunc("/ws/preview", s.handlePreview)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// handleTool is the untrusted entry point: the payload goes through full
// validation, and validation failures surface as 400 with the exact message.
func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON.")
		return
	}
	result, err := simtool.Run(payload)
	if err != nil {
		s.log.Logf("tool request rejected: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeResult(w, result)
}

// simulateRequest is the trusted endpoint's wire shape. Actions use the
// typed envelope codec; an unknown action type here is a caller bug.
type simulateRequest struct {
	World   physics.WorldState `json:"world"`
	Actions json.RawMessage    `json:"actions"`
	DtMs    float64            `json:"dtMs"`
	Steps   int                `json:"steps"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON.")
		return
	}
	var actions []physics.Action
	if len(req.Actions) > 0 {
		var err error
		actions, err = physics.UnmarshalActions(req.Actions)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	result := physics.RunSimulation(physics.SimulationRequest{
		World:   req.World,
		Actions: actions,
		DtMs:    req.DtMs,
		Steps:   req.Steps,
	})
	writeResult(w, &result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

// resultEnvelope is the success response shape shared by both simulation
// endpoints. Collisions is always present, even when empty.
type resultEnvelope struct {
	OK         bool                     `json:"ok"`
	World      physics.WorldState       `json:"world"`
	Collisions []physics.CollisionEvent `json:"collisions"`
}

type errorEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeResult(w http.ResponseWriter, result *physics.SimulationResult) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resultEnvelope{
		OK:         true,
		World:      result.World,
		Collisions: result.Collisions,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{OK: false, Error: msg})
}
