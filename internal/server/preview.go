package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"game-sim/internal/physics"
	"game-sim/internal/simtool"
)

// previewFrame is one streamed snapshot. The renderer draws World and may
// flash or score the frame's collisions.
type previewFrame struct {
	Tick       int                      `json:"tick"`
	World      physics.WorldState       `json:"world"`
	Collisions []physics.CollisionEvent `json:"collisions"`
}

type previewError struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// handlePreview upgrades the connection, reads one untrusted request, and
// streams simulation frames at the configured interval until the frame budget
// runs out or the client goes away. Each frame feeds the previous frame's
// world back into the stepper; nothing is retained after the connection ends.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var payload interface{}
	if err := conn.ReadJSON(&payload); err != nil {
		return
	}
	req, err := simtool.ParseRequest(payload)
	if err != nil {
		s.log.Logf("preview request rejected: %v", err)
		_ = conn.WriteJSON(previewError{OK: false, Error: err.Error()})
		return
	}

	cfg := s.cfg.Get().Preview
	interval := time.Duration(cfg.FrameIntervalMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Drain reads so client close frames are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	world := req.World
	actions := req.Actions
	for frame := 0; frame < cfg.MaxFrames; frame++ {
		select {
		case <-closed:
			return
		case <-ticker.C:
		}
		result := physics.RunSimulation(physics.SimulationRequest{
			World:   world,
			Actions: actions,
			DtMs:    req.DtMs,
			Steps:   req.Steps,
		})
		actions = nil
		world = result.World
		if err := conn.WriteJSON(previewFrame{
			Tick:       world.Tick,
			World:      world,
			Collisions: result.Collisions,
		}); err != nil {
			return
		}
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "frame budget reached"),
		time.Now().Add(time.Second))
}
