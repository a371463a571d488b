package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"game-sim/internal/config"
	"game-sim/internal/logger"
	"game-sim/internal/physics"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Preview.FrameIntervalMs = 1
	cfg.Preview.MaxFrames = 3
	ts := httptest.NewServer(New(config.NewStore(cfg), logger.New("")).Handler())
	t.Cleanup(ts.Close)
	return ts
}

type toolResponse struct {
	OK         bool                     `json:"ok"`
	Error      string                   `json:"error"`
	World      *physics.WorldState      `json:"world"`
	Collisions []physics.CollisionEvent `json:"collisions"`
}

func postJSON(t *testing.T, url, body string) (int, toolResponse) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var out toolResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, out
}

func TestToolEndpointSuccess(t *testing.T) {
	ts := newTestServer(t)
	body := `{
		"world": {
			"gravity": {"x": 0, "y": 0},
			"bodies": [{"id": "ball", "position": {"x": 5, "y": 5}, "velocity": {"x": 1, "y": 0}}]
		},
		"dtMs": 20
	}`
	status, out := postJSON(t, ts.URL+"/api/tools/game_physics", body)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !out.OK {
		t.Fatalf("ok = false, error %q", out.Error)
	}
	if out.World == nil || out.World.Tick != 1 {
		t.Fatalf("world = %+v, want tick 1", out.World)
	}
	if out.Collisions == nil {
		t.Fatalf("collisions missing from success response")
	}
}

func TestToolEndpointValidationFailure(t *testing.T) {
	ts := newTestServer(t)
	status, out := postJSON(t, ts.URL+"/api/tools/game_physics", `{"world":{"bodies":[{"id":"a"},{"id":"a"}]}}`)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if out.OK {
		t.Fatalf("ok = true on validation failure")
	}
	if out.Error != `Duplicate body id "a" in world.bodies.` {
		t.Fatalf("error = %q, want exact duplicate-id message", out.Error)
	}
}

func TestToolEndpointRejectsNonJSON(t *testing.T) {
	ts := newTestServer(t)
	status, out := postJSON(t, ts.URL+"/api/tools/game_physics", `{{{`)
	if status != http.StatusBadRequest || out.OK {
		t.Fatalf("status = %d ok = %v, want 400 and ok=false", status, out.OK)
	}
}

func TestToolEndpointMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/tools/game_physics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestSimulateEndpoint(t *testing.T) {
	ts := newTestServer(t)
	body := `{
		"world": {
			"bounds": {"min": {"x": 0, "y": 0}, "max": {"x": 10, "y": 10}},
			"bodies": [{"id": "ball", "position": {"x": 5, "y": 5}, "velocity": {"x": 1, "y": 0}, "halfSize": {"x": 0.5, "y": 0.5}, "mass": 1}]
		},
		"actions": [{"type": "applyImpulse", "id": "ball", "impulse": {"x": 1, "y": 0}}],
		"dtMs": 20,
		"steps": 1
	}`
	status, out := postJSON(t, ts.URL+"/api/simulate", body)
	if status != http.StatusOK || !out.OK {
		t.Fatalf("status = %d ok = %v, want 200 ok", status, out.OK)
	}
	ball := out.World.FindBody("ball")
	if ball == nil {
		t.Fatalf("ball missing from result")
	}
	if ball.Velocity.X != 2 {
		t.Fatalf("velocity.x = %v, want 2 after impulse", ball.Velocity.X)
	}
}

func TestSimulateEndpointRejectsUnknownAction(t *testing.T) {
	ts := newTestServer(t)
	status, out := postJSON(t, ts.URL+"/api/simulate",
		`{"world":{"bounds":{"min":{"x":0,"y":0},"max":{"x":1,"y":1}}},"actions":[{"type":"explode"}]}`)
	if status != http.StatusBadRequest || out.OK {
		t.Fatalf("status = %d ok = %v, want 400 and ok=false", status, out.OK)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
