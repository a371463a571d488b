package server

import (
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialPreview(t *testing.T, httpURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/ws/preview"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPreviewStreamsFrames(t *testing.T) {
	ts := newTestServer(t)
	conn := dialPreview(t, ts.URL)

	request := map[string]interface{}{
		"world": map[string]interface{}{
			"gravity": map[string]interface{}{"x": 0.0, "y": 0.0},
			"bodies": []interface{}{
				map[string]interface{}{
					"id":       "ball",
					"position": map[string]interface{}{"x": 5.0, "y": 5.0},
					"velocity": map[string]interface{}{"x": 1.0, "y": 0.0},
				},
			},
		},
		"dtMs": 20.0,
	}
	if err := conn.WriteJSON(request); err != nil {
		t.Fatalf("write: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frame previewFrame
	for tick := 1; tick <= 3; tick++ {
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read frame %d: %v", tick, err)
		}
		if frame.Tick != tick {
			t.Fatalf("frame tick = %d, want %d", frame.Tick, tick)
		}
		if frame.World.FindBody("ball") == nil {
			t.Fatalf("frame %d missing ball", tick)
		}
	}
}

func TestPreviewRejectsInvalidPayload(t *testing.T) {
	ts := newTestServer(t)
	conn := dialPreview(t, ts.URL)

	if err := conn.WriteJSON(42); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var out previewError
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.OK {
		t.Fatalf("ok = true, want rejection")
	}
	if out.Error != "request must be an object." {
		t.Fatalf("error = %q, want exact message", out.Error)
	}
}

func TestPreviewWorldsAdvanceIndependently(t *testing.T) {
	ts := newTestServer(t)
	first := dialPreview(t, ts.URL)
	second := dialPreview(t, ts.URL)

	request := map[string]interface{}{
		"world": map[string]interface{}{"gravity": map[string]interface{}{"x": 0.0, "y": 0.0}},
	}
	if err := first.WriteJSON(request); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := second.WriteJSON(request); err != nil {
		t.Fatalf("write second: %v", err)
	}

	_ = first.SetReadDeadline(time.Now().Add(5 * time.Second))
	_ = second.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f1, f2 previewFrame
	if err := first.ReadJSON(&f1); err != nil {
		t.Fatalf("read first: %v", err)
	}
	if err := second.ReadJSON(&f2); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if f1.Tick != 1 || f2.Tick != 1 {
		t.Fatalf("ticks = %d/%d, want both 1 (no shared state across connections)", f1.Tick, f2.Tick)
	}
}
