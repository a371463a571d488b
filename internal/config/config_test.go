package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadMergesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	data := "addr: \":9999\"\npreview:\n  frameIntervalMs: 25\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := Load(path)
	if cfg.Addr != ":9999" {
		t.Fatalf("addr = %q, want :9999", cfg.Addr)
	}
	if cfg.Preview.FrameIntervalMs != 25 {
		t.Fatalf("frameIntervalMs = %d, want 25", cfg.Preview.FrameIntervalMs)
	}
	if cfg.Preview.MaxFrames != Default().Preview.MaxFrames {
		t.Fatalf("maxFrames = %d, want default", cfg.Preview.MaxFrames)
	}
	if cfg.LogPath != Default().LogPath {
		t.Fatalf("logPath = %q, want default", cfg.LogPath)
	}
}

func TestLoadInvalidYAMLReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(":::not yaml"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if cfg := Load(path); cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestStoreSwap(t *testing.T) {
	store := NewStore(Default())
	next := Default()
	next.Addr = ":7777"
	store.Set(next)
	if got := store.Get(); got.Addr != ":7777" {
		t.Fatalf("addr = %q, want :7777", got.Addr)
	}
}

func TestWatchDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	if err := os.WriteFile(path, []byte("addr: \":1111\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := Watch(path)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("addr: \":2222\"\n"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case cfg := <-w.Configs:
		if cfg.Addr != ":2222" {
			t.Fatalf("reloaded addr = %q, want :2222", cfg.Addr)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no reload delivered within 5s")
	}
}
