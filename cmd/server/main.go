package main

import (
	"flag"
	"log"
	"net/http"

	"game-sim/internal/config"
	"game-sim/internal/env"
	"game-sim/internal/logger"
	"game-sim/internal/server"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to server config file")
	flag.Parse()

	_ = env.Load(".env")
	cfg := config.Load(*configPath)
	store := config.NewStore(cfg)
	lg := logger.New(cfg.LogPath)

	if w, err := config.Watch(*configPath); err == nil {
		go func() {
			for next := range w.Configs {
				store.Set(next)
				lg.Log("config reloaded")
			}
		}()
	} else {
		lg.Logf("config watch disabled: %v", err)
	}

	srv := server.New(store, lg)
	lg.Logf("listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, srv.Handler()))
}
