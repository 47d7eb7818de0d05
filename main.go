package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"duelarena/server"
)

// Entry point: loads config, starts the HTTP + WebSocket server and shuts
// rooms down on SIGINT/SIGTERM.
func main() {
	cfg, err := server.LoadConfig(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "server listen address, e.g. :8080")
	flag.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file path; empty logs to stderr")
	flag.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "client bundle directory; empty disables static files")
	flag.Parse()

	if err := server.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer server.SyncLogger()

	gw := server.NewGateway()
	reg := server.NewRegistry(gw)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(reg, gw, cfg.StaticDir),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		server.Log.Infof("listening on %s; open http://localhost%s/", cfg.Addr, cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		server.Log.Warnf("http shutdown: %v", err)
	}
	reg.Shutdown()
}
