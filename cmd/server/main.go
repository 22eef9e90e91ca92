package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/platewise/console-api/internal/config"
	"github.com/platewise/console-api/internal/router"
	"github.com/platewise/console-api/internal/upstream"
	"github.com/platewise/console-api/internal/ws"
)

func main() {
	// Best effort: a missing .env just means plain environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if len(cfg.Operators) == 0 {
		log.Println("WARNING: no OPERATORS configured, nobody can log in")
	}

	client := upstream.New(cfg.UpstreamURL, cfg.UpstreamTimeout)

	hub := ws.NewHub()
	go hub.Run()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.New(cfg, client, hub),
	}

	go func() {
		log.Printf("console-api listening on :%s (upstream %s)", cfg.Port, cfg.UpstreamURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
