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

	"github.com/boucegame/HumanOrNot/internal/config"
	"github.com/boucegame/HumanOrNot/internal/handler"
	"github.com/boucegame/HumanOrNot/internal/model/persona"
	"github.com/boucegame/HumanOrNot/internal/observability"
	"github.com/boucegame/HumanOrNot/internal/room"
	"github.com/boucegame/HumanOrNot/internal/service/ai"
	gamesvc "github.com/boucegame/HumanOrNot/internal/service/game"
	"github.com/boucegame/HumanOrNot/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	personaStore := persona.NewMemoryStore(persona.Seed())

	records, err := store.NewStore(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to initialize record store: %v", err)
	}
	defer records.Close()
	if cfg.Store.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, player records are kept in memory only")
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics("humanornot")
	}

	// Reply generation: opponents fall back to canned phrases when the model
	// is unavailable, so the game keeps working without credentials.
	var replier gamesvc.Replier
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing with fallback replies only")
		} else {
			replier = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("ark credentials not configured, simulated opponents use fallback replies")
	}

	hub := room.NewHub(metrics)
	resolver := gamesvc.NewResolver(personaStore, cfg.Game.AIMatchChance)

	router := handler.NewRouter(handler.Deps{
		GameCfg:    cfg.Game,
		MetricsCfg: cfg.Metrics,
		Personas:   personaStore,
		Records:    records,
		Hub:        hub,
		Resolver:   resolver,
		Replier:    replier,
		Fallback:   ai.FallbackReply,
		Metrics:    metrics,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("HumanOrNot backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
