package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/boucegame/HumanOrNot/internal/config"
	"github.com/boucegame/HumanOrNot/internal/handler/persona"
	"github.com/boucegame/HumanOrNot/internal/handler/player"
	"github.com/boucegame/HumanOrNot/internal/handler/ws"
	middlewarePkg "github.com/boucegame/HumanOrNot/internal/middleware"
	personaModel "github.com/boucegame/HumanOrNot/internal/model/persona"
	"github.com/boucegame/HumanOrNot/internal/observability"
	"github.com/boucegame/HumanOrNot/internal/room"
	gamesvc "github.com/boucegame/HumanOrNot/internal/service/game"
	"github.com/boucegame/HumanOrNot/internal/store"
)

// Deps carries everything the router needs.
type Deps struct {
	GameCfg    config.GameConfig
	MetricsCfg config.MetricsConfig
	Personas   personaModel.Store
	Records    store.Store
	Hub        *room.Hub
	Resolver   *gamesvc.Resolver
	Replier    gamesvc.Replier
	Fallback   gamesvc.Fallbacker
	Metrics    *observability.Metrics
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	personaHandler := persona.New(deps.Personas)
	playerHandler := player.New(deps.Records)
	wsHandler := ws.New(deps.GameCfg, deps.Hub, deps.Resolver, deps.Replier, deps.Fallback, deps.Records, deps.Metrics)

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		playerHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if deps.MetricsCfg.Enabled {
		r.Handle("/metrics", observability.Handler())
	}

	return r
}
