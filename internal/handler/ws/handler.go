package ws

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/boucegame/HumanOrNot/internal/config"
	"github.com/boucegame/HumanOrNot/internal/observability"
	"github.com/boucegame/HumanOrNot/internal/room"
	gamesvc "github.com/boucegame/HumanOrNot/internal/service/game"
	"github.com/boucegame/HumanOrNot/internal/store"
)

// Handler upgrades room connections and wires a session controller to each.
type Handler struct {
	gameCfg  config.GameConfig
	hub      *room.Hub
	resolver *gamesvc.Resolver
	replier  gamesvc.Replier
	fallback gamesvc.Fallbacker
	records  store.Store
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

// New creates the websocket handler. Replier may be nil when the model is
// not configured; sessions then rely on the fallback catalog.
func New(gameCfg config.GameConfig, hub *room.Hub, resolver *gamesvc.Resolver, replier gamesvc.Replier, fallback gamesvc.Fallbacker, records store.Store, metrics *observability.Metrics) *Handler {
	return &Handler{
		gameCfg:  gameCfg,
		hub:      hub,
		resolver: resolver,
		replier:  replier,
		fallback: fallback,
		records:  records,
		metrics:  metrics,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes wires the room websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	identity := strings.TrimSpace(r.URL.Query().Get("username"))
	clientID := uuid.NewString()
	if identity == "" {
		identity = fmt.Sprintf("guest-%.8s", clientID)
	}

	score := 0
	if record, ok, err := h.records.Find(r.Context(), identity); err != nil {
		log.Printf("[ws] failed to load record identity=%s: %v", identity, err)
	} else if ok {
		score = record.Score
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	client := room.NewClient(clientID, identity, score, h.hub, conn)
	ctrl := gamesvc.NewController(gamesvc.ControllerConfig{
		ClientID:     clientID,
		Identity:     identity,
		InitialScore: score,
		Game:         h.gameCfg,
		Output:       client,
		Match:        h.hub,
		Resolver:     h.resolver,
		Replier:      h.replier,
		Fallback:     h.fallback,
		Records:      h.records,
		Metrics:      h.metrics,
	})
	client.BindController(ctrl)

	h.hub.Register(client)
	client.Send(room.ConnectedMessage{
		Type:     room.TypeConnected,
		ClientID: clientID,
		Identity: identity,
		Score:    score,
	})
	client.ShowScreen(gamesvc.ScreenMenu)

	client.Run()
}
