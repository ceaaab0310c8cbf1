package room

import (
	"log"
	"sync"

	"github.com/boucegame/HumanOrNot/internal/observability"
)

// Presence is a participant's shared status record.
type Presence struct {
	Ready  bool
	InGame bool
	Score  int
}

// Hub tracks every connected client, their presence records, who is
// searching for a match, and the active pairings. Lock discipline: the hub
// never invokes a controller method while holding mu, so controllers are
// free to call hub accessors under their own locks.
type Hub struct {
	metrics *observability.Metrics

	mu        sync.RWMutex
	clients   map[string]*Client
	presence  map[string]Presence
	searching map[string]bool
	pairs     map[string]string
}

// NewHub builds an empty hub. Metrics may be nil.
func NewHub(metrics *observability.Metrics) *Hub {
	return &Hub{
		metrics:   metrics,
		clients:   make(map[string]*Client),
		presence:  make(map[string]Presence),
		searching: make(map[string]bool),
		pairs:     make(map[string]string),
	}
}

// Register adds a client and announces it to the rest of the room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID()] = c
	h.presence[c.ID()] = Presence{Ready: true, Score: c.Score()}
	others := h.othersLocked(c.ID())
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.ConnectedPlayers.Inc()
	}
	log.Printf("[room] client connected id=%s identity=%s", c.ID(), c.Identity())

	for _, peer := range others {
		peer.Send(ConnectedMessage{Type: TypeConnected, ClientID: c.ID()})
	}
}

// Unregister removes a client, dissolving any pairing. The abandoned peer's
// controller is notified after the hub lock is released.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID()]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID())
	delete(h.presence, c.ID())
	delete(h.searching, c.ID())

	var abandoned *Client
	if peerID, ok := h.pairs[c.ID()]; ok {
		delete(h.pairs, c.ID())
		delete(h.pairs, peerID)
		abandoned = h.clients[peerID]
	}
	others := h.othersLocked(c.ID())
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.ConnectedPlayers.Dec()
	}
	log.Printf("[room] client disconnected id=%s", c.ID())

	if abandoned != nil {
		abandoned.Controller().PeerDisconnected(c.ID())
	}
	for _, peer := range others {
		peer.Send(DisconnectedMessage{Type: TypeDisconnected, ClientID: c.ID()})
	}
}

// Candidates lists clients currently searching and unmatched, excluding self.
func (h *Hub) Candidates(selfID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, 0, len(h.searching))
	for id, searching := range h.searching {
		if id == selfID || !searching {
			continue
		}
		if _, paired := h.pairs[id]; paired {
			continue
		}
		out = append(out, id)
	}
	return out
}

// PairedPeer returns the peer this client is paired with, or "".
func (h *Hub) PairedPeer(selfID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pairs[selfID]
}

// Pair atomically claims peerID for selfID. Both sides must still be
// searching and unmatched; on success the peer's controller is told about
// the pairing so both sides converge on the same descriptor.
func (h *Hub) Pair(selfID, peerID string) bool {
	h.mu.Lock()
	peer, ok := h.clients[peerID]
	if !ok || !h.searching[selfID] || !h.searching[peerID] {
		h.mu.Unlock()
		return false
	}
	if _, paired := h.pairs[selfID]; paired {
		h.mu.Unlock()
		return false
	}
	if _, paired := h.pairs[peerID]; paired {
		h.mu.Unlock()
		return false
	}

	h.pairs[selfID] = peerID
	h.pairs[peerID] = selfID
	h.searching[selfID] = false
	h.searching[peerID] = false
	h.mu.Unlock()

	log.Printf("[room] paired %s with %s", selfID, peerID)
	peer.Controller().MatchedBy(selfID)
	return true
}

// Unpair dissolves the pairing in both directions. Safe when unpaired.
func (h *Hub) Unpair(selfID string) {
	h.mu.Lock()
	if peerID, ok := h.pairs[selfID]; ok {
		delete(h.pairs, selfID)
		delete(h.pairs, peerID)
	}
	h.mu.Unlock()
}

// Relay delivers a chat line to the paired peer. Returns false when the
// pairing is already gone, which callers treat as a silent drop: the two
// sides' clocks expire within a tick of each other.
func (h *Hub) Relay(selfID, text string) bool {
	h.mu.RLock()
	peerID, ok := h.pairs[selfID]
	var peer *Client
	if ok {
		peer = h.clients[peerID]
	}
	h.mu.RUnlock()

	if peer == nil {
		return false
	}
	peer.Controller().PeerChat(text)
	return true
}

// SetSearching marks whether a client is eligible for pairing.
func (h *Hub) SetSearching(selfID string, searching bool) {
	h.mu.Lock()
	if _, ok := h.clients[selfID]; ok {
		h.searching[selfID] = searching
	}
	h.mu.Unlock()
}

// SetPresence publishes a client's status record to every participant.
func (h *Hub) SetPresence(selfID string, ready, inGame bool, score int) {
	h.mu.Lock()
	if _, ok := h.clients[selfID]; !ok {
		h.mu.Unlock()
		return
	}
	h.presence[selfID] = Presence{Ready: ready, InGame: inGame, Score: score}
	all := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		all = append(all, c)
	}
	h.mu.Unlock()

	msg := PresenceMessage{
		Type:     TypePresence,
		ClientID: selfID,
		Ready:    ready,
		InGame:   inGame,
		Score:    score,
	}
	for _, c := range all {
		c.Send(msg)
	}
}

// GetPresence returns a client's current status record.
func (h *Hub) GetPresence(selfID string) (Presence, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.presence[selfID]
	return p, ok
}

func (h *Hub) othersLocked(selfID string) []*Client {
	out := make([]*Client, 0, len(h.clients))
	for id, c := range h.clients {
		if id != selfID {
			out = append(out, c)
		}
	}
	return out
}
