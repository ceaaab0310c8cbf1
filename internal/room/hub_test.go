package room

import (
	"testing"
	"time"

	"github.com/boucegame/HumanOrNot/internal/config"
	model "github.com/boucegame/HumanOrNot/internal/model/game"
	"github.com/boucegame/HumanOrNot/internal/model/persona"
	gamesvc "github.com/boucegame/HumanOrNot/internal/service/game"
)

func testGameConfig() config.GameConfig {
	return config.GameConfig{
		ChatDuration:     60 * time.Second,
		MatchmakingDelay: time.Millisecond,
		TypingDelayMin:   time.Millisecond,
		TypingDelayMax:   2 * time.Millisecond,
		AIMatchChance:    0,
		PointsPerCorrect: 10,
	}
}

// addClient registers a connection-less client whose controller uses the
// client itself as its output surface. Send only enqueues, so no websocket
// connection is needed.
func addClient(t *testing.T, hub *Hub, id string) *Client {
	t.Helper()

	c := NewClient(id, id, 0, hub, nil)
	ctrl := gamesvc.NewController(gamesvc.ControllerConfig{
		ClientID:      id,
		Identity:      id,
		Game:          testGameConfig(),
		Output:        c,
		Match:         hub,
		Resolver:      gamesvc.NewResolver(persona.NewMemoryStore(persona.Seed()), 0),
		Fallback:      func() string { return "hm" },
		ClockInterval: 10 * time.Millisecond,
	})
	c.BindController(ctrl)
	t.Cleanup(ctrl.Shutdown)

	hub.Register(c)
	return c
}

func waitForState(t *testing.T, c *Client, want model.State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Controller().State() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("client %s never reached state %s, stuck at %s", c.ID(), want, c.Controller().State())
}

func TestCandidatesExcludesSelfAndPaired(t *testing.T) {
	hub := NewHub(nil)
	addClient(t, hub, "a")
	addClient(t, hub, "b")
	addClient(t, hub, "c")

	hub.SetSearching("a", true)
	hub.SetSearching("b", true)

	got := hub.Candidates("a")
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected [b], got %v", got)
	}

	if !hub.Pair("a", "b") {
		t.Fatal("expected pairing to succeed")
	}
	if got := hub.Candidates("c"); len(got) != 0 {
		t.Fatalf("expected no candidates after pairing, got %v", got)
	}
}

func TestPairRequiresBothSearching(t *testing.T) {
	hub := NewHub(nil)
	addClient(t, hub, "a")
	addClient(t, hub, "b")

	hub.SetSearching("a", true)

	if hub.Pair("a", "b") {
		t.Fatal("pairing succeeded with a non-searching peer")
	}
	if hub.Pair("a", "ghost") {
		t.Fatal("pairing succeeded with an unknown peer")
	}
}

func TestPairIsExclusive(t *testing.T) {
	hub := NewHub(nil)
	addClient(t, hub, "a")
	addClient(t, hub, "b")
	addClient(t, hub, "c")

	hub.SetSearching("a", true)
	hub.SetSearching("b", true)
	hub.SetSearching("c", true)

	if !hub.Pair("a", "b") {
		t.Fatal("expected first pairing to succeed")
	}
	if hub.Pair("c", "b") {
		t.Fatal("claimed an already paired peer")
	}
	if hub.PairedPeer("a") != "b" || hub.PairedPeer("b") != "a" {
		t.Fatal("pairing not symmetric")
	}
}

func TestRelayAfterUnpairIsDropped(t *testing.T) {
	hub := NewHub(nil)
	addClient(t, hub, "a")
	addClient(t, hub, "b")

	hub.SetSearching("a", true)
	hub.SetSearching("b", true)
	if !hub.Pair("a", "b") {
		t.Fatal("expected pairing to succeed")
	}

	hub.Unpair("a")
	if hub.PairedPeer("b") != "" {
		t.Fatal("unpair left the peer mapping behind")
	}
	if hub.Relay("a", "hello") {
		t.Fatal("relay succeeded after unpair")
	}
}

func TestTwoSearchingClientsEndUpChatting(t *testing.T) {
	hub := NewHub(nil)
	a := addClient(t, hub, "a")
	b := addClient(t, hub, "b")

	a.Controller().StartSession()
	b.Controller().StartSession()

	waitForState(t, a, model.StateChatting)
	waitForState(t, b, model.StateChatting)

	sa := a.Controller().Session()
	sb := b.Controller().Session()
	if sa.Opponent.Kind != model.KindHuman || sb.Opponent.Kind != model.KindHuman {
		t.Fatalf("expected human opponents, got %s and %s", sa.Opponent.Kind, sb.Opponent.Kind)
	}
	if sa.Opponent.PeerID != "b" || sb.Opponent.PeerID != "a" {
		t.Fatalf("pairing not symmetric: %q / %q", sa.Opponent.PeerID, sb.Opponent.PeerID)
	}

	a.Controller().SendChat("hey")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(drainChat(b)) > 0 {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("peer never received the relayed message")
}

func TestUnregisterNotifiesAbandonedPeer(t *testing.T) {
	hub := NewHub(nil)
	a := addClient(t, hub, "a")
	b := addClient(t, hub, "b")

	a.Controller().StartSession()
	b.Controller().StartSession()
	waitForState(t, a, model.StateChatting)
	waitForState(t, b, model.StateChatting)

	hub.Unregister(a)

	waitForState(t, b, model.StateIdle)
	if hub.PairedPeer("b") != "" {
		t.Fatal("stale pairing after unregister")
	}
}

// drainChat pulls queued messages off the send buffer, returning any chat
// lines found.
func drainChat(c *Client) []ChatMessage {
	var out []ChatMessage
	for {
		select {
		case msg := <-c.send:
			if chat, ok := msg.(ChatMessage); ok {
				out = append(out, chat)
			}
		default:
			return out
		}
	}
}
