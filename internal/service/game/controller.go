package game

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/boucegame/HumanOrNot/internal/config"
	model "github.com/boucegame/HumanOrNot/internal/model/game"
	"github.com/boucegame/HumanOrNot/internal/model/persona"
	"github.com/boucegame/HumanOrNot/internal/observability"
	"github.com/boucegame/HumanOrNot/internal/store"
)

// Output is the presentation surface the controller drives. Implementations
// must not block: the room client backs these with a buffered send channel.
type Output interface {
	ShowScreen(name string)
	System(text string)
	Typing(active bool)
	Turn(t model.Turn)
	Tick(remaining int)
	TimeUp()
	MatchFound(opponentAlias string)
	PeerLeft(peerID string)
	Result(correct bool, kind model.OpponentKind, points, total int)
}

// Matcher is the room-level view the controller matches and relays through.
// State accessors are safe to call while holding the controller lock; the
// hub never invokes controller methods while holding its own lock.
type Matcher interface {
	// Candidates lists peers currently searching and unmatched, excluding self.
	Candidates(selfID string) []string
	// PairedPeer returns the peer this client is paired with, if any.
	PairedPeer(selfID string) string
	// Pair atomically claims peerID for selfID. Both must still be searching.
	Pair(selfID, peerID string) bool
	// Unpair dissolves the pairing in both directions.
	Unpair(selfID string)
	// Relay delivers a chat line to the paired peer. Callers must not hold
	// the controller lock: delivery is synchronous to preserve ordering.
	Relay(selfID, text string) bool
	// SetSearching marks whether this client is eligible for pairing.
	SetSearching(selfID string, searching bool)
	// SetPresence publishes the client's shared status record.
	SetPresence(selfID string, ready, inGame bool, score int)
}

// Replier produces a simulated opponent's next line.
type Replier interface {
	Reply(ctx context.Context, p persona.Persona, history []model.Turn, userText string) (string, error)
}

// Recorder is the slice of the record store the controller needs.
type Recorder interface {
	Upsert(ctx context.Context, identity string, score int) (store.PlayerRecord, error)
}

// Fallbacker supplies a canned reply when generation fails or is disabled.
type Fallbacker func() string

// Screen names driven through Output.ShowScreen.
const (
	ScreenMenu        = "menu"
	ScreenMatchmaking = "matchmaking"
	ScreenChat        = "chat"
	ScreenDecision    = "decision"
	ScreenResult      = "result"
)

// ControllerConfig wires one controller instance.
type ControllerConfig struct {
	ClientID     string
	Identity     string
	InitialScore int
	Game         config.GameConfig
	Output       Output
	Match        Matcher
	Resolver     *Resolver
	Replier      Replier // nil when the model is not configured
	Fallback     Fallbacker
	Records      Recorder
	Metrics      *observability.Metrics
	// ClockInterval overrides the one-second tick cadence in tests.
	ClockInterval time.Duration
}

// Controller owns the full session lifecycle of one connected player:
// Idle -> Matchmaking -> Chatting -> AwaitingDecision -> Result -> Idle.
// All mutation happens under mu; timer callbacks capture the session ID they
// were scheduled for and no-op when it is no longer current.
type Controller struct {
	cfg      config.GameConfig
	clientID string
	identity string
	out      Output
	match    Matcher
	resolver *Resolver
	replier  Replier
	fallback Fallbacker
	records  Recorder
	metrics  *observability.Metrics

	mu            sync.Mutex
	state         model.State
	session       model.Session
	log           *MessageLog
	clock         *Clock
	score         int
	replyPending  bool
	sessionGauged bool
	sessionCtx    context.Context
	sessionStop   context.CancelFunc
	matchTimer    *time.Timer
	typingTimer   *time.Timer
}

// NewController builds an idle controller for one connected player.
func NewController(cfg ControllerConfig) *Controller {
	fallback := cfg.Fallback
	if fallback == nil {
		fallback = func() string { return "" }
	}
	return &Controller{
		cfg:      cfg.Game,
		clientID: cfg.ClientID,
		identity: cfg.Identity,
		out:      cfg.Output,
		match:    cfg.Match,
		resolver: cfg.Resolver,
		replier:  cfg.Replier,
		fallback: fallback,
		records:  cfg.Records,
		metrics:  cfg.Metrics,
		state:    model.StateIdle,
		log:      NewMessageLog(),
		clock:    NewClock(cfg.ClockInterval),
		score:    cfg.InitialScore,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Score returns the cumulative in-memory score.
func (c *Controller) Score() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.score
}

// Session returns a copy of the current session value.
func (c *Controller) Session() model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// StartSession moves Idle -> Matchmaking and schedules match resolution
// after the configured search delay. The delay is deliberate: it gives both
// sides a visible searching phase.
func (c *Controller) StartSession() {
	c.mu.Lock()
	if c.state != model.StateIdle {
		c.mu.Unlock()
		return
	}

	c.state = model.StateMatchmaking
	c.log.Reset()
	c.clock.Cancel()
	c.resetSessionLocked()
	score := c.score
	sid := c.session.ID

	c.out.ShowScreen(ScreenMatchmaking)
	c.matchTimer = time.AfterFunc(c.cfg.MatchmakingDelay, func() {
		c.finishMatch(sid)
	})
	c.mu.Unlock()

	c.match.SetPresence(c.clientID, true, true, score)
	c.match.SetSearching(c.clientID, true)
}

// finishMatch runs when the matchmaking delay elapses.
func (c *Controller) finishMatch(sid string) {
	c.mu.Lock()
	if c.state != model.StateMatchmaking || c.session.ID != sid {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// A peer may have claimed us while we were searching.
	if peer := c.match.PairedPeer(c.clientID); peer != "" {
		c.beginChat(sid, model.Opponent{Kind: model.KindHuman, PeerID: peer})
		return
	}

	opp := c.resolver.Resolve(c.match.Candidates(c.clientID))
	if opp.Kind == model.KindHuman && !c.match.Pair(c.clientID, opp.PeerID) {
		// Candidate was claimed between selection and pairing.
		opp = c.resolver.Simulated()
	}
	if opp.Kind == model.KindSimulated {
		c.match.SetSearching(c.clientID, false)
	}

	c.beginChat(sid, opp)
}

// MatchedBy is invoked by the hub when a searching peer paired with us.
func (c *Controller) MatchedBy(peerID string) {
	c.mu.Lock()
	sid := c.session.ID
	c.mu.Unlock()

	c.beginChat(sid, model.Opponent{Kind: model.KindHuman, PeerID: peerID})
}

func (c *Controller) beginChat(sid string, opp model.Opponent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.StateMatchmaking || c.session.ID != sid {
		return
	}
	if c.matchTimer != nil {
		c.matchTimer.Stop()
		c.matchTimer = nil
	}

	// The hub pairing is authoritative: if a peer claimed us while we were
	// resolving a simulated match, the human pairing wins.
	if opp.Kind == model.KindSimulated {
		if peer := c.match.PairedPeer(c.clientID); peer != "" {
			opp = model.Opponent{Kind: model.KindHuman, PeerID: peer}
		}
	}

	c.state = model.StateChatting
	c.session.Opponent = opp
	c.sessionGauged = true
	if c.metrics != nil {
		c.metrics.ActiveSessions.Inc()
		c.metrics.MatchesTotal.WithLabelValues(string(opp.Kind)).Inc()
	}

	alias := opp.PeerID
	if opp.Kind == model.KindSimulated {
		// Opaque alias so the wire never reveals the opponent kind.
		alias = uuid.NewString()
	}
	c.out.MatchFound(alias)

	seconds := int(c.cfg.ChatDuration / time.Second)
	c.out.System(greeting(seconds))
	c.out.ShowScreen(ScreenChat)

	c.clock.Start(seconds,
		func(remaining int) { c.clockTick(sid, remaining) },
		func() { c.clockExpired(sid) },
	)
}

func (c *Controller) clockTick(sid string, remaining int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != model.StateChatting || c.session.ID != sid {
		return
	}
	c.out.Tick(remaining)
}

func (c *Controller) clockExpired(sid string) {
	c.mu.Lock()
	if c.state != model.StateChatting || c.session.ID != sid {
		c.mu.Unlock()
		return
	}

	c.cancelReplyLocked()
	c.state = model.StateAwaitingDecision
	c.out.TimeUp()
	c.out.ShowScreen(ScreenDecision)
	c.mu.Unlock()

	c.match.Unpair(c.clientID)
}

// SendChat appends the local player's message and triggers the opponent's
// reply path. Blank text is dropped silently.
func (c *Controller) SendChat(text string) {
	c.mu.Lock()
	if c.state != model.StateChatting {
		c.mu.Unlock()
		return
	}

	turn, ok := c.log.Append(model.SideLocal, text)
	if !ok {
		c.mu.Unlock()
		return
	}
	c.out.Turn(turn)

	if c.session.Opponent.Kind == model.KindSimulated {
		c.requestReplyLocked(turn.Text)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Human path: relay synchronously (without our lock) so per-sender
	// ordering is preserved by the caller's read pump.
	c.match.Relay(c.clientID, turn.Text)
}

// PeerChat is invoked by the hub with a paired human's message.
func (c *Controller) PeerChat(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.StateChatting || c.session.Opponent.Kind != model.KindHuman {
		return
	}
	if turn, ok := c.log.Append(model.SideOpponent, text); ok {
		c.out.Turn(turn)
	}
}

// requestReplyLocked schedules a simulated reply after a randomized typing
// delay. A single reply may be in flight per session: duplicate requests
// while one is pending are rejected.
func (c *Controller) requestReplyLocked(userText string) {
	if c.replyPending {
		return
	}
	c.replyPending = true

	sid := c.session.ID
	var p persona.Persona
	if c.session.Opponent.Persona != nil {
		p = *c.session.Opponent.Persona
	}

	// Last three turns of context, excluding the message being answered.
	recent := c.log.Recent(4)
	if len(recent) > 0 {
		recent = recent[:len(recent)-1]
	}

	delay := c.typingDelay()
	c.out.Typing(true)
	c.typingTimer = time.AfterFunc(delay, func() {
		c.deliverReply(sid, p, recent, userText)
	})
}

func (c *Controller) typingDelay() time.Duration {
	min := c.cfg.TypingDelayMin
	max := c.cfg.TypingDelayMax
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int64N(int64(max-min)))
}

func (c *Controller) deliverReply(sid string, p persona.Persona, history []model.Turn, userText string) {
	c.mu.Lock()
	if c.state != model.StateChatting || c.session.ID != sid {
		c.mu.Unlock()
		return
	}
	ctx := c.sessionCtx
	c.mu.Unlock()

	text := ""
	if c.replier != nil {
		reply, err := c.replier.Reply(ctx, p, history, userText)
		if err != nil {
			log.Printf("[game] reply generation failed session=%s: %v", sid, err)
			if c.metrics != nil {
				c.metrics.ReplyFallbacks.Inc()
			}
		} else {
			text = reply
		}
	}
	if text == "" {
		text = c.fallback()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != model.StateChatting || c.session.ID != sid {
		return
	}

	c.out.Typing(false)
	c.replyPending = false
	if text == "" {
		return
	}
	if turn, ok := c.log.Append(model.SideOpponent, text); ok {
		c.out.Turn(turn)
	}
}

// Decide records the player's guess. Only the first guess per session is
// honored; the score update is applied immediately and persistence happens
// in the background, never blocking or rolling back the in-memory score.
func (c *Controller) Decide(guess model.Guess) {
	c.mu.Lock()
	if c.state != model.StateAwaitingDecision || c.session.Decided {
		c.mu.Unlock()
		return
	}

	c.session.Decided = true
	c.session.Guess = guess

	correct := guess == c.session.Opponent.Kind
	points := 0
	if correct {
		points = c.cfg.PointsPerCorrect
		c.score += points
	}
	if c.metrics != nil {
		outcome := "wrong"
		if correct {
			outcome = "correct"
		}
		c.metrics.GuessesTotal.WithLabelValues(outcome).Inc()
	}

	c.state = model.StateResult
	c.out.Result(correct, c.session.Opponent.Kind, points, c.score)
	c.out.ShowScreen(ScreenResult)

	identity := c.identity
	score := c.score
	c.mu.Unlock()

	c.match.SetPresence(c.clientID, true, false, score)
	go c.persistScore(identity, score)
}

func (c *Controller) persistScore(identity string, score int) {
	if c.records == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := c.records.Upsert(ctx, identity, score); err != nil {
		// Logged only: the displayed score is already applied and stays.
		log.Printf("[game] failed to persist score identity=%s: %v", identity, err)
	}
}

// Continue returns from the result screen to the menu, keeping the score.
func (c *Controller) Continue() {
	c.mu.Lock()
	if c.state != model.StateResult {
		c.mu.Unlock()
		return
	}

	c.returnToIdleLocked()
	c.out.ShowScreen(ScreenMenu)
	score := c.score
	c.mu.Unlock()

	c.match.SetPresence(c.clientID, true, false, score)
}

// PeerDisconnected is invoked by the hub when the paired human drops
// mid-session. The session aborts straight to Idle: disconnect takes
// precedence over decision capture.
func (c *Controller) PeerDisconnected(peerID string) {
	c.mu.Lock()
	if c.state != model.StateChatting || c.session.Opponent.Kind != model.KindHuman || c.session.Opponent.PeerID != peerID {
		c.mu.Unlock()
		return
	}

	c.out.PeerLeft(peerID)
	c.out.System("Your chat partner has disconnected.")
	c.returnToIdleLocked()
	c.out.ShowScreen(ScreenMenu)
	score := c.score
	c.mu.Unlock()

	c.match.SetPresence(c.clientID, true, false, score)
}

// Shutdown releases timers and the session context when the client goes away.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	c.returnToIdleLocked()
	c.mu.Unlock()
}

// returnToIdleLocked cancels every scheduled callback and resets the session
// value. The cumulative score survives.
func (c *Controller) returnToIdleLocked() {
	c.clock.Cancel()
	c.cancelReplyLocked()
	if c.matchTimer != nil {
		c.matchTimer.Stop()
		c.matchTimer = nil
	}
	if c.sessionGauged {
		c.sessionGauged = false
		if c.metrics != nil {
			c.metrics.ActiveSessions.Dec()
		}
	}
	c.log.Reset()
	c.state = model.StateIdle
	c.session = model.Session{}
}

// cancelReplyLocked stops the typing timer and cancels any in-flight
// generation so a late callback cannot touch a retired session.
func (c *Controller) cancelReplyLocked() {
	if c.typingTimer != nil {
		c.typingTimer.Stop()
		c.typingTimer = nil
	}
	if c.sessionStop != nil {
		c.sessionStop()
		c.sessionStop = nil
		c.sessionCtx = nil
	}
	if c.replyPending {
		c.replyPending = false
		c.out.Typing(false)
	}
}

func greeting(seconds int) string {
	return fmt.Sprintf("Connection established. You have %d seconds to chat.", seconds)
}

func (c *Controller) resetSessionLocked() {
	if c.sessionStop != nil {
		c.sessionStop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.sessionCtx = ctx
	c.sessionStop = cancel
	c.session = model.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	c.replyPending = false
}
