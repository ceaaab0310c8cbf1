package room

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	model "github.com/boucegame/HumanOrNot/internal/model/game"
	gamesvc "github.com/boucegame/HumanOrNot/internal/service/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
	sendBuffer = 64
)

// Client is one websocket participant. It implements the controller's Output
// surface by translating lifecycle events into wire messages; sends are
// buffered and never block the controller.
type Client struct {
	id       string
	identity string
	score    int
	hub      *Hub
	conn     *websocket.Conn
	send     chan any
	done     chan struct{}

	mu    sync.Mutex
	ctrl  *gamesvc.Controller
	alias string

	closeOnce sync.Once
}

// NewClient wraps an upgraded connection. BindController must be called
// before the pumps start.
func NewClient(id, identity string, score int, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:       id,
		identity: identity,
		score:    score,
		hub:      hub,
		conn:     conn,
		send:     make(chan any, sendBuffer),
		done:     make(chan struct{}),
	}
}

// BindController attaches the session controller driving this client.
func (c *Client) BindController(ctrl *gamesvc.Controller) {
	c.mu.Lock()
	c.ctrl = ctrl
	c.mu.Unlock()
}

// Controller returns the bound session controller.
func (c *Client) Controller() *gamesvc.Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl
}

func (c *Client) ID() string       { return c.id }
func (c *Client) Identity() string { return c.identity }
func (c *Client) Score() int       { return c.score }

// Send queues a message for the write pump, dropping it if the client is
// gone or its buffer is full rather than blocking the caller.
func (c *Client) Send(msg any) {
	select {
	case <-c.done:
	case c.send <- msg:
		c.countMessage("out", msg)
	default:
		log.Printf("[room] send buffer full, dropping message for client=%s", c.id)
	}
}

func (c *Client) countMessage(direction string, msg any) {
	if c.hub == nil || c.hub.metrics == nil {
		return
	}
	c.hub.metrics.WSMessages.WithLabelValues(direction, messageType(msg)).Inc()
}

func messageType(msg any) string {
	switch m := msg.(type) {
	case Envelope:
		return string(m.Type)
	case ChatMessage:
		return string(m.Type)
	case GuessMessage:
		return string(m.Type)
	case ConnectedMessage:
		return string(m.Type)
	case DisconnectedMessage:
		return string(m.Type)
	case MatchFoundMessage:
		return string(m.Type)
	case TimeUpMessage:
		return string(m.Type)
	case SystemMessage:
		return string(m.Type)
	case TypingMessage:
		return string(m.Type)
	case TickMessage:
		return string(m.Type)
	case ScreenMessage:
		return string(m.Type)
	case ResultMessage:
		return string(m.Type)
	case PresenceMessage:
		return string(m.Type)
	default:
		return "unknown"
	}
}

// Run services the connection until it closes: the read pump runs on the
// calling goroutine, the write pump on its own.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[room] read error client=%s: %v", c.id, err)
			}
			return
		}

		msg, err := ParseClientMessage(raw)
		if err != nil {
			c.Send(SystemMessage{Type: TypeSystem, Message: "unsupported message"})
			continue
		}
		c.countMessage("in", msg)
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg any) {
	ctrl := c.Controller()
	if ctrl == nil {
		return
	}

	switch m := msg.(type) {
	case Envelope:
		switch m.Type {
		case TypeStart:
			ctrl.StartSession()
		case TypeContinue:
			ctrl.Continue()
		}
	case ChatMessage:
		ctrl.SendChat(m.Message)
	case GuessMessage:
		ctrl.Decide(model.Guess(m.Choice))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.hub.Unregister(c)
		if ctrl := c.Controller(); ctrl != nil {
			ctrl.Shutdown()
		}
		close(c.done)
		c.conn.Close()
	})
}

// The methods below implement the controller's Output surface.

func (c *Client) ShowScreen(name string) {
	c.Send(ScreenMessage{Type: TypeScreen, Name: name})
}

func (c *Client) System(text string) {
	c.Send(SystemMessage{Type: TypeSystem, Message: text})
}

func (c *Client) Typing(active bool) {
	c.Send(TypingMessage{Type: TypeTyping, Active: active})
}

func (c *Client) Turn(t model.Turn) {
	sender := c.id
	if t.Side == model.SideOpponent {
		c.mu.Lock()
		sender = c.alias
		c.mu.Unlock()
	}
	c.Send(ChatMessage{Type: TypeChat, Message: t.Text, SenderID: sender})
}

func (c *Client) Tick(remaining int) {
	c.Send(TickMessage{Type: TypeTick, Remaining: remaining})
}

func (c *Client) TimeUp() {
	c.Send(TimeUpMessage{Type: TypeTimeUp})
}

func (c *Client) MatchFound(opponentAlias string) {
	c.mu.Lock()
	c.alias = opponentAlias
	c.mu.Unlock()
	c.Send(MatchFoundMessage{Type: TypeMatchFound, OpponentID: opponentAlias})
}

func (c *Client) PeerLeft(peerID string) {
	c.Send(DisconnectedMessage{Type: TypeDisconnected, ClientID: peerID})
}

func (c *Client) Result(correct bool, kind model.OpponentKind, points, total int) {
	c.Send(ResultMessage{
		Type:     TypeResult,
		Correct:  correct,
		Opponent: string(kind),
		Points:   points,
		Score:    total,
	})
}
