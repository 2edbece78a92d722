package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"fruit-memory/assets"
	"fruit-memory/game"
	"fruit-memory/matcherrors"
	"fruit-memory/wsutil"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Inputs buffered between frames; extra clicks are dropped.
	commandQueueSize = 16
)

type commandKind int

const (
	cmdSelectCard commandKind = iota
	cmdNewGame
	cmdRelayout
)

// command is an input event queued by ReadPump for the frame loop.
type command struct {
	kind        commandKind
	index       int
	symbols     []string
	cardsPerRow int
}

// Client is a middleman between the websocket connection and its session.
// Only Loop touches the session, so it needs no locking.
type Client struct {
	Hub  *Hub
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	session  *game.Session
	commands chan command
	done     chan struct{}
	pending  []game.Event
	last     game.SessionView
	sentOnce bool
}

// ReadPump pumps messages from the websocket connection to the frame loop.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		close(c.done)
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.ctx.Done():
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "tag", "ws", "session", c.ID, "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Loop is the host frame loop and the session's only driver. Each frame it
// applies queued input, ticks the session with the current clock reading,
// then pushes notifications and the new view if it changed.
func (c *Client) Loop(ctx context.Context) {
	ticker := time.NewTicker(c.Hub.Config.FramePeriod())
	defer ticker.Stop()

	c.sendStarted()
	c.frame()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-ticker.C:
			c.frame()
		}
	}
}

func (c *Client) frame() {
	for drained := false; !drained; {
		select {
		case cmd := <-c.commands:
			c.apply(cmd)
		default:
			drained = true
		}
	}

	c.session.Tick(c.session.Clock().Now())

	c.flushEvents()
	view := c.session.Snapshot()
	if c.sentOnce && view.Equal(c.last) {
		return
	}
	c.last = view
	c.sentOnce = true
	c.send(SessionStateMsg{Type: "session_state", SessionView: view})
}

func (c *Client) apply(cmd command) {
	switch cmd.kind {
	case cmdSelectCard:
		res, err := c.session.SelectCard(cmd.index)
		if errors.Is(err, matcherrors.ErrIndexOutOfRange) {
			slog.Debug("select out of range", "tag", "ws", "session", c.ID, "index", cmd.index)
			c.sendError("Card index out of bounds.")
			return
		}
		if !res.Accepted {
			slog.Debug("move rejected", "tag", "ws", "session", c.ID, "index", cmd.index, "err", res.Err())
			c.sendError(res.Reason.String())
		}
	case cmdNewGame:
		var symbols []game.Symbol
		if len(cmd.symbols) > 0 {
			symbols = SymbolsOf(cmd.symbols)
		}
		if err := c.session.NewGame(symbols); err != nil {
			c.sendError("Cannot start a new game: " + err.Error())
			return
		}
		c.pending = c.pending[:0]
		slog.Info("new game", "tag", "ws", "session", c.ID, "pairs", c.session.TotalPairs())
	case cmdRelayout:
		if err := c.session.Relayout(cmd.cardsPerRow); err != nil {
			c.sendError("Cannot use " + strconv.Itoa(cmd.cardsPerRow) + " cards per row.")
			return
		}
		c.pending = c.pending[:0]
	}
}

// queueEvent is the session's notifier. It runs on the Loop goroutine.
func (c *Client) queueEvent(e game.Event) {
	c.pending = append(c.pending, e)
}

func (c *Client) flushEvents() {
	for _, e := range c.pending {
		msg := EventMsg{Type: "event", Event: e.Kind.String(), Index: e.Index, Symbol: string(e.Symbol)}
		if url, ok := c.Hub.asset(soundKey(e.Kind)); ok {
			msg.Sound = url
		}
		c.send(msg)
		if e.Kind == game.EventWin {
			slog.Info("session complete", "tag", "ws", "session", c.ID, "moves", c.session.Moves())
		}
	}
	c.pending = c.pending[:0]
}

func soundKey(k game.EventKind) string {
	switch k {
	case game.EventMatch:
		return assets.KeyMatch
	case game.EventWin:
		return assets.KeyWin
	default:
		// Turning a card back over plays the same sound as turning it up.
		return assets.KeyFlip
	}
}

func (c *Client) sendStarted() {
	msg := SessionStartedMsg{
		Type:              "session_started",
		SessionID:         c.ID,
		ResolutionDelayMS: int(c.Hub.Config.ResolutionDelay() / time.Millisecond),
	}
	msg.Background, _ = c.Hub.asset(assets.KeyBackground)
	msg.CardBack, _ = c.Hub.asset(assets.KeyCardBack)
	msg.Music, _ = c.Hub.asset(assets.KeyMusic)
	c.send(msg)
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "select_card":
		var msg SelectCardMsg
		if err := json.Unmarshal(envelope.Raw, &msg); err != nil {
			c.sendError("Invalid select_card message.")
			return
		}
		c.enqueue(command{kind: cmdSelectCard, index: msg.Index})
	case "new_game":
		var msg NewGameMsg
		if err := json.Unmarshal(envelope.Raw, &msg); err != nil {
			c.sendError("Invalid new_game message.")
			return
		}
		c.enqueue(command{kind: cmdNewGame, symbols: msg.Symbols})
	case "relayout":
		var msg RelayoutMsg
		if err := json.Unmarshal(envelope.Raw, &msg); err != nil {
			c.sendError("Invalid relayout message.")
			return
		}
		c.enqueue(command{kind: cmdRelayout, cardsPerRow: msg.CardsPerRow})
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

func (c *Client) enqueue(cmd command) {
	select {
	case c.commands <- cmd:
	default:
		c.sendError("Too many inputs; slow down.")
	}
}

func (c *Client) send(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling message", "tag", "ws", "err", err)
		return
	}
	wsutil.SafeSend(c.Send, data)
}

func (c *Client) sendError(message string) {
	c.send(ErrorMsg{Type: "error", Message: message})
}
