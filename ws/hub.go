package ws

import (
	"context"
	"log/slog"
	"net/http"

	"fruit-memory/config"
	"fruit-memory/game"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub maintains the set of active clients. Each client plays its own session.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Config     *config.Config
	Assets     game.AssetProvider

	// NewSession builds the session for a new connection; tests replace it
	// to get deterministic boards.
	NewSession func(n game.Notifier) (*game.Session, error)

	// ctx outlives individual requests and is cancelled when Run stops, ending every client loop.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a new Hub.
func NewHub(cfg *config.Config, assets game.AssetProvider) *Hub {
	h := &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Config:     cfg,
		Assets:     assets,
	}
	h.ctx, h.cancel = context.WithCancel(context.Background())
	h.NewSession = h.defaultSession
	return h
}

func (h *Hub) defaultSession(n game.Notifier) (*game.Session, error) {
	return game.NewSession(game.SessionOptions{
		Symbols:         SymbolsOf(h.Config.Symbols),
		PairMultiplier:  h.Config.PairMultiplier,
		CardsPerRow:     h.Config.CardsPerRow,
		ResolutionDelay: h.Config.ResolutionDelay(),
		Notifier:        n,
		Assets:          h.Assets,
	})
}

// asset resolves key against the hub's provider; a hub without one has no assets.
func (h *Hub) asset(key string) (string, bool) {
	if h.Assets == nil {
		return "", false
	}
	return h.Assets.Lookup(key)
}

// SymbolsOf converts configured names to game symbols.
func SymbolsOf(names []string) []game.Symbol {
	if names == nil {
		return nil
	}
	out := make([]game.Symbol, len(names))
	for i, n := range names {
		out[i] = game.Symbol(n)
	}
	return out
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled (e.g. on server shutdown), Run returns and no longer accepts new registrations.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, stopping", "tag", "ws")
			h.cancel()
			return
		case client := <-h.Register:
			h.Clients[client] = true
			slog.Info("client connected", "tag", "ws", "session", client.ID, "clients", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				slog.Info("client disconnected", "tag", "ws", "session", client.ID, "clients", len(h.Clients))
			}
		}
	}
}

// ServeWS handles WebSocket upgrade requests and starts a session for the
// new client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "tag", "ws", "err", err)
		return
	}

	client := &Client{
		Hub:      h,
		ID:       uuid.NewString(),
		Conn:     conn,
		Send:     make(chan []byte, 256),
		commands: make(chan command, commandQueueSize),
		done:     make(chan struct{}),
	}
	session, err := h.NewSession(game.NotifierFunc(client.queueEvent))
	if err != nil {
		// Bad configuration; nothing to play.
		slog.Error("cannot start session", "tag", "ws", "err", err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "invalid game configuration"))
		conn.Close()
		return
	}
	client.session = session

	select {
	case h.Register <- client:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	go client.WritePump()
	go client.Loop(h.ctx)
	go client.ReadPump()
}
