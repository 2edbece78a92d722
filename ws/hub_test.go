package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fruit-memory/assets"
	"fruit-memory/config"
	"fruit-memory/game"
	"github.com/gorilla/websocket"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Symbols = []string{"Apple", "Banana"}
	cfg.ResolutionDelayMS = 50 // Short for testing
	cfg.FrameRateHz = 200
	return cfg
}

// setupTestServer starts a hub whose sessions deal the unshuffled board
// [Apple, Banana, Apple, Banana].
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testConfig()
	catalog := assets.NewCatalog("/assets", map[string]string{
		"apple":            "images/apple.png",
		assets.KeyFlip:     "sounds/flip.wav",
		assets.KeyMatch:    "sounds/match.wav",
		assets.KeyCardBack: "images/card_back.png",
	})
	hub := NewHub(cfg, catalog)
	hub.NewSession = func(n game.Notifier) (*game.Session, error) {
		return game.NewSession(game.SessionOptions{
			Symbols:         SymbolsOf(cfg.Symbols),
			CardsPerRow:     cfg.CardsPerRow,
			ResolutionDelay: cfg.ResolutionDelay(),
			Shuffle:         func(int, func(i, j int)) {},
			Notifier:        n,
			Assets:          catalog,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return server
}

func connectWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var msg map[string]interface{}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to unmarshal: %v\ndata: %s", err, string(data))
	}
	return msg
}

// readUntil reads messages until match returns true, failing after a few seconds.
func readUntil(t *testing.T, conn *websocket.Conn, match func(map[string]interface{}) bool) map[string]interface{} {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		msg := readMsg(t, conn)
		if match(msg) {
			return msg
		}
	}
	t.Fatal("timed out waiting for message")
	return nil
}

func ofType(typ string) func(map[string]interface{}) bool {
	return func(m map[string]interface{}) bool { return m["type"] == typ }
}

func sendMsg(t *testing.T, conn *websocket.Conn, msg interface{}) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
}

func TestSessionStartedAndInitialState(t *testing.T) {
	server := setupTestServer(t)
	conn := connectWS(t, server)

	started := readMsg(t, conn)
	if started["type"] != "session_started" {
		t.Fatalf("expected session_started, got %v", started["type"])
	}
	if id, _ := started["sessionId"].(string); id == "" {
		t.Error("expected a session id")
	}
	if started["cardBack"] != "/assets/images/card_back.png" {
		t.Errorf("expected card back URL, got %v", started["cardBack"])
	}
	if _, ok := started["background"]; ok {
		t.Error("missing background asset should be omitted")
	}
	if started["resolutionDelayMs"] != float64(50) {
		t.Errorf("expected resolutionDelayMs=50, got %v", started["resolutionDelayMs"])
	}

	state := readUntil(t, conn, ofType("session_state"))
	cards, _ := state["cards"].([]interface{})
	if len(cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(cards))
	}
	if state["phase"] != "idle" || state["totalPairs"] != float64(2) {
		t.Errorf("unexpected initial state: %v", state)
	}
}

func TestMatchOverWebSocket(t *testing.T) {
	server := setupTestServer(t)
	conn := connectWS(t, server)
	readUntil(t, conn, ofType("session_state"))

	sendMsg(t, conn, SelectCardMsg{Type: "select_card", Index: 0})
	flip := readUntil(t, conn, ofType("event"))
	if flip["event"] != "flip" || flip["index"] != float64(0) || flip["symbol"] != "Apple" {
		t.Errorf("unexpected flip event: %v", flip)
	}
	if flip["sound"] != "/assets/sounds/flip.wav" {
		t.Errorf("expected flip sound URL, got %v", flip["sound"])
	}

	sendMsg(t, conn, SelectCardMsg{Type: "select_card", Index: 2})
	resolving := readUntil(t, conn, func(m map[string]interface{}) bool {
		return m["type"] == "session_state" && m["phase"] == "resolving"
	})
	if resolving["moves"] != float64(1) {
		t.Errorf("expected moves=1 while resolving, got %v", resolving["moves"])
	}

	match := readUntil(t, conn, func(m map[string]interface{}) bool {
		return m["type"] == "event" && m["event"] == "match"
	})
	if match["sound"] != "/assets/sounds/match.wav" {
		t.Errorf("expected match sound URL, got %v", match["sound"])
	}

	state := readUntil(t, conn, func(m map[string]interface{}) bool {
		return m["type"] == "session_state" && m["matches"] == float64(1)
	})
	cards := state["cards"].([]interface{})
	first := cards[0].(map[string]interface{})
	if first["state"] != "matched" || first["image"] != "/assets/images/apple.png" {
		t.Errorf("expected matched apple with image, got %v", first)
	}
	second := cards[1].(map[string]interface{})
	if _, ok := second["symbol"]; ok {
		t.Errorf("hidden card should not expose its symbol, got %v", second)
	}
}

func TestThirdSelectionRejectedWhileResolving(t *testing.T) {
	server := setupTestServer(t)
	conn := connectWS(t, server)
	readUntil(t, conn, ofType("session_state"))

	sendMsg(t, conn, SelectCardMsg{Type: "select_card", Index: 0})
	sendMsg(t, conn, SelectCardMsg{Type: "select_card", Index: 1})
	sendMsg(t, conn, SelectCardMsg{Type: "select_card", Index: 2})

	errMsg := readUntil(t, conn, ofType("error"))
	if errMsg["message"] != game.RejectResolving.String() {
		t.Errorf("expected resolving rejection, got %v", errMsg["message"])
	}

	// The mismatch turns both cards back over.
	state := readUntil(t, conn, func(m map[string]interface{}) bool {
		return m["type"] == "session_state" && m["phase"] == "idle" && m["moves"] == float64(1)
	})
	for i, c := range state["cards"].([]interface{}) {
		if c.(map[string]interface{})["state"] != "hidden" {
			t.Errorf("expected card %d hidden after mismatch, got %v", i, c)
		}
	}
}

func TestInvalidMessages(t *testing.T) {
	server := setupTestServer(t)
	conn := connectWS(t, server)
	readUntil(t, conn, ofType("session_state"))

	sendMsg(t, conn, SelectCardMsg{Type: "select_card", Index: 99})
	errMsg := readUntil(t, conn, ofType("error"))
	if errMsg["message"] != "Card index out of bounds." {
		t.Errorf("expected out of bounds error, got %v", errMsg["message"])
	}

	sendMsg(t, conn, map[string]string{"type": "dance"})
	errMsg = readUntil(t, conn, ofType("error"))
	if !strings.Contains(errMsg["message"].(string), "Unknown message type") {
		t.Errorf("expected unknown type error, got %v", errMsg["message"])
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	errMsg = readUntil(t, conn, ofType("error"))
	if errMsg["message"] != "Invalid message format." {
		t.Errorf("expected format error, got %v", errMsg["message"])
	}
}

func TestNewGameAndRelayout(t *testing.T) {
	server := setupTestServer(t)
	conn := connectWS(t, server)
	readUntil(t, conn, ofType("session_state"))

	sendMsg(t, conn, NewGameMsg{Type: "new_game", Symbols: []string{"Kiwi", "Plum", "Fig"}})
	state := readUntil(t, conn, func(m map[string]interface{}) bool {
		return m["type"] == "session_state" && m["totalPairs"] == float64(3)
	})
	if len(state["cards"].([]interface{})) != 6 {
		t.Errorf("expected 6 cards, got %d", len(state["cards"].([]interface{})))
	}

	sendMsg(t, conn, RelayoutMsg{Type: "relayout", CardsPerRow: 2})
	state = readUntil(t, conn, func(m map[string]interface{}) bool {
		return m["type"] == "session_state" && m["cols"] == float64(2)
	})
	if state["rows"] != float64(3) {
		t.Errorf("expected 3 rows, got %v", state["rows"])
	}

	sendMsg(t, conn, RelayoutMsg{Type: "relayout", CardsPerRow: 0})
	errMsg := readUntil(t, conn, ofType("error"))
	if !strings.Contains(errMsg["message"].(string), "cards per row") {
		t.Errorf("expected relayout error, got %v", errMsg["message"])
	}
}

func TestSymbolsOf(t *testing.T) {
	if SymbolsOf(nil) != nil {
		t.Error("expected nil for nil input")
	}
	got := SymbolsOf([]string{"Apple", "Pear"})
	if len(got) != 2 || got[0] != "Apple" || got[1] != "Pear" {
		t.Errorf("unexpected symbols %v", got)
	}
}
