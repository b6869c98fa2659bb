package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	idlePingInterval = 30 * time.Second
	writeWait        = 10 * time.Second
	sendBuffer       = 16
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player   *entity.Player      `json:"player,omitempty"`
	Game     *entity.Game        `json:"game,omitempty"`
	Cell     *int                `json:"cell,omitempty"`
	Record   *entity.MoveRecord  `json:"record,omitempty"`
	History  []entity.MoveRecord `json:"history,omitempty"`
	Analysis *tictactoe.Decision `json:"analysis,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// client - one websocket connection. Writes go through send and are flushed
// by a single writer goroutine.
type client struct {
	conn      *websocket.Conn
	sessionID string

	send chan []byte
	done chan struct{}
	once sync.Once

	mu       sync.RWMutex
	playerID string
}

func newClient(conn *websocket.Conn, sessionID string) *client {
	return &client{
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}
}

func (that *client) bind(playerID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.playerID = playerID
}

func (that *client) boundPlayer() string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.playerID
}

func (that *client) close() {
	that.once.Do(func() { close(that.done) })
}

// sendMessage - queues the message; a slow client loses messages instead of
// blocking the game.
func (that *client) sendMessage(action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.Marshal(Message{Action: action, Payload: payloadBytes})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	select {
	case <-that.done:
		return errConnectionClosed
	default:
	}

	select {
	case that.send <- data:
		return nil
	case <-that.done:
		return errConnectionClosed
	default:
		return errSendBufferFull
	}
}

// writePump - flushes queued messages and pings an idle peer.
func (that *client) writePump() error {
	ticker := time.NewTicker(idlePingInterval)
	defer ticker.Stop()

	lastWrite := time.Now()

	for {
		select {
		case <-that.done:
			return nil
		case data := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return fmt.Errorf("failed to write message: %w", err)
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < idlePingInterval {
				continue
			}
			if err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to write ping: %w", err)
			}
			lastWrite = time.Now()
		}
	}
}
