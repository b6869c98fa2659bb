package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	sessionCookie = "user_session"

	actionConnect      = "connect"
	actionNewGame      = "game:new"
	actionTurn         = "game:turn"
	actionHistory      = "game:history"
	actionAnalyze      = "game:analyze"
	actionComputerTurn = "game:computer_turn"
)

var (
	errConnectionClosed = errors.New("connection closed")
	errSendBufferFull   = errors.New("send buffer full")
)

type gameManager interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)
	NewGame(ctx context.Context, playerID string) (*entity.Game, error)
	HumanTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	ScheduleComputerTurn(game *entity.Game)
	History(ctx context.Context, playerID string) ([]entity.MoveRecord, error)
	Analyze(ctx context.Context, playerID string) (*tictactoe.Decision, error)
}

type handlerFunc func(ctx context.Context, msg *Message, c *client) error

type Server struct {
	logger  *slog.Logger
	manager gameManager

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc

	connectionsMutex sync.RWMutex
	connections      map[string]*client
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,

		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		handlers: make(map[string]handlerFunc),

		connections: make(map[string]*client),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionTurn] = server.handleGameTurn
	server.handlers[actionHistory] = server.handleHistory
	server.handlers[actionAnalyze] = server.handleAnalyze

	return server
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		that.serveWS(ctx, w, req)
	})

	return r
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ComputerMoved - pushes the delayed computer move to the player's connection.
func (that *Server) ComputerMoved(game *entity.Game, record *entity.MoveRecord) {
	log := that.logger.With("method", "ComputerMoved", "gameID", game.ID, "playerID", game.PlayerID)

	that.connectionsMutex.RLock()
	c, ok := that.connections[game.PlayerID]
	that.connectionsMutex.RUnlock()

	if !ok {
		log.Debug("player is not connected")
		return
	}

	snapshot := *game
	if err := c.sendMessage(actionComputerTurn, Payload{Game: &snapshot, Record: record}); err != nil {
		log.Error("failed to send computer turn", "error", err)
	}
}

// serveWS - upgrades the connection and processes its messages until it closes.
func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	sessionID, header := that.session(req)

	conn, err := that.upgrader.Upgrade(w, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(conn, sessionID)

	go func() {
		defer conn.Close()

		if err := c.writePump(); err != nil {
			log.Debug("writer stopped", "error", err)
		}
	}()

	log.Info("WebSocket connection established", "session", sessionID)

	that.handleMessages(ctx, c)
	that.handleDisconnect(c)
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			_ = that.sendErrorResponse(c, message.Action, "unknown action")
			continue
		}

		if err = handler(ctx, &message, c); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) handleDisconnect(c *client) {
	c.close()

	playerID := c.boundPlayer()
	if playerID == "" {
		return
	}

	that.connectionsMutex.Lock()
	if that.connections[playerID] == c {
		delete(that.connections, playerID)
	}
	that.connectionsMutex.Unlock()

	that.logger.Info("player disconnected", "playerID", playerID)
}

func (that *Server) register(playerID string, c *client) {
	c.bind(playerID)

	that.connectionsMutex.Lock()
	previous := that.connections[playerID]
	that.connections[playerID] = c
	that.connectionsMutex.Unlock()

	if previous != nil && previous != c {
		// the newest tab owns the session
		previous.close()
	}
}

// session - the session id from the cookie, or a fresh one set on the upgrade response.
func (that *Server) session(req *http.Request) (string, http.Header) {
	cookie, err := req.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	cookie = &http.Cookie{
		Name:    sessionCookie,
		Value:   pkg.GenerateNewSessionID(),
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}

	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())

	return cookie.Value, header
}
