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

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	sendBuffer     = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

type gameUseCase interface {
	CreateGame(ctx context.Context, creatorID string) (entity.Game, error)
	JoinGame(ctx context.Context, gameID, joinerID string) (entity.Game, error)
	StartGame(ctx context.Context, gameID, playerID string) (entity.Game, error)
	MakeTurn(ctx context.Context, gameID, playerID string, cell int) (entity.Game, error)

	GetGame(ctx context.Context, gameID string) (entity.Game, error)
	Subscribe(ctx context.Context, gameID string) (<-chan entity.Game, error)
}

type handlerFunc func(ctx context.Context, client *client, payload Payload) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}

	server.handlers = map[string]handlerFunc{
		actionConnect: server.handleConnect,
		actionNew:     server.handleNewGame,
		actionJoin:    server.handleJoinGame,
		actionStart:   server.handleStartGame,
		actionTurn:    server.handleGameTurn,
		actionWatch:   server.handleWatchGame,
	}

	return server
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and runs it until either side closes.
func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade to websocket", "error", err)
		return
	}

	connCtx, cancel := context.WithCancel(ctx)
	c := newClient(conn, cancel)

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	go c.writePump(connCtx, log)
	that.readPump(connCtx, c)

	cancel()
	c.wg.Wait()

	log.Info("WebSocket connection closed", "playerID", c.getPlayerID())
}

// readPump - processes messages from the client.
func (that *Server) readPump(ctx context.Context, c *client) {
	log := that.logger.With("method", "readPump")

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var message Message
		if err := c.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var payload Payload
		if len(message.Payload) > 0 {
			if err := json.Unmarshal(message.Payload, &payload); err != nil {
				log.Warn("failed to unmarshal payload", "action", message.Action, "error", err)
				c.sendError(message.Action, "Malformed payload")
				continue
			}
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			c.sendError(actionUnknown, fmt.Sprintf("Unknown action %q", message.Action))
			continue
		}

		if err := handler(ctx, c, payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

type client struct {
	conn   *websocket.Conn
	send   chan Message
	cancel context.CancelFunc

	mu       sync.Mutex
	playerID string
	watching map[string]struct{}

	// wg tracks watch goroutines writing into send
	wg sync.WaitGroup
}

func newClient(conn *websocket.Conn, cancel context.CancelFunc) *client {
	return &client{
		conn:     conn,
		send:     make(chan Message, sendBuffer),
		cancel:   cancel,
		watching: make(map[string]struct{}),
	}
}

func (that *client) getPlayerID() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.playerID
}

func (that *client) setPlayerID(playerID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.playerID = playerID
}

// startWatching reports whether the game was not watched yet.
func (that *client) startWatching(gameID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.watching[gameID]; ok {
		return false
	}
	that.watching[gameID] = struct{}{}

	return true
}

func (that *client) sendMessage(action string, payload Payload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}

	select {
	case that.send <- Message{Action: action, Payload: raw}:
	default:
		// the peer stopped reading; drop the connection rather than block the game
		that.cancel()
	}
}

func (that *client) sendError(action, text string) {
	that.sendMessage(action, Payload{Error: text})
}

func (that *client) writePump(ctx context.Context, log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = that.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case message := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteJSON(message); err != nil {
				log.Error("failed to write message", "error", err)
				that.cancel()
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				that.cancel()
				return
			}
		}
	}
}
