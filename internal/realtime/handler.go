package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/booksphere/booksphere-server/internal/config"
	"github.com/booksphere/booksphere-server/internal/domain"
	"github.com/booksphere/booksphere-server/internal/id"
)

// TokenVerifier authenticates a bearer token into a user. Satisfied by
// *service.AuthService.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*domain.User, error)
}

// Handler upgrades HTTP requests to websocket connections.
type Handler struct {
	hub        *Hub
	dispatcher *Dispatcher
	verifier   TokenVerifier
	cfg        config.RealtimeConfig
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewHandler creates the websocket endpoint handler. corsOrigin follows
// the HTTP CORS setting: "*" admits any origin.
func NewHandler(hub *Hub, dispatcher *Dispatcher, verifier TokenVerifier, cfg config.RealtimeConfig, corsOrigin string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:        hub,
		dispatcher: dispatcher,
		verifier:   verifier,
		cfg:        cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if corsOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == corsOrigin
			},
		},
		logger: logger,
	}
}

// ServeHTTP authenticates the request and takes over the connection.
// The token comes from the Authorization header, or the token query
// parameter for browser websocket clients that cannot set headers.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "authentication token required", http.StatusUnauthorized)
		return
	}

	user, err := h.verifier.VerifyAccessToken(r.Context(), token)
	if err != nil {
		h.logger.Warn("websocket authentication failed", "error", err)
		http.Error(w, "invalid authentication token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Warn("websocket upgrade failed", "user_id", user.ID, "error", err)
		return
	}

	client := &Client{
		ID:          id.MustGenerate("ws"),
		User:        user,
		ConnectedAt: time.Now(),
		conn:        conn,
		send:        make(chan []byte, h.cfg.SendBuffer),
		hub:         h.hub,
		dispatcher:  h.dispatcher,
		cfg:         h.cfg,
		logger:      h.logger,
	}

	h.hub.Register(client)

	h.hub.Send(client, MsgSyncStatus, SyncStatus{
		Status:    SyncStatusConnected,
		Message:   "connected to BookSphere",
		Timestamp: nowMillis(),
	})

	go client.writePump()
	go client.readPump(context.Background())
}

func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return token
		}
	}
	return r.URL.Query().Get("token")
}
