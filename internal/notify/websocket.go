package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/spendwise-app/SpendWise/internal/auth"
)

// TokenValidator turns a bearer token into claims.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// wsChannel delivers payloads over an accepted websocket connection.
type wsChannel struct {
	conn *websocket.Conn
}

// Send writes the encoded payload as a text frame.
func (c *wsChannel) Send(ctx context.Context, payload Payload) error {
	data, err := payload.Encode()
	if err != nil {
		return err
	}
	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("failed to write to websocket: %w", err)
	}
	return nil
}

// Close tells the client the server is going away.
func (c *wsChannel) Close() error {
	return c.conn.Close(websocket.StatusGoingAway, "server shutting down")
}

// WebsocketHandler upgrades authenticated clients and registers them as push channels.
type WebsocketHandler struct {
	registry       *Registry
	tokens         TokenValidator
	originPatterns []string
}

// NewWebsocketHandler creates the /ws handler. originPatterns are passed to
// websocket.AcceptOptions; nil only allows same-origin browsers.
func NewWebsocketHandler(registry *Registry, tokens TokenValidator, originPatterns []string) *WebsocketHandler {
	return &WebsocketHandler{registry: registry, tokens: tokens, originPatterns: originPatterns}
}

// ServeHTTP authenticates the request, accepts the websocket and holds the
// channel registered until the client disconnects.
func (h *WebsocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on a websocket handshake, so the token
	// may also come as a query parameter.
	token := r.URL.Query().Get("token")
	if token == "" {
		var err error
		if token, err = auth.BearerToken(r.Header.Get("Authorization")); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
	}

	claims, err := h.tokens.Validate(token)
	if err != nil {
		http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Warn("Websocket upgrade failed", "user_id", claims.UserID, "error", err)
		return
	}

	unregister := h.registry.Register(claims.UserID, &wsChannel{conn: conn})
	defer unregister()
	slog.Info("Push channel registered", "user_id", claims.UserID)

	// Clients never send anything; CloseRead drains control frames and
	// cancels ctx once the connection is gone.
	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()

	conn.Close(websocket.StatusNormalClosure, "")
	slog.Info("Push channel closed", "user_id", claims.UserID)
}
