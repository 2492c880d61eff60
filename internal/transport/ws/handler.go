package ws

import (
	"context"
	"net/http"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"nhooyr.io/websocket"

	"github.com/vedran77/vidtube/internal/logging"
)

// TokenParser resolves an access token to the user it was issued for.
type TokenParser interface {
	ParseAccess(token string) (primitive.ObjectID, error)
}

// ServeWS returns an HTTP handler that upgrades to WebSocket.
// Auth is done via ?token=xxx query param (WebSocket can't send headers).
func ServeWS(ctx context.Context, hub *Hub, tokens TokenParser, allowedOrigins []string) http.HandlerFunc {
	opts := &websocket.AcceptOptions{OriginPatterns: allowedOrigins}
	if slices.Contains(allowedOrigins, "*") {
		opts = &websocket.AcceptOptions{InsecureSkipVerify: true}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := tokens.ParseAccess(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			logging.Warn().Err(err).Msg("ws: accept error")
			return
		}

		client := NewClient(hub, conn, userID)
		if !hub.Register(client) {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}

		// The pumps outlive the request, so they run on the server context.
		go client.WritePump(ctx)
		go client.ReadPump(ctx)
	}
}
