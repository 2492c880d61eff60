package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/logging"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// AccessTokenCookie carries the access token for browser clients.
const AccessTokenCookie = "accessToken"

type TokenParser interface {
	ParseAccess(token string) (primitive.ObjectID, error)
}

// Auth accepts an access token from the Authorization header or the
// accessToken cookie and stores the caller's ID in the request context.
func Auth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				response.Error(w, http.StatusUnauthorized, "Unauthorized request")
				return
			}

			userID, err := tokens.ParseAccess(tokenStr)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid or expired access token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = logging.ContextWithUserID(ctx, userID.Hex())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// GetUserID extracts user ID from request context. It returns the zero ID
// outside of Auth.
func GetUserID(ctx context.Context) primitive.ObjectID {
	id, _ := ctx.Value(UserIDKey).(primitive.ObjectID)
	return id
}

// WithUserID returns a context carrying userID as the authenticated caller.
func WithUserID(ctx context.Context, userID primitive.ObjectID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
