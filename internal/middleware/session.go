package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// TokenParser returns the session id a token grants.
type TokenParser interface {
	ParseSession(token string) (string, error)
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// SessionToken admits a request only if its token was issued for the
// session named by the {id} path value. It must wrap a handler registered
// on a pattern with {id}, since path values are set by the router.
func SessionToken(log logrus.FieldLogger, tokens TokenParser) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "missing session token")
				return
			}
			sessionID, err := tokens.ParseSession(token)
			if err != nil {
				log.WithError(err).Debug("rejected session token")
				unauthorized(w, "invalid session token")
				return
			}
			if sessionID != r.PathValue("id") {
				unauthorized(w, "token does not grant this session")
				return
			}
			ctx := context.WithValue(r.Context(), ctxSessionID, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxSessionID).(string)
	return id, ok
}
