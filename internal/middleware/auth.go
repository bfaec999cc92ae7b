package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/moritalous/gradiio-cognito-bedrock/internal/session"
)

// unexported, collision-proof context key
type idTokenContextKeyType struct{}

var idTokenKey = idTokenContextKeyType{}

// IDTokenFromContext extracts the authenticated visitor's ID token
// from context.
func IDTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(idTokenKey).(string)
	return token, ok
}

type AuthMiddleware struct {
	Store  session.Store
	Secret []byte
}

func NewAuthMiddleware(store session.Store, secret []byte) *AuthMiddleware {
	return &AuthMiddleware{Store: store, Secret: secret}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Read and authenticate session cookie
		sessionID, ok := session.ReadCookie(r, a.Secret)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 2. Load session
		sess, err := a.Store.Get(r.Context(), sessionID)
		if err != nil || sess == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 3. Enforce session expiry
		if time.Now().After(sess.ExpiresAt) {
			_ = a.Store.Delete(r.Context(), sessionID)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 4. Attach the ID token to context
		ctx := context.WithValue(r.Context(), idTokenKey, sess.IDToken)

		// 5. Continue request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
