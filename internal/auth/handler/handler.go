package handler

import (
	"net/http"
	"time"

	"github.com/moritalous/gradiio-cognito-bedrock/internal/auth/provider"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/logger"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionTTL = 24 * time.Hour

type Handler struct {
	provider     provider.OAuthProvider
	sessionStore session.Store
	secret       []byte
}

func NewHandler(
	p provider.OAuthProvider,
	sessionStore session.Store,
	secret []byte,
) *Handler {
	return &Handler{
		provider:     p,
		sessionStore: sessionStore,
		secret:       secret,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.root)
	r.GET("/top/", h.top)
	r.GET("/callback", h.callback)
	r.GET("/logout", h.logout)
}

// root branches on session state: authenticated visitors land on the
// chat surface, everyone else on the login surface.
func (h *Handler) root(c *gin.Context) {
	if h.currentIDToken(c) != "" {
		c.Redirect(http.StatusFound, "/main/")
		return
	}
	c.Redirect(http.StatusFound, "/top/")
}

// top renders the anonymous login surface. The login control is a plain
// anchor to the provider's authorization URL.
func (h *Handler) top(c *gin.Context) {
	c.HTML(http.StatusOK, "top.html", gin.H{
		"LoginURL": h.provider.AuthCodeURL(),
	})
}

// callback is the OAuth redirect target. Whatever happens here the
// browser goes back to root; a failed or missing exchange just leaves
// the visitor anonymous.
func (h *Handler) callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	tokens, err := h.provider.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		logger.Warn("token exchange failed", map[string]any{
			"provider": h.provider.Name(),
			"error":    err.Error(),
		})
		c.Redirect(http.StatusFound, "/")
		return
	}

	if tokens.IDToken == "" {
		logger.Warn("token response missing id_token", map[string]any{
			"provider": h.provider.Name(),
		})
		c.Redirect(http.StatusFound, "/")
		return
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create session",
		})
		return
	}

	now := time.Now()
	expiresAt := now.Add(sessionTTL)

	sess := session.Session{
		SessionID: sessionID,
		IDToken:   tokens.IDToken,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to persist session",
		})
		return
	}

	session.SetCookie(c.Writer, sessionID, h.secret, expiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("login succeeded", map[string]any{
		"provider": h.provider.Name(),
		"ip":       c.ClientIP(),
	})

	c.Redirect(http.StatusFound, "/")
}

// logout clears local session state only. The provider-side logout is a
// separate client navigation via the logout anchor on the chat surface.
func (h *Handler) logout(c *gin.Context) {
	if sessionID, ok := session.ReadCookie(c.Request, h.secret); ok {
		// best-effort; the cookie is cleared either way
		_ = h.sessionStore.Delete(c.Request.Context(), sessionID)
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, "/")
}

// currentIDToken resolves the session for the request, or "" when the
// visitor is anonymous.
func (h *Handler) currentIDToken(c *gin.Context) string {
	sessionID, ok := session.ReadCookie(c.Request, h.secret)
	if !ok {
		return ""
	}

	sess, err := h.sessionStore.Get(c.Request.Context(), sessionID)
	if err != nil || sess == nil {
		return ""
	}

	if time.Now().After(sess.ExpiresAt) {
		return ""
	}

	return sess.IDToken
}
