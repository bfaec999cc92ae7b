package chat

import (
	"context"
	"net/http"

	"github.com/moritalous/gradiio-cognito-bedrock/internal/auth/provider"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/identity"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/logger"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Broker federates the session's ID token into AWS credentials.
type Broker interface {
	Federate(ctx context.Context, idToken string) (identity.Credentials, error)
}

// Invoker runs one inference call with the federated credentials.
type Invoker interface {
	Converse(ctx context.Context, creds identity.Credentials, prompt string) (string, error)
}

// Handler serves the authenticated chat surface.
type Handler struct {
	broker   Broker
	invoker  Invoker
	provider provider.OAuthProvider
}

func NewHandler(broker Broker, invoker Invoker, p provider.OAuthProvider) *Handler {
	return &Handler{
		broker:   broker,
		invoker:  invoker,
		provider: p,
	}
}

// RegisterRoutes mounts the chat surface behind the auth gate. Requests
// without a valid session never reach these handlers.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	grp := r.Group("/main", requireAuth)
	grp.GET("/", h.page)
	grp.POST("/", h.converse)
}

func (h *Handler) page(c *gin.Context) {
	c.HTML(http.StatusOK, "main.html", gin.H{
		"LogoutURL": h.provider.LogoutURL(),
		"Prompt":    "",
		"Answer":    "",
	})
}

// converse federates the session's ID token into temporary credentials,
// runs the inference call, and re-renders the page with the answer.
// Credentials live only on the stack of this request.
func (h *Handler) converse(c *gin.Context) {
	idToken, ok := middleware.IDTokenFromContext(c.Request.Context())
	if !ok || idToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "unauthorized",
		})
		return
	}

	prompt := c.PostForm("prompt")

	creds, err := h.broker.Federate(c.Request.Context(), idToken)
	if err != nil {
		logger.Error("credential federation failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "credential federation failed",
		})
		return
	}

	answer, err := h.invoker.Converse(c.Request.Context(), creds, prompt)
	if err != nil {
		logger.Error("inference call failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "inference failed",
		})
		return
	}

	c.HTML(http.StatusOK, "main.html", gin.H{
		"LogoutURL": h.provider.LogoutURL(),
		"Prompt":    prompt,
		"Answer":    answer,
	})
}
