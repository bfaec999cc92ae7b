package app

import (
	"html/template"

	"github.com/moritalous/gradiio-cognito-bedrock/internal/auth/handler"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/auth/provider/cognito"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/chat"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/config"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/identity"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/inference"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/middleware"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/web"

	"github.com/gin-gonic/gin"
)

func setupHTTP(cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	secret := []byte(cfg.SecretKey)

	cognitoProvider, err := cognito.New(
		cfg.AuthorizationEndpoint,
		cfg.ClientID,
		cfg.RedirectURI,
		cfg.LogoutURI,
	)
	if err != nil {
		return nil, nil, err
	}

	broker := identity.NewBroker(
		infra.CognitoIdentity,
		cfg.IdentityPoolID,
		cfg.UserPoolID,
	)

	invoker := inference.NewBedrock(cfg.UserPoolRegion)

	authHandler := handler.NewHandler(cognitoProvider, infra.Sessions, secret)
	chatHandler := chat.NewHandler(broker, invoker, cognitoProvider)
	authMiddleware := middleware.NewAuthMiddleware(infra.Sessions, secret)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	router.SetHTMLTemplate(template.Must(
		template.ParseFS(web.Templates, "templates/*.html"),
	))

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected Web Routes
	// ----------------------------

	chatHandler.RegisterRoutes(router, middleware.GinRequireAuth(authMiddleware))

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, infra.cleanup, nil
}
