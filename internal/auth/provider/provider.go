package provider

import (
	"context"

	"github.com/moritalous/gradiio-cognito-bedrock/internal/auth"
)

// OAuthProvider defines the contract for the external identity provider.
// Implementations return token facts only and must not perform session
// management or user decisions.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "cognito").
	Name() string

	// AuthCodeURL returns the authorization URL the login link points at.
	AuthCodeURL() string

	// ExchangeCode exchanges the authorization code at the token endpoint
	// and returns the parsed response. Callers decide what an absent
	// id_token means.
	ExchangeCode(ctx context.Context, code string) (*auth.Tokens, error)

	// LogoutURL returns the provider's logout URL the logout link points at.
	LogoutURL() string
}
