package cognito

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/moritalous/gradiio-cognito-bedrock/internal/auth"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const providerName = "cognito"

// Provider implements the OAuth authorization-code flow against a
// Cognito hosted UI domain. The returned ID token is used as-is:
// verification is delegated to the identity federation that consumes it.
type Provider struct {
	oauthConfig *oauth2.Config
	domain      string
	clientID    string
	logoutURI   string
}

// New configures the hosted-UI provider. domain is the base URL of the
// hosted UI, e.g. https://example.auth.us-east-1.amazoncognito.com
func New(
	domain string,
	clientID string,
	redirectURI string,
	logoutURI string,
) (*Provider, error) {

	if domain == "" || clientID == "" || redirectURI == "" || logoutURI == "" {
		return nil, errors.New("cognito oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  domain + "/oauth2/authorize",
			TokenURL: domain + "/oauth2/token",
			// Public client: the client_id travels in the form body.
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{
			"email",
			oidc.ScopeOpenID,
			"phone",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		domain:      domain,
		clientID:    clientID,
		logoutURI:   logoutURI,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the hosted-UI authorization URL the login link
// navigates to.
func (p *Provider) AuthCodeURL() string {
	return p.oauthConfig.AuthCodeURL("")
}

// ExchangeCode posts the authorization code to the token endpoint with
// grant_type=authorization_code and returns the parsed response. No
// retry: a failed exchange leaves the visitor anonymous.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
) (*auth.Tokens, error) {

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("cognito token exchange failed: %w", err)
	}

	tokens := &auth.Tokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
	}

	if rawIDToken, ok := token.Extra("id_token").(string); ok {
		tokens.IDToken = rawIDToken
	}

	return tokens, nil
}

// LogoutURL builds the hosted-UI logout URL the logout link navigates
// to. The server's own /logout route only clears local session state.
func (p *Provider) LogoutURL() string {
	return p.domain + "/logout?client_id=" + url.QueryEscape(p.clientID) +
		"&logout_uri=" + url.QueryEscape(p.logoutURI)
}
