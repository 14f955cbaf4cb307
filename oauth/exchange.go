package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// Config identifies the Cognito hosted-UI app this service exchanges codes
// against.
type Config struct {
	// Domain is the Cognito hosted-UI domain, e.g.
	// "myapp-auth.auth.us-east-1.amazoncognito.com".
	Domain      string
	ClientID    string
	RedirectURI string

	// TokenURL overrides the Cognito-derived token endpoint. Tests point it
	// at a local server.
	TokenURL string
}

func (c Config) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return "https://" + c.Domain + "/oauth2/token"
}

// Tokens are the credentials returned by a successful code exchange.
type Tokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
}

// Exchange trades an authorization code for tokens at the Cognito token
// endpoint. Cognito wants the client_id in the form body, not basic auth.
func Exchange(ctx context.Context, cfg Config, code string) (*Tokens, error) {
	conf := &oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.tokenURL(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	if tok.AccessToken == "" || idToken == "" {
		return nil, errors.New("token response missing required tokens")
	}

	return &Tokens{
		AccessToken:  tok.AccessToken,
		IDToken:      idToken,
		RefreshToken: tok.RefreshToken,
	}, nil
}

// Claims is the subset of Cognito ID-token claims this service reads.
// RawGroups stays raw because Cognito emits either a JSON list or a single
// comma-joined string depending on how the pool is configured.
type Claims struct {
	Email     string          `json:"email"`
	Sub       string          `json:"sub"`
	Username  string          `json:"cognito:username"`
	RawGroups json.RawMessage `json:"cognito:groups"`
}

// Groups normalizes the cognito:groups claim into a list.
func (c *Claims) Groups() []string {
	if len(c.RawGroups) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(c.RawGroups, &list); err == nil {
		return list
	}

	var joined string
	if err := json.Unmarshal(c.RawGroups, &joined); err == nil && joined != "" {
		parts := strings.Split(joined, ",")
		groups := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				groups = append(groups, p)
			}
		}
		return groups
	}
	return nil
}

// IsAdmin reports membership in the Admins group.
func (c *Claims) IsAdmin() bool {
	for _, g := range c.Groups() {
		if g == "Admins" {
			return true
		}
	}
	return false
}

// DecodeIDTokenClaims decodes the payload segment of a JWT without verifying
// the signature. Signature verification happens at the fronting proxy; this
// only reads claims the proxy already vouched for.
func DecodeIDTokenClaims(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, errors.New("malformed token")
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("decode token payload: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}
	return &claims, nil
}
