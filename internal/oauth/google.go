package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/Nicki-CheckM/check-certificado/internal/apperr"
	"github.com/Nicki-CheckM/check-certificado/internal/config"
)

// maxTokenResponse caps how much of the token endpoint's reply is read.
const maxTokenResponse = 1 << 20

// GoogleProvider handles Google OAuth
type GoogleProvider struct {
	cfg    *config.Config
	oauth  *oauth2.Config
	client *http.Client
}

// NewGoogleProvider creates a new Google OAuth provider. client is used for
// the token exchange; nil selects a client bounded by cfg.UpstreamTimeout.
func NewGoogleProvider(cfg *config.Config, client *http.Client) *GoogleProvider {
	if client == nil {
		client = &http.Client{Timeout: cfg.UpstreamTimeout}
	}
	return &GoogleProvider{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client: client,
	}
}

// GetAuthURL returns the Google OAuth consent URL. An empty state is omitted.
func (g *GoogleProvider) GetAuthURL(state string) (string, error) {
	if err := g.cfg.Validate(); err != nil {
		return "", err
	}
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// ExchangeCode exchanges the authorization code for tokens and returns the
// provider's JSON reply unmodified.
func (g *GoogleProvider) ExchangeCode(ctx context.Context, code string) (json.RawMessage, error) {
	const op = "oauth.ExchangeCode"
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	data := url.Values{}
	data.Set("code", code)
	data.Set("client_id", g.oauth.ClientID)
	data.Set("client_secret", g.oauth.ClientSecret)
	data.Set("redirect_uri", g.oauth.RedirectURL)
	data.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.oauth.Endpoint.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, apperr.E(op, apperr.Internal, "", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, apperr.E(op, apperr.Upstream, "token request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponse))
	if err != nil {
		return nil, apperr.E(op, apperr.Upstream, "reading token response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.E(op, apperr.Upstream, fmt.Sprintf("failed to exchange code: status %d: %s", resp.StatusCode, bytes.TrimSpace(body)), nil)
	}

	if !json.Valid(body) {
		return nil, apperr.E(op, apperr.Upstream, "token endpoint returned invalid JSON", nil)
	}

	return json.RawMessage(body), nil
}
