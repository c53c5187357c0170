package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

// TokenProvider is an interface for providing OAuth tokens for the Google
// Calendar API. The abstraction allows different token sources without
// changing the calendar client.
type TokenProvider interface {
	// TokenSource returns an OAuth2 token source backed by stored credentials.
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)

	// HasToken checks whether a stored token exists.
	HasToken() bool
}

// FileTokenProvider provides tokens from disk files: an OAuth client secret
// JSON plus a cached user token, matching the desktop-app authorization flow.
type FileTokenProvider struct {
	credentialsFile string
	tokenFile       string
}

// NewFileTokenProvider creates a provider reading the OAuth client
// configuration from credentialsFile and the cached token from tokenFile.
func NewFileTokenProvider(credentialsFile, tokenFile string) *FileTokenProvider {
	return &FileTokenProvider{
		credentialsFile: credentialsFile,
		tokenFile:       tokenFile,
	}
}

// OAuthConfig reads and parses the OAuth client configuration. A missing or
// malformed credentials file is a hard error so misconfiguration surfaces at
// startup rather than on the first calendar call.
func (p *FileTokenProvider) OAuthConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(p.credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", p.credentialsFile, err)
	}

	conf, err := google.ConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return conf, nil
}

// HasToken checks whether a cached token file exists.
func (p *FileTokenProvider) HasToken() bool {
	_, err := os.Stat(p.tokenFile)
	return err == nil
}

// TokenSource returns a refreshing token source for the cached token. The
// token is validated eagerly, so an expired token without a refresh token
// fails here instead of on the first API call.
func (p *FileTokenProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	conf, err := p.OAuthConfig()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("no Google OAuth token found at %s (run the auth command first): %w", p.tokenFile, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", p.tokenFile, err)
	}

	ts := conf.TokenSource(ctx, &token)
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token is invalid, re-run the auth command: %w", err)
	}

	return ts, nil
}

// AuthURL returns the URL the user must visit to authorize calendar access.
func (p *FileTokenProvider) AuthURL() (string, error) {
	conf, err := p.OAuthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline), nil
}

// Exchange trades an authorization code for a token and caches it in the
// token file with owner-only permissions.
func (p *FileTokenProvider) Exchange(ctx context.Context, authCode string) error {
	conf, err := p.OAuthConfig()
	if err != nil {
		return err
	}

	token, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(p.tokenFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", p.tokenFile, err)
	}

	return nil
}
