package google

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testCredentials = `{
  "installed": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "client_secret": "test-secret",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`

func writeCredentials(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(testCredentials), 0o600); err != nil {
		t.Fatalf("Failed to write credentials: %v", err)
	}
	return path
}

func TestOAuthConfig(t *testing.T) {
	provider := NewFileTokenProvider(writeCredentials(t), "token.json")

	conf, err := provider.OAuthConfig()
	if err != nil {
		t.Fatalf("OAuthConfig returned error: %v", err)
	}
	if conf.ClientID != "test-client-id.apps.googleusercontent.com" {
		t.Errorf("Unexpected client id: %s", conf.ClientID)
	}
	if len(conf.Scopes) != 1 {
		t.Errorf("Expected 1 scope, got %d", len(conf.Scopes))
	}
}

func TestOAuthConfig_MissingFile(t *testing.T) {
	provider := NewFileTokenProvider(filepath.Join(t.TempDir(), "missing.json"), "token.json")

	if _, err := provider.OAuthConfig(); err == nil {
		t.Error("Expected error for missing credentials file")
	}
}

func TestOAuthConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	provider := NewFileTokenProvider(path, "token.json")

	if _, err := provider.OAuthConfig(); err == nil {
		t.Error("Expected error for malformed credentials file")
	}
}

func TestHasToken(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token.json")
	provider := NewFileTokenProvider("credentials.json", tokenFile)

	if provider.HasToken() {
		t.Error("Expected no token before the file exists")
	}

	if err := os.WriteFile(tokenFile, []byte(`{"access_token":"x"}`), 0o600); err != nil {
		t.Fatalf("Failed to write token: %v", err)
	}
	if !provider.HasToken() {
		t.Error("Expected HasToken to be true after writing the file")
	}
}

func TestTokenSource_NoToken(t *testing.T) {
	provider := NewFileTokenProvider(writeCredentials(t), filepath.Join(t.TempDir(), "token.json"))

	if _, err := provider.TokenSource(context.Background()); err == nil {
		t.Error("Expected error when no token is cached")
	}
}

func TestAuthURL(t *testing.T) {
	provider := NewFileTokenProvider(writeCredentials(t), "token.json")

	url, err := provider.AuthURL()
	if err != nil {
		t.Fatalf("AuthURL returned error: %v", err)
	}
	if url == "" {
		t.Error("Expected non-empty auth URL")
	}
}
