package identity

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Provider exposes the identity stamped onto submitted attendance events.
// An empty user id means no session is available.
type Provider interface {
	CurrentUserID() string
	CompanyID() string
	AccessToken() string
}

// TokenStore holds the backend-issued access token, persisted to a plain
// file so the agent survives restarts without re-authenticating. Session
// issuance itself happens outside the agent.
type TokenStore struct {
	mu    sync.RWMutex
	path  string
	token string
}

// NewTokenStore loads the token file if it exists.
func NewTokenStore(path string) *TokenStore {
	s := &TokenStore{path: path}
	if data, err := os.ReadFile(path); err == nil {
		s.token = strings.TrimSpace(string(data))
	}
	return s
}

// Set replaces the stored token and persists it.
func (s *TokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, []byte(token+"\n"), 0o600)
}

// Get returns the stored token, or "" when none is available.
func (s *TokenStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// TokenProvider decodes the stored access token's claims to answer identity
// queries. The signature is not verified here: the backend issued and will
// verify the token; the device only reads its own ids out of the payload.
type TokenProvider struct {
	store *TokenStore
}

// NewTokenProvider creates a provider backed by the given store.
func NewTokenProvider(store *TokenStore) *TokenProvider {
	return &TokenProvider{store: store}
}

// CurrentUserID returns the personnel id from the token claims, trying the
// claim names the backend is known to use, or "" when unavailable.
func (p *TokenProvider) CurrentUserID() string {
	tok := p.parse()
	if tok == nil {
		return ""
	}

	for _, name := range []string{
		"nameid",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier",
		"userId",
	} {
		if v, ok := tok.Get(name); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}

	// Last resort: sub, unless it carries an opaque encrypted blob.
	if sub := tok.Subject(); len(sub) > 0 && len(sub) < 128 {
		return sub
	}
	return ""
}

// CompanyID returns the company code claim, or "" when unavailable.
func (p *TokenProvider) CompanyID() string {
	tok := p.parse()
	if tok == nil {
		return ""
	}
	if v, ok := tok.Get("companyCode"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// AccessToken returns the raw bearer token for outbound requests.
func (p *TokenProvider) AccessToken() string {
	return p.store.Get()
}

func (p *TokenProvider) parse() jwt.Token {
	raw := p.store.Get()
	if raw == "" {
		return nil
	}
	tok, err := jwt.ParseInsecure([]byte(raw), jwt.WithValidate(false))
	if err != nil {
		slog.Warn("Failed to decode access token", "error", err)
		return nil
	}
	return tok
}
