package tcgplayer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultTokenURL = "https://api.tcgplayer.com/token" //nolint:gosec // not a credential
	refreshBuffer   = 60 * time.Second
)

// ErrMissingKeys is returned when the public or private key is empty.
var ErrMissingKeys = errors.New("missing TCGplayer API keys")

// KeyTokenProvider implements TokenProvider using TCGplayer's
// client credentials flow with basic auth over the application key
// pair. Tokens are cached and refreshed when within 60 seconds of
// expiry. Safe for concurrent use.
type KeyTokenProvider struct {
	publicKey  string
	privateKey string
	tokenURL   string
	client     *http.Client

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time
}

// AuthOption configures the KeyTokenProvider.
type AuthOption func(*KeyTokenProvider)

// WithTokenURL overrides the default TCGplayer token endpoint.
func WithTokenURL(u string) AuthOption {
	return func(p *KeyTokenProvider) {
		p.tokenURL = u
	}
}

// WithAuthHTTPClient overrides the default HTTP client.
func WithAuthHTTPClient(c *http.Client) AuthOption {
	return func(p *KeyTokenProvider) {
		p.client = c
	}
}

// WithAuthNowFunc overrides the time function for testing.
func WithAuthNowFunc(f func() time.Time) AuthOption {
	return func(p *KeyTokenProvider) {
		p.nowFunc = f
	}
}

// NewKeyTokenProvider creates a token provider for the given
// application key pair.
func NewKeyTokenProvider(publicKey, privateKey string, opts ...AuthOption) *KeyTokenProvider {
	p := &KeyTokenProvider{
		publicKey:  publicKey,
		privateKey: privateKey,
		tokenURL:   defaultTokenURL,
		client:     &http.Client{Timeout: 20 * time.Second},
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a valid access token, refreshing if necessary.
func (p *KeyTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.nowFunc().Before(p.expiry.Add(-refreshBuffer)) {
		return p.token, nil
	}

	return p.refreshLocked(ctx)
}

func (p *KeyTokenProvider) refreshLocked(ctx context.Context) (string, error) {
	if p.publicKey == "" || p.privateKey == "" {
		return "", ErrMissingKeys
	}

	form := url.Values{
		"grant_type": {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	creds := base64.StdEncoding.EncodeToString([]byte(p.publicKey + ":" + p.privateKey))
	req.Header.Set("Authorization", "Basic "+creds)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}

	p.token = tokenResp.AccessToken
	p.expiry = p.nowFunc().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return p.token, nil
}
