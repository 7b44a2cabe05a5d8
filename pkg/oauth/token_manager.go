// Package oauth exchanges Google service-account credentials for short-lived
// OAuth2 access tokens via the JWT bearer grant. TokenManager caches the
// current token and refreshes it shortly before expiry, and satisfies the
// fcm.TokenSource capability.
package oauth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultScope is the OAuth scope required for FCM sends.
const DefaultScope = "https://www.googleapis.com/auth/firebase.messaging"

const (
	grantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// assertionLifetime is the validity window claimed in the signed JWT;
	// one hour is the maximum Google accepts.
	assertionLifetime = time.Hour

	// expiryMargin refreshes tokens slightly early so a token handed out is
	// never on the verge of expiring mid-request.
	expiryMargin = 30 * time.Second

	maxResponseBody = 1 << 20
)

// serviceAccount mirrors the fields of a Google service-account JSON key
// that the JWT grant needs.
type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// CredentialsError reports unusable service-account credentials.
type CredentialsError struct {
	Err error
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("oauth: invalid service account credentials: %v", e.Err)
}

func (e *CredentialsError) Unwrap() error { return e.Err }

// ExchangeError reports a non-2xx response from the token endpoint.
type ExchangeError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("oauth: token endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// TokenManager acquires and caches access tokens for one service account.
//
// The mutex covers acquisition only: concurrent callers serialize while a
// token is fetched or read from cache, never across any other I/O.
type TokenManager struct {
	clientEmail string
	key         *rsa.PrivateKey
	tokenURI    string
	scope       string
	httpClient  *http.Client
	logger      *slog.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// ManagerOption configures a TokenManager.
type ManagerOption func(*TokenManager)

// WithHTTPClient replaces the default HTTP client (10s timeout).
func WithHTTPClient(httpClient *http.Client) ManagerOption {
	return func(m *TokenManager) { m.httpClient = httpClient }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *TokenManager) { m.logger = logger }
}

// WithScope overrides the OAuth scope requested in the assertion.
func WithScope(scope string) ManagerOption {
	return func(m *TokenManager) { m.scope = scope }
}

// NewTokenManagerFromFile reads service-account JSON from a file.
func NewTokenManagerFromFile(path string, opts ...ManagerOption) (*TokenManager, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &CredentialsError{Err: err}
	}
	defer f.Close()
	return NewTokenManager(f, opts...)
}

// NewTokenManager parses service-account JSON from r. The private key is
// parsed immediately to fail fast on bad credentials.
func NewTokenManager(r io.Reader, opts ...ManagerOption) (*TokenManager, error) {
	var sa serviceAccount
	if err := json.NewDecoder(r).Decode(&sa); err != nil {
		return nil, &CredentialsError{Err: fmt.Errorf("decode json: %w", err)}
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" || sa.TokenURI == "" {
		return nil, &CredentialsError{Err: errors.New("missing client_email, private_key or token_uri")}
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, &CredentialsError{Err: fmt.Errorf("parse private key: %w", err)}
	}

	m := &TokenManager{
		clientEmail: sa.ClientEmail,
		key:         key,
		tokenURI:    sa.TokenURI,
		scope:       DefaultScope,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "TokenManager")
	return m, nil
}

// Token returns the cached access token, refreshing it first when it is
// absent or within the expiry margin.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken != "" && time.Now().Add(expiryMargin).Before(m.expiresAt) {
		return m.accessToken, nil
	}
	return m.refresh(ctx)
}

func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	assertion, err := m.signAssertion()
	if err != nil {
		return "", err
	}

	form := url.Values{
		"grant_type": {grantType},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("oauth: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oauth: token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		return "", &ExchangeError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("oauth: decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", errors.New("oauth: token response carried no access_token")
	}

	m.accessToken = tr.AccessToken
	m.expiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	m.logger.Debug("access token refreshed", "expires_in_seconds", tr.ExpiresIn)
	return m.accessToken, nil
}

func (m *TokenManager) signAssertion() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   m.clientEmail,
		"scope": m.scope,
		"aud":   m.tokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("oauth: sign assertion: %w", err)
	}
	return signed, nil
}
