package halo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/Wldc4rd/HaloClaude/internal/utils/platformerrors"
)

// expiryMargin refreshes tokens slightly before Halo expires them.
const expiryMargin = 60 * time.Second

type tokenInfo struct {
	accessToken string
	tokenType   string
	expiresAt   time.Time
}

func (t *tokenInfo) valid(now time.Time) bool {
	return t != nil && now.Before(t.expiresAt.Add(-expiryMargin))
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// AuthManager holds the process-wide Halo bearer credential, fetching it on
// first use and refreshing it near expiry. Concurrent callers needing a token
// while a refresh is outstanding await that refresh; at most one token request
// is ever in flight.
type AuthManager struct {
	clientID     string
	clientSecret string
	httpClient   *resty.Client
	log          zerolog.Logger
	now          func() time.Time

	mu    sync.RWMutex
	token *tokenInfo
}

// NewAuthManager constructs the auth manager for a Halo instance base URL.
func NewAuthManager(baseURL, clientID, clientSecret string, timeout time.Duration, log zerolog.Logger) *AuthManager {
	return &AuthManager{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
		log: log,
		now: time.Now,
	}
}

// Token returns a valid access token, refreshing it if necessary.
func (m *AuthManager) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	if m.token.valid(m.now()) {
		token := m.token.accessToken
		m.mu.RUnlock()
		return token, nil
	}
	m.mu.RUnlock()

	return m.refresh(ctx)
}

// Invalidate discards the cached token so the next call fetches a fresh one.
// Used when Halo rejects a token before its reported expiry.
func (m *AuthManager) Invalidate() {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()
}

func (m *AuthManager) refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if m.token.valid(m.now()) {
		return m.token.accessToken, nil
	}

	m.log.Debug().Msg("refreshing Halo access token")

	var result tokenResponse
	resp, err := m.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     m.clientID,
			"client_secret": m.clientSecret,
			"scope":         "all",
		}).
		SetResult(&result).
		Post("/auth/token")
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstreamAuth,
			"halo token request failed", err)
	}
	if resp.IsError() {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstreamAuth,
			fmt.Sprintf("halo token endpoint returned %d", resp.StatusCode()), nil)
	}
	if result.AccessToken == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstreamAuth,
			"halo token endpoint returned no access token", nil)
	}

	expiresIn := result.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	m.token = &tokenInfo{
		accessToken: result.AccessToken,
		tokenType:   result.TokenType,
		expiresAt:   m.now().Add(time.Duration(expiresIn) * time.Second),
	}

	m.log.Debug().Int("expires_in", expiresIn).Msg("Halo token refreshed")
	return m.token.accessToken, nil
}
