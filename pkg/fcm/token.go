package fcm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const (
	messagingScope = "https://www.googleapis.com/auth/firebase.messaging"
	grantType      = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	assertionLifetime = time.Hour
	// Cached tokens are dropped this long before their real expiry so a
	// token handed out is never already stale by the time it is used
	cacheSafetyMargin = 60 * time.Second
)

// ServiceAccount is the subset of a Firebase service-account key this
// service needs
type ServiceAccount struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// ParseServiceAccount parses a raw service-account JSON key
func ParseServiceAccount(raw []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("invalid service account JSON: %w", err)
	}
	if sa.ProjectID == "" || sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, errors.New("service account JSON missing project_id, client_email or private_key")
	}
	if sa.TokenURI == "" {
		sa.TokenURI = "https://oauth2.googleapis.com/token"
	}
	return &sa, nil
}

// LoadServiceAccountFile reads and parses a service-account key file
func LoadServiceAccountFile(path string) (*ServiceAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading service account file: %w", err)
	}
	return ParseServiceAccount(raw)
}

// TokenError means a bearer token could not be obtained. Body carries the
// provider's raw error text for the logs; without a token no dispatch is
// attempted.
type TokenError struct {
	Reason string
	Body   string
}

func (e *TokenError) Error() string {
	if e.Body == "" {
		return "fcm token acquisition failed: " + e.Reason
	}
	return "fcm token acquisition failed: " + e.Reason + ": " + e.Body
}

// TokenProvider exchanges a signed service-account assertion for a
// short-lived bearer token usable against the FCM HTTP v1 API. When a Redis
// client is supplied, tokens are cached until shortly before expiry;
// otherwise every call re-acquires.
type TokenProvider struct {
	sa     *ServiceAccount
	client *http.Client
	cache  *redis.Client
	now    func() time.Time
}

func NewTokenProvider(sa *ServiceAccount, timeout time.Duration, cache *redis.Client) *TokenProvider {
	return &TokenProvider{
		sa:     sa,
		client: &http.Client{Timeout: timeout},
		cache:  cache,
		now:    time.Now,
	}
}

// AccessToken returns a bearer token valid against the messaging API
func (p *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	if token := p.cached(ctx); token != "" {
		return token, nil
	}

	assertion, err := p.signAssertion()
	if err != nil {
		return "", &TokenError{Reason: fmt.Sprintf("signing assertion: %v", err)}
	}

	form := url.Values{
		"grant_type": {grantType},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.sa.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &TokenError{Reason: fmt.Sprintf("building request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &TokenError{Reason: fmt.Sprintf("token endpoint unreachable: %v", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &TokenError{
			Reason: fmt.Sprintf("token endpoint returned %d", resp.StatusCode),
			Body:   string(body),
		}
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &TokenError{Reason: "unparsable token response", Body: string(body)}
	}
	if tr.AccessToken == "" {
		return "", &TokenError{Reason: "token response without access_token", Body: string(body)}
	}

	p.store(ctx, tr.AccessToken, tr.ExpiresIn)
	return tr.AccessToken, nil
}

// signAssertion builds the RS256-signed JWT the token endpoint accepts:
// issuer and subject are the service identity, audience is the exchange
// endpoint itself, scoped to messaging sends, valid for one hour.
func (p *TokenProvider) signAssertion() (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(p.sa.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("parsing private key: %w", err)
	}

	now := p.now()
	claims := jwt.MapClaims{
		"iss":   p.sa.ClientEmail,
		"sub":   p.sa.ClientEmail,
		"aud":   p.sa.TokenURI,
		"scope": messagingScope,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

func (p *TokenProvider) cacheKey() string {
	return "fcm:access_token:" + p.sa.ClientEmail
}

func (p *TokenProvider) cached(ctx context.Context) string {
	if p.cache == nil {
		return ""
	}
	token, err := p.cache.Get(ctx, p.cacheKey()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("⚠️ Token cache read failed: %v", err)
		}
		return ""
	}
	return token
}

func (p *TokenProvider) store(ctx context.Context, token string, expiresIn int64) {
	if p.cache == nil {
		return
	}
	ttl := time.Duration(expiresIn)*time.Second - cacheSafetyMargin
	if ttl <= 0 {
		return
	}
	if err := p.cache.Set(ctx, p.cacheKey(), token, ttl).Err(); err != nil {
		log.Printf("⚠️ Token cache write failed: %v", err)
	}
}
