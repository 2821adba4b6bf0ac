package fcm

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testServiceAccount(t *testing.T, tokenURI string) *ServiceAccount {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating RSA key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshaling key: %v", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	return &ServiceAccount{
		ProjectID:   "teamup-test",
		ClientEmail: "notify@teamup-test.iam.gserviceaccount.com",
		PrivateKey:  string(pemKey),
		TokenURI:    tokenURI,
	}
}

func TestParseServiceAccount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"not json", "not-json", true},
		{"missing fields", `{"project_id":"p"}`, true},
		{
			"valid",
			`{"project_id":"p","client_email":"e@p.iam","private_key":"k"}`,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sa, err := ParseServiceAccount([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseServiceAccount() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && sa.TokenURI == "" {
				t.Error("TokenURI default not applied")
			}
		})
	}
}

func TestAccessToken_ExchangesSignedAssertion(t *testing.T) {
	var gotAssertion, gotGrantType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotGrantType = r.FormValue("grant_type")
		gotAssertion = r.FormValue("assertion")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "ya29.test-token",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	sa := testServiceAccount(t, srv.URL)
	provider := NewTokenProvider(sa, 5*time.Second, nil)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	provider.now = func() time.Time { return issued }

	token, err := provider.AccessToken(t.Context())
	if err != nil {
		t.Fatalf("AccessToken() unexpected error: %v", err)
	}
	if token != "ya29.test-token" {
		t.Errorf("token = %q, want ya29.test-token", token)
	}
	if gotGrantType != grantType {
		t.Errorf("grant_type = %q, want %q", gotGrantType, grantType)
	}

	// The assertion must carry the service identity and a 1-hour window
	parsed, _, err := jwt.NewParser().ParseUnverified(gotAssertion, jwt.MapClaims{})
	if err != nil {
		t.Fatalf("parsing assertion: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["iss"] != sa.ClientEmail || claims["sub"] != sa.ClientEmail {
		t.Errorf("iss/sub = %v/%v, want %s", claims["iss"], claims["sub"], sa.ClientEmail)
	}
	if claims["aud"] != sa.TokenURI {
		t.Errorf("aud = %v, want %s", claims["aud"], sa.TokenURI)
	}
	if claims["scope"] != messagingScope {
		t.Errorf("scope = %v, want %s", claims["scope"], messagingScope)
	}
	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	if iat != issued.Unix() || exp-iat != 3600 {
		t.Errorf("iat=%d exp=%d, want a 1-hour window starting at %d", iat, exp, issued.Unix())
	}
}

func TestAccessToken_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	provider := NewTokenProvider(testServiceAccount(t, srv.URL), 5*time.Second, nil)

	_, err := provider.AccessToken(t.Context())
	var te *TokenError
	if !errors.As(err, &te) {
		t.Fatalf("AccessToken() error = %v, want *TokenError", err)
	}
	if te.Body == "" {
		t.Error("TokenError must carry the provider's raw error text")
	}
}

func TestAccessToken_MissingAccessTokenField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"expires_in": 3600})
	}))
	defer srv.Close()

	provider := NewTokenProvider(testServiceAccount(t, srv.URL), 5*time.Second, nil)

	_, err := provider.AccessToken(t.Context())
	var te *TokenError
	if !errors.As(err, &te) {
		t.Fatalf("AccessToken() error = %v, want *TokenError", err)
	}
}

func TestAccessToken_MalformedPrivateKey(t *testing.T) {
	sa := testServiceAccount(t, "http://unused.invalid")
	sa.PrivateKey = "not a pem key"
	provider := NewTokenProvider(sa, 5*time.Second, nil)

	_, err := provider.AccessToken(t.Context())
	var te *TokenError
	if !errors.As(err, &te) {
		t.Fatalf("AccessToken() error = %v, want *TokenError for a malformed credential", err)
	}
}
