package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// GoogleClaims are the ID token claims used to create or find a user.
type GoogleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

// GoogleVerifier validates a Google ID token and returns its claims.
type GoogleVerifier interface {
	Verify(idToken string) (*GoogleClaims, error)
}

// GoogleJWKSClient verifies ID tokens against Google's published keys. The
// key set is fetched on first use and refreshed in the background.
type GoogleJWKSClient struct {
	clientID string
	jwksURL  string

	mu   sync.Mutex
	jwks *keyfunc.JWKS
}

func NewGoogleJWKSClient(clientID string) *GoogleJWKSClient {
	return &GoogleJWKSClient{clientID: clientID, jwksURL: googleJWKSURL}
}

func (c *GoogleJWKSClient) keys() (*keyfunc.JWKS, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.jwks != nil {
		return c.jwks, nil
	}

	jwks, err := keyfunc.Get(c.jwksURL, keyfunc.Options{
		RefreshInterval:   12 * time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			slog.Warn("google jwks refresh failed", "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	c.jwks = jwks
	return jwks, nil
}

func (c *GoogleJWKSClient) Verify(idToken string) (*GoogleClaims, error) {
	if c.clientID == "" {
		return nil, errors.New("google sign-in is not configured")
	}
	jwks, err := c.keys()
	if err != nil {
		return nil, err
	}

	claims := &GoogleClaims{}
	_, err = jwt.ParseWithClaims(idToken, claims, jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(c.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid google id token: %w", err)
	}
	if !validGoogleIssuer(claims.Issuer) {
		return nil, fmt.Errorf("invalid issuer: %s", claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, errors.New("missing sub claim")
	}
	return claims, nil
}

// Close stops the background refresh.
func (c *GoogleJWKSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.jwks != nil {
		c.jwks.EndBackground()
	}
}

func validGoogleIssuer(iss string) bool {
	for _, v := range googleIssuers {
		if iss == v {
			return true
		}
	}
	return false
}
