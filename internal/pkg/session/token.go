// internal/pkg/session/token.go
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/your-org/eventhub-storefront/internal/config"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// subject checks
var ErrInvalidToken = errors.New("invalid session token")

// Claims are the claims of a storefront session token. The subject is the
// session id.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens
type Manager struct {
	config *config.Config
	now    func() time.Time
}

// NewManager creates a new session token manager
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config: cfg,
		now:    time.Now,
	}
}

// Issue creates a new session and returns its id and signed token
func (m *Manager) Issue() (string, string, error) {
	sessionID := uuid.NewString()
	token, err := m.Sign(sessionID)
	if err != nil {
		return "", "", err
	}
	return sessionID, token, nil
}

// Sign returns a token for an existing session id
func (m *Manager) Sign(sessionID string) (string, error) {
	now := m.now().UTC()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.Session.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.config.App.Name,
			Subject:   sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.config.Session.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its session id
func (m *Manager) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.config.Session.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.config.App.Name),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: subject is not a session id", ErrInvalidToken)
	}

	return claims.Subject, nil
}
