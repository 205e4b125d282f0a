// Package token issues and verifies the signed bearer tokens used for
// sessions and password resets. Tokens are HS256 JWTs; nothing is stored
// server side, so a token stays valid until it expires.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PurposeReset marks a token that may only be used to reset a password.
const PurposeReset = "reset"

var (
	// ErrMissingSecret is a startup misconfiguration.
	ErrMissingSecret = errors.New("token signing secret is empty")

	// ErrInvalidToken covers bad signatures, expiry, malformed input and
	// purpose mismatches.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the payload carried by every token.
type Claims struct {
	SubjectID string `json:"subjectId"`
	Role      string `json:"role,omitempty"`
	Purpose   string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

type Option func(*Manager)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

type Manager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewManager(secret, issuer string, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	m := &Manager{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue signs claims with an expiry of now+ttl.
func (m *Manager) Issue(claims Claims, ttl time.Duration) (string, error) {
	if claims.SubjectID == "" {
		return "", errors.New("token subject is empty")
	}

	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    m.issuer,
		Subject:   claims.SubjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry. Every failure is
// reported as ErrInvalidToken wrapping the parser's reason.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SubjectID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExpiresAt reports when a token issued now with ttl would expire.
func (m *Manager) ExpiresAt(ttl time.Duration) time.Time {
	return m.now().Add(ttl)
}

func (m *Manager) IssueSession(subjectID, role string, ttl time.Duration) (string, error) {
	return m.Issue(Claims{SubjectID: subjectID, Role: role}, ttl)
}

// VerifySession accepts only session tokens: a role must be present and no
// purpose may be set.
func (m *Manager) VerifySession(tokenString string) (*Claims, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: not a session token", ErrInvalidToken)
	}
	return claims, nil
}

func (m *Manager) IssueReset(subjectID string, ttl time.Duration) (string, error) {
	return m.Issue(Claims{SubjectID: subjectID, Purpose: PurposeReset}, ttl)
}

func (m *Manager) VerifyReset(tokenString string) (*Claims, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeReset {
		return nil, fmt.Errorf("%w: purpose %q", ErrInvalidToken, claims.Purpose)
	}
	return claims, nil
}
