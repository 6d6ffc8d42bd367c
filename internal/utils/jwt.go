package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Token scopes. Full tokens are backed by an active credential session;
// restricted tokens are issued after the office cutoff and permit only the
// login-request, logout and notification-socket paths.
const (
	ScopeFull       = "full"
	ScopeRestricted = "restricted"
)

type JWTManager struct {
	Secret             []byte
	Issuer             string
	AccessTokenTTL     time.Duration
	RestrictedTokenTTL time.Duration
}

type AccessClaims struct {
	EmployeeID string `json:"sub"`
	Role       string `json:"role"`
	SessionID  string `json:"sid,omitempty"`
	Scope      string `json:"scope"`
	jwt.RegisteredClaims
}

func (m JWTManager) IssueToken(employeeID string, role string, sessionID string, scope string) (string, time.Duration, error) {
	ttl := m.AccessTokenTTL
	if scope == ScopeRestricted {
		ttl = m.RestrictedTokenTTL
	}
	if ttl == 0 {
		ttl = 12 * time.Hour
	}
	now := time.Now()
	claims := AccessClaims{
		EmployeeID: employeeID,
		Role:       role,
		SessionID:  sessionID,
		Scope:      scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   employeeID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

func (m JWTManager) ParseToken(tokenString string) (*AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Scope == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
