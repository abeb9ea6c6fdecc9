package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role distinguishes staff sessions from customer sessions.
type Role string

const (
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// Cookie names the tokens are carried in.
const (
	StaffCookie    = "staff-token"
	CustomerCookie = "customer-token"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongRole    = errors.New("token role mismatch")
)

// Claims is the signed payload of a session token. The core treats it as
// already-verified identity input.
type Claims struct {
	UserID int64 `json:"uid"`
	Role   Role  `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret      []byte
	staffTTL    time.Duration
	customerTTL time.Duration
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(secret string, staffTTL, customerTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:      []byte(secret),
		staffTTL:    staffTTL,
		customerTTL: customerTTL,
	}
}

// Issue signs a session token for the given identity.
func (m *TokenManager) Issue(userID int64, role Role) (string, error) {
	ttl := m.customerTTL
	if role == RoleStaff {
		ttl = m.staffTTL
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses the token and checks it carries the expected role.
func (m *TokenManager) Verify(token string, role Role) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}

		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Role != role {
		return nil, ErrWrongRole
	}

	return claims, nil
}
