package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
	ErrNotAdmin       = errors.New("email is not an admin")
)

type TokenType string

const TokenTypeAdmin TokenType = "admin"

const (
	issuer        = "invite-redirector"
	adminAudience = "invite-admin"
)

// AdminClaims are carried by admin API tokens
type AdminClaims struct {
	Email string    `json:"email"`
	Type  TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAdminToken(email string, ttl time.Duration) (string, error)
	ValidateAdminToken(tokenString string) (*AdminClaims, error)
}

type tokenManager struct {
	secret []byte
	admins map[string]struct{}
	now    func() time.Time
}

// NewTokenManager creates an HS256 token manager. A non-empty admins list
// restricts validation to those emails (case-insensitive).
func NewTokenManager(secret string, admins []string) TokenManager {
	m := &tokenManager{
		secret: []byte(secret),
		admins: make(map[string]struct{}, len(admins)),
		now:    time.Now,
	}
	for _, a := range admins {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			m.admins[a] = struct{}{}
		}
	}
	return m
}

func (m *tokenManager) GenerateAdminToken(email string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := AdminClaims{
		Email: strings.ToLower(email),
		Type:  TokenTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.ToLower(email),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{adminAudience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateAdminToken(tokenString string) (*AdminClaims, error) {
	if len(m.secret) == 0 {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(adminAudience), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeAdmin {
		return nil, ErrWrongTokenType
	}
	if len(m.admins) > 0 {
		if _, ok := m.admins[strings.ToLower(claims.Email)]; !ok {
			return nil, ErrNotAdmin
		}
	}
	return claims, nil
}
