package services

import (
	"errors"
	"fmt"
	"time"

	"taskdesk/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims is the JWT payload. TenantID is nil for the super admin.
type AccessClaims struct {
	UserID   uuid.UUID   `json:"user_id"`
	TenantID *uuid.UUID  `json:"tenant_id,omitempty"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(userID uuid.UUID, tenantID *uuid.UUID, role models.Role) (string, error)
	Verify(tokenString string) (*AccessClaims, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &tokenService{secret: []byte(secret), ttl: ttl}
}

func (s *tokenService) Issue(userID uuid.UUID, tenantID *uuid.UUID, role models.Role) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify rejects malformed, tampered, and expired tokens, and tokens whose
// claims fall outside the role enumeration. There is no revocation list;
// issued tokens stay valid until expiry.
func (s *tokenService) Verify(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New("token missing user id")
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("unknown role in token: %q", claims.Role)
	}
	return claims, nil
}
