package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"backoffice/internal/authz"
	"backoffice/internal/models"
)

// ErrInvalidToken covers every validation failure: bad signature, malformed
// payload, expiry. Callers treat all of them as unauthenticated.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the token payload. Roles is a snapshot of the user's role names
// at issuance time.
type Claims struct {
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates bearer tokens with a server secret. The
// secret comes from configuration, which refuses to start without one.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer. ttl is the absolute token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for the user, embedding identity and role claims.
func (i *TokenIssuer) Issue(user *models.User) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		Name:  user.Name,
		Email: user.Email,
		Roles: append([]string(nil), user.Roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Validate parses and verifies a token and returns the principal it carries.
// Any failure — signature, shape, expiry — comes back as ErrInvalidToken.
func (i *TokenIssuer) Validate(tokenString string) (*authz.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &authz.Principal{
		UserID:  userID,
		Email:   claims.Email,
		Name:    claims.Name,
		Roles:   claims.Roles,
		TokenID: claims.ID,
	}, nil
}
