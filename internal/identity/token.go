package identity

import (
	"errors"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "skybook-identity"

var ErrInvalidToken = errors.New("identity: invalid token")

// Claims is the JWT payload carried as the bearer credential.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a short-lived token for id. Every call gets a new jti.
func GenerateToken(secret string, id domain.Identity, ttl time.Duration, now time.Time) (string, error) {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	claims := &Claims{
		Email: id.Email,
		Name:  id.DisplayName,
		Admin: id.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			Issuer:    issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies tokenStr and returns the identity it carries.
func ParseToken(secret, tokenStr string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &domain.Identity{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Admin:       claims.Admin,
	}, nil
}
