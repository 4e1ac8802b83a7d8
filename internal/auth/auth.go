package auth

import (
	"crypto/rsa"
	"os"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Roles recognized inside token claims.
const (
	RoleAdmin      = "ADMIN"
	RoleAccounting = "ACCOUNTING"
	RoleEmployee   = "EMPLOYEE"
	RoleDashboard  = "DASHBOARD"
)

type ctxKey int

// Key is used to store/retrieve Claims from a context.Context.
const Key ctxKey = 1

// Claims is the payload carried by access and refresh tokens.
type Claims struct {
	jwt.StandardClaims
	UserId int    `json:"user_id"`
	Role   string `json:"role"`
}

// Authorized reports whether the claims' role is one of the given roles.
func (c Claims) Authorized(roles ...string) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}

	return false
}

// Auth validates tokens signed with the service's RSA key.
type Auth struct {
	privateKey *rsa.PrivateKey
}

// New loads the RSA private key the tokens are signed with.
func New(privatePEMPath string) (*Auth, error) {
	pem, err := os.ReadFile(privatePEMPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading private pem")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, errors.Wrap(err, "parsing private pem")
	}

	return &Auth{privateKey: privateKey}, nil
}

// ValidateToken parses and verifies the token signature and expiry.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return &a.privateKey.PublicKey, nil
	})
	if err != nil {
		return Claims{}, errors.Wrap(err, "parsing token")
	}

	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	return claims, nil
}
