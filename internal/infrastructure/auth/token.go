package auth

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/padelista/padel-stats/internal/domain/user"
)

const tokenIssuer = "padel-stats"

// ErrInvalidToken marks any token that fails verification, whatever the
// underlying jwt failure was.
var ErrInvalidToken = crerr.New("invalid access token")

type accessClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, crerr.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, crerr.Newf("token ttl must be positive, got %s", ttl)
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (m *TokenManager) Issue(u user.User) (string, error) {
	now := m.now().UTC()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Username: u.Username,
		Email:    u.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", crerr.Wrap(err, "sign access token")
	}
	return signed, nil
}

// VerifyAccessToken parses and validates a token and returns the principal it
// carries. Every failure mode collapses into ErrInvalidToken so callers
// cannot leak why verification failed.
func (m *TokenManager) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, ErrInvalidToken
	}

	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return user.Principal{}, crerr.Mark(crerr.Wrap(err, "parse access token"), ErrInvalidToken)
	}
	if claims.Subject == "" {
		return user.Principal{}, ErrInvalidToken
	}

	return user.Principal{
		UserID:   claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}
