package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wastemap/platform-api/internal/core/domain"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// TokenService mints and validates HS256 bearer tokens. Tokens carry the
// account id and role and expire after a fixed TTL; there is no refresh,
// so expiry forces a new login.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the account.
func (s *TokenService) Issue(account *domain.Account) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"id":   account.ID,
		"role": string(account.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a token and returns the embedded account id.
// Malformed, expired, and badly signed tokens all surface as ErrInvalidToken
// so the caller cannot distinguish why verification failed.
func (s *TokenService) Verify(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidToken
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}
