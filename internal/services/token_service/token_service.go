package services

import (
	"time"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/jwt"
)

var (
	ErrInvalidToken = jwt.ErrInvalidToken
	ErrTokenExpired = jwt.ErrTokenExpired
)

const DefaultTokenTTL = 12 * time.Hour

// TokenService issues bearer tokens for API clients that cannot keep the
// session cookie.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *TokenService) GenerateToken(admin models.Admin) (string, error) {
	return jwt.NewToken(admin, s.secret, s.now(), s.ttl)
}

func (s *TokenService) ParseToken(token string) (models.Admin, error) {
	claims, err := jwt.Parse(token, s.secret)
	if err != nil {
		return models.Admin{}, err
	}

	admin := models.Admin{Email: claims.Email}
	if claims.IssuedAt != nil {
		admin.LoginAt = claims.IssuedAt.Time.Format(time.RFC3339)
	}
	return admin, nil
}
