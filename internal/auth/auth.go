package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/school-dashboard/internal/models"
)

// TokenTTL — срок жизни токена; сессии короткие, фронт перелогинивается сам.
const TokenTTL = 12 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims — то, что кладём в JWT. Роль и суперюзер-флаг дублируются из БД,
// но при каждом запросе пользователь перечитывается (см. middleware),
// так что отзыв прав работает без чёрных списков.
type Claims struct {
	jwt.RegisteredClaims
	Role        models.Role `json:"role"`
	IsSuperuser bool        `json:"is_superuser"`
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken — подписанный HS256-токен для пользователя.
func GenerateToken(u *models.User, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken — проверка подписи и срока, возврат claims.
func ParseToken(raw string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
