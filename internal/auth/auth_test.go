package auth

import (
	"testing"

	"github.com/Spok95/school-dashboard/internal/models"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("parol123")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "parol123") {
		t.Fatal("правильный пароль не прошёл проверку")
	}
	if CheckPassword(hash, "boshqa") {
		t.Fatal("неправильный пароль прошёл проверку")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	u := &models.User{ID: 42, Role: models.RoleTeacher}

	token, err := GenerateToken(u, secret)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseToken(token, secret)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "42" || claims.Role != models.RoleTeacher || claims.IsSuperuser {
		t.Fatalf("claims не совпали: %+v", claims)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(&models.User{ID: 1, Role: models.RoleAdmin}, []byte("one"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(token, []byte("two")); err == nil {
		t.Fatal("токен с чужой подписью должен отклоняться")
	}
	if _, err := ParseToken("garbage", []byte("one")); err == nil {
		t.Fatal("мусор вместо токена должен отклоняться")
	}
}
