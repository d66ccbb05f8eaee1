package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/mmynk/railstats/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-0123456789", time.Hour)
	user := models.NewUser("ops@rail.example", "Ops", "hash")

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Errorf("claims = %+v, want user %s/%s", claims, user.ID, user.Email)
	}
}

func TestJWTRejects(t *testing.T) {
	user := models.NewUser("ops@rail.example", "Ops", "hash")

	expired, err := NewJWTManager("test-secret-0123456789", -time.Minute).Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	otherKey, err := NewJWTManager("another-secret-987654", time.Hour).Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	m := NewJWTManager("test-secret-0123456789", time.Hour)
	tests := map[string]string{
		"expired":   expired,
		"wrong key": otherKey,
		"garbage":   "not.a.token",
		"empty":     "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate = %v, want ErrInvalidToken", err)
			}
		})
	}
}
