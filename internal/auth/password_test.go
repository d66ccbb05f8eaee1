package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/storage/memory"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(memory.New(calculator.ComputePrice)).WithCost(bcrypt.MinCost)

	user, err := a.Register(ctx, "  Ops@Rail.Example ", "Ops", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "ops@rail.example" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "correct-horse" {
		t.Error("password stored in plain text")
	}

	t.Run("duplicate email", func(t *testing.T) {
		if _, err := a.Register(ctx, "OPS@rail.example", "Other", "another-pass"); !errors.Is(err, ErrEmailExists) {
			t.Errorf("Register = %v, want ErrEmailExists", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		if _, err := a.Register(ctx, "new@rail.example", "New", "short"); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("Register = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("password too long", func(t *testing.T) {
		long := make([]byte, MaxPasswordLength+1)
		for i := range long {
			long[i] = 'a'
		}
		if _, err := a.Register(ctx, "long@rail.example", "Long", string(long)); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("Register = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("missing email", func(t *testing.T) {
		if _, err := a.Register(ctx, "  ", "New", "long-enough"); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("Register = %v, want ErrInvalidEmail", err)
		}
	})

	t.Run("login", func(t *testing.T) {
		got, err := a.Authenticate(ctx, "ops@rail.example", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("authenticated %s, want %s", got.ID, user.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "ops@rail.example", "wrong-horse"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "ghost@rail.example", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate = %v, want ErrInvalidCredentials", err)
		}
	})
}
