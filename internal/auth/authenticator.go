// Package auth handles operator accounts: password verification and the JWTs
// that authorize entity writes.
package auth

import (
	"context"

	"github.com/mmynk/railstats/internal/models"
)

// Authenticator registers and verifies operators. The service layer depends
// on this interface so other credential schemes can replace passwords.
type Authenticator interface {
	// Register creates a new operator account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the operator.
	// Unknown emails and wrong credentials both yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
