// Package auth implements the shared-passcode gate and session tokens.
package auth

import "context"

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (shared passcode,
// per-member passwords, OAuth, etc.) without changing the service layer code.
type Authenticator interface {
	// Authenticate verifies the credential. It returns ErrInvalidCredentials when the
	// credential does not match.
	Authenticate(ctx context.Context, credential string) error

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
