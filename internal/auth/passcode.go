package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid passcode")
	ErrWeakPasscode       = errors.New("passcode must be at least 4 characters")
	ErrNoPasscode         = errors.New("no passcode configured")
)

// Ensure PasscodeAuthenticator implements Authenticator
var _ Authenticator = (*PasscodeAuthenticator)(nil)

// PasscodeAuthenticator checks a single passcode shared by everyone in the ledger.
// Only the bcrypt hash is kept in memory.
type PasscodeAuthenticator struct {
	hash []byte
}

// NewPasscodeAuthenticator builds an authenticator from either a bcrypt hash or a
// plain passcode. The hash wins when both are set.
func NewPasscodeAuthenticator(passcode, passcodeHash string) (*PasscodeAuthenticator, error) {
	a := &PasscodeAuthenticator{}

	switch {
	case passcodeHash != "":
		if _, err := bcrypt.Cost([]byte(passcodeHash)); err != nil {
			return nil, fmt.Errorf("invalid passcode hash: %w", err)
		}
		a.hash = []byte(passcodeHash)
	case passcode != "":
		if err := a.ValidateCredential(passcode); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash passcode: %w", err)
		}
		a.hash = hash
	default:
		return nil, ErrNoPasscode
	}

	return a, nil
}

// ValidateCredential checks if the passcode meets minimum requirements.
func (a *PasscodeAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 4 {
		return ErrWeakPasscode
	}
	return nil
}

// Authenticate compares the credential against the stored hash.
func (a *PasscodeAuthenticator) Authenticate(_ context.Context, credential string) error {
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(credential)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
