package usecase

import (
	"errors"
	"fmt"

	"github.com/V4T54L/leatherstore/internal/domain"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccountDeactivated is returned only after the password was verified.
	ErrAccountDeactivated = errors.New("account deactivated")
	// ErrSelfDelete prevents an administrator from deleting their own account.
	ErrSelfDelete = fmt.Errorf("%w: cannot delete your own account", domain.ErrForbidden)
)

// invalid wraps a validation message in domain.ErrInvalidInput.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}
