package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationErrorMessage(t *testing.T) {
	verr := NewValidationError("name", "name is required")
	verr.Add("color", "must be a 6 digit hex color")
	require.Equal(t, "validation failed: color: must be a 6 digit hex color; name: name is required", verr.Error())
}

func TestUserSafeMessageKnownErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: brand is referenced by 3 documents", ErrConflict)
	require.Equal(t, wrapped.Error(), UserSafeMessage(wrapped))
	require.Equal(t, "forbidden", UserSafeMessage(ErrForbidden))
}

func TestUserSafeMessageCollapsesUnexpected(t *testing.T) {
	require.Equal(t, "something went wrong, please try again", UserSafeMessage(errors.New("pq: connection reset")))
}

func TestUserSafeMessageValidation(t *testing.T) {
	err := fmt.Errorf("create: %w", NewValidationError("slug", "slug is already in use"))
	require.Contains(t, UserSafeMessage(err), "slug is already in use")
}
