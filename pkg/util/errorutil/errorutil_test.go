package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkflowErrorsCarryDetails(t *testing.T) {
	err := NewInvalidTransition("t-1", "closed", "reassign")
	domainErr := ToDomainError(err)
	require.Equal(t, CodeInvalidTransition, domainErr.Code)
	require.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
	require.Equal(t, "closed", domainErr.Details["current_status"])
	require.Equal(t, "reassign", domainErr.Details["action"])

	err = NewUnknownTechnician("")
	require.True(t, HasCode(err, CodeUnknownTechnician))
	require.Equal(t, "technician_id required", err.Error())
	require.Equal(t, http.StatusUnprocessableEntity, ToDomainError(err).HTTPStatus)

	err = NewRoleNotPermitted("SECRETARY", "escalate")
	require.Equal(t, http.StatusForbidden, ToDomainError(err).HTTPStatus)

	err = NewAlreadyMaxPriority("t-1", "critique")
	require.Equal(t, "critique", ToDomainError(err).Details["priority"])
}

func TestHasCodeSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("assign: %w", NewUnknownTechnician("tech-9"))
	require.True(t, HasCode(wrapped, CodeUnknownTechnician))
	require.False(t, HasCode(wrapped, CodeNotFound))
	require.False(t, HasCode(errors.New("plain"), CodeInternal))
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	domainErr := ToDomainError(cause)
	require.Equal(t, CodeInternal, domainErr.Code)
	require.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	require.ErrorIs(t, domainErr, cause)

	require.Nil(t, ToDomainError(nil))
	require.NoError(t, MapError(nil))
}
