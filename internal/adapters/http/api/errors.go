package api

import (
	"errors"
	"net/http"

	"github.com/okian/mergington/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrMissingEmail = errors.New("email query parameter is required")
	ErrInternal     = errors.New("Internal server error") //nolint:staticcheck // ST1005: returned verbatim as the response detail
)

// statusFor maps domain errors to a status code and the detail text shown to clients.
// Wrapped context is stripped so clients only see the sentinel message.
func statusFor(err error) (int, string) {
	for _, c := range []struct {
		target error
		status int
	}{
		{model.ErrActivityNotFound, http.StatusNotFound},
		{model.ErrAlreadySignedUp, http.StatusBadRequest},
		{model.ErrNotSignedUp, http.StatusBadRequest},
		{model.ErrActivityFull, http.StatusBadRequest},
		{ErrMissingEmail, http.StatusUnprocessableEntity},
	} {
		if errors.Is(err, c.target) {
			return c.status, c.target.Error()
		}
	}
	return http.StatusInternalServerError, ErrInternal.Error()
}
