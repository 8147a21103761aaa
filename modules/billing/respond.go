package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	core "github.com/AMR-Works/toolshub/pkg/billing"
	"github.com/AMR-Works/toolshub/pkg/httpserver"
)

// errorBody is the error shape every endpoint returns on a non-2xx status.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var errMalformedBody = errors.New("malformed request body")

func decodeJSON(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return nil
}

func respondValidationError(w http.ResponseWriter, details string) {
	httpserver.JSON(w, http.StatusBadRequest, errorBody{
		Error:   "invalid request",
		Details: details,
	})
}

// respondError maps domain errors onto HTTP statuses. Unknown errors are
// logged and reported as opaque internal failures.
func respondError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, core.ErrNotAuthenticated):
		httpserver.JSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
	case errors.Is(err, errMalformedBody),
		errors.Is(err, core.ErrInvalidVerifyRequest),
		errors.Is(err, core.ErrInvalidCheckoutAmount),
		errors.Is(err, core.ErrUnsupportedGateway),
		errors.Is(err, core.ErrPlanNotFound):
		httpserver.JSON(w, http.StatusBadRequest, errorBody{Error: "invalid request", Details: err.Error()})
	case errors.Is(err, core.ErrInvalidCallback):
		httpserver.JSON(w, http.StatusBadRequest, errorBody{Error: "payment verification failed", Details: core.ErrInvalidCallback.Error()})
	case errors.Is(err, core.ErrGatewayUnavailable):
		log.Error("payment gateway request failed", "error", err)
		httpserver.JSON(w, http.StatusBadGateway, errorBody{Error: "payment gateway unavailable"})
	case errors.Is(err, core.ErrPersistenceFailure), errors.Is(err, core.ErrConfiguration):
		log.Error("billing request failed", "error", err)
		httpserver.JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	default:
		log.Error("unexpected billing error", "error", err)
		httpserver.JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
