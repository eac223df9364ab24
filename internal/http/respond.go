package http

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/openfieldlab/fieldlab/internal/service"
	"github.com/openfieldlab/fieldlab/pkg/httpx"
	"github.com/openfieldlab/fieldlab/pkg/slogx"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// writeServiceError maps a service error onto the wire: not-found 404,
// bad input 400, forbidden 403, everything else 500. Internal failures
// are logged in full but leave the process as a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		slogx.FromContext(r.Context()).Error("unclassified error", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error: service.ErrCodeInternal,
		})
		return
	}

	status := statusForCategory(rich.Category)
	if status == http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteJSON(w, status, errorResponse{Error: service.ErrCodeInternal})
		return
	}

	httpx.WriteJSON(w, status, errorResponse{
		Error:  rich.TextCode,
		Reason: rich.Message,
	})
}

func statusForCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
