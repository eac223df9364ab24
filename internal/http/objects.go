package http

import (
	"net/http"

	"github.com/openfieldlab/fieldlab/internal/boundary"
	"github.com/openfieldlab/fieldlab/internal/service"
	"github.com/openfieldlab/fieldlab/pkg/httpx"
)

type ObjectsHandler struct {
	ObjectService *service.ObjectService
}

// HandleCreate persists a new object. createdBy is stamped from the
// token identity, whatever the body says.
func (h *ObjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerKey(r)
	if !ok {
		writeBearerMissing(w)
		return
	}

	var in boundary.Object
	if err := decodeJSON(w, r, &in); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:  service.ErrCodeInvalidDocument,
			Reason: "malformed request body",
		})
		return
	}

	in.ID = ""
	in.CreatedBy = boundary.UserID{Email: caller.Email, Platform: caller.Platform}

	created, err := h.ObjectService.CreateObject(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, created)
}
