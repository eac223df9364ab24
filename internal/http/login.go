package http

import (
	"encoding/json"
	"net/http"

	"github.com/openfieldlab/fieldlab/internal/boundary"
	"github.com/openfieldlab/fieldlab/internal/service"
	"github.com/openfieldlab/fieldlab/pkg/httpx"
)

// maxBodyBytes caps request bodies; the open detail maps invite abuse
// otherwise.
const maxBodyBytes = 1 << 20

type LoginHandler struct {
	UserService *service.UserService
}

// ServeHTTP resolves an identity: admins and researchers trade their
// password for a token, participants are signed up on first contact.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in boundary.User
	if err := decodeJSON(w, r, &in); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:  service.ErrCodeInvalidDocument,
			Reason: "malformed request body",
		})
		return
	}

	res, err := h.UserService.Login(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, res)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
