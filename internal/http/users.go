package http

import (
	"net/http"

	"github.com/openfieldlab/fieldlab/internal/boundary"
	"github.com/openfieldlab/fieldlab/internal/domain"
	"github.com/openfieldlab/fieldlab/internal/service"
	"github.com/openfieldlab/fieldlab/pkg/httpx"
	"github.com/openfieldlab/fieldlab/pkg/jwtx"
)

type UsersHandler struct {
	UserService *service.UserService
}

type updateUserRequest struct {
	Username    *string        `json:"username"`
	UserDetails map[string]any `json:"userDetails"`
}

// HandleUpdate patches the user named in the path. Callers may update
// themselves; admins may update anyone.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	target := domain.UserKey{
		Email:    r.PathValue("email"),
		Platform: r.PathValue("platform"),
	}

	if !callerMayAct(r, target) {
		httpx.WriteJSON(w, http.StatusForbidden, errorResponse{
			Error:  service.ErrCodeForbidden,
			Reason: "you are not allowed to make this request",
		})
		return
	}

	var in updateUserRequest
	if err := decodeJSON(w, r, &in); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:  service.ErrCodeInvalidDocument,
			Reason: "malformed request body",
		})
		return
	}

	patch := boundary.UserPatch{
		Username: in.Username,
		Details:  in.UserDetails,
	}
	if raw, ok := in.UserDetails["password"]; ok {
		if password, ok := raw.(string); ok && password != "" {
			patch.Password = &password
		}
	}

	user, err := h.UserService.UpdateUser(r.Context(), target, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, user)
}

// HandleList returns every user. The service refuses non-admin callers.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerKey(r)
	if !ok {
		writeBearerMissing(w)
		return
	}

	users, err := h.UserService.GetAllUsers(r.Context(), caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, users)
}

// HandleDeleteAll wipes the user collection and reports the counts.
func (h *UsersHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerKey(r)
	if !ok {
		writeBearerMissing(w)
		return
	}

	res, err := h.UserService.DeleteAllUsers(r.Context(), caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, res)
}

// callerKey pulls the authenticated compound identity out of the
// request context.
func callerKey(r *http.Request) (domain.UserKey, bool) {
	email, platform, ok := httpx.IdentityFromCtx(r.Context())
	if !ok {
		return domain.UserKey{}, false
	}
	return domain.UserKey{Email: email, Platform: platform}, true
}

// callerMayAct reports whether the authenticated caller is the target
// itself or holds the admin role on its token.
func callerMayAct(r *http.Request, target domain.UserKey) bool {
	caller, ok := callerKey(r)
	if !ok {
		return false
	}
	if caller == target {
		return true
	}

	claims, ok := r.Context().Value(httpx.CtxKeyClaims).(jwtx.Claims)
	return ok && domain.Role(claims.Role) == domain.RoleAdmin
}

func writeBearerMissing(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{
		Error:  service.ErrCodeForbidden,
		Reason: "missing authenticated identity",
	})
}
