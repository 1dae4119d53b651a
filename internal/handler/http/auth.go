package http

import (
	"encoding/json"
	"net/http"

	"github.com/mustafayusufaksoy/camlica360/internal/handler/http/response"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/identity"
)

type AuthHandler struct {
	store    *identity.TokenStore
	identity identity.Provider
}

func NewAuthHandler(store *identity.TokenStore, provider identity.Provider) *AuthHandler {
	return &AuthHandler{store: store, identity: provider}
}

type setTokenRequest struct {
	Token string `json:"token"`
}

// SetToken installs the backend access token the agent submits with.
func (h *AuthHandler) SetToken(w http.ResponseWriter, r *http.Request) {
	var req setTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		response.BadRequest(w, "token is required", nil)
		return
	}
	if err := h.store.Set(req.Token); err != nil {
		response.InternalServerError(w, "Failed to persist token")
		return
	}

	userID := h.identity.CurrentUserID()
	if userID == "" {
		response.BadRequest(w, "Token carries no recognizable user identity", nil)
		return
	}
	response.SuccessWithMessage(w, "Token installed", map[string]string{
		"userId":      userID,
		"companyCode": h.identity.CompanyID(),
	})
}

// Me reports the identity parsed out of the installed token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := h.identity.CurrentUserID()
	if userID == "" {
		response.Unauthorized(w, "No signed-in user; provide an access token first")
		return
	}
	response.Success(w, map[string]string{
		"userId":      userID,
		"companyCode": h.identity.CompanyID(),
	})
}
