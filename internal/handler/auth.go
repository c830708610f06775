package handler

import (
	"log/slog"
	"net/http"

	"github.com/accountapi/accountapi-go/internal/middleware"
	"github.com/accountapi/accountapi-go/internal/model"
	"github.com/accountapi/accountapi-go/internal/service"
)

// AuthHandler handles HTTP requests for bearer tokens.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// HandleToken handles POST /api/user/token requests.
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req model.TokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.ObtainToken(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRevoke handles DELETE /api/user/token requests.
func (h *AuthHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	if err := h.service.Revoke(r.Context(), user); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "token revoked", "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}
