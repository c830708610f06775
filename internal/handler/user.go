package handler

import (
	"log/slog"
	"net/http"

	"github.com/accountapi/accountapi-go/internal/middleware"
	"github.com/accountapi/accountapi-go/internal/model"
	"github.com/accountapi/accountapi-go/internal/service"
)

// UserHandler handles HTTP requests for account creation and the caller's profile.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// HandleCreate handles POST /api/user/create requests.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user created", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, model.NewUserResponse(user))
}

// HandleMe handles GET /api/user/me requests.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	writeJSON(w, http.StatusOK, model.NewProfileResponse(user))
}

// HandleUpdateMe handles PATCH /api/user/me requests.
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var patch model.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	updated, err := h.service.Update(r.Context(), user, patch)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.NewProfileResponse(updated))
}

// HandleReplaceMe handles PUT /api/user/me requests.
func (h *UserHandler) HandleReplaceMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.service.Replace(r.Context(), user, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.NewProfileResponse(updated))
}

// HandleList handles GET /api/admin/users requests.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	users, err := h.service.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	resp := make([]model.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, model.NewUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}
