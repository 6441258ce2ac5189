package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/useraccounts/useraccounts-go/internal/middleware"
	"github.com/useraccounts/useraccounts-go/internal/model"
	"github.com/useraccounts/useraccounts-go/internal/service"
)

// UserManager manages user accounts.
type UserManager interface {
	Create(ctx context.Context, req model.CreateUserRequest) (int64, error)
	List(ctx context.Context) ([]model.UserResponse, error)
	FindByID(ctx context.Context, id int64) (model.UserResponse, error)
	Update(ctx context.Context, id, requesterID int64, req model.UpdateUserRequest) (int64, error)
	Delete(ctx context.Context, id, requesterID int64) (int64, error)
}

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service UserManager
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserManager, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger.With("component", "user_handler")}
}

// HandleCreate handles POST /api/v1/users requests.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.CreatedResponse{ID: id})
}

// HandleList handles GET /api/v1/users requests.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleGet handles GET /api/v1/users/{id} requests.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	user, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate handles PUT /api/v1/users/{id} requests.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	payload, ok := middleware.PayloadFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	var req model.UpdateUserRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	affected, err := h.service.Update(r.Context(), id, payload.ID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.AffectedResponse{Affected: affected})
}

// HandleDelete handles DELETE /api/v1/users/{id} requests.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	payload, ok := middleware.PayloadFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	affected, err := h.service.Delete(r.Context(), id, payload.ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.AffectedResponse{Affected: affected})
}

func (h *UserHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
	default:
		h.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
