package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"craftopia-api/internal/model"
	"craftopia-api/internal/repository"
	"craftopia-api/pkg/apierror"
)

type UserHandler struct {
	users *repository.UserRepository
}

func NewUserHandler(users *repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Upsert creates or refreshes the profile stored under the path email.
func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var payload model.UpsertUserRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.CurrentUser == nil {
		writeError(w, apierror.BadRequest("currentUser is required", "currentUser"))
		return
	}

	res, err := h.users.Upsert(r.Context(), email, *payload.CurrentUser)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Get answers null for an unknown email.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Instructors(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListByRole(r.Context(), model.RoleInstructor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateRoleRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	role, ok := model.ParseRole(string(payload.Role))
	if !ok {
		writeError(w, apierror.BadRequest("role must be one of Student, Instructor, Admin", "role"))
		return
	}

	res, err := h.users.SetRole(r.Context(), chi.URLParam(r, "email"), role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
