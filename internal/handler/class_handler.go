package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"craftopia-api/internal/middleware"
	"craftopia-api/internal/model"
	"craftopia-api/internal/repository"
	"craftopia-api/pkg/apierror"
)

// topClassesLimit is how many classes GET /sortedClass returns.
const topClassesLimit = 6

type ClassHandler struct {
	classes *repository.ClassRepository
}

func NewClassHandler(classes *repository.ClassRepository) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// Create stores a class for the calling instructor. New classes always
// start pending review.
func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.AddClassRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.AddedClass == nil {
		writeError(w, apierror.BadRequest("addedClass is required", "addedClass"))
		return
	}

	class := *payload.AddedClass
	if err := requireOwner(r, class.InstructorEmail); err != nil {
		writeError(w, err)
		return
	}
	class.Status = model.ClassStatusPending
	class.Feedback = ""

	res, err := h.classes.Insert(r.Context(), class)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classes.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, classes)
}

func (h *ClassHandler) Top(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classes.TopByEnrollment(r.Context(), topClassesLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, classes)
}

func (h *ClassHandler) ByInstructor(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := requireOwner(r, email); err != nil {
		writeError(w, err)
		return
	}

	classes, err := h.classes.ListByInstructor(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, classes)
}

func (h *ClassHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var payload model.StatusRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(payload.Status) == "" {
		writeError(w, apierror.BadRequest("status is required", "status"))
		return
	}

	res, err := h.classes.SetStatus(r.Context(), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *ClassHandler) SetFeedback(w http.ResponseWriter, r *http.Request) {
	var payload model.FeedbackRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.classes.SetFeedback(r.Context(), chi.URLParam(r, "id"), payload.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Update edits a class the caller owns. An unknown id creates the class
// under the caller, pending review.
func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload model.UpdateClassRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.UpdateInfo == nil || payload.UpdateInfo.Empty() {
		writeError(w, apierror.BadRequest("updateInfo must name at least one field", "updateInfo"))
		return
	}

	claim, ok := middleware.ClaimFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	existing, err := h.classes.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing != nil {
		if err := requireOwner(r, existing.InstructorEmail); err != nil {
			writeError(w, err)
			return
		}
	}

	owner := model.ClassOwner{InstructorEmail: claim.Email, Status: model.ClassStatusPending}
	res, err := h.classes.Update(r.Context(), id, *payload.UpdateInfo, owner)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
