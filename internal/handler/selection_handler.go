package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"craftopia-api/internal/model"
	"craftopia-api/internal/repository"
	"craftopia-api/internal/store"
	"craftopia-api/pkg/apierror"
)

type SelectionHandler struct {
	selections *repository.SelectionRepository
}

func NewSelectionHandler(selections *repository.SelectionRepository) *SelectionHandler {
	return &SelectionHandler{selections: selections}
}

func (h *SelectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var selection model.Selection
	if err := decodeJSON(r, &selection); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(selection.Email) == "" {
		writeError(w, apierror.BadRequest("email is required", "email"))
		return
	}
	if err := requireOwner(r, selection.Email); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.selections.Insert(r.Context(), selection)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *SelectionHandler) ByStudent(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := requireOwner(r, email); err != nil {
		writeError(w, err)
		return
	}

	selections, err := h.selections.ListByStudent(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, selections)
}

// Delete removes one of the caller's selections. Deleting an unknown id is
// not an error; it reports zero deletions.
func (h *SelectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	selection, err := h.selections.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if selection == nil {
		writeJSON(w, http.StatusOK, store.DeleteResult{Acknowledged: true})
		return
	}
	if err := requireOwner(r, selection.Email); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.selections.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
