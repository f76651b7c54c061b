package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"webucket/internal/service"
)

// ItemHandler serves item lifecycle endpoints.
type ItemHandler struct {
	Items  *service.ItemService
	Users  *service.UserService
	Logger *zap.SugaredLogger
}

func NewItemHandler(items *service.ItemService, users *service.UserService, logger *zap.SugaredLogger) *ItemHandler {
	return &ItemHandler{Items: items, Users: users, Logger: logger}
}

type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ItemType    string `json:"item_type"`
}

// Add returns the created item.
func (h *ItemHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	view, err := h.Items.Add(r.Context(), user, chi.URLParam(r, "bucketID"), service.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ItemType:    req.ItemType,
	})
	if err != nil {
		h.Logger.Warnw("Add item failed", "user_id", user.ID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	view, err := h.Items.Get(r.Context(), user, chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Update applies a partial update; score and comment merge into the
// requester's slot of the per-user mapping.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	body, ok := decodePatch(w, r)
	if !ok {
		return
	}
	var decodeErr error
	upd := service.ItemUpdate{
		Title:       patchField[string](body, "title", &decodeErr),
		Description: patchField[string](body, "description", &decodeErr),
		Location:    patchField[string](body, "location", &decodeErr),
		Complete:    patchField[bool](body, "complete", &decodeErr),
		Score:       patchField[int](body, "score", &decodeErr),
		Comment:     patchField[string](body, "comment", &decodeErr),
	}
	if decodeErr != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	view, err := h.Items.Update(r.Context(), user, chi.URLParam(r, "itemID"), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Delete returns the remaining siblings of the deleted item's type.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	siblings, err := h.Items.Delete(r.Context(), user, chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, siblings)
}
