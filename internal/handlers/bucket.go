package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"webucket/internal/service"
)

// BucketHandler serves bucket lifecycle and membership endpoints.
type BucketHandler struct {
	Buckets *service.BucketService
	Users   *service.UserService
	Logger  *zap.SugaredLogger
}

func NewBucketHandler(buckets *service.BucketService, users *service.UserService, logger *zap.SugaredLogger) *BucketHandler {
	return &BucketHandler{Buckets: buckets, Users: users, Logger: logger}
}

type createBucketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create returns the requester's full bucket list, not only the new bucket.
// Existing clients depend on that shape.
func (h *BucketHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	var req createBucketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	buckets, err := h.Buckets.Create(r.Context(), user, req.Title, req.Description)
	if err != nil {
		h.Logger.Warnw("Create bucket failed", "user_id", user.ID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (h *BucketHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	buckets, err := h.Buckets.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (h *BucketHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	view, err := h.Buckets.Get(r.Context(), user, chi.URLParam(r, "bucketID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *BucketHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	body, ok := decodePatch(w, r)
	if !ok {
		return
	}
	var decodeErr error
	upd := service.BucketUpdate{
		Title:       patchField[string](body, "title", &decodeErr),
		Description: patchField[string](body, "description", &decodeErr),
		Bookmarked:  patchField[bool](body, "bookmarked", &decodeErr),
	}
	if decodeErr != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	bucket, err := h.Buckets.Update(r.Context(), user, chi.URLParam(r, "bucketID"), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bucket)
}

// Delete returns the requester's remaining bucket list.
func (h *BucketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	buckets, err := h.Buckets.Delete(r.Context(), user, chi.URLParam(r, "bucketID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

type addMemberRequest struct {
	Username string `json:"username"`
}

func (h *BucketHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	members, err := h.Buckets.AddMember(r.Context(), user, chi.URLParam(r, "bucketID"), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *BucketHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	members, err := h.Buckets.Members(r.Context(), user, chi.URLParam(r, "bucketID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}
