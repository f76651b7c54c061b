package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"webucket/internal/config"
	"webucket/internal/middleware"
	"webucket/internal/service"
)

// UserHandler serves registration, login and profile endpoints.
type UserHandler struct {
	Users  *service.UserService
	Logger *zap.SugaredLogger
	Config *config.Config
}

func NewUserHandler(users *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{Users: users, Logger: logger, Config: cfg}
}

type registerRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.Users.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.Logger.Warnw("Register failed", "username", req.Username, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	ttl := time.Duration(h.Config.TokenTTLMinutes) * time.Minute
	token, err := middleware.IssueToken(user.Username, h.Config.AuthSecret, ttl)
	if err != nil {
		h.Logger.Errorw("Login: token issue failed", "username", user.Username, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	body, ok := decodePatch(w, r)
	if !ok {
		return
	}
	var decodeErr error
	upd := service.UserUpdate{
		FirstName: patchField[string](body, "firstname", &decodeErr),
		LastName:  patchField[string](body, "lastname", &decodeErr),
		Email:     patchField[string](body, "email", &decodeErr),
		Password:  patchField[string](body, "password", &decodeErr),
	}
	if decodeErr != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	updated, err := h.Users.Update(r.Context(), user.ID, upd)
	if err != nil {
		h.Logger.Warnw("UpdateMe failed", "user_id", user.ID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
