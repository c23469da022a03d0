package server

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sentix/internal/config"
	"sentix/internal/db"
	"sentix/internal/logger"
)

type credentials struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type userResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

func toUserResponse(u db.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
}

type AuthHandler struct {
	queries  *db.Queries
	sessions *SessionStore
	log      *logger.Logger
}

func NewAuthHandler(q *db.Queries, s *SessionStore) *AuthHandler {
	return &AuthHandler{queries: q, sessions: s, log: logger.Named("auth")}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	if in.Username == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if len(in.Password) < config.MinPassword {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	if in.DisplayName == "" {
		in.DisplayName = in.Username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	user, err := h.queries.CreateUser(r.Context(), db.CreateUserParams{
		Username:     in.Username,
		PasswordHash: string(hash),
		DisplayName:  in.DisplayName,
	})
	if err != nil {
		h.log.Debug("register %q: %v", in.Username, err)
		writeError(w, http.StatusConflict, "Username already taken")
		return
	}

	if !h.startSession(w, user.ID) {
		return
	}
	h.log.Info("👤 Registered %s", user.Username)
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := h.queries.GetUserByUsername(r.Context(), strings.TrimSpace(in.Username))
	if err != nil {
		if !errors.Is(err, db.ErrUserNotFound) {
			h.log.Error("login lookup: %v", err)
		}
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if !h.startSession(w, user.ID) {
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		h.sessions.Delete(cookie.Value)
	}
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me returns the signed-in account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.queries.GetUser(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Sign in required")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) startSession(w http.ResponseWriter, userID int64) bool {
	token, err := h.sessions.Create(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal error")
		return false
	}
	setSessionCookie(w, token)
	return true
}
