package handler

import (
	"net/http"
	"time"

	"medquiz/internal/middleware"
	"medquiz/internal/models"
	"medquiz/internal/service"
)

// AuthHandler serves login, logout and profile endpoints
type AuthHandler struct {
	auth     *service.AuthService
	stats    *service.StatsService
	tokenTTL time.Duration
}

func NewAuthHandler(auth *service.AuthService, stats *service.StatsService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		stats:    stats,
		tokenTTL: tokenTTL,
	}
}

type loginRequest struct {
	TgUsername string `json:"tgUsername"`
	TgID       int64  `json:"tgId"`
}

type profileResponse struct {
	User    *models.User         `json:"user"`
	Stats   *models.AnswerStats  `json:"stats"`
	Reports []*models.QuizReport `json:"reports"`
}

// Login handles POST /login. A Telegram id that does not belong to a
// registered active user is rejected; registering happens through the
// bot, never here.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, user, err := h.auth.Login(r.Context(), req.TgID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":       user.ID,
		"name":     user.Name,
		"username": user.Username,
		"is_admin": user.IsAdmin,
	})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Profile handles GET /me: the user record, their overall answer stats
// and the per-quiz reviews.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	reports, err := h.stats.UserReports(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profileResponse{
		User:    user,
		Stats:   h.stats.UserStats(r.Context(), user.ID),
		Reports: reports,
	})
}

// DeleteProfile handles POST /me/delete. The user row goes away while
// their answers stay, detached from any user.
func (h *AuthHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if err := h.auth.DeleteProfile(r.Context(), user.ID); err != nil {
		respondServiceError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
