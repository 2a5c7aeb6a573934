package handler

import (
	"net/http"

	"medquiz/internal/service"
)

// AdminHandler serves the content management and statistics endpoints.
// Every route it owns sits behind the admin-only middleware.
type AdminHandler struct {
	content *service.ContentService
	stats   *service.StatsService
}

func NewAdminHandler(content *service.ContentService, stats *service.StatsService) *AdminHandler {
	return &AdminHandler{
		content: content,
		stats:   stats,
	}
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input service.CategoryInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := h.content.CreateCategory(r.Context(), &input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "category_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	var input service.CategoryInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.content.UpdateCategory(r.Context(), id, &input); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "category_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := h.content.DeleteCategory(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var input service.QuizInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := h.content.CreateQuiz(r.Context(), &input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

func (h *AdminHandler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "quiz_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}
	var input service.QuizInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.content.UpdateQuiz(r.Context(), id, &input); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "quiz_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}
	if err := h.content.DeleteQuiz(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var input service.QuestionInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := h.content.CreateQuestion(r.Context(), &input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

func (h *AdminHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "question_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	var input struct {
		Title    string `json:"title"`
		IsActive bool   `json:"is_active"`
	}
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.content.UpdateQuestion(r.Context(), id, input.Title, input.IsActive); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "question_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	if err := h.content.DeleteQuestion(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "variant_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid variant id")
		return
	}
	var input service.VariantInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.content.UpdateVariant(r.Context(), id, &input); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// CategoryStats handles GET /admin/stats/categories/{category_id}
func (h *AdminHandler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "category_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	respondJSON(w, http.StatusOK, h.stats.CategoryStats(r.Context(), id))
}

// QuizStats handles GET /admin/stats/quizzes/{quiz_id}
func (h *AdminHandler) QuizStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "quiz_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}
	respondJSON(w, http.StatusOK, h.stats.QuizStats(r.Context(), id))
}

// QuestionStats handles GET /admin/stats/questions/{question_id}
func (h *AdminHandler) QuestionStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "question_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	respondJSON(w, http.StatusOK, h.stats.QuestionStats(r.Context(), id))
}

// UserStats handles GET /admin/stats/users/{user_id}
func (h *AdminHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	respondJSON(w, http.StatusOK, h.stats.UserStats(r.Context(), id))
}
