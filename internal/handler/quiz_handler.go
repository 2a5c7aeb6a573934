package handler

import (
	"net/http"

	"medquiz/internal/middleware"
	"medquiz/internal/models"
	"medquiz/internal/service"
)

// QuizHandler serves the quiz browsing and playing endpoints
type QuizHandler struct {
	content     *service.ContentService
	progression *service.ProgressionService
	perPage     int32
}

func NewQuizHandler(content *service.ContentService, progression *service.ProgressionService, perPage int32) *QuizHandler {
	return &QuizHandler{
		content:     content,
		progression: progression,
		perPage:     perPage,
	}
}

type categoryListResponse struct {
	Categories []*models.Category `json:"categories"`
	Page       int32              `json:"page"`
	PerPage    int32              `json:"per_page"`
	Total      int32              `json:"total"`
}

// ListCategories handles GET /
func (h *QuizHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r, h.perPage)
	categories, total, err := h.content.ListCategories(r.Context(), page, perPage)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categoryListResponse{
		Categories: categories,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
	})
}

// ListQuizzes handles GET /{category_id}/
func (h *QuizHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "category_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	quizzes, err := h.content.ListQuizzes(r.Context(), categoryID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

type variantView struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// questionView is the player-facing shape of a question. The correct
// choice marker and the explanations never leave the server here.
type questionView struct {
	ID       uint64        `json:"id"`
	Title    string        `json:"title"`
	Variants []variantView `json:"variants"`
}

func newQuestionView(snap *models.QuestionSnapshot) *questionView {
	if snap == nil {
		return nil
	}
	view := &questionView{
		ID:       snap.ID,
		Title:    snap.Title,
		Variants: make([]variantView, 0, len(snap.Variants)),
	}
	for _, v := range snap.Variants {
		view.Variants = append(view.Variants, variantView{ID: v.ID, Title: v.Title})
	}
	return view
}

type questionResponse struct {
	Question *questionView `json:"question,omitempty"`
	Complete bool          `json:"complete"`
}

type answerRequest struct {
	QuestionID uint64 `json:"question_id"`
	AnswerID   uint64 `json:"answer_id"`
}

// NextQuestion handles GET /{category_id}/{quiz_id}/
func (h *QuizHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quiz_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}
	user := middleware.UserFromContext(r.Context())

	question, err := h.progression.NextQuestion(r.Context(), user.ID, quizID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, questionResponse{Question: newQuestionView(question), Complete: question == nil})
}

// SubmitAnswer handles POST /{category_id}/{quiz_id}/
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quiz_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}
	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user := middleware.UserFromContext(r.Context())

	outcome, err := h.progression.SubmitAnswer(r.Context(), user.ID, quizID, req.QuestionID, req.AnswerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

// NextTrialQuestion handles GET /{category_id}/{quiz_id}/test
func (h *QuizHandler) NextTrialQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quiz_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}
	key := middleware.TrialKey(w, r)

	question, err := h.progression.NextTrialQuestion(r.Context(), key, quizID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, questionResponse{Question: newQuestionView(question), Complete: question == nil})
}

// SubmitTrialAnswer handles POST /{category_id}/{quiz_id}/test
func (h *QuizHandler) SubmitTrialAnswer(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quiz_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}
	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	key := middleware.TrialKey(w, r)

	outcome, err := h.progression.SubmitTrialAnswer(r.Context(), key, quizID, req.QuestionID, req.AnswerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}
