package handler

import (
	"net/http"

	"medquiz/internal/middleware"
	"medquiz/internal/service"
)

// ResultHandler serves the quiz results pages
type ResultHandler struct {
	stats       *service.StatsService
	progression *service.ProgressionService
}

func NewResultHandler(stats *service.StatsService, progression *service.ProgressionService) *ResultHandler {
	return &ResultHandler{
		stats:       stats,
		progression: progression,
	}
}

// QuizResults handles GET /results/{quiz_id}/
func (h *ResultHandler) QuizResults(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quiz_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}
	user := middleware.UserFromContext(r.Context())

	report, err := h.stats.QuizReport(r.Context(), user.ID, quizID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// TrialResults handles GET /results/{quiz_id}/test. Reading the report
// clears the trial session, so each run can be viewed once.
func (h *ResultHandler) TrialResults(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quiz_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}
	key := middleware.TrialKey(w, r)

	report, err := h.progression.ConsumeTrialReport(r.Context(), key, quizID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
