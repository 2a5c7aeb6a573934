package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medquiz/internal/middleware"
	"medquiz/internal/pkg/logger"
	"medquiz/internal/pkg/metrics"
	"medquiz/internal/service"
)

// RouterDeps bundles everything the router needs
type RouterDeps struct {
	Quiz    *QuizHandler
	Result  *ResultHandler
	Auth    *AuthHandler
	Admin   *AdminHandler
	Webhook *WebhookHandler

	AuthService *service.AuthService
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
}

// NewRouter wires every route behind the shared middleware chain.
// Route order matters: the literal prefixes (results, login, me, admin,
// bot) are registered before the numeric catch-all category routes.
func NewRouter(deps RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(logger.HTTPMiddleware(deps.Logger))
	r.Use(metrics.HTTPMiddleware(deps.Metrics))
	r.Use(middleware.Auth(deps.AuthService))

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	if deps.Webhook != nil {
		r.HandleFunc("/bot/{token}", deps.Webhook.HandleUpdate).Methods(http.MethodPost)
	}

	r.HandleFunc("/login", deps.Auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", deps.Auth.Logout).Methods(http.MethodPost)
	r.Handle("/me", middleware.Required(http.HandlerFunc(deps.Auth.Profile))).Methods(http.MethodGet)
	r.Handle("/me/delete", middleware.Required(http.HandlerFunc(deps.Auth.DeleteProfile))).Methods(http.MethodPost)

	r.Handle("/results/{quiz_id:[0-9]+}/test", http.HandlerFunc(deps.Result.TrialResults)).Methods(http.MethodGet)
	r.Handle("/results/{quiz_id:[0-9]+}/", middleware.Required(http.HandlerFunc(deps.Result.QuizResults))).Methods(http.MethodGet)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminOnly)
	admin.HandleFunc("/categories", deps.Admin.CreateCategory).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{category_id:[0-9]+}", deps.Admin.UpdateCategory).Methods(http.MethodPut)
	admin.HandleFunc("/categories/{category_id:[0-9]+}", deps.Admin.DeleteCategory).Methods(http.MethodDelete)
	admin.HandleFunc("/quizzes", deps.Admin.CreateQuiz).Methods(http.MethodPost)
	admin.HandleFunc("/quizzes/{quiz_id:[0-9]+}", deps.Admin.UpdateQuiz).Methods(http.MethodPut)
	admin.HandleFunc("/quizzes/{quiz_id:[0-9]+}", deps.Admin.DeleteQuiz).Methods(http.MethodDelete)
	admin.HandleFunc("/questions", deps.Admin.CreateQuestion).Methods(http.MethodPost)
	admin.HandleFunc("/questions/{question_id:[0-9]+}", deps.Admin.UpdateQuestion).Methods(http.MethodPut)
	admin.HandleFunc("/questions/{question_id:[0-9]+}", deps.Admin.DeleteQuestion).Methods(http.MethodDelete)
	admin.HandleFunc("/variants/{variant_id:[0-9]+}", deps.Admin.UpdateVariant).Methods(http.MethodPut)
	admin.HandleFunc("/stats/categories/{category_id:[0-9]+}", deps.Admin.CategoryStats).Methods(http.MethodGet)
	admin.HandleFunc("/stats/quizzes/{quiz_id:[0-9]+}", deps.Admin.QuizStats).Methods(http.MethodGet)
	admin.HandleFunc("/stats/questions/{question_id:[0-9]+}", deps.Admin.QuestionStats).Methods(http.MethodGet)
	admin.HandleFunc("/stats/users/{user_id:[0-9]+}", deps.Admin.UserStats).Methods(http.MethodGet)

	r.HandleFunc("/", deps.Quiz.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/{category_id:[0-9]+}/", deps.Quiz.ListQuizzes).Methods(http.MethodGet)
	r.HandleFunc("/{category_id:[0-9]+}/{quiz_id:[0-9]+}/test", deps.Quiz.NextTrialQuestion).Methods(http.MethodGet)
	r.HandleFunc("/{category_id:[0-9]+}/{quiz_id:[0-9]+}/test", deps.Quiz.SubmitTrialAnswer).Methods(http.MethodPost)
	r.Handle("/{category_id:[0-9]+}/{quiz_id:[0-9]+}/", middleware.Required(http.HandlerFunc(deps.Quiz.NextQuestion))).Methods(http.MethodGet)
	r.Handle("/{category_id:[0-9]+}/{quiz_id:[0-9]+}/", middleware.Required(http.HandlerFunc(deps.Quiz.SubmitAnswer))).Methods(http.MethodPost)

	return r
}
