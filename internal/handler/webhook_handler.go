package handler

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"

	"medquiz/internal/bot"
)

// WebhookHandler receives Telegram updates. The bot token doubles as
// the path secret, so a request with the wrong token is a 404.
type WebhookHandler struct {
	bot *bot.Bot
}

func NewWebhookHandler(b *bot.Bot) *WebhookHandler {
	return &WebhookHandler{bot: b}
}

// HandleUpdate handles POST /bot/{token}
func (h *WebhookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if mux.Vars(r)["token"] != h.bot.Token() {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid update")
		return
	}
	r.Body.Close()

	h.bot.HandleUpdate(r.Context(), update)
	w.WriteHeader(http.StatusOK)
}
