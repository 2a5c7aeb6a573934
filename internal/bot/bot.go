package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"medquiz/internal/models"
	"medquiz/internal/pkg/logger"
	"medquiz/internal/service"
)

const (
	welcomeNewUser = "Welcome, %s! You are registered. Press Start to get the quiz link."
	welcomeBack    = "Welcome back, %s! Press Start to continue."
	openQuizText   = "Here is your quiz:"
	blockedNotice  = "Your account is blocked. Contact the administrator to restore access."
	unknownReply   = "Use /start to register and get the quiz link."

	startText   = "Start"
	openButton  = "Open the quiz"
	adminButton = "Admin panel"
)

// Bot registers Telegram users and hands them the web app link. Updates
// arrive through the HTTP webhook, not long polling.
type Bot struct {
	api       *tgbotapi.BotAPI
	auth      *service.AuthService
	webAppURL string
	log       *logger.Logger
}

func New(token string, auth *service.AuthService, webAppURL string, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	return &Bot{
		api:       api,
		auth:      auth,
		webAppURL: webAppURL,
		log:       log,
	}, nil
}

// Token returns the bot token for webhook path verification
func (b *Bot) Token() string {
	return b.api.Token
}

// SetWebhook points Telegram at the given public URL
func (b *Bot) SetWebhook(url string) error {
	hook, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("failed to build webhook config: %w", err)
	}
	if _, err := b.api.Request(hook); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// HandleUpdate dispatches a single webhook update
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.MyChatMember != nil {
		b.handleChatMember(ctx, update.MyChatMember)
		return
	}
	msg := update.Message
	if msg == nil {
		return
	}

	switch {
	case msg.IsCommand() && msg.Command() == "start":
		b.handleStart(ctx, msg)
	case msg.Text == startText:
		b.handleStartButton(ctx, msg)
	default:
		b.send(msg.Chat.ID, unknownReply, nil)
	}
}

// handleStart registers the account and leaves a persistent Start button
// in the reply keyboard.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From
	if from == nil {
		return
	}
	name := from.FirstName
	if name == "" {
		name = from.UserName
	}

	user, created, err := b.auth.RegisterFromTelegram(ctx, name, from.UserName, from.ID)
	if err != nil {
		b.log.WithError(err).WithField("telegram_id", from.ID).Error("failed to register user")
		b.send(msg.Chat.ID, "Something went wrong, try again later.", nil)
		return
	}

	text := fmt.Sprintf(welcomeBack, user.Name)
	if created {
		text = fmt.Sprintf(welcomeNewUser, user.Name)
	}
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(startText)),
	)
	keyboard.ResizeKeyboard = true
	b.send(msg.Chat.ID, text, keyboard)
}

// handleStartButton answers a press of the Start reply button with the
// web app link. Admins also get the admin panel link; blocked accounts
// are told so instead.
func (b *Bot) handleStartButton(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From
	if from == nil {
		return
	}
	user, err := b.auth.UserByTelegram(ctx, from.ID)
	if err != nil {
		b.log.WithError(err).WithField("telegram_id", from.ID).Error("failed to look up user")
		b.send(msg.Chat.ID, "Something went wrong, try again later.", nil)
		return
	}
	text, markup := b.startButtonReply(user)
	b.send(msg.Chat.ID, text, markup)
}

// startButtonReply picks the response for a Start press based on the
// account state.
func (b *Bot) startButtonReply(user *models.User) (string, interface{}) {
	switch {
	case user == nil:
		return unknownReply, nil
	case !user.IsActive:
		return blockedNotice, nil
	default:
		return openQuizText, b.quizKeyboard(user.IsAdmin)
	}
}

// quizKeyboard builds the inline link keyboard for an active user
func (b *Bot) quizKeyboard(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(openButton, b.webAppURL),
		),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(adminButton, b.webAppURL+"/admin"),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// handleChatMember deactivates users who block the bot and reactivates
// those who come back.
func (b *Bot) handleChatMember(ctx context.Context, member *tgbotapi.ChatMemberUpdated) {
	status := member.NewChatMember.Status
	telegramID := member.From.ID

	switch status {
	case "kicked", "left":
		if err := b.auth.Deactivate(ctx, telegramID); err != nil {
			b.log.WithError(err).WithField("telegram_id", telegramID).Warn("failed to deactivate user")
		}
	case "member":
		name := member.From.FirstName
		if name == "" {
			name = member.From.UserName
		}
		if _, _, err := b.auth.RegisterFromTelegram(ctx, name, member.From.UserName, telegramID); err != nil {
			b.log.WithError(err).WithField("telegram_id", telegramID).Warn("failed to reactivate user")
		}
	}
}

func (b *Bot) send(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Error("failed to send message")
	}
}
