package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medquiz/internal/models"
)

func TestStartButtonReply(t *testing.T) {
	b := &Bot{webAppURL: "https://quiz.example.com"}

	t.Run("unregistered account is pointed at /start", func(t *testing.T) {
		text, markup := b.startButtonReply(nil)
		assert.Equal(t, unknownReply, text)
		assert.Nil(t, markup)
	})

	t.Run("blocked account is told so", func(t *testing.T) {
		text, markup := b.startButtonReply(&models.User{Name: "Alice", IsActive: false})
		assert.Equal(t, blockedNotice, text)
		assert.Nil(t, markup)
	})

	t.Run("active user gets the quiz link", func(t *testing.T) {
		text, markup := b.startButtonReply(&models.User{Name: "Alice", IsActive: true})
		assert.Equal(t, openQuizText, text)

		keyboard, ok := markup.(tgbotapi.InlineKeyboardMarkup)
		require.True(t, ok)
		require.Len(t, keyboard.InlineKeyboard, 1)
		require.Len(t, keyboard.InlineKeyboard[0], 1)
		button := keyboard.InlineKeyboard[0][0]
		assert.Equal(t, openButton, button.Text)
		require.NotNil(t, button.URL)
		assert.Equal(t, "https://quiz.example.com", *button.URL)
	})

	t.Run("admin also gets the admin panel link", func(t *testing.T) {
		_, markup := b.startButtonReply(&models.User{Name: "Alice", IsActive: true, IsAdmin: true})

		keyboard, ok := markup.(tgbotapi.InlineKeyboardMarkup)
		require.True(t, ok)
		require.Len(t, keyboard.InlineKeyboard, 2)
		button := keyboard.InlineKeyboard[1][0]
		assert.Equal(t, adminButton, button.Text)
		require.NotNil(t, button.URL)
		assert.Equal(t, "https://quiz.example.com/admin", *button.URL)
	})
}
