package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medquiz/internal/models"
)

func trialAnswer(questionID uint64, right bool) models.TrialAnswer {
	return models.TrialAnswer{
		Question: models.QuestionSnapshot{ID: questionID, Title: "q"},
		Answer:   models.VariantSnapshot{ID: questionID * 10, Title: "a", IsRightChoice: right},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("append and list preserve order", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Append(ctx, "k", trialAnswer(1, true)))
		require.NoError(t, store.Append(ctx, "k", trialAnswer(2, false)))

		answers, err := store.List(ctx, "k")
		require.NoError(t, err)
		require.Len(t, answers, 2)
		assert.Equal(t, uint64(1), answers[0].Question.ID)
		assert.Equal(t, uint64(2), answers[1].Question.ID)
	})

	t.Run("keys are independent", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Append(ctx, "a", trialAnswer(1, true)))

		answers, err := store.List(ctx, "b")
		require.NoError(t, err)
		assert.Empty(t, answers)
	})

	t.Run("clear empties one key only", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Append(ctx, "a", trialAnswer(1, true)))
		require.NoError(t, store.Append(ctx, "b", trialAnswer(2, true)))
		require.NoError(t, store.Clear(ctx, "a"))

		answers, err := store.List(ctx, "a")
		require.NoError(t, err)
		assert.Empty(t, answers)

		answers, err = store.List(ctx, "b")
		require.NoError(t, err)
		assert.Len(t, answers, 1)
	})

	t.Run("list returns a copy", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Append(ctx, "k", trialAnswer(1, true)))
		answers, err := store.List(ctx, "k")
		require.NoError(t, err)
		answers[0].Question.ID = 99

		again, err := store.List(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), again[0].Question.ID)
	})

	t.Run("concurrent appends land", func(t *testing.T) {
		store := NewMemoryStore()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(n uint64) {
				defer wg.Done()
				_ = store.Append(ctx, "k", trialAnswer(n, false))
			}(uint64(i))
		}
		wg.Wait()

		answers, err := store.List(ctx, "k")
		require.NoError(t, err)
		assert.Len(t, answers, 50)
	})
}
