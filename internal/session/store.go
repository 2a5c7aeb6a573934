// Package session holds trial-mode quiz state. A trial run never touches
// quiz_results or user_answers: its answers live in a per-session ordered
// list that is consumed exactly once when results are rendered.
package session

import (
	"context"

	"medquiz/internal/models"
)

// Store keeps the ordered trial answers of one browser session
type Store interface {
	// Append adds an answer snapshot to the end of the session's list
	Append(ctx context.Context, key string, answer models.TrialAnswer) error

	// List returns the session's answers in submission order. A session
	// that was never written to yields an empty list.
	List(ctx context.Context, key string) ([]models.TrialAnswer, error)

	// Clear drops the session's list. Clearing an absent session is a no-op.
	Clear(ctx context.Context, key string) error
}
