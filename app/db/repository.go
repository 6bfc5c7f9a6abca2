package db

import (
	"context"
	"fmt"
	"time"

	"github.com/simshi01/thansgiving-day/app/models"
)

var (
	ErrMessageNotFound   = fmt.Errorf("message not found")
	ErrMessageNotCreated = fmt.Errorf("message not created")
	ErrUnknownDriver     = fmt.Errorf("unknown storage driver")
)

// MessageRepository stores gratitude messages. Listings only ever return
// active messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, text string, x, y *int, duration float64) (models.Message, error)
	// GetMessages returns up to limit messages, newest first.
	GetMessages(ctx context.Context, limit int) ([]models.Message, error)
	// GetMessagesSince returns messages created at or after since, oldest first.
	GetMessagesSince(ctx context.Context, since time.Time) ([]models.Message, error)
	// GetAllMessages returns every active message, oldest first.
	GetAllMessages(ctx context.Context) ([]models.Message, error)
	DeleteMessage(ctx context.Context, id string) error
	// DeactivateOlderThan flips the active flag on messages created before
	// cutoff and reports how many changed.
	DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}
