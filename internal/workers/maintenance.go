package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/deliverydesk/deliverydesk/internal/models"
)

// PurgeResult counts the rows removed by a cleanup run
type PurgeResult struct {
	RevokedTokens int64
	LoginEvents   int64
}

// HandlePurgeTokens deletes revoked tokens that have expired anyway and login events older
// than retention. Times are stored in UTC.
func HandlePurgeTokens(ctx context.Context, db *gorm.DB, retention time.Duration, now time.Time, logger zerolog.Logger) (PurgeResult, error) {
	var result PurgeResult
	now = now.UTC()

	tokens := db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	if tokens.Error != nil {
		return result, fmt.Errorf("failed to purge revoked tokens: %w", tokens.Error)
	}
	result.RevokedTokens = tokens.RowsAffected

	if retention > 0 {
		events := db.WithContext(ctx).Where("at < ?", now.Add(-retention)).Delete(&models.LoginEvent{})
		if events.Error != nil {
			return result, fmt.Errorf("failed to purge login events: %w", events.Error)
		}
		result.LoginEvents = events.RowsAffected
	}

	logger.Info().
		Int64("revoked_tokens", result.RevokedTokens).
		Int64("login_events", result.LoginEvents).
		Msg("Maintenance cleanup complete")
	return result, nil
}
