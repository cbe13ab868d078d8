package workers

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/deliverydesk/deliverydesk/internal/models"
	"github.com/deliverydesk/deliverydesk/internal/tasks"
)

// HandleAuditLogin stores the login event carried by an audit:login task
func HandleAuditLogin(ctx context.Context, t *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	payload, err := tasks.ParseAuditLoginPayload(t)
	if err != nil {
		// Retrying won't fix a malformed payload
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	event := &models.LoginEvent{
		AdminID:   payload.AdminID,
		ClientIP:  payload.ClientIP,
		UserAgent: payload.UserAgent,
		At:        payload.At.UTC(),
	}
	if err := db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to store login event: %w", err)
	}

	logger.Debug().
		Str("admin_id", payload.AdminID).
		Str("client_ip", payload.ClientIP).
		Msg("Login event recorded")
	return nil
}
