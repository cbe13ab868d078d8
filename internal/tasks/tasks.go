package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	// Audit tasks
	TypeAuditLogin = "audit:login"

	// Maintenance tasks
	TypePurgeTokens = "maintenance:purge_tokens"
)

// Queue names
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// AuditLoginPayload describes a successful admin login
type AuditLoginPayload struct {
	AdminID   string    `json:"admin_id"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	At        time.Time `json:"at"`
}

// NewAuditLoginTask creates a task that records a login event
func NewAuditLoginTask(payload AuditLoginPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeAuditLogin, data, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

// ParseAuditLoginPayload parses the payload of an audit:login task
func ParseAuditLoginPayload(task *asynq.Task) (AuditLoginPayload, error) {
	var payload AuditLoginPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload.AdminID == "" {
		return payload, fmt.Errorf("audit payload is missing admin_id")
	}
	return payload, nil
}

// NewPurgeTokensTask creates the periodic cleanup task. Only one can be queued at a time.
func NewPurgeTokensTask() *asynq.Task {
	return asynq.NewTask(TypePurgeTokens, nil,
		asynq.Queue(QueueLow),
		asynq.Unique(time.Hour),
		asynq.Timeout(10*time.Minute),
	)
}
