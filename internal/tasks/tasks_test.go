package tasks

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLoginTask(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	task, err := NewAuditLoginTask(AuditLoginPayload{AdminID: "A1", ClientIP: "10.0.0.1", At: at})
	require.NoError(t, err)
	assert.Equal(t, TypeAuditLogin, task.Type())

	payload, err := ParseAuditLoginPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "A1", payload.AdminID)
	assert.Equal(t, "10.0.0.1", payload.ClientIP)
	assert.True(t, at.Equal(payload.At))
}

func TestParseAuditLoginPayload_Invalid(t *testing.T) {
	_, err := ParseAuditLoginPayload(asynq.NewTask(TypeAuditLogin, []byte("{")))
	assert.Error(t, err)

	_, err = ParseAuditLoginPayload(asynq.NewTask(TypeAuditLogin, []byte(`{"client_ip":"x"}`)))
	assert.Error(t, err)
}

func TestPurgeTokensTask(t *testing.T) {
	assert.Equal(t, TypePurgeTokens, NewPurgeTokensTask().Type())
}
