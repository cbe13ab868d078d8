package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/deliverydesk/deliverydesk/internal/database"
	"github.com/deliverydesk/deliverydesk/internal/models"
	"github.com/deliverydesk/deliverydesk/internal/tasks"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Memory, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestHandleAuditLogin(t *testing.T) {
	db := openTestDB(t)
	at := time.Now().UTC().Truncate(time.Second)

	task, err := tasks.NewAuditLoginTask(tasks.AuditLoginPayload{
		AdminID:   "A1",
		ClientIP:  "10.0.0.1",
		UserAgent: "desk/dev",
		At:        at,
	})
	require.NoError(t, err)

	require.NoError(t, HandleAuditLogin(context.Background(), task, db, zerolog.Nop()))

	var events []models.LoginEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "A1", events[0].AdminID)
	assert.Equal(t, "desk/dev", events[0].UserAgent)
	assert.True(t, at.Equal(events[0].At))
}

func TestHandleAuditLogin_BadPayloadSkipsRetry(t *testing.T) {
	db := openTestDB(t)

	err := HandleAuditLogin(context.Background(), asynq.NewTask(tasks.TypeAuditLogin, []byte("nope")), db, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandlePurgeTokens(t *testing.T) {
	db := openTestDB(t)
	now := time.Now().UTC()

	require.NoError(t, db.Create(&models.RevokedToken{JTI: "expired", AdminID: "A1", ExpiresAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.RevokedToken{JTI: "live", AdminID: "A1", ExpiresAt: now.Add(time.Hour)}).Error)
	require.NoError(t, db.Create(&models.LoginEvent{AdminID: "A1", At: now.Add(-48 * time.Hour)}).Error)
	require.NoError(t, db.Create(&models.LoginEvent{AdminID: "A1", At: now.Add(-time.Hour)}).Error)

	result, err := HandlePurgeTokens(context.Background(), db, 24*time.Hour, now, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RevokedTokens)
	assert.Equal(t, int64(1), result.LoginEvents)

	var remaining []models.RevokedToken
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "live", remaining[0].JTI)

	var events int64
	db.Model(&models.LoginEvent{}).Count(&events)
	assert.Equal(t, int64(1), events)
}

// mockEnqueuer records enqueued tasks
type mockEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tasks = append(m.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func TestNewCleanupScheduler(t *testing.T) {
	enq := &mockEnqueuer{}

	c, err := NewCleanupScheduler("*/5 * * * *", enq, zerolog.Nop())
	require.NoError(t, err)

	entries := c.Entries()
	require.Len(t, entries, 1)

	entries[0].Job.Run()
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, tasks.TypePurgeTokens, enq.tasks[0].Type())
}

func TestNewCleanupScheduler_InvalidSchedule(t *testing.T) {
	_, err := NewCleanupScheduler("every hour", &mockEnqueuer{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestPurgeJob_DuplicateIsIgnored(t *testing.T) {
	enq := &mockEnqueuer{err: asynq.ErrDuplicateTask}

	// Must not panic or log at error level
	purgeJob{client: enq, logger: zerolog.Nop()}.Run()
	assert.Empty(t, enq.tasks)
}
