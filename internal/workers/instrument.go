package workers

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/deliverydesk/deliverydesk/internal/metrics"
)

// Instrument counts processed tasks by type and result
func Instrument(m *metrics.Manager) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			err := next.ProcessTask(ctx, t)
			result := "ok"
			if err != nil {
				result = "error"
			}
			m.CounterTasks.WithLabelValues(t.Type(), result).Inc()
			return err
		})
	}
}
