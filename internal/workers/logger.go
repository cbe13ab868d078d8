package workers

import (
	"fmt"

	"github.com/rs/zerolog"
)

// AsynqLogger is a wrapper to make zerolog compatible with Asynq's logger interface
type AsynqLogger struct {
	Log zerolog.Logger
}

func (l *AsynqLogger) Debug(args ...interface{}) {
	l.Log.Debug().Msg(fmt.Sprint(args...))
}

func (l *AsynqLogger) Info(args ...interface{}) {
	l.Log.Info().Msg(fmt.Sprint(args...))
}

func (l *AsynqLogger) Warn(args ...interface{}) {
	l.Log.Warn().Msg(fmt.Sprint(args...))
}

func (l *AsynqLogger) Error(args ...interface{}) {
	l.Log.Error().Msg(fmt.Sprint(args...))
}

func (l *AsynqLogger) Fatal(args ...interface{}) {
	l.Log.Fatal().Msg(fmt.Sprint(args...))
}
