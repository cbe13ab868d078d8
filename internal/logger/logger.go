package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the application logger instance
var Logger zerolog.Logger

// Options configures a logger
type Options struct {
	Level  string
	Format string // json, console
	// File, when set, receives a copy of every event and is rotated by size
	File string
	Out  io.Writer
}

// Init initializes the global logger with the given configuration
func Init(level, format, file string) {
	zerolog.SetGlobalLevel(ParseLevel(level))

	Logger = New(Options{
		Level:  level,
		Format: format,
		File:   file,
		Out:    os.Stdout,
	})

	// Set the global logger
	log.Logger = Logger
}

// New builds a logger without touching global state
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	var writer io.Writer = out
	if strings.ToLower(opts.Format) != "json" {
		// Console format with colors
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		}
	}

	if opts.File != "" {
		writer = zerolog.MultiLevelWriter(writer, &lumberjack.Logger{
			Filename: opts.File,
			MaxSize:  50, // megabytes
			MaxAge:   30, // days
			Compress: true,
		})
	}

	return zerolog.New(writer).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel parses string log level to zerolog level
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// GetLogger returns the configured logger instance
func GetLogger() zerolog.Logger {
	return Logger
}
