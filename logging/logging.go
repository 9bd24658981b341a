package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global zerolog logger from LOG_LEVEL, LOG_FORMAT and
// LOG_FILE. Console output is colored unless LOG_FORMAT is "json". When
// LOG_FILE is set, JSON lines are also written to a rotated file; the
// returned closer flushes it and is safe to call when no file is used.
func Setup(c map[string]string) (zerolog.Logger, io.Closer) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var console io.Writer = os.Stderr
	if config.GetString(c, "LOG_FORMAT", "console") != "json" {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}
	if path := config.GetString(c, "LOG_FILE", ""); path != "" {
		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    config.GetInt(c, "LOG_MAX_SIZE_MB", 50),
			MaxBackups: config.GetInt(c, "LOG_MAX_BACKUPS", 5),
			MaxAge:     config.GetInt(c, "LOG_MAX_AGE_DAYS", 30),
			Compress:   config.GetBool(c, "LOG_COMPRESS", true),
		}
		writers = append(writers, file)
		closer = file
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("service", "portfolio-backend").
		Logger()
	log.Logger = logger
	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
