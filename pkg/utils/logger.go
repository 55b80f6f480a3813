// pkg/utils/logger.go
package utils

import (
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus with level/format setup from config.
type Logger struct {
	*logrus.Logger
}

// Config holds logger settings.
type Config struct {
	LogLevel  string
	LogFormat string // "text" or "json"
	Pretty    bool
}

// NewLogger builds a configured logger.
func NewLogger(cfg Config) *Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Pretty,
			FullTimestamp: true,
		})
	}

	return &Logger{Logger: log}
}

// WithFunc adds the calling function name as a log field.
func (l *Logger) WithFunc() *logrus.Entry {
	name := "unknown"
	if pc, _, _, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			name = fn.Name()
			if idx := strings.LastIndex(name, "/"); idx >= 0 {
				name = name[idx+1:]
			}
		}
	}
	return l.WithField("func", name)
}
