package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// Init configures the process logger. Text output is used only when format
// is "text"; anything else logs JSON.
func Init(level, format string) *logrus.Logger {
	l := logrus.New()

	if lvl, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(logrus.InfoLevel)
		l.WithField("invalid_level", level).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if strings.ToLower(format) == "text" {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}
	l.SetOutput(os.Stdout)

	log = l
	return l
}

// Get returns the process logger, creating an info level JSON logger on first use.
func Get() *logrus.Logger {
	if log == nil {
		return Init("info", "json")
	}
	return log
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// WithRequest adds the request id, method and path to entries from l.
func WithRequest(l logrus.FieldLogger, requestID, method, path string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"request_id":  requestID,
		"http_method": method,
		"http_path":   path,
	})
}
