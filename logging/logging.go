// Package logging owns the process-wide logrus logger.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// InitLogger configures the shared logger with the given level.
// Later calls only adjust the level.
func InitLogger(level logrus.Level) *logrus.Logger {
	l := GetLogger()
	l.SetLevel(level)
	return l
}

// GetLogger returns the shared logger, creating it with info level on first use.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006/01/02 15:04:05",
		})
	})
	return logger
}

// ParseLevel maps a level name onto a logrus level, falling back to info.
func ParseLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
