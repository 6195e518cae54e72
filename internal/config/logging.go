package config

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// NewLogger builds the process logger: coloured text in development, JSON
// otherwise. LOG_LEVEL overrides the level; LOG_FILE additionally writes
// JSON lines to a size-rotated file.
func NewLogger() (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level := logrus.InfoLevel
	if Development() {
		level = logrus.DebugLevel
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if s, ok := os.LookupEnv("LOG_LEVEL"); ok {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	log.SetLevel(level)

	if path, ok := os.LookupEnv("LOG_FILE"); ok && path != "" {
		maxSize, err := envInt("LOG_FILE_MAX_SIZE_MB", 50)
		if err != nil {
			return nil, err
		}
		maxBackups, err := envInt("LOG_FILE_MAX_BACKUPS", 3)
		if err != nil {
			return nil, err
		}
		maxAge, err := envInt("LOG_FILE_MAX_AGE_DAYS", 28)
		if err != nil {
			return nil, err
		}
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   path,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, err
		}
		log.AddHook(hook)
	}

	return log, nil
}
