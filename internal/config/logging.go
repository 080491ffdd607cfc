package config

import (
	"os"

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm/logger"        // GORM log levels
)

// SetupLogging configures the global logrus logger: JSON in production,
// text with full timestamps otherwise.
func (c *Config) SetupLogging() {
	if c.IsProd() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.WithField("log_level", c.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// GormLogLevel maps the application log level onto GORM's SQL logging.
func (c *Config) GormLogLevel() logger.LogLevel {
	switch c.LogLevel {
	case "debug", "trace":
		return logger.Info
	case "error", "fatal", "panic":
		return logger.Error
	}
	return logger.Warn
}
