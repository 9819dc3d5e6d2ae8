// Package logger configures the process-wide logrus logger.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup applies level and format ("json" or "text") to the standard logger.
// Unknown levels fall back to info.
func Setup(level, format string) {
	l := logrus.StandardLogger()
	l.SetOutput(os.Stdout)

	if strings.EqualFold(format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
}

// Get returns the process logger.
func Get() *logrus.Logger {
	return logrus.StandardLogger()
}

// LogError logs err with the module and function it came from. data is
// attached as a field when non-nil.
func LogError(module, funcName, context string, data any, err error) {
	if err == nil {
		return
	}
	fields := logrus.Fields{
		"module":   module,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logrus.WithFields(fields).Error(err.Error())
}
