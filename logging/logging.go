// Package logging builds the process-wide logrus logger.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger at the given level. Unknown levels fall back to info.
// JSON output is used when jsonOutput is set, text otherwise.
func New(level string, jsonOutput bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if jsonOutput {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
