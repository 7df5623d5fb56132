// Package cliutil holds the small pieces of setup shared by fast10k's two
// command-line entrypoints, so neither reimplements logger construction on
// its own.
package cliutil

import (
	"github.com/sirupsen/logrus"

	"github.com/komsit37/fast10k/internal/config"
)

// NewLogger builds a logrus.Logger from cfg's log_level and log_format,
// falling back to info/text on an unparsable level rather than failing
// startup over a logging preference.
func NewLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
