package config

import (
	"strings"

	"github.com/labstack/gommon/log"
)

// ParseLevel maps LOG_LEVEL onto gommon levels, defaulting to INFO.
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}

// NewLogger returns a component logger at the configured level.
func (c Config) NewLogger(prefix string) *log.Logger {
	l := log.New(prefix)
	l.SetLevel(ParseLevel(c.LogLevel))
	if c.Env != "prod" {
		l.SetHeader("${time_rfc3339} ${level} ${prefix}")
	}
	return l
}
