// Package logging builds the diagnostic logger. Diagnostics go to stderr and
// never mix with the report on stdout.
package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"thoreinstein.com/census/pkg/config"
)

// New creates a logger from cfg writing to w. verbose forces debug level.
// An unparseable level falls back to warn; config validation reports it.
func New(cfg config.LogConfig, w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&TextFormatter{})
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Component returns an entry tagged with the component name.
func Component(logger *logrus.Logger, component string) *logrus.Entry {
	return logger.WithField("component", component)
}

// TextFormatter renders "[LEVEL] [component] message key=value ..." lines.
type TextFormatter struct {
	// Timestamp prefixes each line with the entry time.
	Timestamp bool
}

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if f.Timestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteString(" ")
	}

	levelStr := entry.Level.String()
	if levelStr == "warning" {
		levelStr = "warn"
	}
	b.WriteString("[" + strings.ToUpper(levelStr) + "]")

	if component, ok := entry.Data["component"]; ok {
		b.WriteString(" [")
		b.WriteString(fmt.Sprintf("%v", component))
		b.WriteString("]")
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != "component" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteString(" " + key + "=" + fmt.Sprintf("%v", entry.Data[key]))
	}

	b.WriteString("\n")
	return []byte(b.String()), nil
}
