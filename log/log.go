package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.Logger writing to w. Diagnostics go to stderr in
// normal use so they never mix with the report on stdout.
func New(w io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
	return log, nil
}

// ErrorPrinter is where user-facing errors are reported.
type ErrorPrinter interface {
	Ln(v ...interface{})
	F(format string, v ...interface{})
}

type StderrErrorPrinter struct{}

func (p *StderrErrorPrinter) Ln(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}

func (p *StderrErrorPrinter) F(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}

// BufferErrorPrinter collects errors in memory. Used by tests.
type BufferErrorPrinter struct {
	strings.Builder
}

func (p *BufferErrorPrinter) Ln(v ...interface{}) {
	fmt.Fprintln(&p.Builder, v...)
}

func (p *BufferErrorPrinter) F(format string, v ...interface{}) {
	fmt.Fprintf(&p.Builder, format, v...)
}
