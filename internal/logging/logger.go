// Package logging builds the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Level string
	// Format is "json" (default) or "console".
	Format string
	// LogstashAddr mirrors every event to a Logstash TCP input when set.
	LogstashAddr string
	// LogstashMin is the lowest level shipped to Logstash; defaults to info.
	LogstashMin string
	Output      io.Writer
}

// New returns the logger and a close func that flushes any network sink.
func New(opts Options) (zerolog.Logger, func() error, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(strings.TrimSpace(opts.Format), "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	closer := func() error { return nil }
	writer := out
	var ls *LogstashWriter
	if addr := strings.TrimSpace(opts.LogstashAddr); addr != "" {
		var err error
		ls, err = NewLogstashWriter(addr, WithMinLevel(ParseLevel(opts.LogstashMin)))
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		writer = zerolog.MultiLevelWriter(out, ls)
	}

	logger := zerolog.New(writer).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", "blog-api").
		Logger()

	if ls != nil {
		closer = func() error {
			if n := ls.Dropped(); n > 0 {
				logger.Warn().Uint64("dropped", n).Msg("logstash events dropped while unreachable")
			}
			return ls.Close()
		}
	}
	return logger, closer, nil
}

func ParseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
