package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Options tunes InitLogger. The zero value logs debug and above to stdout.
type Options struct {
	Level   string
	Console bool
	Output  io.Writer
}

func InitLogger() *zerolog.Logger {
	return InitLoggerWithOptions(Options{Console: true})
}

func InitLoggerWithOptions(opts Options) *zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(out).
		With().
		Timestamp().
		Caller().
		Logger()

	level := zerolog.DebugLevel
	if opts.Level != "" {
		if parsed, err := zerolog.ParseLevel(opts.Level); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	zerolog.DefaultContextLogger = &logger
	return &logger
}

func Logger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
