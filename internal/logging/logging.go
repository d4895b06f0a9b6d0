package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options controls where and how verbosely the application logs.
type Options struct {
	Verbose bool
	NoColor bool
	// File, when set, receives JSON logs instead of stderr. The dashboard
	// uses this so log lines do not tear the alt screen.
	File string
}

// New builds the application logger. The returned closer releases the log
// file, if any.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("opening log file: %w", err)
		}
		l := zerolog.New(f).Level(level).With().Timestamp().Logger()
		return l, f, nil
	}

	w := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    opts.NoColor,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
