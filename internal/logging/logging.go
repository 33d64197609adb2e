package logging

import (
	"io"
	"log/slog"
	"time"
)

type Config struct {
	Debug bool
	JSON  bool
}

// Setup installs a slog handler writing to w as the default logger and
// returns it. Debug lowers the level and adds source locations.
func Setup(cfg Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	addSource := false
	if cfg.Debug {
		level = slog.LevelDebug
		addSource = true
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339))
			}
			return a
		},
	}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	l := slog.New(h)
	slog.SetDefault(l)
	return l
}

// Discard installs a logger that drops everything.
func Discard() *slog.Logger {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	slog.SetDefault(l)
	return l
}
