package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// Options configures the process logger / Configure le logger du processus
type Options struct {
	Level         string // debug|info|warn|error
	Format        string // text|json
	AddSource     bool
	LokiEnabled   bool
	LokiURL       string
	LokiLabels    map[string]string
	LokiBatchSize int
}

// ParseLevel maps a level name to slog.Level, defaulting to info / Convertit un nom de niveau
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds the console handler, fanned out to Loki when enabled / Construit le handler console, dupliqué vers Loki
// The returned close function flushes Loki and is never nil.
func NewHandler(opts Options, w io.Writer) (slog.Handler, func() error) {
	level := ParseLevel(opts.Level)

	var console slog.Handler
	if strings.ToLower(opts.Format) == "json" {
		console = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: opts.AddSource})
	} else {
		console = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	if !opts.LokiEnabled {
		return console, func() error { return nil }
	}

	loki := NewLokiHandler(opts.LokiURL, opts.LokiLabels, opts.LokiBatchSize, true, level)
	return &multiHandler{handlers: []slog.Handler{console, loki}}, loki.Close
}

// Setup installs the default slog logger / Installe le logger slog par défaut
func Setup(opts Options, w io.Writer) func() error {
	handler, closeFn := NewHandler(opts, w)
	slog.SetDefault(slog.New(handler))

	slog.Info("📊 Logging configured",
		"level", ParseLevel(opts.Level).String(),
		"format", opts.Format,
		"loki_enabled", opts.LokiEnabled,
	)
	return closeFn
}

// multiHandler fans a record out to several handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, hh := range h.handlers {
		if !hh.Enabled(ctx, record.Level) {
			continue
		}
		if err := hh.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		next[i] = hh.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		next[i] = hh.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}
