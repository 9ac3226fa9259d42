// Package logging builds the slog loggers used by the CLI: a human-friendly
// handler with colorized levels and no timestamps for terminals, and plain
// JSON when output is redirected or machine-read.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New returns a logger writing human-friendly lines to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSON returns a machine-readable logger for non-terminal output.
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Handler formats records as "[LEVEL] message key=value ..." with ANSI level
// colors and no timestamps. Handle assembles each line in a local buffer and
// writes it with one Write call, so concurrent use needs no mutex.
type Handler struct {
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

// NewHandler creates a Handler writing to w.
func NewHandler(w io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{w: w}
	if opts != nil {
		h.level = opts.Level
	}
	if h.level == nil {
		h.level = slog.LevelInfo
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf []byte

	buf = append(buf, colorizeLevel(r.Level)...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	for _, attr := range h.attrs {
		buf = append(buf, ' ')
		buf = appendAttr(buf, attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = append(buf, ' ')
		buf = appendAttr(buf, a)
		return true
	})

	buf = append(buf, '\n')
	_, err := h.w.Write(buf)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	copy(merged[len(h.attrs):], attrs)
	return &Handler{w: h.w, level: h.level, attrs: merged}
}

// WithGroup returns the handler unchanged; grouped keys add noise to terminal
// output and nothing in this CLI relies on them.
func (h *Handler) WithGroup(string) slog.Handler {
	return h
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

func colorizeLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed + "[ERROR]" + colorReset
	case level >= slog.LevelWarn:
		return colorYellow + "[WARN]" + colorReset
	case level >= slog.LevelInfo:
		return colorBlue + "[INFO]" + colorReset
	default:
		return colorGray + "[DEBUG]" + colorReset
	}
}

func appendAttr(buf []byte, attr slog.Attr) []byte {
	if attr.Equal(slog.Attr{}) {
		return buf
	}
	buf = append(buf, attr.Key...)
	buf = append(buf, '=')
	return appendValue(buf, attr.Value)
}

func appendValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"") {
			return append(buf, fmt.Sprintf("%q", s)...)
		}
		return append(buf, s...)
	case slog.KindDuration:
		return append(buf, v.Duration().String()...)
	case slog.KindTime:
		return append(buf, v.Time().Format("15:04:05")...)
	case slog.KindLogValuer:
		return appendValue(buf, v.Resolve())
	default:
		return append(buf, fmt.Sprint(v.Any())...)
	}
}
