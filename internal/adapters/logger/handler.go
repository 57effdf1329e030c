package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/gauntlet/internal/ui/output"
	"go.trai.ch/gauntlet/internal/ui/style"
)

// PrettyHandler renders slog records as single human-readable lines:
// an icon for warnings and errors, the message, then any attributes as
// key=value pairs.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a PrettyHandler writing to w. A nil writer
// falls back to stderr.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	return &PrettyHandler{
		out:   output.New(w),
		level: levelVar,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := levelDecoration(r.Level)

	msg := r.Message
	if icon != "" {
		msg = icon + " " + msg
	}

	if attrs := h.collectAttrs(r); attrs != "" {
		msg += " " + attrs
	}

	styled := h.out.String(msg).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")

	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: merged,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

// collectAttrs renders handler-level attrs followed by record attrs as a
// space-separated key=value list.
func (h *PrettyHandler) collectAttrs(r slog.Record) string {
	parts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		parts = append(parts, h.formatAttr(attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, h.formatAttr(attr))
		return true
	})
	return strings.Join(parts, " ")
}

// formatAttr renders one attribute, prefixing the key with the group name
// when one is set.
func (h *PrettyHandler) formatAttr(attr slog.Attr) string {
	key := attr.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	return key + "=" + attr.Value.String()
}

// levelDecoration maps a log level to its line icon and color.
func levelDecoration(level slog.Level) (string, termenv.Color) {
	switch level {
	case slog.LevelWarn:
		return style.Warning, termenv.RGBColor(string(style.Yellow))
	case slog.LevelError:
		return style.Cross, termenv.RGBColor(string(style.Red))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}
