package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/rugby/internal/ui/output"
	"go.trai.ch/rugby/internal/ui/style"
)

// levelStyle is the icon and color a level is printed with.
type levelStyle struct {
	icon  string
	color lipgloss.Color
}

func styleFor(level slog.Level) levelStyle {
	switch {
	case level >= slog.LevelError:
		return levelStyle{icon: style.Cross, color: style.Red}
	case level >= slog.LevelWarn:
		return levelStyle{icon: style.Warning, color: style.Yellow}
	case level >= slog.LevelInfo:
		return levelStyle{color: style.Iris}
	default:
		return levelStyle{icon: style.Tilde, color: style.Slate}
	}
}

// PrettyHandler is a slog.Handler for terminals. Each record is one colored
// block: the level icon, the message, then key=value attributes. Continuation
// lines of multi-line messages are indented under the first one.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []string
	prefix string
}

// NewPrettyHandler creates a new PrettyHandler writing to w, or stderr when w is nil.
// The level is read on every record, so a *slog.LevelVar can change it later.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
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
	ls := styleFor(r.Level)

	attrs := h.attrs
	if r.NumAttrs() > 0 {
		attrs = append([]string(nil), h.attrs...)
		r.Attrs(func(a slog.Attr) bool {
			attrs = appendAttr(attrs, h.prefix, a)
			return true
		})
	}

	lead, indent := "", ""
	if ls.icon != "" {
		lead = ls.icon + " "
		indent = strings.Repeat(" ", len([]rune(lead)))
	}

	lines := strings.Split(r.Message, "\n")
	if len(attrs) > 0 {
		lines[len(lines)-1] += " " + strings.Join(attrs, " ")
	}

	var b strings.Builder
	for i, line := range lines {
		switch {
		case i == 0:
			b.WriteString(lead + line)
		case line != "":
			b.WriteString(indent + line)
		}
		b.WriteByte('\n')
	}

	styled := h.out.String(strings.TrimSuffix(b.String(), "\n")).Foreground(termenv.RGBColor(string(ls.color)))
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a handler that prints attrs with every record.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	formatted := append([]string(nil), h.attrs...)
	for _, a := range attrs {
		formatted = appendAttr(formatted, h.prefix, a)
	}
	return &PrettyHandler{out: h.out, level: h.level, attrs: formatted, prefix: h.prefix}
}

// WithGroup returns a handler that qualifies later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &PrettyHandler{out: h.out, level: h.level, attrs: h.attrs, prefix: h.prefix + name + "."}
}

// appendAttr formats a as key=value, flattening groups into dotted keys.
func appendAttr(dst []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range group {
			dst = appendAttr(dst, prefix, ga)
		}
		return dst
	}
	return append(dst, prefix+a.Key+"="+quoteValue(a.Value.String()))
}

// quoteValue quotes values that would not read back as a single token.
func quoteValue(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\n\"=") {
		return strconv.Quote(v)
	}
	return v
}
