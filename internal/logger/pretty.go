package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/go-chi/chi/v5/middleware"
)

var (
	levelColors = map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.BgCyan, color.FgHiWhite),
		slog.LevelInfo:  color.New(color.BgGreen, color.FgHiWhite),
		slog.LevelWarn:  color.New(color.BgYellow, color.FgHiWhite),
		slog.LevelError: color.New(color.BgRed, color.FgHiWhite),
	}
	timeColor  = color.New(color.Faint)
	keyColor   = color.New(color.FgCyan)
	errColor   = color.New(color.FgRed)
	reqIDColor = color.New(color.FgMagenta)
)

// PrettyHandler is a colored, single-line console handler for local runs.
type PrettyHandler struct {
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string

	mu  *sync.Mutex
	out io.Writer
}

func NewPrettyHandler(out io.Writer, level slog.Leveler) *PrettyHandler {
	return &PrettyHandler{level: level, mu: &sync.Mutex{}, out: out}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(timeColor.Sprint(r.Time.Format(time.DateTime)))
		buf.WriteByte(' ')
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		buf.WriteString(reqIDColor.Sprint(reqID))
		buf.WriteByte(' ')
	}
	buf.WriteString(levelLabel(r.Level))
	buf.WriteString(" | ")
	buf.WriteString(r.Message)

	write := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		c := keyColor
		if strings.Contains(a.Key, "err") {
			c = errColor
		}
		fmt.Fprintf(&buf, " %s%s", c.Sprintf("%s=", a.Key), a.Value.Resolve().String())
	}
	// Handler attrs were qualified when they were added.
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.qualify(a.Key)
		write(a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		a.Key = h.qualify(a.Key)
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

func (h *PrettyHandler) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(append([]string{}, h.groups...), name)
	return &h2
}

func levelLabel(level slog.Level) string {
	label := fmt.Sprintf("%-5s", level.String())
	switch {
	case level >= slog.LevelError:
		return levelColors[slog.LevelError].Sprint(label)
	case level >= slog.LevelWarn:
		return levelColors[slog.LevelWarn].Sprint(label)
	case level >= slog.LevelInfo:
		return levelColors[slog.LevelInfo].Sprint(label)
	default:
		return levelColors[slog.LevelDebug].Sprint(label)
	}
}
