package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: "\033[90mDBG\033[0m",
	slog.LevelInfo:  "\033[34mINF\033[0m",
	slog.LevelWarn:  "\033[33mWRN\033[0m",
	slog.LevelError: "\033[31mERR\033[0m",
}

// consoleHandler writes one colored line per record for an interactive
// stderr: level, message, then key=value pairs. Timestamps are left out.
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   slog.HandlerOptions
	prefix string // preformatted attrs from WithAttrs
	group  string // dotted group path applied to later keys
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *consoleHandler {
	h := &consoleHandler{mu: &sync.Mutex{}, w: w}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if lvl, ok := levelColors[r.Level]; ok {
		b.WriteString(lvl)
	} else {
		b.WriteString(r.Level.String())
	}
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	for _, a := range attrs {
		h.appendAttr(&b, h.group, a)
	}
	next := *h
	next.prefix = h.prefix + b.String()
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.group + name + "."
	return &next
}

func (h *consoleHandler) appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			group += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(b, group, ga)
		}
		return
	}
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(groupPath(group), a)
	}
	if a.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(b, " \033[36m%s%s\033[0m=%v", group, a.Key, a.Value.Any())
}

func groupPath(group string) []string {
	if group == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(group, "."), ".")
}
