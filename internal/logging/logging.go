// Package logging builds the process logger: a compact single-line handler
// for terminal use and a plain JSON handler for log aggregation.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Format selects the log output layout.
type Format string

const (
	// FormatCompact is a single-line layout with JSON-encoded attributes.
	FormatCompact Format = "compact"
	// FormatJSON is one JSON object per record.
	FormatJSON Format = "json"
)

// ParseFormat maps a config string onto a Format, defaulting to compact.
func ParseFormat(s string) Format {
	if strings.TrimSpace(strings.ToLower(s)) == "json" {
		return FormatJSON
	}
	return FormatCompact
}

// New returns a logger writing to output (nil means os.Stderr) at the given
// level.
func New(output io.Writer, level slog.Level, format Format) *slog.Logger {
	if output == nil {
		output = os.Stderr
	}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(&compactHandler{output: output, level: level, colors: wantColors(output)})
}

// compactHandler writes "2006-01-02 15:04:05 LEVEL message {"key":"value"}"
// lines.
type compactHandler struct {
	level  slog.Level
	colors bool
	attrs  []slog.Attr
	group  string

	mu     sync.Mutex
	output io.Writer
}

func (h *compactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *compactHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)
	buf = append(buf, r.Time.Format("2006-01-02 15:04:05")...)
	buf = append(buf, ' ')

	level := r.Level.String()
	if h.colors {
		buf = append(buf, colorForLevel(r.Level)...)
		buf = append(buf, fmt.Sprintf("%5s", level)...)
		buf = append(buf, colorReset...)
	} else {
		buf = append(buf, fmt.Sprintf("%5s", level)...)
	}
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	attrs := map[string]any{}
	for _, attr := range h.attrs {
		attrs[h.key(attr.Key)] = attr.Value.Any()
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrs[h.key(attr.Key)] = attr.Value.Any()
		return true
	})
	if len(attrs) > 0 {
		encoded, err := json.Marshal(attrs)
		if err != nil {
			encoded = []byte(`"attr-encoding-failed"`)
		}
		buf = append(buf, ' ')
		buf = append(buf, encoded...)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.output.Write(buf)
	return err
}

func (h *compactHandler) clone() *compactHandler {
	return &compactHandler{
		level:  h.level,
		colors: h.colors,
		attrs:  h.attrs,
		group:  h.group,
		output: h.output,
	}
}

func (h *compactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return clone
}

func (h *compactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return clone
}

func (h *compactHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
)

func colorForLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

// wantColors enables ANSI colors only for terminal outputs, and never when
// NO_COLOR is set.
func wantColors(output io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := output.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
