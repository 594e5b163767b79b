// Package logger provides structured logging for the bookclub tools, with a
// colored console format, JSON for production, and GitHub Actions workflow
// commands when running inside a workflow.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Format names accepted by Config.Format.
const (
	FormatJSON    = "json"
	FormatPretty  = "pretty"
	FormatActions = "actions"
)

// ANSI color codes.
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorGray    = "\033[37m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
)

// Logger wraps slog.Logger with additional functionality.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Writer      io.Writer
	Format      string
	Environment string
	Level       slog.Level
	AddSource   bool
}

// New creates a new logger with the given configuration.
func New(cfg Config) *Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	if cfg.Format == "" {
		switch {
		case os.Getenv("GITHUB_ACTIONS") == "true":
			cfg.Format = FormatActions
		case cfg.Environment == "production":
			cfg.Format = FormatJSON
		default:
			cfg.Format = FormatPretty
		}
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	case FormatActions:
		handler = NewActionsHandler(cfg.Writer, opts)
	default:
		handler = NewPrettyHandler(cfg.Writer, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel converts a string to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// baseHandler carries the attrs and level filtering shared by both text handlers.
type baseHandler struct {
	opts  *slog.HandlerOptions
	attrs []slog.Attr
}

func (h *baseHandler) enabled(level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *baseHandler) collect(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return attrs
}

func (h *baseHandler) with(attrs []slog.Attr) baseHandler {
	merged := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	copy(merged[len(h.attrs):], attrs)
	return baseHandler{opts: h.opts, attrs: merged}
}

// PrettyHandler formats logs in a human-readable way with colors.
type PrettyHandler struct {
	baseHandler
	writer io.Writer
}

// NewPrettyHandler creates a new pretty handler.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{baseHandler: baseHandler{opts: opts}, writer: w}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

// Handle writes "TIME LVL message key=value ...".
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)

	buf = append(buf, colorDim...)
	buf = append(buf, r.Time.Format("15:04:05")...)
	buf = append(buf, colorReset...)
	buf = append(buf, ' ')

	levelStr, levelColor := formatLevel(r.Level)
	buf = append(buf, levelColor...)
	buf = append(buf, levelStr...)
	buf = append(buf, colorReset...)
	buf = append(buf, ' ')

	if h.opts.AddSource && r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		buf = append(buf, colorDim...)
		buf = append(buf, filepath.Base(f.File)...)
		buf = append(buf, ':')
		buf = append(buf, strconv.Itoa(f.Line)...)
		buf = append(buf, colorReset...)
		buf = append(buf, ' ')
	}

	buf = append(buf, colorBold...)
	buf = append(buf, r.Message...)
	buf = append(buf, colorReset...)

	if attrs := h.collect(r); len(attrs) > 0 {
		buf = append(buf, ' ')
		buf = append(buf, colorCyan...)
		buf = appendAttrs(buf, attrs)
		buf = append(buf, colorReset...)
	}

	buf = append(buf, '\n')
	_, err := h.writer.Write(buf)
	return err
}

// WithAttrs returns a new handler with additional attributes.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyHandler{baseHandler: h.with(attrs), writer: h.writer}
}

// WithGroup is a no-op; groups are flattened in console output.
func (h *PrettyHandler) WithGroup(_ string) slog.Handler {
	return h
}

// ActionsHandler writes records as GitHub Actions workflow commands so warnings
// and notices show up as annotations on the run.
type ActionsHandler struct {
	baseHandler
	writer io.Writer
}

// NewActionsHandler creates a handler emitting ::warning::/::notice:: lines.
func NewActionsHandler(w io.Writer, opts *slog.HandlerOptions) *ActionsHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ActionsHandler{baseHandler: baseHandler{opts: opts}, writer: w}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ActionsHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

// Handle writes one workflow command per record.
func (h *ActionsHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)
	buf = append(buf, actionsCommand(r.Level)...)
	buf = append(buf, escapeActions(r.Message)...)

	if attrs := h.collect(r); len(attrs) > 0 {
		buf = append(buf, ' ')
		buf = append(buf, escapeActions(string(appendAttrs(nil, attrs)))...)
	}

	buf = append(buf, '\n')
	_, err := h.writer.Write(buf)
	return err
}

// WithAttrs returns a new handler with additional attributes.
func (h *ActionsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ActionsHandler{baseHandler: h.with(attrs), writer: h.writer}
}

// WithGroup is a no-op; workflow commands are single-line.
func (h *ActionsHandler) WithGroup(_ string) slog.Handler {
	return h
}

func actionsCommand(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "::error::"
	case level >= slog.LevelWarn:
		return "::warning::"
	case level >= slog.LevelInfo:
		return "::notice::"
	default:
		return "::debug::"
	}
}

// escapeActions applies the workflow command data escaping rules.
func escapeActions(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

func appendAttrs(buf []byte, attrs []slog.Attr) []byte {
	for i, attr := range attrs {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, attr.Key...)
		buf = append(buf, '=')
		buf = append(buf, formatValue(attr.Value)...)
	}
	return buf
}

// formatLevel returns the formatted level string with color.
func formatLevel(level slog.Level) (levelStr, levelColor string) {
	switch level {
	case slog.LevelDebug:
		return "DBG", colorMagenta
	case slog.LevelInfo:
		return "INF", colorGreen
	case slog.LevelWarn:
		return "WRN", colorYellow
	case slog.LevelError:
		return "ERR", colorRed
	default:
		return level.String(), colorGray
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	default:
		return v.String()
	}
}

// WithError adds an error attribute to the logger.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With(slog.String("error", err.Error()))}
}

// WithField adds a single field to the logger.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Logger: l.With(slog.Any(key, value))}
}
