package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/LavaJover/bakery-order-service/internal/config"
	"github.com/go-chi/chi/v5/middleware"
)

// ContextHandler stamps the chi request id onto every record logged with a
// request context.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if requestID := middleware.GetReqID(ctx); requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// New builds the service logger from the log section of the config.
func New(cfg config.LogConfig, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(NewContextHandler(handler))
}

// Setup installs the configured logger as the slog default.
func Setup(cfg config.LogConfig) *slog.Logger {
	out := os.Stdout
	if strings.EqualFold(cfg.LogOutput, "stderr") {
		out = os.Stderr
	}
	l := New(cfg, out)
	slog.SetDefault(l)
	return l
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
