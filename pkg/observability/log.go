package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger. Successful events are logged at
// debug level, failures at warn, so a default-level logger stays quiet
// unless something goes wrong.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
// A nil logger means [log.Default].
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger.WithPrefix("obs")}
}

func (h *LogHooks) OnImportStart(_ context.Context, format string, size int) {
	h.Logger.Debug("import started", "format", format, "bytes", size)
}

func (h *LogHooks) OnImportComplete(_ context.Context, format string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("import failed", "format", format, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("import parsed", "format", format, "nodes", nodeCount, "duration", d)
}

func (h *LogHooks) OnImportApplied(_ context.Context, choice string, nodeCount int) {
	h.Logger.Debug("import applied", "choice", choice, "nodes", nodeCount)
}

func (h *LogHooks) OnOperation(_ context.Context, op string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("operation failed", "op", op, "err", err)
		return
	}
	h.Logger.Debug("operation", "op", op, "nodes", nodeCount, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.Logger.Warn("response", "method", method, "path", path, "status", status, "duration", d)
		return
	}
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetImportHooks(h)
	SetEditHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

var (
	_ ImportHooks = (*LogHooks)(nil)
	_ EditHooks   = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
