package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/logomosaic/pkg/observability"
)

// logHooks reports pipeline, cache and server events to a logger at debug
// level.
type logHooks struct {
	logger *log.Logger
}

// RegisterDebugHooks routes observability events to the CLI logger. main
// calls it when verbose logging is enabled.
func (c *CLI) RegisterDebugHooks() {
	h := &logHooks{logger: c.Logger.WithPrefix("trace")}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

func (h *logHooks) OnLoadStart(_ context.Context, kind string, count int) {
	h.logger.Debug("load start", "kind", kind, "count", count)
}

func (h *logHooks) OnLoadComplete(_ context.Context, kind string, loaded int, d time.Duration, err error) {
	h.logger.Debug("load done", "kind", kind, "loaded", loaded, "duration", d, "err", err)
}

func (h *logHooks) OnLayoutStart(_ context.Context, mode string, placements int) {
	h.logger.Debug("layout start", "mode", mode, "placements", placements)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, mode string, d time.Duration, err error) {
	h.logger.Debug("layout done", "mode", mode, "duration", d, "err", err)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "formats", formats, "duration", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(context.Context, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("request", "method", method, "route", route, "status", status, "duration", d)
}
