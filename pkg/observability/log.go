package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug record. It implements all three
// hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l under the "hooks" prefix.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, mode string, entityCount int) {
	h.logger.Debug("layout start", "mode", mode, "entities", entityCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, mode string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "mode", mode, "elapsed", d, "err", err)
		return
	}
	h.logger.Debug("layout done", "mode", mode, "elapsed", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "elapsed", d, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "elapsed", d)
}

func (h *LogHooks) OnAnnealComplete(_ context.Context, entityCount, iterations int, energy float64, d time.Duration) {
	h.logger.Debug("annealed", "entities", entityCount, "iterations", iterations, "energy", energy, "elapsed", d)
}

func (h *LogHooks) OnReoptimize(_ context.Context, previous, found float64, improved bool) {
	h.logger.Debug("reoptimized", "previous", previous, "found", found, "improved", improved)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ ColorHooks  = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
)
