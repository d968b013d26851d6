package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetStoreHooks(h)
}

func (h *LogHooks) OnBuildStart(_ context.Context, diagram string, entityCount int) {
	h.logger.Debug("build started", "diagram", diagram, "entities", entityCount)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, diagram string, nodeCount int, d time.Duration, err error) {
	h.complete("build", d, err, "diagram", diagram, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, diagram string, nodeCount int) {
	h.logger.Debug("layout started", "diagram", diagram, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, diagram string, d time.Duration, err error) {
	h.complete("layout", d, err, "diagram", diagram)
}

func (h *LogHooks) OnResolveStart(_ context.Context, labels []string) {
	h.logger.Debug("resolve started", "labels", labels)
}

func (h *LogHooks) OnResolveComplete(_ context.Context, labels []string, relationCount int, d time.Duration, err error) {
	h.complete("resolve", d, err, "labels", labels, "relations", relationCount)
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

func (h *LogHooks) OnSnapshot(_ context.Context, driver string, d time.Duration, err error) {
	h.complete("snapshot", d, err, "driver", driver)
}

func (h *LogHooks) OnChange(_ context.Context, source string) {
	h.logger.Debug("change detected", "source", source)
}

func (h *LogHooks) complete(op string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "took", d.Round(time.Microsecond))
	if err != nil {
		h.logger.Debug(op+" failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug(op+" complete", kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ StoreHooks    = (*LogHooks)(nil)
)
