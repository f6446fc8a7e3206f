package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/family"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logHooks writes observability events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnFetchStart(context.Context) {
	h.logger.Debug("fetching snapshot")
}

func (h *logHooks) OnFetchComplete(_ context.Context, members, rels int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "err", err, "duration", d)
		return
	}
	h.logger.Debug("fetch complete", "members", members, "relationships", rels, "duration", d)
}

func (h *logHooks) OnLayoutStart(_ context.Context, members int) {
	h.logger.Debug("layout start", "members", members)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, members int, d time.Duration, cached bool) {
	h.logger.Debug("layout complete", "members", members, "cached", cached, "duration", d)
}

func (h *logHooks) OnFlushStart(_ context.Context, batch string, changes int) {
	h.logger.Debug("flush start", "batch", batch, "changes", changes)
}

func (h *logHooks) OnFlushComplete(_ context.Context, batch string, written, failed int, d time.Duration) {
	h.logger.Debug("flush complete", "batch", batch, "written", written, "failed", failed, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnPositionWrite(_ context.Context, id family.ID, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("position write failed", "member", id, "err", err, "duration", d)
		return
	}
	h.logger.Debug("position written", "member", id, "duration", d)
}
