package pipeline

import (
	"context"
	"log/slog"

	"feedsink/app/database"
)

// ErrorHandler records failures without ever interrupting pipeline flow.
// Feed-scoped errors additionally annotate the feed's metadata row so
// operators can inspect per-source health.
type ErrorHandler struct {
	meta   database.MetadataRepository
	logger *slog.Logger
}

func NewErrorHandler(meta database.MetadataRepository, logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{meta: meta, logger: logger}
}

// LogFeedError attributes an error to one feed. Failure to persist the
// annotation is itself only logged; logging is side-effect-only.
func (h *ErrorHandler) LogFeedError(ctx context.Context, feedID string, code Code, message string) {
	h.logger.Error("Feed error", "feed", feedID, "code", string(code), "error", message)

	if err := h.meta.SetLastError(ctx, feedID, message); err != nil {
		h.logger.Warn("Failed to annotate feed metadata", "feed", feedID, "error", err)
	}
}

// LogGeneralError attributes an error to the run as a whole.
func (h *ErrorHandler) LogGeneralError(code Code, message string) {
	h.logger.Error("Pipeline error", "code", string(code), "error", message)
}
