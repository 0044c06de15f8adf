package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"feedsink/app/database"
	"feedsink/app/registry"
	"feedsink/app/tasks"
)

func NewHandler(sources *registry.Registry, meta database.MetadataRepository,
	items database.ItemRepository, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		sources:   sources,
		meta:      meta,
		items:     items,
		scheduler: scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if feedCount, err := h.meta.Count(c.Request.Context()); err == nil {
		health["feeds"] = feedCount
	}

	health["loaded_sources"] = h.sources.Count()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats := map[string]interface{}{
		"sources_loaded": h.sources.Count(),
		"sources_active": len(h.sources.GetActiveSources()),
	}

	if feedCount, err := h.meta.Count(ctx); err == nil {
		stats["feeds_tracked"] = feedCount
	}
	if errCount, err := h.meta.CountWithErrors(ctx); err == nil {
		stats["feeds_with_errors"] = errCount
	}
	if itemCount, err := h.items.Count(ctx); err == nil {
		stats["items_stored"] = itemCount
	}

	if last := h.scheduler.LastRun(); last != nil {
		stats["last_run"] = map[string]interface{}{
			"run_id":     last.RunID,
			"started_at": last.StartedAt.Format(time.RFC3339),
			"duration":   last.Duration().String(),
			"success":    last.Success(),
			"errors":     last.Errors(),
			"new_items":  last.NewItems(),
		}
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListSources(c *gin.Context) {
	ctx := c.Request.Context()
	sources := h.sources.GetSources()

	out := make([]map[string]interface{}, 0, len(sources))
	for _, src := range sources {
		info := map[string]interface{}{
			"name":           src.Name,
			"url":            src.URL,
			"active":         src.IsActive(),
			"fetch_interval": src.GetUpdateInterval().String(),
		}
		if lastErr := src.LastError(); lastErr != "" {
			info["last_error"] = lastErr
		}

		if m, err := h.meta.Get(ctx, src.Name); err == nil && m != nil {
			info["fetch_count"] = m.FetchCount
			if m.LastFetched != nil {
				info["last_fetched"] = m.LastFetched.Format(time.RFC3339)
			}
			if m.LastErrorMessage != "" {
				info["last_error_message"] = m.LastErrorMessage
			}
		}

		if count, err := h.items.CountByFeed(ctx, src.Name); err == nil {
			info["item_count"] = count
		}

		out = append(out, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": out,
		"total":   len(out),
	})
}

// APITriggerRun runs the ingestion pipeline for all due feeds synchronously
// and reports the aggregated outcome. force=true bypasses due computation.
func (h *Handler) APITriggerRun(c *gin.Context) {
	force := c.Query("force") == "true"

	slog.Info("Manual run triggered", "force", force)

	result := h.scheduler.RunDueFeeds(c.Request.Context(), force)

	c.JSON(http.StatusOK, gin.H{
		"success":   result.Errors() == 0,
		"run_id":    result.RunID,
		"duration":  result.Duration().String(),
		"processed": result.Success(),
		"errors":    result.Errors(),
		"new_items": result.NewItems(),
		"details":   result.Details(),
	})
}

// APITriggerFeed runs the pipeline for one named source immediately.
func (h *Handler) APITriggerFeed(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	src := h.sources.GetSource(name)
	if src == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	force := c.Query("force") == "true"
	ok := src.Fetch(force)

	response := gin.H{
		"source":  name,
		"success": ok,
	}
	if lastErr := src.LastError(); !ok && lastErr != "" {
		response["error"] = lastErr
	}

	c.JSON(http.StatusOK, response)
}
