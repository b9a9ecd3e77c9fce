// internal/api/handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labordacousins/scriptbreakdown/internal/models"
	"github.com/labordacousins/scriptbreakdown/internal/services"
	"github.com/labordacousins/scriptbreakdown/internal/utils"
)

// Handler bundles the services the HTTP layer depends on.
type Handler struct {
	BreakdownService *services.BreakdownService
	ProgressService  *services.ProgressService
	logger           *utils.Logger
}

func NewHandler(breakdown *services.BreakdownService, progress *services.ProgressService) *Handler {
	return &Handler{
		BreakdownService: breakdown,
		ProgressService:  progress,
		logger:           utils.GetLogger(),
	}
}

type createBreakdownRequest struct {
	Text  string `json:"text" binding:"required"`
	Title string `json:"title"`
	// KnownCharacters optionally names characters the caller already knows;
	// identity resolution never rejects them.
	KnownCharacters []string `json:"known_characters"`
	Sync            bool     `json:"sync"`
}

// CreateBreakdown accepts raw screenplay text. By default it starts an
// asynchronous task and returns 202 with a task ID; with sync=true the full
// document comes back inline.
func (h *Handler) CreateBreakdown(c *gin.Context) {
	var req createBreakdownRequest
	if err := c.BindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "BAD_REQUEST", "text field is required")
		return
	}

	var titleCandidates []string
	if req.Title != "" {
		titleCandidates = []string{req.Title}
	}

	if req.Sync {
		doc, err := h.BreakdownService.AnalyzeScript(c.Request.Context(), req.Text, titleCandidates, req.KnownCharacters)
		if err != nil {
			respondAppError(c, err)
			return
		}
		if err := h.BreakdownService.SaveBreakdown(doc); err != nil {
			respondAppError(c, err)
			return
		}
		respondSuccess(c, http.StatusCreated, doc, "breakdown created")
		return
	}

	taskID := h.BreakdownService.StartBreakdown(req.Text, titleCandidates, req.KnownCharacters)
	respondSuccess(c, http.StatusAccepted, gin.H{"task_id": taskID}, "analysis started, subscribe for progress")
}

// ListBreakdowns returns stored breakdown metadata, newest first. A title
// query filters by normalized title match.
func (h *Handler) ListBreakdowns(c *gin.Context) {
	var metas []models.BreakdownMetadata
	var err error

	if title := c.Query("title"); title != "" {
		metas, err = h.BreakdownService.FindBreakdownsByTitle(title)
	} else {
		metas, err = h.BreakdownService.ListBreakdowns()
	}
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, metas, "")
}

// GetBreakdown returns one stored breakdown document.
func (h *Handler) GetBreakdown(c *gin.Context) {
	doc, err := h.BreakdownService.GetBreakdown(c.Param("id"))
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, doc, "")
}

// DeleteBreakdown removes a stored breakdown.
func (h *Handler) DeleteBreakdown(c *gin.Context) {
	if err := h.BreakdownService.DeleteBreakdown(c.Param("id")); err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil, "breakdown deleted")
}

// SubscribeProgress streams task progress as server-sent events until the
// task finishes or the client disconnects.
func (h *Handler) SubscribeProgress(c *gin.Context) {
	taskID := c.Param("task_id")

	tracker, exists := h.ProgressService.GetTracker(taskID)
	if !exists {
		respondError(c, http.StatusNotFound, "TASK_NOT_FOUND", fmt.Sprintf("no task with id %s", taskID))
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()

	updates := tracker.Subscribe()
	defer tracker.Unsubscribe(updates)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	fmt.Fprintf(c.Writer, "event: connected\ndata: {\"task_id\":%q}\n\n", taskID)
	c.Writer.Flush()

	for {
		select {
		case <-clientGone:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			data, _ := json.Marshal(update)
			fmt.Fprintf(c.Writer, "event: progress\ndata: %s\n\n", data)
			c.Writer.Flush()

			if update.Status == "completed" || update.Status == "failed" {
				return
			}
		case <-ticker.C:
			fmt.Fprintf(c.Writer, "event: heartbeat\ndata: {\"time\":%d}\n\n", time.Now().Unix())
			c.Writer.Flush()
		}
	}
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"status": "ok"}, "")
}
