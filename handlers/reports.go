package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/prefilter"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

// Runner processes one post through the full pipeline synchronously.
type Runner interface {
	Process(ctx context.Context, post types.RawPost) *types.DisasterEvent
}

// SubmitReport ingests a user-submitted report and runs it through the
// pipeline, returning the resulting event.
func SubmitReport(c *gin.Context, runner Runner) {
	var request struct {
		Title    string `json:"title"`
		Content  string `json:"content" binding:"required"`
		Platform string `json:"platform"`
		Handle   string `json:"handle"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platform := request.Platform
	if platform == "" {
		platform = "manual"
	}

	event := runner.Process(c.Request.Context(), types.RawPost{
		Title:     request.Title,
		Content:   request.Content,
		Platform:  platform,
		Handle:    request.Handle,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})

	c.JSON(http.StatusOK, event)
}

// ScoreText runs only the keyword pre-filter over supplied text; useful
// for tuning the keyword tables without burning model calls.
func ScoreText(c *gin.Context) {
	var request struct {
		Input string `json:"input" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, prefilter.Score(request.Input))
}
