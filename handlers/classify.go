package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/prefilter"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

// TextClassifier classifies free text given its keyword signal.
type TextClassifier interface {
	Classify(ctx context.Context, text string, signal types.KeywordSignal) types.ClassificationResult
}

// ClassifyText runs the pre-filter and classifier over supplied text
// without creating an event; validation is not performed.
func ClassifyText(c *gin.Context, classifier TextClassifier) {
	var request struct {
		Input string `json:"input" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signal := prefilter.Score(request.Input)
	result := classifier.Classify(c.Request.Context(), request.Input, signal)

	c.JSON(http.StatusOK, gin.H{
		"signal":         signal,
		"classification": result,
	})
}
