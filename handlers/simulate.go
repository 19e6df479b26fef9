package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

// samplePosts exercise each pipeline path: a confirmable disaster, an
// unconfirmable one, and a non-disaster.
var samplePosts = []string{
	"Massive earthquake just hit San Francisco, magnitude 7.2! Buildings shaking everywhere",
	"Severe flooding in downtown Houston, streets completely underwater",
	"This new earthquake documentary is absolutely devastating, what a film",
}

// SimulateReports feeds canned posts through the pipeline; handy for
// demos and smoke-testing a deployment end to end.
func SimulateReports(c *gin.Context, runner Runner) {
	events := make([]*types.DisasterEvent, 0, len(samplePosts))
	for _, text := range samplePosts {
		event := runner.Process(c.Request.Context(), types.RawPost{
			ID:        uuid.NewString(),
			Content:   text,
			Platform:  "simulation",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		events = append(events, event)
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}
