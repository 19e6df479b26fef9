package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/db"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

// EventReader is the read side of the event store.
type EventReader interface {
	GetEvent(ctx context.Context, id string) (types.DisasterEvent, error)
	GetEvents(ctx context.Context, state types.EventState) ([]types.DisasterEvent, error)
	GetActiveAlerts(ctx context.Context) ([]types.Alert, error)
}

// ListEvents returns all events, optionally filtered by ?state=.
func ListEvents(c *gin.Context, store EventReader) {
	state := types.EventState(c.Query("state"))

	events, err := store.GetEvents(c.Request.Context(), state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if events == nil {
		events = []types.DisasterEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// GetEvent returns a single event by id.
func GetEvent(c *gin.Context, store EventReader) {
	event, err := store.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

// ListActiveAlerts returns alerts that have not yet expired.
func ListActiveAlerts(c *gin.Context, store EventReader) {
	alerts, err := store.GetActiveAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if alerts == nil {
		alerts = []types.Alert{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}
