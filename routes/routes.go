package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/handlers"
)

func SetupRouter(store handlers.EventReader, runner handlers.Runner, classifier handlers.TextClassifier) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "SmartEAS disaster validation pipeline",
		})
	})

	api := r.Group("/api/smarteas")
	{
		api.GET("/events", func(c *gin.Context) {
			handlers.ListEvents(c, store)
		})
		api.GET("/events/:id", func(c *gin.Context) {
			handlers.GetEvent(c, store)
		})
		api.GET("/alerts", func(c *gin.Context) {
			handlers.ListActiveAlerts(c, store)
		})
		api.POST("/reports", func(c *gin.Context) {
			handlers.SubmitReport(c, runner)
		})
		api.POST("/classify", func(c *gin.Context) {
			handlers.ClassifyText(c, classifier)
		})
		api.POST("/score", handlers.ScoreText)
		api.GET("/simulate", func(c *gin.Context) {
			handlers.SimulateReports(c, runner)
		})
	}

	return r
}
