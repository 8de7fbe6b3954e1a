package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"haulaway/handlers"
)

// RegisterWizardRoutes registers the booking flow endpoints.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/wizard")
	{
		api.POST("/session", hb.StartSession)

		session := api.Group("/session/:sessionID")
		session.GET("", hb.GetState)
		session.PATCH("/fields", hb.UpdateFields)
		session.POST("/continue", hb.Continue)
		session.POST("/back", hb.Back)
		session.POST("/reset", hb.Reset)

		session.GET("/address/search", hb.SearchAddress)
		session.POST("/address/select", hb.SelectAddress)
		session.POST("/address/check", hb.CheckAddress)

		session.POST("/privacy/accept", hb.AcceptPrivacy)
		session.POST("/verify/send", hb.SendCode)
		session.POST("/verify/check", hb.VerifyCode)

		session.GET("/job-sizes", hb.JobSizes)
		session.PUT("/job", hb.SetJob)
		session.POST("/photos", hb.UploadPhotos)
		session.DELETE("/photos/:index", hb.DeletePhoto)

		session.POST("/availability", hb.Availability)
		session.POST("/submit", hb.Submit)
	}
}

// RegisterRoutes sets up CORS, the health endpoint and all wizard routes.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", hb.Health)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	RegisterWizardRoutes(r, hb)
}
