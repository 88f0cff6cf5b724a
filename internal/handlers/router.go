package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"homeclean-backend/internal/config"
	"homeclean-backend/internal/logging"
	"homeclean-backend/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health        *HealthHandler
	Tasks         *TasksHandler
	Properties    *PropertiesHandler
	Profiles      *ProfilesHandler
	Photos        *PhotosHandler
	Payments      *PaymentsHandler
	Webhook       *WebhookHandler
	Geocode       *GeocodeHandler
	Notifications *NotificationsHandler
}

// NewRouter builds the gin engine. The Stripe webhook sits outside the JWT
// group and is authenticated by its signature.
func NewRouter(cfg *config.Config, h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger(logger))

	router.GET("/health", h.Health.Health)
	router.POST("/api/v1/webhooks/stripe", h.Webhook.HandleStripeWebhook)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.GET("/profile", h.Profiles.GetProfile)
	api.PUT("/profile", h.Profiles.SaveProfile)
	api.POST("/profile/terms", h.Profiles.AcceptTerms)
	api.GET("/profile/work-preferences", h.Profiles.GetWorkPreferences)
	api.PUT("/profile/work-preferences", h.Profiles.SaveWorkPreferences)
	api.GET("/profile/bank-account", h.Profiles.GetBankAccount)
	api.PUT("/profile/bank-account", h.Profiles.SaveBankAccount)

	api.POST("/properties", h.Properties.CreateProperty)
	api.GET("/properties", h.Properties.ListProperties)
	api.GET("/properties/:property_id", h.Properties.GetProperty)
	api.PUT("/properties/:property_id", h.Properties.UpdateProperty)
	api.DELETE("/properties/:property_id", h.Properties.DeleteProperty)
	api.GET("/properties/:property_id/linen", h.Properties.GetLinenPlan)

	api.POST("/tasks", h.Tasks.CreateTask)
	api.GET("/tasks", h.Tasks.ListTasks)
	api.GET("/tasks/available", h.Tasks.ListAvailable)
	api.GET("/tasks/assigned", h.Tasks.ListAssigned)
	api.GET("/tasks/:task_id", h.Tasks.GetTask)
	api.PATCH("/tasks/:task_id", h.Tasks.UpdateTask)
	api.DELETE("/tasks/:task_id", h.Tasks.DeleteTask)
	api.POST("/tasks/:task_id/accept", h.Tasks.AcceptTask)
	api.POST("/tasks/:task_id/confirm", h.Tasks.ConfirmTask)
	api.POST("/tasks/:task_id/check-in", h.Tasks.CheckIn)
	api.POST("/tasks/:task_id/complete", h.Tasks.CompleteTask)
	api.POST("/tasks/:task_id/cancel", h.Tasks.CancelTask)

	api.POST("/tasks/:task_id/photos", h.Photos.UploadPhotos)
	api.GET("/tasks/:task_id/photos", h.Photos.ListPhotos)

	limiter := middleware.NewRateLimiter(30, time.Minute)
	api.POST("/geocode", limiter.Middleware(), h.Geocode.Geocode)
	api.POST("/notifications", h.Notifications.SendNotification)
	api.POST("/payments/intent", h.Payments.CreatePaymentIntent)

	return router
}
