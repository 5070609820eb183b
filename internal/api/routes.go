package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ageback-backend-go/internal/config"
	"ageback-backend-go/internal/core"
	"ageback-backend-go/internal/metrics"
	"ageback-backend-go/internal/middleware"
)

// Services groups the service layer handed to SetupRoutes.
type Services struct {
	Accounts      core.AccountService
	Lessons       core.LessonService
	Billing       core.BillingService
	Notifications core.NotificationService
	Media         core.MediaService
}

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (logging, recovery, CORS) is expected to be applied to
// the router before this is called.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	services Services,
	authMW *middleware.AuthMiddleware,
	signinLimiter *middleware.RateLimiter,
) {
	if err := RegisterValidators(); err != nil {
		logger.Fatal("Failed to register request validators", zap.Error(err))
	}

	authHandler := NewAuthHandler(services.Accounts, logger)
	userHandler := NewUserHandler(services.Accounts, logger)
	lessonHandler := NewLessonHandler(services.Lessons, logger)
	billingHandler := NewBillingHandler(services.Billing, services.Accounts, appConfig.VerifyPaymentSession, logger)
	adminHandler := NewAdminHandler(services.Accounts, services.Notifications, services.Media, logger)

	// --- Payment ---
	router.GET("/plans", billingHandler.ListPlans)
	router.POST("/create-checkout-session", billingHandler.CreateCheckoutSession)
	router.POST("/create-subscription-session", billingHandler.CreateSubscriptionSession)
	router.GET("/payment-status/:sessionId", billingHandler.GetPaymentStatus)
	// Stripe authenticates webhooks via signature, checked by the service.
	router.POST("/webhooks/stripe", billingHandler.HandleStripeWebhook)

	// --- Lessons ---
	router.GET("/lesson/:id", lessonHandler.GetLesson)
	router.GET("/lessons", lessonHandler.GetAllLessons)

	apiGroup := router.Group("/api")
	{
		signin := []gin.HandlerFunc{authHandler.SignIn}
		if signinLimiter != nil {
			signin = append([]gin.HandlerFunc{signinLimiter.Handler()}, signin...)
		}
		apiGroup.POST("/auth/signin", signin...)

		users := apiGroup.Group("/users")
		{
			users.POST("/create-lead", userHandler.CreateLead)
			users.POST("/upgrade-to-customer", userHandler.UpgradeToCustomer)
			users.POST("/mark-lesson-viewed", userHandler.MarkLessonViewed)
			users.GET("/profile/:email", userHandler.GetProfile)
		}

		apiGroup.POST("/payment/success", billingHandler.PaymentSuccess)

		admin := apiGroup.Group("/admin", authMW.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users/:id/role", adminHandler.SetRole)
			admin.POST("/users/:id/subscription", adminHandler.SetRole)
			admin.POST("/test-email", adminHandler.SendTestEmail)

			admin.PUT("/lessons/:id/refs", lessonHandler.UpdateExternalRefs)
			admin.PUT("/lessons/:id/title", lessonHandler.UpdateTitle)

			files := admin.Group("/files")
			{
				files.GET("/videos", adminHandler.ListVideos)
				files.POST("/videos", adminHandler.UploadVideo)
				files.GET("/images", adminHandler.ListImages)
				files.GET("/check", adminHandler.CheckFileStore)
				files.DELETE("/:fileId", adminHandler.DeleteFile)
			}
		}

		apiGroup.GET("/health", healthCheck)
	}

	router.GET("/health", healthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("API routes configured.")
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
}
