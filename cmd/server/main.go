package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"ageback-backend-go/internal/api"
	"ageback-backend-go/internal/app"
	"ageback-backend-go/internal/config"
	"ageback-backend-go/internal/middleware"
	"ageback-backend-go/internal/telemetry"
)

func main() {
	// --- 1. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 2. Initialize Logger (Zap) ---
	release := strings.ToLower(appConfig.GinMode) == gin.ReleaseMode
	var zapLogger *zap.Logger
	if release {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded.",
		zap.String("store", appConfig.StoreDriver),
		zap.String("fileStore", appConfig.FileStore),
		zap.String("mailProvider", appConfig.MailProvider))

	// --- 3. Initialize Tracing ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInitCtx()

	tel, err := telemetry.New(initCtx, telemetry.Config{
		Endpoint:    appConfig.OtelEndpoint,
		ServiceName: appConfig.OtelServiceName,
		Insecure:    appConfig.OtelInsecure,
	})
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize tracing", zap.Error(err))
	}

	// --- 4. Initialize Store, Collaborators and Services ---
	application, err := app.New(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize application", zap.Error(err))
	}
	zapLogger.Info("Core services initialized successfully.")

	// --- 5. Seed Lessons ---
	if appConfig.SeedLessonsOnStart {
		inserted, err := application.Services.Lessons.SeedDefaults(initCtx)
		if err != nil {
			// The catalog still serves from the seed table.
			zapLogger.Warn("Lesson seeding failed", zap.Error(err))
		} else {
			zapLogger.Info("Lesson seeding complete.", zap.Int("inserted", inserted))
		}
	}

	// --- 6. Setup Gin HTTP Engine ---
	if release {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// --- 7. Apply Global Middleware (Order is important) ---
	router.Use(otelgin.Middleware(appConfig.OtelServiceName, otelgin.WithTracerProvider(tel.TracerProvider)))
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig.ClientOrigins()))
	zapLogger.Info("CORS Middleware enabled", zap.Strings("origins", appConfig.ClientOrigins()))

	// --- 8. Setup API Routes ---
	authMW := middleware.NewAuthMiddleware(app.BuildAdminVerifier(initCtx, appConfig, zapLogger), zapLogger)
	signinLimiter := middleware.NewRateLimiter(application.Redis, "signin",
		middleware.PerMinute(appConfig.SigninRatePerMinute), zapLogger)
	defer signinLimiter.Stop()

	api.SetupRoutes(router, appConfig, zapLogger, application.Services, authMW, signinLimiter)

	// --- 9. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 10. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		zapLogger.Warn("Tracer shutdown failed", zap.Error(err))
	}
	if err := application.Close(); err != nil {
		zapLogger.Warn("Closing collaborators failed", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
