package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/david801380511/timeflow/config"
	"github.com/david801380511/timeflow/middleware"
	"github.com/david801380511/timeflow/routes"
	"github.com/david801380511/timeflow/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize logging
	config.InitLogging()

	// Initialize database
	config.InitDB()

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Setup routes
	routes.SetupRoutes(router)

	// Start the notification scheduler in the background
	checkInterval := services.DefaultCheckInterval
	if raw := os.Getenv("NOTIFICATION_CHECK_INTERVAL"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			checkInterval = time.Duration(secs) * time.Second
		} else {
			log.Printf("Warning: invalid NOTIFICATION_CHECK_INTERVAL %q, using default", raw)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := services.NewNotificationScheduler(config.DB, checkInterval)
	go scheduler.Start(ctx)

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s", port)
		log.Printf("🔔 Notification scheduler running every %s", checkInterval)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt, then shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	scheduler.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
