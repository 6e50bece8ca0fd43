package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB connects to the TimeFlow MySQL database and stores the handle in
// the package-level DB used by controllers and the notification scheduler.
func InitDB() {
	var err error

	// Get database credentials from environment variables
	dbHost := envOrDefault("DB_HOST", "localhost")
	dbPort := envOrDefault("DB_PORT", "3306")
	dbDatabase := envOrDefault("DB_DATABASE", "timeflow")
	dbUsername := os.Getenv("DB_USERNAME")
	dbPassword := os.Getenv("DB_PASSWORD")

	// Create DSN (Data Source Name)
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbUsername,
		dbPassword,
		dbHost,
		dbPort,
		dbDatabase,
	)

	// Configure GORM
	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	debugSQL := strings.ToLower(os.Getenv("DEBUG_SQL"))

	// In production, suppress SQL logs unless explicitly re-enabled via DEBUG_SQL=true.
	// Switch the level back to logger.Info to print SQL statements again.
	logLevel := logger.Info
	if environment == "production" && debugSQL != "true" {
		logLevel = logger.Warn
	}

	config := &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	}

	// Connect to database
	DB, err = gorm.Open(mysql.Open(dsn), config)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connected successfully")
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
