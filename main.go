package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		logger.Warn("no .env file found, using system environment variables")
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func initLogger() {
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func main() {

	// Load .env variables
	LoadEnv()
	initLogger()

	if os.Getenv("JWT_SECRET") == "" {
		logger.Fatal("JWT_SECRET is missing in .env")
	}
	if os.Getenv("ADMIN_USER") == "" || os.Getenv("ADMIN_PASSWORD") == "" {
		logger.Fatal("ADMIN_USER / ADMIN_PASSWORD are missing in .env")
	}

	// Connect DB
	InitDB()

	// Start Gin
	r := gin.Default()

	// CORS + metrics
	r.Use(CORSMiddleware())
	r.Use(MetricsMiddleware())

	// Routes
	SetupRoutes(r)

	port := getEnv("PORT", "8080")
	logger.Infof("server running on http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
