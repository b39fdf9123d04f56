package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	v1 "github.com/sutd-rms/secret-sauce/api/v1"
	"github.com/sutd-rms/secret-sauce/config"
	"github.com/sutd-rms/secret-sauce/database"
	"github.com/sutd-rms/secret-sauce/lib/tasks"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize database connection and schema
	database.Initialize()

	// Background dispatch queue for training and optimization jobs
	queue := tasks.NewQueue(config.QueueSize(), config.WorkerCount())
	defer queue.Stop()

	// Wire services that depend on the model service client and the queue
	v1.Init(queue)

	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Initialize router
	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	v1.RegisterRoutes(apiV1)

	port := config.GetEnv("PORT", "8080")
	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
