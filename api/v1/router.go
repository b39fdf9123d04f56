package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/sutd-rms/secret-sauce/config"
	"github.com/sutd-rms/secret-sauce/lib/rms"
	"github.com/sutd-rms/secret-sauce/lib/tasks"
	"github.com/sutd-rms/secret-sauce/middleware"
	"github.com/sutd-rms/secret-sauce/services"
)

// Init wires the services that talk to the model service and the
// background dispatch queue. It must run before RegisterRoutes.
func Init(queue *tasks.Queue) {
	client := rms.NewClient(config.RMSServiceURL(), config.RMSTimeout())
	constraintService = services.NewConstraintService(client)
	trainedModelService = services.NewTrainedModelService(client, queue)
	optimizerService = services.NewOptimizerService(client, queue)
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// Auth endpoints
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", Register)
		authGroup.POST("/login", Login)
		// Use auth middleware here only for the /me endpoint
		authGroup.GET("/me", middleware.AuthMiddleware(), GetCurrentUser)
	}

	// Project endpoints, cost-sheet items included - protected by AuthMiddleware
	projectGroup := router.Group("/projects")
	projectGroup.Use(middleware.AuthMiddleware())
	{
		projectGroup.GET("", ListProjects)
		projectGroup.POST("", CreateProject)
		projectGroup.GET("/:id", GetProject)
		projectGroup.PUT("/:id", UpdateProject)
		projectGroup.DELETE("/:id", DeleteProject)
		projectGroup.POST("/:id/items", UploadCostSheet)
		projectGroup.GET("/:id/items", ListItems)
		projectGroup.DELETE("/:id/items", DeleteItems)
	}

	// Data block endpoints - protected by AuthMiddleware
	dataBlockGroup := router.Group("/datablocks")
	dataBlockGroup.Use(middleware.AuthMiddleware())
	{
		dataBlockGroup.GET("", ListDataBlocks)
		dataBlockGroup.POST("", CreateDataBlock)
		dataBlockGroup.GET("/:id", GetDataBlock)
		dataBlockGroup.DELETE("/:id", DeleteDataBlock)
		dataBlockGroup.GET("/:id/prices", GetPrices)
		dataBlockGroup.GET("/:id/quantities", GetQuantities)
		dataBlockGroup.GET("/:id/average-prices", GetAveragePrices)
	}

	// Constraint endpoints - protected by AuthMiddleware
	constraintBlockGroup := router.Group("/constraintblocks")
	constraintBlockGroup.Use(middleware.AuthMiddleware())
	{
		constraintBlockGroup.GET("", ListConstraintBlocks)
		constraintBlockGroup.POST("", CreateConstraintBlock)
		constraintBlockGroup.GET("/:id", GetConstraintBlock)
		constraintBlockGroup.DELETE("/:id", DeleteConstraintBlock)
	}
	constraintGroup := router.Group("/constraints")
	constraintGroup.Use(middleware.AuthMiddleware())
	{
		constraintGroup.POST("", CreateConstraint)
		constraintGroup.GET("/:id", GetConstraint)
		constraintGroup.DELETE("/:id", DeleteConstraint)
	}

	// Prediction model catalogue - reads for everyone, writes for admins
	catalogueGroup := router.Group("/predictionmodels")
	catalogueGroup.Use(middleware.AuthMiddleware())
	{
		catalogueGroup.GET("", ListPredictionModels)
		catalogueGroup.POST("", middleware.AdminMiddleware(), CreatePredictionModel)
		catalogueGroup.DELETE("/:id", middleware.AdminMiddleware(), DeletePredictionModel)
	}

	// Training job endpoints - protected by AuthMiddleware
	trainedModelGroup := router.Group("/trainedmodels")
	trainedModelGroup.Use(middleware.AuthMiddleware())
	{
		trainedModelGroup.GET("", ListTrainedModels)
		trainedModelGroup.POST("", CreateTrainedModel)
		trainedModelGroup.GET("/:id", GetTrainedModel)
		trainedModelGroup.DELETE("/:id", DeleteTrainedModel)
		trainedModelGroup.GET("/:id/feature-importance", GetFeatureImportance)
		trainedModelGroup.GET("/:id/elasticity", GetElasticity)
		trainedModelGroup.GET("/:id/cv-score", GetCVScore)
	}

	// Optimization job endpoints - protected by AuthMiddleware
	optimizerGroup := router.Group("/optimizers")
	optimizerGroup.Use(middleware.AuthMiddleware())
	{
		optimizerGroup.GET("", ListOptimizers)
		optimizerGroup.POST("", CreateOptimizer)
		optimizerGroup.GET("/:id", GetOptimizer)
		optimizerGroup.DELETE("/:id", DeleteOptimizer)
		optimizerGroup.GET("/:id/results", GetOptimizerResults)
	}
}
