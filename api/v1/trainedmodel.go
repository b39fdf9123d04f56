package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/services"
	"github.com/sutd-rms/secret-sauce/utils"
)

var trainedModelService *services.TrainedModelService

// CreateTrainedModel godoc
// @Summary Start a training job
// @Description Records the job and dispatches the training request in the background
// @Tags trainedmodels
// @Accept json
// @Produce json
// @Success 201 {object} models.TrainedModel
// @Router /trainedmodels [post]
func CreateTrainedModel(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	var req dto.TrainedModelCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	job, err := trainedModelService.Create(req, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   job,
	})
}

// ListTrainedModels godoc
// @Summary List a project's training jobs with reconciled progress
// @Tags trainedmodels
// @Produce json
// @Param project query string true "Project ID"
// @Success 200 {array} models.TrainedModel
// @Router /trainedmodels [get]
func ListTrainedModels(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	projectID := c.Query("project")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Query parameter project is required",
		})
		return
	}

	jobs, err := trainedModelService.ListByProject(projectID, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   jobs,
	})
}

// GetTrainedModel godoc
// @Summary Get a training job with reconciled progress
// @Tags trainedmodels
// @Produce json
// @Param id path string true "Training job ID"
// @Success 200 {object} models.TrainedModel
// @Router /trainedmodels/{id} [get]
func GetTrainedModel(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	job, err := trainedModelService.Get(c.Param("id"), userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   job,
	})
}

// DeleteTrainedModel godoc
// @Summary Delete a training job record
// @Tags trainedmodels
// @Param id path string true "Training job ID"
// @Success 200
// @Router /trainedmodels/{id} [delete]
func DeleteTrainedModel(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	if err := trainedModelService.Delete(c.Param("id"), userID, isAdmin); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Trained model deleted successfully",
	})
}

// serveArtifact streams the materialized CSV at the given media path
func serveArtifact(c *gin.Context, path string, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.FileAttachment(utils.MediaPath(path), "download.csv")
}

// GetFeatureImportance godoc
// @Summary Feature importance CSV, materialized on first access
// @Tags trainedmodels
// @Produce text/csv
// @Param id path string true "Training job ID"
// @Router /trainedmodels/{id}/feature-importance [get]
func GetFeatureImportance(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}
	path, err := trainedModelService.FeatureImportance(c.Param("id"), userID, isAdmin)
	serveArtifact(c, path, err)
}

// GetElasticity godoc
// @Summary Elasticity estimate CSV, materialized on first access
// @Tags trainedmodels
// @Produce text/csv
// @Param id path string true "Training job ID"
// @Router /trainedmodels/{id}/elasticity [get]
func GetElasticity(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}
	path, err := trainedModelService.Elasticity(c.Param("id"), userID, isAdmin)
	serveArtifact(c, path, err)
}

// GetCVScore godoc
// @Summary Cross-validation score CSV, materialized on first access
// @Tags trainedmodels
// @Produce text/csv
// @Param id path string true "Training job ID"
// @Router /trainedmodels/{id}/cv-score [get]
func GetCVScore(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}
	path, err := trainedModelService.CVScore(c.Param("id"), userID, isAdmin)
	serveArtifact(c, path, err)
}
