package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/services"
)

var optimizerService *services.OptimizerService

// CreateOptimizer godoc
// @Summary Start an optimization job
// @Description Validates references and cost coverage, records the job and dispatches it in the background
// @Tags optimizers
// @Accept json
// @Produce json
// @Success 201 {object} models.Optimizer
// @Router /optimizers [post]
func CreateOptimizer(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	var req dto.OptimizerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	job, err := optimizerService.Create(req, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   job,
	})
}

// ListOptimizers godoc
// @Summary List a project's optimization jobs
// @Tags optimizers
// @Produce json
// @Param project query string true "Project ID"
// @Success 200 {array} models.Optimizer
// @Router /optimizers [get]
func ListOptimizers(c *gin.Context) {
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

	jobs, err := optimizerService.ListByProject(projectID, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   jobs,
	})
}

// GetOptimizer godoc
// @Summary Get an optimization job
// @Tags optimizers
// @Produce json
// @Param id path string true "Optimization job ID"
// @Success 200 {object} models.Optimizer
// @Router /optimizers/{id} [get]
func GetOptimizer(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	job, err := optimizerService.Get(c.Param("id"), userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   job,
	})
}

// DeleteOptimizer godoc
// @Summary Delete an optimization job record
// @Tags optimizers
// @Param id path string true "Optimization job ID"
// @Success 200
// @Router /optimizers/{id} [delete]
func DeleteOptimizer(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	if err := optimizerService.Delete(c.Param("id"), userID, isAdmin); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Optimizer deleted successfully",
	})
}

// GetOptimizerResults godoc
// @Summary Optimization result CSV, materialized on first access
// @Tags optimizers
// @Produce text/csv
// @Param id path string true "Optimization job ID"
// @Router /optimizers/{id}/results [get]
func GetOptimizerResults(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}
	path, err := optimizerService.Results(c.Param("id"), userID, isAdmin)
	serveArtifact(c, path, err)
}
