package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/services"
)

var predictionModelService = services.NewPredictionModelService()

// ListPredictionModels godoc
// @Summary List the model catalogue offered for training
// @Tags predictionmodels
// @Produce json
// @Success 200 {array} models.PredictionModel
// @Router /predictionmodels [get]
func ListPredictionModels(c *gin.Context) {
	catalogue, err := predictionModelService.ListModels()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   catalogue,
	})
}

// CreatePredictionModel godoc
// @Summary Add a catalogue entry (admin only)
// @Tags predictionmodels
// @Accept json
// @Produce json
// @Success 201 {object} models.PredictionModel
// @Router /predictionmodels [post]
func CreatePredictionModel(c *gin.Context) {
	var req dto.PredictionModelCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	model, err := predictionModelService.CreateModel(req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   model,
	})
}

// DeletePredictionModel godoc
// @Summary Remove a catalogue entry (admin only)
// @Tags predictionmodels
// @Param id path string true "Prediction model ID"
// @Success 200
// @Router /predictionmodels/{id} [delete]
func DeletePredictionModel(c *gin.Context) {
	if err := predictionModelService.DeleteModel(c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Prediction model deleted successfully",
	})
}
