package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sutd-rms/secret-sauce/lib/tabular"
	"github.com/sutd-rms/secret-sauce/services"
)

var dataBlockService = services.NewDataBlockService()

// CreateDataBlock godoc
// @Summary Upload a time-series data block
// @Description Verifies the CSV upload and records the block with its schema snapshot
// @Tags datablocks
// @Accept multipart/form-data
// @Produce json
// @Param project formData string true "Project ID"
// @Param name formData string true "Block name"
// @Param file formData file true "Time-series CSV"
// @Success 201 {object} models.DataBlock
// @Router /datablocks [post]
func CreateDataBlock(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	projectID := c.PostForm("project")
	name := c.PostForm("name")
	if projectID == "" || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Fields project and name are required",
		})
		return
	}

	filename, data, ok := readUpload(c, "file")
	if !ok {
		return
	}

	block, err := dataBlockService.CreateFromUpload(projectID, name, filename, data, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   block,
	})
}

// ListDataBlocks godoc
// @Summary List a project's data blocks
// @Tags datablocks
// @Produce json
// @Param project query string true "Project ID"
// @Success 200 {array} models.DataBlock
// @Router /datablocks [get]
func ListDataBlocks(c *gin.Context) {
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

	blocks, err := dataBlockService.ListByProject(projectID, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   blocks,
	})
}

// GetDataBlock godoc
// @Summary Get a data block with its schema
// @Tags datablocks
// @Produce json
// @Param id path string true "Data block ID"
// @Success 200 {object} models.DataBlock
// @Router /datablocks/{id} [get]
func GetDataBlock(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	block, err := dataBlockService.GetDataBlock(c.Param("id"), userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   block,
	})
}

// DeleteDataBlock godoc
// @Summary Delete a data block
// @Tags datablocks
// @Param id path string true "Data block ID"
// @Success 200
// @Router /datablocks/{id} [delete]
func DeleteDataBlock(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	if err := dataBlockService.DeleteDataBlock(c.Param("id"), userID, isAdmin); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Data block deleted successfully",
	})
}

// queryItems parses the comma-separated items query parameter
func queryItems(c *gin.Context) ([]int, bool) {
	raw := c.Query("items")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Query parameter items is required",
		})
		return nil, false
	}
	items, err := tabular.ParseItemList(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid items list",
			"error":   err.Error(),
		})
		return nil, false
	}
	return items, true
}

// GetPrices godoc
// @Summary Price observations for the requested items
// @Tags datablocks
// @Produce json
// @Param id path string true "Data block ID"
// @Param items query string true "Comma-separated item IDs, at most 10"
// @Success 200 {array} tabular.ItemSeries
// @Router /datablocks/{id}/prices [get]
func GetPrices(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}
	items, ok := queryItems(c)
	if !ok {
		return
	}

	series, err := dataBlockService.Prices(c.Param("id"), items, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   series,
	})
}

// GetQuantities godoc
// @Summary Weekly quantity sums for the requested items, zero-filled
// @Tags datablocks
// @Produce json
// @Param id path string true "Data block ID"
// @Param items query string true "Comma-separated item IDs, at most 10"
// @Success 200 {array} tabular.ItemSeries
// @Router /datablocks/{id}/quantities [get]
func GetQuantities(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}
	items, ok := queryItems(c)
	if !ok {
		return
	}

	series, err := dataBlockService.Quantities(c.Param("id"), items, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   series,
	})
}

// GetAveragePrices godoc
// @Summary Mean price per item over the whole block
// @Tags datablocks
// @Produce json
// @Param id path string true "Data block ID"
// @Success 200 {array} tabular.ItemAverage
// @Router /datablocks/{id}/average-prices [get]
func GetAveragePrices(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	averages, err := dataBlockService.AveragePrices(c.Param("id"), userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   averages,
	})
}
