package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/services"
)

var constraintService *services.ConstraintService

// CreateConstraintBlock godoc
// @Summary Create a constraint block
// @Description Instantiates a block against a data block's schema, snapshotting one parameter per schema item
// @Tags constraints
// @Accept json
// @Produce json
// @Success 201 {object} models.ConstraintBlock
// @Router /constraintblocks [post]
func CreateConstraintBlock(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	var req dto.ConstraintBlockCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	block, err := constraintService.CreateBlock(req, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   block,
	})
}

// ListConstraintBlocks godoc
// @Summary List a project's constraint blocks
// @Tags constraints
// @Produce json
// @Param project query string true "Project ID"
// @Success 200 {array} models.ConstraintBlock
// @Router /constraintblocks [get]
func ListConstraintBlocks(c *gin.Context) {
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

	blocks, err := constraintService.ListBlocks(projectID, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   blocks,
	})
}

// GetConstraintBlock godoc
// @Summary Get a constraint block with rendered constraints
// @Tags constraints
// @Produce json
// @Param id path string true "Constraint block ID"
// @Success 200 {object} dto.ConstraintBlockDetail
// @Router /constraintblocks/{id} [get]
func GetConstraintBlock(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	detail, err := constraintService.BlockDetail(c.Param("id"), userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   detail,
	})
}

// DeleteConstraintBlock godoc
// @Summary Delete a constraint block and its contents
// @Tags constraints
// @Param id path string true "Constraint block ID"
// @Success 200
// @Router /constraintblocks/{id} [delete]
func DeleteConstraintBlock(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	if err := constraintService.DeleteBlock(c.Param("id"), userID, isAdmin); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Constraint block deleted successfully",
	})
}

// CreateConstraint godoc
// @Summary Create a constraint with its relationships
// @Description Records the constraint atomically, then runs the synchronous conflict pre-check; a conflict rolls the constraint back
// @Tags constraints
// @Accept json
// @Produce json
// @Success 201 {object} models.Constraint
// @Router /constraints [post]
func CreateConstraint(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	var req dto.ConstraintCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	constraint, err := constraintService.CreateConstraint(req, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   constraint,
	})
}

// GetConstraint godoc
// @Summary Get a constraint rendered for display
// @Tags constraints
// @Produce json
// @Param id path string true "Constraint ID"
// @Success 200 {object} dto.ConstraintView
// @Router /constraints/{id} [get]
func GetConstraint(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	view, err := constraintService.GetConstraint(c.Param("id"), userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   view,
	})
}

// DeleteConstraint godoc
// @Summary Delete a constraint with its relationships
// @Tags constraints
// @Param id path string true "Constraint ID"
// @Success 200
// @Router /constraints/{id} [delete]
func DeleteConstraint(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	if err := constraintService.DeleteConstraint(c.Param("id"), userID, isAdmin); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Constraint deleted successfully",
	})
}
