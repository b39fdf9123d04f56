package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/services"
)

var projectService = services.NewProjectService()
var itemService = services.NewItemService()

// ListProjects godoc
// @Summary List projects
// @Description Get all projects for admin, or the actor's company's projects otherwise
// @Tags projects
// @Produce json
// @Success 200 {array} models.Project
// @Router /projects [get]
func ListProjects(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	projects, err := projectService.ListProjects(userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   projects,
	})
}

// GetProject godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} models.Project
// @Router /projects/{id} [get]
func GetProject(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	project, err := projectService.GetProject(c.Param("id"), userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   project,
	})
}

// CreateProject godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Success 201 {object} models.Project
// @Router /projects [post]
func CreateProject(c *gin.Context) {
	var req dto.ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	project, err := projectService.CreateProject(req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   project,
	})
}

// UpdateProject godoc
// @Summary Rename a project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} models.Project
// @Router /projects/{id} [put]
func UpdateProject(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	var req dto.ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	project, err := projectService.UpdateProject(c.Param("id"), req, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   project,
	})
}

// DeleteProject godoc
// @Summary Delete a project and everything hanging off it
// @Tags projects
// @Param id path string true "Project ID"
// @Success 200
// @Router /projects/{id} [delete]
func DeleteProject(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	if err := projectService.DeleteProject(c.Param("id"), userID, isAdmin); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Project deleted successfully",
	})
}

// UploadCostSheet godoc
// @Summary Upload the project's cost sheet
// @Description Verifies the cost-sheet CSV and populates the item directory. One upload per project.
// @Tags projects
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Project ID"
// @Param file formData file true "Cost-sheet CSV"
// @Success 201 {array} models.Item
// @Router /projects/{id}/items [post]
func UploadCostSheet(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	_, data, ok := readUpload(c, "file")
	if !ok {
		return
	}

	items, err := itemService.UploadCostSheet(c.Param("id"), data, userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   items,
	})
}

// ListItems godoc
// @Summary List the project's item directory
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} models.Item
// @Router /projects/{id}/items [get]
func ListItems(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	items, err := itemService.ListItems(c.Param("id"), userID, isAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   items,
	})
}

// DeleteItems godoc
// @Summary Clear the project's item directory
// @Description Removes every item and resets the cost-sheet flag so a fresh upload is accepted
// @Tags projects
// @Param id path string true "Project ID"
// @Success 200
// @Router /projects/{id}/items [delete]
func DeleteItems(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		return
	}

	if err := itemService.DeleteItems(c.Param("id"), userID, isAdmin); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Items deleted successfully",
	})
}
