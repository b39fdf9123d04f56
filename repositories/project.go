package repositories

import (
	"github.com/sutd-rms/secret-sauce/database"
	"github.com/sutd-rms/secret-sauce/models"
	"gorm.io/gorm"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct{}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{}
}

// FindAll retrieves all projects
func (r *ProjectRepository) FindAll() ([]models.Project, error) {
	var projects []models.Project
	result := database.DB.Find(&projects)
	return projects, result.Error
}

// FindByCompanyID retrieves all projects belonging to a company
func (r *ProjectRepository) FindByCompanyID(companyID string) ([]models.Project, error) {
	var projects []models.Project
	result := database.DB.Where("company_id = ?", companyID).Find(&projects)
	return projects, result.Error
}

// FindByID retrieves a project by its ID
func (r *ProjectRepository) FindByID(id string) (models.Project, error) {
	var project models.Project
	result := database.DB.First(&project, "id = ?", id)
	return project, result.Error
}

// Create inserts a new project into the database
func (r *ProjectRepository) Create(project models.Project) (models.Project, error) {
	result := database.DB.Create(&project)
	return project, result.Error
}

// Update modifies an existing project
func (r *ProjectRepository) Update(project models.Project) error {
	result := database.DB.Save(&project)
	return result.Error
}

// Delete removes a project and everything hanging off it. Deletion
// cascades downward only: blocks, constraints, relationships and items.
func (r *ProjectRepository) Delete(id string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var blocks []models.DataBlock
		if err := tx.Where("project_id = ?", id).Find(&blocks).Error; err != nil {
			return err
		}
		for _, block := range blocks {
			if err := deleteDataBlockTx(tx, block.ID); err != nil {
				return err
			}
		}

		var constraintBlocks []models.ConstraintBlock
		if err := tx.Where("project_id = ?", id).Find(&constraintBlocks).Error; err != nil {
			return err
		}
		for _, block := range constraintBlocks {
			if err := deleteConstraintBlockTx(tx, block.ID); err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}

// DB returns the database instance
func (r *ProjectRepository) DB() *gorm.DB {
	return database.DB
}
