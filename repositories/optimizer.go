package repositories

import (
	"github.com/sutd-rms/secret-sauce/database"
	"github.com/sutd-rms/secret-sauce/models"
)

// OptimizerRepository handles database operations for optimization jobs
type OptimizerRepository struct{}

// NewOptimizerRepository creates a new optimizer repository instance
func NewOptimizerRepository() *OptimizerRepository {
	return &OptimizerRepository{}
}

// FindByID retrieves an optimization job with its references
func (r *OptimizerRepository) FindByID(id string) (models.Optimizer, error) {
	var job models.Optimizer
	result := database.DB.
		Preload("TrainedModel").
		Preload("TrainedModel.DataBlock").
		Preload("ConstraintBlock").
		First(&job, "id = ?", id)
	return job, result.Error
}

// FindByProjectID retrieves all optimization jobs whose constraint block
// belongs to the given project.
func (r *OptimizerRepository) FindByProjectID(projectID string) ([]models.Optimizer, error) {
	var jobs []models.Optimizer
	result := database.DB.
		Preload("TrainedModel").
		Preload("ConstraintBlock").
		Joins("JOIN constraint_blocks ON constraint_blocks.id = optimizers.constraint_block_id").
		Where("constraint_blocks.project_id = ?", projectID).
		Find(&jobs)
	return jobs, result.Error
}

// Create inserts a new optimization job
func (r *OptimizerRepository) Create(job models.Optimizer) (models.Optimizer, error) {
	result := database.DB.Create(&job)
	return job, result.Error
}

// UpdateResult records the cached result file and the headline report
func (r *OptimizerRepository) UpdateResult(id, path string, profit, revenue float64, hard, soft int) error {
	return database.DB.Model(&models.Optimizer{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"result_upload":     path,
			"estimated_profit":  profit,
			"estimated_revenue": revenue,
			"hard_violations":   hard,
			"soft_violations":   soft,
		}).Error
}

// Delete removes an optimization job
func (r *OptimizerRepository) Delete(id string) error {
	return database.DB.Delete(&models.Optimizer{}, "id = ?", id).Error
}
