package repositories

import (
	"github.com/sutd-rms/secret-sauce/database"
	"github.com/sutd-rms/secret-sauce/models"
)

// TrainedModelRepository handles database operations for training jobs
type TrainedModelRepository struct{}

// NewTrainedModelRepository creates a new trained model repository instance
func NewTrainedModelRepository() *TrainedModelRepository {
	return &TrainedModelRepository{}
}

// FindByID retrieves a training job with its data block
func (r *TrainedModelRepository) FindByID(id string) (models.TrainedModel, error) {
	var job models.TrainedModel
	result := database.DB.Preload("DataBlock").Preload("PredictionModel").
		First(&job, "id = ?", id)
	return job, result.Error
}

// FindByProjectID retrieves all training jobs whose data block belongs to
// the given project.
func (r *TrainedModelRepository) FindByProjectID(projectID string) ([]models.TrainedModel, error) {
	var jobs []models.TrainedModel
	result := database.DB.Preload("DataBlock").Preload("PredictionModel").
		Joins("JOIN data_blocks ON data_blocks.id = trained_models.data_block_id").
		Where("data_blocks.project_id = ?", projectID).
		Find(&jobs)
	return jobs, result.Error
}

// Create inserts a new training job
func (r *TrainedModelRepository) Create(job models.TrainedModel) (models.TrainedModel, error) {
	result := database.DB.Create(&job)
	return job, result.Error
}

// UpdateProgress writes the four progress signals of a job
func (r *TrainedModelRepository) UpdateProgress(id string, pct, cv float64, fiDone, eeDone bool) error {
	return database.DB.Model(&models.TrainedModel{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"pct_complete": pct,
			"cv_progress":  cv,
			"fi_done":      fiDone,
			"ee_done":      eeDone,
		}).Error
}

// UpdateArtifact records the cached file path of one artifact column
func (r *TrainedModelRepository) UpdateArtifact(id, column, path string) error {
	return database.DB.Model(&models.TrainedModel{}).Where("id = ?", id).
		Update(column, path).Error
}

// Delete removes a training job
func (r *TrainedModelRepository) Delete(id string) error {
	return database.DB.Delete(&models.TrainedModel{}, "id = ?", id).Error
}
