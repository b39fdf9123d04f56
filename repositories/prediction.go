package repositories

import (
	"github.com/sutd-rms/secret-sauce/database"
	"github.com/sutd-rms/secret-sauce/models"
)

// PredictionModelRepository handles database operations for the model catalogue
type PredictionModelRepository struct{}

// NewPredictionModelRepository creates a new prediction model repository instance
func NewPredictionModelRepository() *PredictionModelRepository {
	return &PredictionModelRepository{}
}

// FindAll retrieves the full model catalogue with tags
func (r *PredictionModelRepository) FindAll() ([]models.PredictionModel, error) {
	var catalogue []models.PredictionModel
	result := database.DB.Preload("Tags").Find(&catalogue)
	return catalogue, result.Error
}

// FindByID retrieves one catalogue entry
func (r *PredictionModelRepository) FindByID(id string) (models.PredictionModel, error) {
	var model models.PredictionModel
	result := database.DB.Preload("Tags").First(&model, "id = ?", id)
	return model, result.Error
}

// Create inserts a new catalogue entry
func (r *PredictionModelRepository) Create(model models.PredictionModel) (models.PredictionModel, error) {
	result := database.DB.Create(&model)
	return model, result.Error
}

// Delete removes a catalogue entry
func (r *PredictionModelRepository) Delete(id string) error {
	return database.DB.Delete(&models.PredictionModel{}, "id = ?", id).Error
}
