package services

import (
	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
)

// PredictionModelService manages the model catalogue offered for training
type PredictionModelService struct {
	modelRepo *repositories.PredictionModelRepository
}

// NewPredictionModelService creates a new prediction model service instance
func NewPredictionModelService() *PredictionModelService {
	return &PredictionModelService{
		modelRepo: repositories.NewPredictionModelRepository(),
	}
}

// ListModels retrieves the full catalogue
func (s *PredictionModelService) ListModels() ([]models.PredictionModel, error) {
	return s.modelRepo.FindAll()
}

// CreateModel adds a catalogue entry (admin only, enforced at the route)
func (s *PredictionModelService) CreateModel(req dto.PredictionModelCreateRequest) (models.PredictionModel, error) {
	model := models.PredictionModel{
		Name:        req.Name,
		Description: req.Description,
	}
	for _, tag := range req.Tags {
		model.Tags = append(model.Tags, models.ModelTag{Name: tag})
	}
	return s.modelRepo.Create(model)
}

// DeleteModel removes a catalogue entry
func (s *PredictionModelService) DeleteModel(id string) error {
	return s.modelRepo.Delete(id)
}
