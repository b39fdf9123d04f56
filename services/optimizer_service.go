package services

import (
	"log"

	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/lib/rms"
	"github.com/sutd-rms/secret-sauce/lib/tasks"
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
	"github.com/sutd-rms/secret-sauce/utils"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPopulation = 100
	defaultMaxEpoch   = 100
)

// OptimizerService orchestrates optimization jobs: reference validation,
// payload assembly, background dispatch and lazy result materialization.
type OptimizerService struct {
	jobRepo       *repositories.OptimizerRepository
	modelRepo     *repositories.TrainedModelRepository
	blockRepo     *repositories.ConstraintBlockRepository
	dataBlockRepo *repositories.DataBlockRepository
	itemRepo      *repositories.ItemRepository
	client        *rms.Client
	queue         *tasks.Queue
	flight        singleflight.Group
}

// NewOptimizerService creates a new optimizer service instance
func NewOptimizerService(client *rms.Client, queue *tasks.Queue) *OptimizerService {
	return &OptimizerService{
		jobRepo:       repositories.NewOptimizerRepository(),
		modelRepo:     repositories.NewTrainedModelRepository(),
		blockRepo:     repositories.NewConstraintBlockRepository(),
		dataBlockRepo: repositories.NewDataBlockRepository(),
		itemRepo:      repositories.NewItemRepository(),
		client:        client,
		queue:         queue,
	}
}

// Create validates an optimization request, records the job and
// dispatches it in the background. Validation failures after the row is
// created (missing cost coverage in profit mode, no dispatch capacity)
// delete the row again: invalid jobs never persist.
func (s *OptimizerService) Create(req dto.OptimizerCreateRequest, userID string, isAdmin bool) (models.Optimizer, error) {
	trainedModel, err := s.modelRepo.FindByID(req.TrainedModelID)
	if err != nil {
		return models.Optimizer{}, err
	}
	block, err := s.blockRepo.WithDetail(req.ConstraintBlockID)
	if err != nil {
		return models.Optimizer{}, err
	}
	if err := authorize(&block, userID, isAdmin); err != nil {
		return models.Optimizer{}, err
	}
	if trainedModel.OwningProjectID() != block.ProjectID {
		return models.Optimizer{}, ErrCrossProject
	}
	if !trainedModel.Trained() {
		return models.Optimizer{}, ErrModelNotTrained
	}

	job := models.Optimizer{
		TrainedModelID:    trainedModel.ID,
		ConstraintBlockID: block.ID,
		Name:              req.Name,
		ForProfit:         req.ForProfit,
		Population:        req.Population,
		MaxEpoch:          req.MaxEpoch,
	}
	if job.Population <= 0 {
		job.Population = defaultPopulation
	}
	if job.MaxEpoch <= 0 {
		job.MaxEpoch = defaultMaxEpoch
	}
	job, err = s.jobRepo.Create(job)
	if err != nil {
		return models.Optimizer{}, err
	}

	directory, err := s.itemRepo.MapByProjectID(block.ProjectID)
	if err != nil {
		s.rollback(job.ID)
		return models.Optimizer{}, err
	}

	schema, err := s.dataBlockRepo.WithSchema(trainedModel.DataBlockID)
	if err != nil {
		s.rollback(job.ID)
		return models.Optimizer{}, err
	}
	schemaItems := schema.SchemaItems()

	if req.ForProfit {
		var missing []int
		for _, itemID := range schemaItems {
			if _, ok := directory[itemID]; !ok {
				missing = append(missing, itemID)
			}
		}
		if len(missing) > 0 {
			s.rollback(job.ID)
			return models.Optimizer{}, &MissingCostItemsError{Items: missing}
		}
	}

	dispatch := rms.OptimizeRequest{
		JobID:          trainedModel.ID,
		OptimizerID:    job.ID,
		ConstraintList: block.ConstraintList(),
		PriceBounds:    priceBounds(schemaItems, directory),
		CostList:       costList(schemaItems, directory),
		RevenueFlag:    !req.ForProfit,
		Population:     job.Population,
		MaxEpoch:       job.MaxEpoch,
	}
	err = s.queue.Enqueue("optimize "+job.ID, func() error {
		return s.client.Optimize(dispatch)
	})
	if err != nil {
		s.rollback(job.ID)
		return models.Optimizer{}, err
	}
	return job, nil
}

func (s *OptimizerService) rollback(jobID string) {
	if err := s.jobRepo.Delete(jobID); err != nil {
		log.Printf("failed to roll back optimizer job %s: %v", jobID, err)
	}
}

// ListByProject retrieves a project's optimization jobs
func (s *OptimizerService) ListByProject(projectID, userID string, isAdmin bool) ([]models.Optimizer, error) {
	if _, err := authorizeProject(projectID, userID, isAdmin); err != nil {
		return nil, err
	}
	return s.jobRepo.FindByProjectID(projectID)
}

// Get retrieves one optimization job
func (s *OptimizerService) Get(jobID, userID string, isAdmin bool) (models.Optimizer, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return models.Optimizer{}, err
	}
	if err := authorize(&job, userID, isAdmin); err != nil {
		return models.Optimizer{}, err
	}
	return job, nil
}

// Delete removes an optimization job record
func (s *OptimizerService) Delete(jobID, userID string, isAdmin bool) error {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return err
	}
	if err := authorize(&job, userID, isAdmin); err != nil {
		return err
	}
	return s.jobRepo.Delete(jobID)
}

// Results returns the media path of the cached result CSV, fetching and
// materializing it on first access. The singleflight key guarantees at
// most one in-flight fetch per job; concurrent callers share the winner's
// file.
func (s *OptimizerService) Results(jobID, userID string, isAdmin bool) (string, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return "", err
	}
	if err := authorize(&job, userID, isAdmin); err != nil {
		return "", err
	}
	if job.ResultUpload != "" {
		return job.ResultUpload, nil
	}

	result, err, _ := s.flight.Do(jobID+":result", func() (interface{}, error) {
		job, err := s.jobRepo.FindByID(jobID)
		if err != nil {
			return "", err
		}
		if job.ResultUpload != "" {
			return job.ResultUpload, nil
		}

		res, err := s.client.OptiResults(job.TrainedModelID, job.ID)
		if err != nil {
			return "", err
		}
		if !res.Success || len(res.Report) < 4 {
			return "", ErrResultNotReady
		}

		data, err := utils.ResultCSV(res.PriceCols, res.Result)
		if err != nil {
			return "", err
		}
		path, err := utils.SaveUpload("results", "optimization.csv", data)
		if err != nil {
			return "", err
		}
		err = s.jobRepo.UpdateResult(job.ID, path,
			res.Report[0], res.Report[1], int(res.Report[2]), int(res.Report[3]))
		if err != nil {
			return "", err
		}
		return path, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
