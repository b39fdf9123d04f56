package services

import (
	"log"

	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/lib/rms"
	"github.com/sutd-rms/secret-sauce/lib/tabular"
	"github.com/sutd-rms/secret-sauce/lib/tasks"
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
	"github.com/sutd-rms/secret-sauce/utils"
	"golang.org/x/sync/singleflight"
)

// TrainedModelService orchestrates training jobs: background dispatch,
// progress reconciliation on read, and lazy artifact materialization.
type TrainedModelService struct {
	jobRepo       *repositories.TrainedModelRepository
	dataBlockRepo *repositories.DataBlockRepository
	modelRepo     *repositories.PredictionModelRepository
	client        *rms.Client
	queue         *tasks.Queue
	flight        singleflight.Group
}

// NewTrainedModelService creates a new trained model service instance
func NewTrainedModelService(client *rms.Client, queue *tasks.Queue) *TrainedModelService {
	return &TrainedModelService{
		jobRepo:       repositories.NewTrainedModelRepository(),
		dataBlockRepo: repositories.NewDataBlockRepository(),
		modelRepo:     repositories.NewPredictionModelRepository(),
		client:        client,
		queue:         queue,
	}
}

// Create records a training job and dispatches it in the background. The
// request returns as soon as the job row exists: the dispatch itself is
// best-effort, a timeout on the trainer side is logged and swallowed.
func (s *TrainedModelService) Create(req dto.TrainedModelCreateRequest, userID string, isAdmin bool) (models.TrainedModel, error) {
	dataBlock, err := s.dataBlockRepo.FindByID(req.DataBlockID)
	if err != nil {
		return models.TrainedModel{}, err
	}
	if err := authorize(&dataBlock, userID, isAdmin); err != nil {
		return models.TrainedModel{}, err
	}
	model, err := s.modelRepo.FindByID(req.PredictionModelID)
	if err != nil {
		return models.TrainedModel{}, err
	}

	data, err := utils.ReadMedia(dataBlock.Upload)
	if err != nil {
		return models.TrainedModel{}, err
	}
	blob, err := tabular.Columnar(data)
	if err != nil {
		return models.TrainedModel{}, err
	}

	job := models.TrainedModel{
		DataBlockID:       dataBlock.ID,
		PredictionModelID: model.ID,
		Name:              req.Name,
		CVAcc:             req.CVAcc,
	}
	job, err = s.jobRepo.Create(job)
	if err != nil {
		return models.TrainedModel{}, err
	}

	jobID := job.ID
	modelType := model.Name
	cvAcc := req.CVAcc
	err = s.queue.Enqueue("train "+jobID, func() error {
		return s.client.Train(jobID, modelType, cvAcc, blob)
	})
	if err != nil {
		// No room to dispatch: do not keep a job the trainer never heard of
		if delErr := s.jobRepo.Delete(jobID); delErr != nil {
			log.Printf("failed to roll back training job %s: %v", jobID, delErr)
		}
		return models.TrainedModel{}, err
	}
	return job, nil
}

// ListByProject retrieves a project's training jobs, first reconciling the
// progress of every job that has not reached full availability. A failed
// poll is swallowed: stale persisted progress is served instead.
func (s *TrainedModelService) ListByProject(projectID, userID string, isAdmin bool) ([]models.TrainedModel, error) {
	if _, err := authorizeProject(projectID, userID, isAdmin); err != nil {
		return nil, err
	}
	jobs, err := s.jobRepo.FindByProjectID(projectID)
	if err != nil {
		return nil, err
	}
	s.reconcile(jobs)
	return jobs, nil
}

// Get retrieves one training job, reconciling its progress first
func (s *TrainedModelService) Get(jobID, userID string, isAdmin bool) (models.TrainedModel, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return models.TrainedModel{}, err
	}
	if err := authorize(&job, userID, isAdmin); err != nil {
		return models.TrainedModel{}, err
	}
	jobs := []models.TrainedModel{job}
	s.reconcile(jobs)
	return jobs[0], nil
}

// Delete removes a training job record. The external run, if any, keeps
// going: there is no cancellation beyond dispatch.
func (s *TrainedModelService) Delete(jobID, userID string, isAdmin bool) error {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return err
	}
	if err := authorize(&job, userID, isAdmin); err != nil {
		return err
	}
	return s.jobRepo.Delete(jobID)
}

// reconcile batch-polls every job that is not fully available and writes
// back the four progress signals. Jobs the service reports as not started
// are left untouched.
func (s *TrainedModelService) reconcile(jobs []models.TrainedModel) {
	var pending []string
	for _, job := range jobs {
		if !job.Available() {
			pending = append(pending, job.ID)
		}
	}
	if len(pending) == 0 {
		return
	}

	progress, err := s.client.BatchProgress(pending)
	if err != nil {
		log.Printf("progress poll failed, serving stale state: %v", err)
		return
	}
	for i := range jobs {
		p, ok := progress[jobs[i].ID]
		if !ok || p.NotStarted {
			continue
		}
		jobs[i].PctComplete = p.PctComplete
		jobs[i].CVProgress = p.CVProgress
		jobs[i].FiDone = p.FiDone
		jobs[i].EeDone = p.EeDone
		if err := s.jobRepo.UpdateProgress(jobs[i].ID, p.PctComplete, p.CVProgress, p.FiDone, p.EeDone); err != nil {
			log.Printf("failed to persist progress for job %s: %v", jobs[i].ID, err)
		}
	}
}

// FeatureImportance returns the media path of the cached feature
// importance CSV, materializing it on first access.
func (s *TrainedModelService) FeatureImportance(jobID, userID string, isAdmin bool) (string, error) {
	return s.artifact(jobID, userID, isAdmin, artifactSpec{
		kind:   "fi",
		column: "fi_upload",
		ready: func(job models.TrainedModel) bool {
			return job.Trained() && job.FiDone
		},
		notReady: ErrFeatureImportanceNotReady,
		cached:   func(job models.TrainedModel) string { return job.FiUpload },
		fetch:    s.client.FeatureImportances,
		filename: "feature_importance.csv",
	})
}

// Elasticity returns the media path of the cached elasticity CSV,
// materializing it on first access.
func (s *TrainedModelService) Elasticity(jobID, userID string, isAdmin bool) (string, error) {
	return s.artifact(jobID, userID, isAdmin, artifactSpec{
		kind:   "ee",
		column: "ee_upload",
		ready: func(job models.TrainedModel) bool {
			return job.Trained() && job.EeDone
		},
		notReady: ErrElasticityNotReady,
		cached:   func(job models.TrainedModel) string { return job.EeUpload },
		fetch:    s.client.ElasticityEstimates,
		filename: "elasticity.csv",
	})
}

// CVScore returns the media path of the cached cross-validation CSV,
// materializing it on first access.
func (s *TrainedModelService) CVScore(jobID, userID string, isAdmin bool) (string, error) {
	return s.artifact(jobID, userID, isAdmin, artifactSpec{
		kind:   "cv",
		column: "cv_upload",
		ready: func(job models.TrainedModel) bool {
			return job.Trained() && job.CVProgress >= models.TrainingComplete
		},
		notReady: ErrCVNotReady,
		cached:   func(job models.TrainedModel) string { return job.CVUpload },
		fetch:    s.client.CVResults,
		filename: "cv_score.csv",
	})
}

type artifactSpec struct {
	kind     string
	column   string
	ready    func(models.TrainedModel) bool
	notReady error
	cached   func(models.TrainedModel) string
	fetch    func(string) (map[string]interface{}, error)
	filename string
}

// artifact implements the uniform lazy-cache pattern: precondition check,
// cached-file check, then a single-flighted fetch-transform-persist. The
// singleflight key guarantees at most one in-flight materialization per
// (job, artifact kind); concurrent callers share the winner's path.
func (s *TrainedModelService) artifact(jobID, userID string, isAdmin bool, spec artifactSpec) (string, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return "", err
	}
	if err := authorize(&job, userID, isAdmin); err != nil {
		return "", err
	}
	if !spec.ready(job) {
		return "", spec.notReady
	}
	if path := spec.cached(job); path != "" {
		return path, nil
	}

	result, err, _ := s.flight.Do(jobID+":"+spec.kind, func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have
		// materialized the artifact between our check and now.
		job, err := s.jobRepo.FindByID(jobID)
		if err != nil {
			return "", err
		}
		if path := spec.cached(job); path != "" {
			return path, nil
		}

		payload, err := spec.fetch(jobID)
		if err != nil {
			return "", err
		}
		data, err := utils.ArtifactCSV(payload)
		if err != nil {
			return "", err
		}
		path, err := utils.SaveUpload("artifacts", spec.filename, data)
		if err != nil {
			return "", err
		}
		if err := s.jobRepo.UpdateArtifact(jobID, spec.column, path); err != nil {
			return "", err
		}
		return path, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
