package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/lib/rms"
	"github.com/sutd-rms/secret-sauce/lib/tasks"
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
	"github.com/sutd-rms/secret-sauce/utils"
)

// fakeOptimizer mimics the modeling service's optimization endpoints
type fakeOptimizer struct {
	srv *httptest.Server

	mu         sync.Mutex
	dispatches []map[string]interface{}
	result     map[string]interface{}
	fetches    int32
}

func newFakeOptimizer(t *testing.T) *fakeOptimizer {
	t.Helper()
	f := &fakeOptimizer{result: map[string]interface{}{"success": false}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/optimize/":
			var payload map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			f.mu.Lock()
			f.dispatches = append(f.dispatches, payload)
			f.mu.Unlock()
		case "/get_opti_results/":
			atomic.AddInt32(&f.fetches, 1)
			f.mu.Lock()
			json.NewEncoder(w).Encode(f.result)
			f.mu.Unlock()
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

// optimizerSetup seeds everything an optimization job references: a data
// block, a finished training job and a constraint block over its schema.
type optimizerSetup struct {
	fixture portalFixture
	svc     *OptimizerService
	queue   *tasks.Queue
	model   models.TrainedModel
	block   models.ConstraintBlock
}

func setupOptimizer(t *testing.T, fake *fakeOptimizer, schema []int) optimizerSetup {
	t.Helper()
	f := setupPortal(t)
	dataBlock := seedDataBlock(t, f.project.ID, schema, "1,1,2,3,10,5,2.5")
	catalogue := seedCatalogueModel(t)

	jobRepo := repositories.NewTrainedModelRepository()
	model, err := jobRepo.Create(models.TrainedModel{
		DataBlockID: dataBlock.ID, PredictionModelID: catalogue.ID, Name: "baseline",
	})
	require.NoError(t, err)
	require.NoError(t, jobRepo.UpdateProgress(model.ID, 100, 100, true, true))

	block, err := repositories.NewConstraintBlockRepository().Create(models.ConstraintBlock{
		ProjectID: f.project.ID, DataBlockID: dataBlock.ID, Name: "rules",
	}, schema)
	require.NoError(t, err)

	queue := tasks.NewQueue(4, 1)
	t.Cleanup(queue.Stop)
	svc := NewOptimizerService(rms.NewClient(fake.srv.URL, time.Second), queue)
	return optimizerSetup{fixture: f, svc: svc, queue: queue, model: model, block: block}
}

func TestCreateOptimizerDispatches(t *testing.T) {
	fake := newFakeOptimizer(t)
	s := setupOptimizer(t, fake, []int{10, 20})
	seedItems(t, s.fixture.project.ID,
		models.Item{ItemID: 10, Name: "Burger", Cost: 2, PriceFloor: 1, PriceCap: 9},
		models.Item{ItemID: 20, Name: "Fries", Cost: 1, PriceFloor: 1, PriceCap: 5},
	)

	job, err := s.svc.Create(dto.OptimizerCreateRequest{
		TrainedModelID:    s.model.ID,
		ConstraintBlockID: s.block.ID,
		Name:              "q3 run",
		ForProfit:         true,
	}, s.fixture.member.ID, false)
	require.NoError(t, err)
	assert.Equal(t, defaultPopulation, job.Population)
	assert.Equal(t, defaultMaxEpoch, job.MaxEpoch)

	s.queue.Stop()
	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.dispatches, 1)
	dispatch := fake.dispatches[0]
	assert.Equal(t, s.model.ID, dispatch["project_id"])
	assert.Equal(t, job.ID, dispatch["optimisation_id"])
	constraints, ok := dispatch["constraints"].([]interface{})
	require.True(t, ok)
	require.Len(t, constraints, 4)
	// Profit mode clears the revenue flag
	assert.Equal(t, false, constraints[3])
}

func TestCreateOptimizerProfitModeNeedsFullCostCoverage(t *testing.T) {
	fake := newFakeOptimizer(t)
	s := setupOptimizer(t, fake, []int{10, 99})
	seedItems(t, s.fixture.project.ID,
		models.Item{ItemID: 10, Name: "Burger", Cost: 2, PriceFloor: 1, PriceCap: 9},
	)

	_, err := s.svc.Create(dto.OptimizerCreateRequest{
		TrainedModelID:    s.model.ID,
		ConstraintBlockID: s.block.ID,
		Name:              "q3 run",
		ForProfit:         true,
	}, s.fixture.member.ID, false)

	var missing *MissingCostItemsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []int{99}, missing.Items)
	assert.Contains(t, err.Error(), "99")

	// The invalid job row was rolled back
	jobs, listErr := repositories.NewOptimizerRepository().FindByProjectID(s.fixture.project.ID)
	require.NoError(t, listErr)
	assert.Empty(t, jobs)
}

func TestCreateOptimizerRevenueModeSkipsCostCoverage(t *testing.T) {
	fake := newFakeOptimizer(t)
	s := setupOptimizer(t, fake, []int{10, 99})

	job, err := s.svc.Create(dto.OptimizerCreateRequest{
		TrainedModelID:    s.model.ID,
		ConstraintBlockID: s.block.ID,
		Name:              "revenue run",
	}, s.fixture.member.ID, false)
	require.NoError(t, err)

	s.queue.Stop()
	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.dispatches, 1)
	assert.Equal(t, job.ID, fake.dispatches[0]["optimisation_id"])
	constraints := fake.dispatches[0]["constraints"].([]interface{})
	assert.Equal(t, true, constraints[3])
}

func TestCreateOptimizerRequiresTrainedModel(t *testing.T) {
	fake := newFakeOptimizer(t)
	s := setupOptimizer(t, fake, []int{10})
	require.NoError(t, repositories.NewTrainedModelRepository().UpdateProgress(s.model.ID, 60, 0, false, false))

	_, err := s.svc.Create(dto.OptimizerCreateRequest{
		TrainedModelID:    s.model.ID,
		ConstraintBlockID: s.block.ID,
		Name:              "too early",
	}, s.fixture.member.ID, false)
	assert.ErrorIs(t, err, ErrModelNotTrained)
}

func TestCreateOptimizerRejectsCrossProjectReferences(t *testing.T) {
	fake := newFakeOptimizer(t)
	s := setupOptimizer(t, fake, []int{10})

	otherProject := models.Project{Title: "Other", CompanyID: s.fixture.project.CompanyID}
	require.NoError(t, createProject(&otherProject))
	foreignData := seedDataBlock(t, otherProject.ID, []int{10})
	foreignBlock, err := repositories.NewConstraintBlockRepository().Create(models.ConstraintBlock{
		ProjectID: otherProject.ID, DataBlockID: foreignData.ID, Name: "foreign",
	}, []int{10})
	require.NoError(t, err)

	_, err = s.svc.Create(dto.OptimizerCreateRequest{
		TrainedModelID:    s.model.ID,
		ConstraintBlockID: foreignBlock.ID,
		Name:              "mixed",
	}, s.fixture.member.ID, false)
	assert.ErrorIs(t, err, ErrCrossProject)
}

func TestResultsNotReady(t *testing.T) {
	fake := newFakeOptimizer(t)
	s := setupOptimizer(t, fake, []int{10})

	job, err := s.svc.Create(dto.OptimizerCreateRequest{
		TrainedModelID:    s.model.ID,
		ConstraintBlockID: s.block.ID,
		Name:              "pending",
	}, s.fixture.member.ID, false)
	require.NoError(t, err)

	_, err = s.svc.Results(job.ID, s.fixture.member.ID, false)
	assert.ErrorIs(t, err, ErrResultNotReady)

	// Nothing was cached, a later call will ask again
	stored, err := repositories.NewOptimizerRepository().FindByID(job.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ResultUpload)
}

func TestResultsMaterializedOnce(t *testing.T) {
	fake := newFakeOptimizer(t)
	s := setupOptimizer(t, fake, []int{10})

	job, err := s.svc.Create(dto.OptimizerCreateRequest{
		TrainedModelID:    s.model.ID,
		ConstraintBlockID: s.block.ID,
		Name:              "finished",
	}, s.fixture.member.ID, false)
	require.NoError(t, err)

	fake.mu.Lock()
	fake.result = map[string]interface{}{
		"success":    true,
		"report":     []float64{120.5, 340.0, 0, 2},
		"result":     [][]float64{{1.5, 2.5}},
		"price_cols": []string{"Item 10", "Item 20"},
	}
	fake.mu.Unlock()

	first, err := s.svc.Results(job.ID, s.fixture.member.ID, false)
	require.NoError(t, err)
	second, err := s.svc.Results(job.ID, s.fixture.member.ID, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.fetches))

	data, err := utils.ReadMedia(first)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Item 10")

	stored, err := repositories.NewOptimizerRepository().FindByID(job.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EstimatedProfit)
	assert.Equal(t, 120.5, *stored.EstimatedProfit)
	require.NotNil(t, stored.HardViolations)
	assert.Equal(t, 2, *stored.SoftViolations)
}
