package services

import (
	"github.com/sutd-rms/secret-sauce/lib/tabular"
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
	"github.com/sutd-rms/secret-sauce/utils"
)

// DataBlockService handles time-series uploads and the queries that run
// against their raw files.
type DataBlockService struct {
	blockRepo *repositories.DataBlockRepository
}

// NewDataBlockService creates a new data block service instance
func NewDataBlockService() *DataBlockService {
	return &DataBlockService{
		blockRepo: repositories.NewDataBlockRepository(),
	}
}

// CreateFromUpload verifies a time-series upload, persists the file and
// records the data block with its derived schema snapshot. Verifier
// failures (unreadable file, wrong header, cell errors) propagate
// unmodified; nothing is persisted on failure.
func (s *DataBlockService) CreateFromUpload(projectID, name, filename string, data []byte, userID string, isAdmin bool) (models.DataBlock, error) {
	if _, err := authorizeProject(projectID, userID, isAdmin); err != nil {
		return models.DataBlock{}, err
	}

	verifier, err := tabular.NewTimeSeriesVerifier(data)
	if err != nil {
		return models.DataBlock{}, err
	}
	if err := verifier.RunChecks(); err != nil {
		return models.DataBlock{}, err
	}
	schema := verifier.Schema()

	upload, err := utils.SaveUpload("datablocks", filename, data)
	if err != nil {
		return models.DataBlock{}, err
	}

	block := models.DataBlock{
		ProjectID: projectID,
		Name:      name,
		Upload:    upload,
	}
	return s.blockRepo.Create(block, schema)
}

// ListByProject retrieves the data blocks of a project
func (s *DataBlockService) ListByProject(projectID, userID string, isAdmin bool) ([]models.DataBlock, error) {
	if _, err := authorizeProject(projectID, userID, isAdmin); err != nil {
		return nil, err
	}
	return s.blockRepo.FindByProjectID(projectID)
}

// GetDataBlock retrieves one data block with its schema
func (s *DataBlockService) GetDataBlock(blockID, userID string, isAdmin bool) (models.DataBlock, error) {
	block, err := s.blockRepo.WithSchema(blockID)
	if err != nil {
		return models.DataBlock{}, err
	}
	if err := authorize(&block, userID, isAdmin); err != nil {
		return models.DataBlock{}, err
	}
	return block, nil
}

// DeleteDataBlock removes a data block and its schema. Constraint blocks
// already instantiated against the old schema are deliberately left as
// they are.
func (s *DataBlockService) DeleteDataBlock(blockID, userID string, isAdmin bool) error {
	block, err := s.blockRepo.FindByID(blockID)
	if err != nil {
		return err
	}
	if err := authorize(&block, userID, isAdmin); err != nil {
		return err
	}
	return s.blockRepo.Delete(blockID)
}

// Prices emits the literal price observations for the requested items
func (s *DataBlockService) Prices(blockID string, items []int, userID string, isAdmin bool) ([]tabular.ItemSeries, error) {
	series, err := s.openSeries(blockID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	return series.Prices(items)
}

// Quantities emits per-week quantity sums, zero-filled, for the requested items
func (s *DataBlockService) Quantities(blockID string, items []int, userID string, isAdmin bool) ([]tabular.ItemSeries, error) {
	series, err := s.openSeries(blockID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	return series.Quantities(items)
}

// AveragePrices computes mean prices per item over the whole file
func (s *DataBlockService) AveragePrices(blockID, userID string, isAdmin bool) ([]tabular.ItemAverage, error) {
	series, err := s.openSeries(blockID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	return series.AveragePrices(), nil
}

// openSeries loads the raw upload and parses it for aggregation. There is
// no caching: every query re-reads the file.
func (s *DataBlockService) openSeries(blockID, userID string, isAdmin bool) (*tabular.Series, error) {
	block, err := s.blockRepo.FindByID(blockID)
	if err != nil {
		return nil, err
	}
	if err := authorize(&block, userID, isAdmin); err != nil {
		return nil, err
	}
	data, err := utils.ReadMedia(block.Upload)
	if err != nil {
		return nil, err
	}
	return tabular.NewSeries(data)
}
