package repositories

import (
	"github.com/sutd-rms/secret-sauce/database"
	"github.com/sutd-rms/secret-sauce/models"
	"gorm.io/gorm"
)

// DataBlockRepository handles database operations for data blocks
type DataBlockRepository struct{}

// NewDataBlockRepository creates a new data block repository instance
func NewDataBlockRepository() *DataBlockRepository {
	return &DataBlockRepository{}
}

// FindByProjectID retrieves all data blocks in a project
func (r *DataBlockRepository) FindByProjectID(projectID string) ([]models.DataBlock, error) {
	var blocks []models.DataBlock
	result := database.DB.Where("project_id = ?", projectID).Find(&blocks)
	return blocks, result.Error
}

// FindByID retrieves a data block by its ID
func (r *DataBlockRepository) FindByID(id string) (models.DataBlock, error) {
	var block models.DataBlock
	result := database.DB.First(&block, "id = ?", id)
	return block, result.Error
}

// WithSchema retrieves a data block with its schema items in order
func (r *DataBlockRepository) WithSchema(id string) (models.DataBlock, error) {
	var block models.DataBlock
	result := database.DB.
		Preload("Schema", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&block, "id = ?", id)
	return block, result.Error
}

// Create inserts a data block together with its schema snapshot. Either
// the block and every schema item are recorded, or nothing is.
func (r *DataBlockRepository) Create(block models.DataBlock, schema []int) (models.DataBlock, error) {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&block).Error; err != nil {
			return err
		}
		for i, itemID := range schema {
			item := models.SchemaItem{
				DataBlockID: block.ID,
				ItemID:      itemID,
				Position:    i,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			block.Schema = append(block.Schema, item)
		}
		return nil
	})
	return block, err
}

// Delete removes a data block and its schema. Constraint blocks already
// instantiated against the old schema are left alone.
func (r *DataBlockRepository) Delete(id string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		return deleteDataBlockTx(tx, id)
	})
}

func deleteDataBlockTx(tx *gorm.DB, id string) error {
	if err := tx.Where("data_block_id = ?", id).Delete(&models.SchemaItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.DataBlock{}, "id = ?", id).Error
}
