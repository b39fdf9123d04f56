package repositories

import (
	"github.com/sutd-rms/secret-sauce/database"
	"github.com/sutd-rms/secret-sauce/models"
	"gorm.io/gorm"
)

// ConstraintBlockRepository handles database operations for constraint
// blocks and their parameters
type ConstraintBlockRepository struct{}

// NewConstraintBlockRepository creates a new constraint block repository instance
func NewConstraintBlockRepository() *ConstraintBlockRepository {
	return &ConstraintBlockRepository{}
}

// FindByProjectID retrieves all constraint blocks in a project
func (r *ConstraintBlockRepository) FindByProjectID(projectID string) ([]models.ConstraintBlock, error) {
	var blocks []models.ConstraintBlock
	result := database.DB.Where("project_id = ?", projectID).Find(&blocks)
	return blocks, result.Error
}

// FindByID retrieves a constraint block by its ID
func (r *ConstraintBlockRepository) FindByID(id string) (models.ConstraintBlock, error) {
	var block models.ConstraintBlock
	result := database.DB.First(&block, "id = ?", id)
	return block, result.Error
}

// WithDetail retrieves a constraint block with parameters, constraints and
// their relationships in insertion order.
func (r *ConstraintBlockRepository) WithDetail(id string) (models.ConstraintBlock, error) {
	var block models.ConstraintBlock
	result := database.DB.
		Preload("Params", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Constraints").
		Preload("Constraints.Relationships", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Constraints.Relationships.ConstraintParameter").
		First(&block, "id = ?", id)
	return block, result.Error
}

// Create inserts a constraint block together with one parameter per schema
// item, as a snapshot of the data block's schema at creation time.
func (r *ConstraintBlockRepository) Create(block models.ConstraintBlock, itemIDs []int) (models.ConstraintBlock, error) {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&block).Error; err != nil {
			return err
		}
		for i, itemID := range itemIDs {
			param := models.ConstraintParameter{
				ConstraintBlockID: block.ID,
				ItemID:            itemID,
				Position:          i,
			}
			if err := tx.Create(&param).Error; err != nil {
				return err
			}
			block.Params = append(block.Params, param)
		}
		return nil
	})
	return block, err
}

// Delete removes a constraint block, its parameters, constraints and
// relationships.
func (r *ConstraintBlockRepository) Delete(id string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		return deleteConstraintBlockTx(tx, id)
	})
}

func deleteConstraintBlockTx(tx *gorm.DB, id string) error {
	var constraints []models.Constraint
	if err := tx.Where("constraint_block_id = ?", id).Find(&constraints).Error; err != nil {
		return err
	}
	for _, constraint := range constraints {
		if err := tx.Where("constraint_id = ?", constraint.ID).
			Delete(&models.ConstraintParameterRelationship{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("constraint_block_id = ?", id).Delete(&models.Constraint{}).Error; err != nil {
		return err
	}
	if err := tx.Where("constraint_block_id = ?", id).Delete(&models.ConstraintParameter{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.ConstraintBlock{}, "id = ?", id).Error
}

// ConstraintRepository handles database operations for single constraints
type ConstraintRepository struct{}

// NewConstraintRepository creates a new constraint repository instance
func NewConstraintRepository() *ConstraintRepository {
	return &ConstraintRepository{}
}

// FindByID retrieves a constraint with its relationships in insertion order
func (r *ConstraintRepository) FindByID(id string) (models.Constraint, error) {
	var constraint models.Constraint
	result := database.DB.
		Preload("Relationships", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Relationships.ConstraintParameter").
		First(&constraint, "id = ?", id)
	return constraint, result.Error
}

// Create inserts a constraint together with all of its relationships in
// one transaction. A constraint with zero relationships is never
// persisted: it would render as nothing and corrupt equation assembly.
func (r *ConstraintRepository) Create(constraint models.Constraint, relationships []models.ConstraintParameterRelationship) (models.Constraint, error) {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&constraint).Error; err != nil {
			return err
		}
		for i := range relationships {
			relationships[i].ConstraintID = constraint.ID
			relationships[i].Position = i
			if err := tx.Create(&relationships[i]).Error; err != nil {
				return err
			}
		}
		constraint.Relationships = relationships
		return nil
	})
	return constraint, err
}

// Delete removes a constraint and its relationships
func (r *ConstraintRepository) Delete(id string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("constraint_id = ?", id).
			Delete(&models.ConstraintParameterRelationship{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Constraint{}, "id = ?", id).Error
	})
}

// FindParameter retrieves one constraint parameter by its ID
func (r *ConstraintRepository) FindParameter(id string) (models.ConstraintParameter, error) {
	var param models.ConstraintParameter
	result := database.DB.First(&param, "id = ?", id)
	return param, result.Error
}
