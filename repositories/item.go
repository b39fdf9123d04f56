package repositories

import (
	"github.com/sutd-rms/secret-sauce/database"
	"github.com/sutd-rms/secret-sauce/models"
	"gorm.io/gorm"
)

// ItemRepository handles database operations for a project's item directory
type ItemRepository struct{}

// NewItemRepository creates a new item repository instance
func NewItemRepository() *ItemRepository {
	return &ItemRepository{}
}

// FindByProjectID retrieves the item directory of a project
func (r *ItemRepository) FindByProjectID(projectID string) ([]models.Item, error) {
	var items []models.Item
	result := database.DB.Where("project_id = ?", projectID).Order("item_id ASC").Find(&items)
	return items, result.Error
}

// MapByProjectID retrieves a project's item directory keyed by item id
func (r *ItemRepository) MapByProjectID(projectID string) (map[int]models.Item, error) {
	items, err := r.FindByProjectID(projectID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]models.Item, len(items))
	for _, item := range items {
		byID[item.ItemID] = item
	}
	return byID, nil
}

// ReplaceForProject inserts the full item directory of a project and marks
// the cost sheet as uploaded, atomically.
func (r *ItemRepository) ReplaceForProject(projectID string, items []models.Item) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		for i := range items {
			items[i].ProjectID = projectID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Project{}).Where("id = ?", projectID).
			Update("cost_sheet_uploaded", true).Error
	})
}

// DeleteForProject clears a project's item directory and resets the
// cost-sheet flag so a new sheet can be uploaded.
func (r *ItemRepository) DeleteForProject(projectID string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Project{}).Where("id = ?", projectID).
			Update("cost_sheet_uploaded", false).Error
	})
}
