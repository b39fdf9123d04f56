package services

import (
	"sort"

	"github.com/sutd-rms/secret-sauce/lib/tabular"
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
)

// ItemService manages a project's item directory, populated exactly once
// from a cost-sheet upload.
type ItemService struct {
	itemRepo *repositories.ItemRepository
}

// NewItemService creates a new item service instance
func NewItemService() *ItemService {
	return &ItemService{
		itemRepo: repositories.NewItemRepository(),
	}
}

// UploadCostSheet verifies a cost-sheet upload and replaces the project's
// item directory. Rejected entirely when any merged item has its floor
// above its cap; the cost-sheet flag stays unset on failure.
func (s *ItemService) UploadCostSheet(projectID string, data []byte, userID string, isAdmin bool) ([]models.Item, error) {
	project, err := authorizeProject(projectID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	if project.CostSheetUploaded {
		return nil, ErrCostSheetExists
	}

	verifier, err := tabular.NewCostSheetVerifier(data)
	if err != nil {
		return nil, err
	}
	entries, err := verifier.Items()
	if err != nil {
		return nil, err
	}

	codes := make([]int, 0, len(entries))
	for code := range entries {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	items := make([]models.Item, 0, len(entries))
	for _, code := range codes {
		entry := entries[code]
		if entry.Floor > entry.Cap {
			return nil, &FloorAboveCapError{Item: code, Floor: entry.Floor, Cap: entry.Cap}
		}
		items = append(items, models.Item{
			ItemID:     code,
			Name:       entry.Name,
			Cost:       entry.Cost,
			PriceFloor: entry.Floor,
			PriceCap:   entry.Cap,
		})
	}

	if err := s.itemRepo.ReplaceForProject(projectID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListItems retrieves the project's item directory
func (s *ItemService) ListItems(projectID, userID string, isAdmin bool) ([]models.Item, error) {
	if _, err := authorizeProject(projectID, userID, isAdmin); err != nil {
		return nil, err
	}
	return s.itemRepo.FindByProjectID(projectID)
}

// DeleteItems clears the item directory and the cost-sheet flag, allowing
// a fresh upload.
func (s *ItemService) DeleteItems(projectID, userID string, isAdmin bool) error {
	if _, err := authorizeProject(projectID, userID, isAdmin); err != nil {
		return err
	}
	return s.itemRepo.DeleteForProject(projectID)
}

// itemNames builds the item id to display name directory of a project
func itemNames(projectID string) (map[int]string, error) {
	items, err := repositories.NewItemRepository().FindByProjectID(projectID)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(items))
	for _, item := range items {
		names[item.ItemID] = item.Name
	}
	return names, nil
}

// resolveName returns an item's display name, or "unknown" when no
// directory entry matches.
func resolveName(names map[int]string, itemID int) string {
	if name, ok := names[itemID]; ok {
		return name
	}
	return "unknown"
}
