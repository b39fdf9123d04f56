package services

import (
	"github.com/sutd-rms/secret-sauce/models"
)

// priceBounds assembles the [item, floor, cap] triples the optimizer and
// the conflict checker consume, covering every given item id that has a
// cost-sheet entry.
func priceBounds(itemIDs []int, directory map[int]models.Item) [][3]float64 {
	bounds := make([][3]float64, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, ok := directory[id]
		if !ok {
			continue
		}
		bounds = append(bounds, [3]float64{float64(id), item.PriceFloor, item.PriceCap})
	}
	return bounds
}

// costList assembles the [item, cost] pairs for profit-mode optimization
func costList(itemIDs []int, directory map[int]models.Item) [][2]float64 {
	costs := make([][2]float64, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, ok := directory[id]
		if !ok {
			continue
		}
		costs = append(costs, [2]float64{float64(id), item.Cost})
	}
	return costs
}

// paramItemIDs lists the item ids of a constraint block's parameters
func paramItemIDs(params []models.ConstraintParameter) []int {
	ids := make([]int, 0, len(params))
	for _, param := range params {
		ids = append(ids, param.ItemID)
	}
	return ids
}
