package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sutd-rms/secret-sauce/database"
	"github.com/sutd-rms/secret-sauce/lib/tabular"
	"github.com/sutd-rms/secret-sauce/models"
)

func costSheet(rows ...string) []byte {
	lines := append([]string{strings.Join(tabular.CostSheetHeader, ",")}, rows...)
	return []byte(strings.Join(lines, "\n") + "\n")
}

func TestUploadCostSheetPopulatesDirectory(t *testing.T) {
	f := setupPortal(t)
	svc := NewItemService()

	items, err := svc.UploadCostSheet(f.project.ID, costSheet(
		"1,1,1,102,Fries,1,0.8,3.0,2.0,5.0",
		"1,1,1,101,Burger,1,2.5,6.0,4.0,9.0",
	), f.member.ID, false)
	require.NoError(t, err)

	// Sorted by item code regardless of row order
	require.Len(t, items, 2)
	assert.Equal(t, 101, items[0].ItemID)
	assert.Equal(t, 102, items[1].ItemID)

	var project models.Project
	require.NoError(t, database.DB.First(&project, "id = ?", f.project.ID).Error)
	assert.True(t, project.CostSheetUploaded)
}

func TestUploadCostSheetOncePerProject(t *testing.T) {
	f := setupPortal(t)
	svc := NewItemService()

	_, err := svc.UploadCostSheet(f.project.ID, costSheet("1,1,1,101,Burger,1,2.5,6.0,4.0,9.0"), f.member.ID, false)
	require.NoError(t, err)

	_, err = svc.UploadCostSheet(f.project.ID, costSheet("1,1,1,102,Fries,1,0.8,3.0,2.0,5.0"), f.member.ID, false)
	assert.ErrorIs(t, err, ErrCostSheetExists)
}

func TestUploadCostSheetRejectsInvertedBand(t *testing.T) {
	f := setupPortal(t)
	svc := NewItemService()

	_, err := svc.UploadCostSheet(f.project.ID, costSheet(
		"1,1,1,101,Burger,1,2.5,6.0,4.0,9.0",
		"1,1,1,102,Fries,1,0.8,3.0,7.0,5.0",
	), f.member.ID, false)

	var bandErr *FloorAboveCapError
	require.ErrorAs(t, err, &bandErr)
	assert.Equal(t, 102, bandErr.Item)
	assert.Contains(t, err.Error(), "102")

	// Nothing persisted, flag still unset
	items, listErr := svc.ListItems(f.project.ID, f.member.ID, false)
	require.NoError(t, listErr)
	assert.Empty(t, items)

	var project models.Project
	require.NoError(t, database.DB.First(&project, "id = ?", f.project.ID).Error)
	assert.False(t, project.CostSheetUploaded)
}

func TestUploadCostSheetMergedBandSurvivesInversionCheck(t *testing.T) {
	f := setupPortal(t)
	svc := NewItemService()

	// The first row alone is inverted (floor 7 above cap 5) but the merged
	// band (min floor 1.5, max cap 12.0) is consistent: the check applies
	// to merged values, not individual rows.
	items, err := svc.UploadCostSheet(f.project.ID, costSheet(
		"1,1,1,101,Burger,1,2.5,6.0,7.0,5.0",
		"2,1,1,101,Burger,1,2.5,6.0,1.5,12.0",
	), f.member.ID, false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1.5, items[0].PriceFloor)
	assert.Equal(t, 12.0, items[0].PriceCap)
}

func TestUploadCostSheetDeniedForOutsider(t *testing.T) {
	f := setupPortal(t)
	svc := NewItemService()

	_, err := svc.UploadCostSheet(f.project.ID, costSheet("1,1,1,101,Burger,1,2.5,6.0,4.0,9.0"), f.outsider.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteItemsReopensUpload(t *testing.T) {
	f := setupPortal(t)
	svc := NewItemService()

	_, err := svc.UploadCostSheet(f.project.ID, costSheet("1,1,1,101,Burger,1,2.5,6.0,4.0,9.0"), f.member.ID, false)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItems(f.project.ID, f.member.ID, false))

	items, err := svc.UploadCostSheet(f.project.ID, costSheet("1,1,1,102,Fries,1,0.8,3.0,2.0,5.0"), f.member.ID, false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 102, items[0].ItemID)
}
