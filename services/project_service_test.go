package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
	"gorm.io/gorm"
)

func TestListProjectsScopedByCompany(t *testing.T) {
	f := setupPortal(t)
	svc := NewProjectService()

	member, err := svc.ListProjects(f.member.ID, false)
	require.NoError(t, err)
	require.Len(t, member, 1)
	assert.Equal(t, f.project.ID, member[0].ID)

	outsider, err := svc.ListProjects(f.outsider.ID, false)
	require.NoError(t, err)
	assert.Empty(t, outsider)

	admin, err := svc.ListProjects(f.admin.ID, true)
	require.NoError(t, err)
	assert.Len(t, admin, 1)
}

func TestGetProjectEnforcesAccess(t *testing.T) {
	f := setupPortal(t)
	svc := NewProjectService()

	_, err := svc.GetProject(f.project.ID, f.outsider.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.GetProject(f.project.ID, f.member.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Menu Study", got.Title)
}

func TestUpdateProjectRenames(t *testing.T) {
	f := setupPortal(t)
	svc := NewProjectService()

	updated, err := svc.UpdateProject(f.project.ID, dto.ProjectUpdateRequest{Title: "Menu Study v2"}, f.member.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Menu Study v2", updated.Title)
}

func TestDeleteProjectCascades(t *testing.T) {
	f := setupPortal(t)
	svc := NewProjectService()
	block := seedDataBlock(t, f.project.ID, []int{10}, "1,1,2,3,10,5,2.5")
	seedItems(t, f.project.ID, models.Item{ItemID: 10, Name: "Burger"})

	require.NoError(t, svc.DeleteProject(f.project.ID, f.member.ID, false))

	_, err := svc.GetProject(f.project.ID, f.admin.ID, true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = NewDataBlockService().GetDataBlock(block.ID, f.admin.ID, true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	items, err := repositories.NewItemRepository().FindByProjectID(f.project.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
