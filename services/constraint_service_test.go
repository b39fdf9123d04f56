package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/lib/rms"
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
)

// fakeDetector is a stand-in conflict checker answering with a fixed verdict
func fakeDetector(t *testing.T, verdict string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/detect_conflict/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"conflict": verdict})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func constraintServiceAgainst(url string) *ConstraintService {
	return NewConstraintService(rms.NewClient(url, time.Second))
}

func TestCreateBlockSnapshotsSchema(t *testing.T) {
	f := setupPortal(t)
	block := seedDataBlock(t, f.project.ID, []int{30, 10, 20})
	svc := constraintServiceAgainst("http://127.0.0.1:1")

	created, err := svc.CreateBlock(dto.ConstraintBlockCreateRequest{
		ProjectID:   f.project.ID,
		DataBlockID: block.ID,
		Name:        "price rules",
	}, f.member.ID, false)
	require.NoError(t, err)

	detail, err := repositories.NewConstraintBlockRepository().WithDetail(created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Params, 3)
	assert.Equal(t, 30, detail.Params[0].ItemID)
	assert.Equal(t, 10, detail.Params[1].ItemID)
	assert.Equal(t, 20, detail.Params[2].ItemID)
}

func TestCreateBlockRejectsForeignDataBlock(t *testing.T) {
	f := setupPortal(t)
	otherProject := models.Project{Title: "Other", CompanyID: f.project.CompanyID}
	require.NoError(t, createProject(&otherProject))
	block := seedDataBlock(t, otherProject.ID, []int{10})
	svc := constraintServiceAgainst("http://127.0.0.1:1")

	_, err := svc.CreateBlock(dto.ConstraintBlockCreateRequest{
		ProjectID:   f.project.ID,
		DataBlockID: block.ID,
		Name:        "price rules",
	}, f.member.ID, false)
	assert.ErrorIs(t, err, ErrCrossProject)
}

func TestCreateConstraintSuccess(t *testing.T) {
	f := setupPortal(t)
	dataBlock := seedDataBlock(t, f.project.ID, []int{3, 5})
	srv := fakeDetector(t, "No conflict")
	svc := constraintServiceAgainst(srv.URL)

	block, err := svc.CreateBlock(dto.ConstraintBlockCreateRequest{
		ProjectID: f.project.ID, DataBlockID: dataBlock.ID, Name: "rules",
	}, f.member.ID, false)
	require.NoError(t, err)
	detail, err := repositories.NewConstraintBlockRepository().WithDetail(block.ID)
	require.NoError(t, err)

	created, err := svc.CreateConstraint(dto.ConstraintCreateRequest{
		ConstraintBlockID: block.ID,
		Name:              "spread",
		InEquality:        "GEQ",
		RHSConstant:       4,
		Relationships: []dto.RelationshipCreate{
			{ParameterID: detail.Params[0].ID, Coefficient: 2},
			{ParameterID: detail.Params[1].ID, Coefficient: -1},
		},
	}, f.member.ID, false)
	require.NoError(t, err)

	view, err := svc.GetConstraint(created.ID, f.member.ID, false)
	require.NoError(t, err)
	require.NotNil(t, view.Equation)
	assert.Equal(t, "2.0*[3]-1.0*[5]>=4", *view.Equation)
}

func TestCreateConstraintRollsBackOnConflict(t *testing.T) {
	f := setupPortal(t)
	dataBlock := seedDataBlock(t, f.project.ID, []int{3})
	srv := fakeDetector(t, rms.ConflictVerdict)
	svc := constraintServiceAgainst(srv.URL)

	block, err := svc.CreateBlock(dto.ConstraintBlockCreateRequest{
		ProjectID: f.project.ID, DataBlockID: dataBlock.ID, Name: "rules",
	}, f.member.ID, false)
	require.NoError(t, err)
	detail, err := repositories.NewConstraintBlockRepository().WithDetail(block.ID)
	require.NoError(t, err)

	_, err = svc.CreateConstraint(dto.ConstraintCreateRequest{
		ConstraintBlockID: block.ID,
		Name:              "impossible",
		InEquality:        "EQ",
		Relationships:     []dto.RelationshipCreate{{ParameterID: detail.Params[0].ID, Coefficient: 1}},
	}, f.member.ID, false)
	assert.ErrorIs(t, err, ErrConflictDetected)

	blockDetail, err := svc.BlockDetail(block.ID, f.member.ID, false)
	require.NoError(t, err)
	assert.Empty(t, blockDetail.Constraints)
}

func TestCreateConstraintRollsBackWhenCheckerUnreachable(t *testing.T) {
	f := setupPortal(t)
	dataBlock := seedDataBlock(t, f.project.ID, []int{3})
	svc := constraintServiceAgainst("http://127.0.0.1:1")

	block, err := svc.CreateBlock(dto.ConstraintBlockCreateRequest{
		ProjectID: f.project.ID, DataBlockID: dataBlock.ID, Name: "rules",
	}, f.member.ID, false)
	require.NoError(t, err)
	detail, err := repositories.NewConstraintBlockRepository().WithDetail(block.ID)
	require.NoError(t, err)

	_, err = svc.CreateConstraint(dto.ConstraintCreateRequest{
		ConstraintBlockID: block.ID,
		Name:              "unverifiable",
		InEquality:        "EQ",
		Relationships:     []dto.RelationshipCreate{{ParameterID: detail.Params[0].ID, Coefficient: 1}},
	}, f.member.ID, false)
	assert.ErrorIs(t, err, rms.ErrUnavailable)

	blockDetail, err := svc.BlockDetail(block.ID, f.member.ID, false)
	require.NoError(t, err)
	assert.Empty(t, blockDetail.Constraints)
}

func TestCreateConstraintValidation(t *testing.T) {
	f := setupPortal(t)
	dataBlock := seedDataBlock(t, f.project.ID, []int{3})
	srv := fakeDetector(t, "No conflict")
	svc := constraintServiceAgainst(srv.URL)

	block, err := svc.CreateBlock(dto.ConstraintBlockCreateRequest{
		ProjectID: f.project.ID, DataBlockID: dataBlock.ID, Name: "rules",
	}, f.member.ID, false)
	require.NoError(t, err)
	detail, err := repositories.NewConstraintBlockRepository().WithDetail(block.ID)
	require.NoError(t, err)

	t.Run("unknown relation", func(t *testing.T) {
		_, err := svc.CreateConstraint(dto.ConstraintCreateRequest{
			ConstraintBlockID: block.ID, Name: "x", InEquality: "GTE",
			Relationships: []dto.RelationshipCreate{{ParameterID: detail.Params[0].ID, Coefficient: 1}},
		}, f.member.ID, false)
		assert.ErrorIs(t, err, ErrInvalidRelation)
	})

	t.Run("no relationships", func(t *testing.T) {
		_, err := svc.CreateConstraint(dto.ConstraintCreateRequest{
			ConstraintBlockID: block.ID, Name: "x", InEquality: "EQ",
		}, f.member.ID, false)
		assert.ErrorIs(t, err, ErrEmptyConstraint)
	})

	t.Run("foreign parameter", func(t *testing.T) {
		_, err := svc.CreateConstraint(dto.ConstraintCreateRequest{
			ConstraintBlockID: block.ID, Name: "x", InEquality: "EQ",
			Relationships: []dto.RelationshipCreate{{ParameterID: "00000000-0000-0000-0000-000000000000", Coefficient: 1}},
		}, f.member.ID, false)
		assert.ErrorIs(t, err, ErrParameterOutsideBlock)
	})
}

func TestBlockDetailResolvesNames(t *testing.T) {
	f := setupPortal(t)
	dataBlock := seedDataBlock(t, f.project.ID, []int{3, 5})
	seedItems(t, f.project.ID, models.Item{ItemID: 3, Name: "Burger", Cost: 2, PriceFloor: 1, PriceCap: 9})
	srv := fakeDetector(t, "No conflict")
	svc := constraintServiceAgainst(srv.URL)

	block, err := svc.CreateBlock(dto.ConstraintBlockCreateRequest{
		ProjectID: f.project.ID, DataBlockID: dataBlock.ID, Name: "rules",
	}, f.member.ID, false)
	require.NoError(t, err)

	detail, err := svc.BlockDetail(block.ID, f.member.ID, false)
	require.NoError(t, err)
	require.Len(t, detail.Params, 2)
	assert.Equal(t, "Burger", detail.Params[0].ItemName)
	assert.Equal(t, "unknown", detail.Params[1].ItemName)
}

func createProject(p *models.Project) error {
	created, err := repositories.NewProjectRepository().Create(*p)
	if err != nil {
		return err
	}
	*p = created
	return nil
}
