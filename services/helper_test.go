package services

import (
	"strings"
	"testing"

	"github.com/sutd-rms/secret-sauce/database"
	"github.com/sutd-rms/secret-sauce/lib/tabular"
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
	"github.com/sutd-rms/secret-sauce/utils"
)

// portalFixture is a seeded tenant: one company with a member and a
// project, plus an admin and an outsider from another company.
type portalFixture struct {
	project  models.Project
	member   models.User
	admin    models.User
	outsider models.User
}

func setupPortal(t *testing.T) portalFixture {
	t.Helper()
	database.SetupTest(t)
	t.Setenv("MEDIA_DIR", t.TempDir())

	company := models.Company{Name: "Acme Foods"}
	other := models.Company{Name: "Rival Foods"}
	if err := database.DB.Create(&company).Error; err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}
	if err := database.DB.Create(&other).Error; err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}

	f := portalFixture{
		member:   models.User{Email: "member@acme.test", Password: "x", CompanyID: &company.ID},
		admin:    models.User{Email: "admin@portal.test", Password: "x", Role: models.RoleAdmin},
		outsider: models.User{Email: "outsider@rival.test", Password: "x", CompanyID: &other.ID},
	}
	for _, user := range []*models.User{&f.member, &f.admin, &f.outsider} {
		if err := database.DB.Create(user).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	f.project = models.Project{Title: "Menu Study", CompanyID: company.ID}
	if err := database.DB.Create(&f.project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return f
}

// seedDataBlock stores a small time-series upload and records a block with
// the given schema snapshot.
func seedDataBlock(t *testing.T, projectID string, schema []int, rows ...string) models.DataBlock {
	t.Helper()
	lines := append([]string{strings.Join(tabular.TimeSeriesHeader, ",")}, rows...)
	upload, err := utils.SaveUpload("datablocks", "series.csv", []byte(strings.Join(lines, "\n")+"\n"))
	if err != nil {
		t.Fatalf("failed to store upload: %v", err)
	}
	block, err := repositories.NewDataBlockRepository().Create(models.DataBlock{
		ProjectID: projectID,
		Name:      "weekly sales",
		Upload:    upload,
	}, schema)
	if err != nil {
		t.Fatalf("failed to seed data block: %v", err)
	}
	return block
}

// seedItems populates the project's item directory directly
func seedItems(t *testing.T, projectID string, items ...models.Item) {
	t.Helper()
	for i := range items {
		items[i].ProjectID = projectID
	}
	if err := repositories.NewItemRepository().ReplaceForProject(projectID, items); err != nil {
		t.Fatalf("failed to seed items: %v", err)
	}
}
