package services

import (
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
)

// authorizeProject checks that the actor may touch the given project:
// admins always may, other users must belong to the project's company.
func authorizeProject(projectID, userID string, isAdmin bool) (models.Project, error) {
	projectRepo := repositories.NewProjectRepository()
	project, err := projectRepo.FindByID(projectID)
	if err != nil {
		return models.Project{}, err
	}
	if isAdmin {
		return project, nil
	}

	userRepo := repositories.NewUserRepository()
	user, err := userRepo.FindByID(userID)
	if err != nil {
		return models.Project{}, err
	}
	if user.CompanyID == nil || *user.CompanyID != project.CompanyID {
		return models.Project{}, ErrForbidden
	}
	return project, nil
}

// authorize checks project access through the entity's ProjectResolver
// capability, so callers never branch on concrete entity types.
func authorize(entity models.ProjectResolver, userID string, isAdmin bool) error {
	_, err := authorizeProject(entity.OwningProjectID(), userID, isAdmin)
	return err
}
