package services

import (
	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	projectRepo *repositories.ProjectRepository
	userRepo    *repositories.UserRepository
}

// NewProjectService creates a new project service instance
func NewProjectService() *ProjectService {
	return &ProjectService{
		projectRepo: repositories.NewProjectRepository(),
		userRepo:    repositories.NewUserRepository(),
	}
}

// ListProjects retrieves projects visible to the actor: every project for
// admins, the actor's company's projects otherwise.
func (s *ProjectService) ListProjects(userID string, isAdmin bool) ([]models.Project, error) {
	if isAdmin {
		return s.projectRepo.FindAll()
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID == nil {
		return []models.Project{}, nil
	}
	return s.projectRepo.FindByCompanyID(*user.CompanyID)
}

// GetProject retrieves one project, enforcing access control
func (s *ProjectService) GetProject(projectID, userID string, isAdmin bool) (models.Project, error) {
	return authorizeProject(projectID, userID, isAdmin)
}

// CreateProject creates a new project
func (s *ProjectService) CreateProject(req dto.ProjectCreateRequest) (models.Project, error) {
	project := models.Project{
		Title:     req.Title,
		CompanyID: req.CompanyID,
	}
	return s.projectRepo.Create(project)
}

// UpdateProject renames an existing project
func (s *ProjectService) UpdateProject(projectID string, req dto.ProjectUpdateRequest, userID string, isAdmin bool) (models.Project, error) {
	project, err := authorizeProject(projectID, userID, isAdmin)
	if err != nil {
		return models.Project{}, err
	}
	project.Title = req.Title
	if err := s.projectRepo.Update(project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// DeleteProject deletes a project and everything hanging off it
func (s *ProjectService) DeleteProject(projectID, userID string, isAdmin bool) error {
	if _, err := authorizeProject(projectID, userID, isAdmin); err != nil {
		return err
	}
	return s.projectRepo.Delete(projectID)
}
