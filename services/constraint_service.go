package services

import (
	"fmt"
	"log"

	"github.com/sutd-rms/secret-sauce/dto"
	"github.com/sutd-rms/secret-sauce/lib/rms"
	"github.com/sutd-rms/secret-sauce/models"
	"github.com/sutd-rms/secret-sauce/repositories"
)

// ConstraintService handles constraint blocks and the atomic creation of
// constraints with their relationships, including the synchronous conflict
// pre-check against the external service.
type ConstraintService struct {
	blockRepo      *repositories.ConstraintBlockRepository
	constraintRepo *repositories.ConstraintRepository
	dataBlockRepo  *repositories.DataBlockRepository
	itemRepo       *repositories.ItemRepository
	client         *rms.Client
}

// NewConstraintService creates a new constraint service instance
func NewConstraintService(client *rms.Client) *ConstraintService {
	return &ConstraintService{
		blockRepo:      repositories.NewConstraintBlockRepository(),
		constraintRepo: repositories.NewConstraintRepository(),
		dataBlockRepo:  repositories.NewDataBlockRepository(),
		itemRepo:       repositories.NewItemRepository(),
		client:         client,
	}
}

// CreateBlock instantiates a constraint block against a data block's
// schema: one parameter per schema item, snapshotted at creation time.
func (s *ConstraintService) CreateBlock(req dto.ConstraintBlockCreateRequest, userID string, isAdmin bool) (models.ConstraintBlock, error) {
	if _, err := authorizeProject(req.ProjectID, userID, isAdmin); err != nil {
		return models.ConstraintBlock{}, err
	}

	dataBlock, err := s.dataBlockRepo.WithSchema(req.DataBlockID)
	if err != nil {
		return models.ConstraintBlock{}, err
	}
	if dataBlock.ProjectID != req.ProjectID {
		return models.ConstraintBlock{}, ErrCrossProject
	}

	block := models.ConstraintBlock{
		ProjectID:   req.ProjectID,
		DataBlockID: req.DataBlockID,
		Name:        req.Name,
	}
	return s.blockRepo.Create(block, dataBlock.SchemaItems())
}

// ListBlocks retrieves the constraint blocks of a project
func (s *ConstraintService) ListBlocks(projectID, userID string, isAdmin bool) ([]models.ConstraintBlock, error) {
	if _, err := authorizeProject(projectID, userID, isAdmin); err != nil {
		return nil, err
	}
	return s.blockRepo.FindByProjectID(projectID)
}

// BlockDetail retrieves a constraint block with every constraint rendered
// as equations. Display names resolve against the project's item
// directory; parameters without a match show as "unknown" and
// EquationName is withheld for constraints touching them.
func (s *ConstraintService) BlockDetail(blockID, userID string, isAdmin bool) (dto.ConstraintBlockDetail, error) {
	block, err := s.blockRepo.WithDetail(blockID)
	if err != nil {
		return dto.ConstraintBlockDetail{}, err
	}
	if err := authorize(&block, userID, isAdmin); err != nil {
		return dto.ConstraintBlockDetail{}, err
	}

	names, err := itemNames(block.ProjectID)
	if err != nil {
		return dto.ConstraintBlockDetail{}, err
	}

	detail := dto.ConstraintBlockDetail{
		ID:          block.ID,
		ProjectID:   block.ProjectID,
		DataBlockID: block.DataBlockID,
		Name:        block.Name,
		Params:      make([]dto.ParameterView, 0, len(block.Params)),
		Constraints: make([]dto.ConstraintView, 0, len(block.Constraints)),
	}
	for _, param := range block.Params {
		detail.Params = append(detail.Params, dto.ParameterView{
			ID:       param.ID,
			ItemID:   param.ItemID,
			ItemName: resolveName(names, param.ItemID),
		})
	}
	for i := range block.Constraints {
		detail.Constraints = append(detail.Constraints, renderConstraint(&block.Constraints[i], names))
	}
	return detail, nil
}

// DeleteBlock removes a constraint block with all of its contents
func (s *ConstraintService) DeleteBlock(blockID, userID string, isAdmin bool) error {
	block, err := s.blockRepo.FindByID(blockID)
	if err != nil {
		return err
	}
	if err := authorize(&block, userID, isAdmin); err != nil {
		return err
	}
	return s.blockRepo.Delete(blockID)
}

// CreateConstraint records a constraint and all of its relationships
// atomically, then runs the synchronous conflict pre-check. A reported
// conflict, or an unreachable checker, rolls the just-created constraint
// back before the error is returned.
func (s *ConstraintService) CreateConstraint(req dto.ConstraintCreateRequest, userID string, isAdmin bool) (models.Constraint, error) {
	relation := models.Relation(req.InEquality)
	if !relation.Valid() {
		return models.Constraint{}, ErrInvalidRelation
	}
	if len(req.Relationships) == 0 {
		return models.Constraint{}, ErrEmptyConstraint
	}

	block, err := s.blockRepo.WithDetail(req.ConstraintBlockID)
	if err != nil {
		return models.Constraint{}, err
	}
	if err := authorize(&block, userID, isAdmin); err != nil {
		return models.Constraint{}, err
	}

	params := make(map[string]models.ConstraintParameter, len(block.Params))
	for _, param := range block.Params {
		params[param.ID] = param
	}
	relationships := make([]models.ConstraintParameterRelationship, 0, len(req.Relationships))
	for _, rel := range req.Relationships {
		param, ok := params[rel.ParameterID]
		if !ok {
			return models.Constraint{}, ErrParameterOutsideBlock
		}
		p := param
		relationships = append(relationships, models.ConstraintParameterRelationship{
			ConstraintParameterID: param.ID,
			Coefficient:           rel.Coefficient,
			ConstraintParameter:   &p,
		})
	}

	constraint := models.Constraint{
		ConstraintBlockID: block.ID,
		Name:              req.Name,
		InEquality:        relation,
		RHSConstant:       req.RHSConstant,
		Penalty:           req.Penalty,
	}
	constraint, err = s.constraintRepo.Create(constraint, relationships)
	if err != nil {
		return models.Constraint{}, err
	}

	if err := s.conflictCheck(block, constraint); err != nil {
		if delErr := s.constraintRepo.Delete(constraint.ID); delErr != nil {
			log.Printf("failed to roll back constraint %s: %v", constraint.ID, delErr)
		}
		return models.Constraint{}, err
	}
	return constraint, nil
}

// conflictCheck submits the block's full constraint set, including the new
// constraint, to the external conflict detector.
func (s *ConstraintService) conflictCheck(block models.ConstraintBlock, created models.Constraint) error {
	block.Constraints = append(block.Constraints, created)
	constraintList := block.ConstraintList()

	directory, err := s.itemRepo.MapByProjectID(block.ProjectID)
	if err != nil {
		return err
	}
	bounds := priceBounds(paramItemIDs(block.Params), directory)

	conflict, err := s.client.DetectConflict(constraintList, bounds)
	if err != nil {
		return fmt.Errorf("conflict check failed: %w", err)
	}
	if conflict {
		return ErrConflictDetected
	}
	return nil
}

// GetConstraint retrieves one constraint rendered for display
func (s *ConstraintService) GetConstraint(constraintID, userID string, isAdmin bool) (dto.ConstraintView, error) {
	constraint, err := s.constraintRepo.FindByID(constraintID)
	if err != nil {
		return dto.ConstraintView{}, err
	}
	block, err := s.blockRepo.FindByID(constraint.ConstraintBlockID)
	if err != nil {
		return dto.ConstraintView{}, err
	}
	if err := authorize(&block, userID, isAdmin); err != nil {
		return dto.ConstraintView{}, err
	}
	names, err := itemNames(block.ProjectID)
	if err != nil {
		return dto.ConstraintView{}, err
	}
	return renderConstraint(&constraint, names), nil
}

// DeleteConstraint removes a constraint with its relationships
func (s *ConstraintService) DeleteConstraint(constraintID, userID string, isAdmin bool) error {
	constraint, err := s.constraintRepo.FindByID(constraintID)
	if err != nil {
		return err
	}
	block, err := s.blockRepo.FindByID(constraint.ConstraintBlockID)
	if err != nil {
		return err
	}
	if err := authorize(&block, userID, isAdmin); err != nil {
		return err
	}
	return s.constraintRepo.Delete(constraintID)
}

func renderConstraint(constraint *models.Constraint, names map[int]string) dto.ConstraintView {
	view := dto.ConstraintView{
		ID:      constraint.ID,
		Name:    constraint.Name,
		Penalty: constraint.Penalty,
	}
	if eq, ok := constraint.Equation(); ok {
		view.Equation = &eq
	}
	if eq, ok := constraint.EquationName(names); ok {
		view.EquationName = &eq
	}
	return view
}
