package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrForbidden means the actor does not own the project the resource
// belongs to and is not an admin.
var ErrForbidden = errors.New("you don't have permission to access this resource")

// ErrCostSheetExists gates cost-sheet re-upload: the existing directory
// must be deleted explicitly first.
var ErrCostSheetExists = errors.New("a cost sheet has already been uploaded; delete it before uploading another")

// ErrEmptyConstraint rejects constraints with no relationships: they would
// render as nothing and corrupt equation assembly downstream.
var ErrEmptyConstraint = errors.New("constraint must reference at least one parameter")

// ErrInvalidRelation rejects unknown (in)equality kinds
var ErrInvalidRelation = errors.New("in_equality must be one of EQ, LT, GT, LEQ, GEQ")

// ErrParameterOutsideBlock rejects relationships that point at a parameter
// of a different constraint block.
var ErrParameterOutsideBlock = errors.New("constraint parameter does not belong to this constraint block")

// ErrConflictDetected means the conflict pre-checker reported the new
// constraint as infeasible against the existing set.
var ErrConflictDetected = errors.New("constraint conflicts with the existing constraint set")

// ErrCrossProject rejects optimizer jobs whose trained model and
// constraint block belong to different projects.
var ErrCrossProject = errors.New("trained model and constraint block must belong to the same project")

// ErrModelNotTrained gates optimizer creation on a fully trained model
var ErrModelNotTrained = errors.New("referenced model has not finished training")

// Artifact precondition errors
var (
	ErrFeatureImportanceNotReady = errors.New("feature importance has not been computed yet")
	ErrElasticityNotReady        = errors.New("elasticity estimates have not been computed yet")
	ErrCVNotReady                = errors.New("cross validation has not completed yet")
	ErrResultNotReady            = errors.New("optimization results are not ready yet")
)

// FloorAboveCapError reports a cost-sheet item whose merged price floor
// exceeds its merged price cap.
type FloorAboveCapError struct {
	Item  int
	Floor float64
	Cap   float64
}

func (e *FloorAboveCapError) Error() string {
	return fmt.Sprintf("price floor %g exceeds price cap %g for item %d", e.Floor, e.Cap, e.Item)
}

// MissingCostItemsError reports schema items without cost-sheet coverage,
// which profit-mode optimization requires for every item.
type MissingCostItemsError struct {
	Items []int
}

func (e *MissingCostItemsError) Error() string {
	ids := make([]string, len(e.Items))
	for i, item := range e.Items {
		ids[i] = strconv.Itoa(item)
	}
	return "cost sheet has no entry for items: " + strings.Join(ids, ", ")
}
