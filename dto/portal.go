package dto

// ProjectCreateRequest is the payload for creating a project
type ProjectCreateRequest struct {
	Title     string `json:"title" binding:"required"`
	CompanyID string `json:"companyId" binding:"required"`
}

// ProjectUpdateRequest is the payload for renaming a project
type ProjectUpdateRequest struct {
	Title string `json:"title" binding:"required"`
}

// ConstraintBlockCreateRequest instantiates a constraint block against a
// data block's schema snapshot
type ConstraintBlockCreateRequest struct {
	ProjectID   string `json:"project" binding:"required"`
	DataBlockID string `json:"dataBlock" binding:"required"`
	Name        string `json:"name" binding:"required"`
}

// RelationshipCreate pairs a constraint parameter with a signed coefficient
type RelationshipCreate struct {
	ParameterID string  `json:"id" binding:"required"`
	Coefficient float64 `json:"coefficient" binding:"required"`
}

// ConstraintCreateRequest creates a constraint together with all of its
// relationships in one atomic operation
type ConstraintCreateRequest struct {
	ConstraintBlockID string               `json:"constraintBlock" binding:"required"`
	Name              string               `json:"name" binding:"required"`
	InEquality        string               `json:"inEquality" binding:"required"`
	RHSConstant       float64              `json:"rhsConstant"`
	Penalty           float64              `json:"penalty"`
	Relationships     []RelationshipCreate `json:"relationships" binding:"required"`
}

// ConstraintView is one constraint rendered for display. Equation fields
// are null when the constraint cannot be rendered (no relationships, or an
// item without a resolvable name for EquationName).
type ConstraintView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Penalty      float64 `json:"penalty"`
	Equation     *string `json:"equation"`
	EquationName *string `json:"equationName"`
}

// ParameterView is one constraint parameter with its lazily resolved
// display name ("unknown" when no directory entry matches).
type ParameterView struct {
	ID       string `json:"id"`
	ItemID   int    `json:"itemId"`
	ItemName string `json:"itemName"`
}

// ConstraintBlockDetail is a constraint block with rendered constraints
type ConstraintBlockDetail struct {
	ID          string           `json:"id"`
	ProjectID   string           `json:"projectId"`
	DataBlockID string           `json:"dataBlockId"`
	Name        string           `json:"name"`
	Params      []ParameterView  `json:"params"`
	Constraints []ConstraintView `json:"constraints"`
}

// TrainedModelCreateRequest starts a training job against a data block
type TrainedModelCreateRequest struct {
	DataBlockID       string `json:"dataBlock" binding:"required"`
	PredictionModelID string `json:"predictionModel" binding:"required"`
	Name              string `json:"name" binding:"required"`
	CVAcc             bool   `json:"cvAcc"`
}

// OptimizerCreateRequest starts an optimization job
type OptimizerCreateRequest struct {
	TrainedModelID    string `json:"trainedModel" binding:"required"`
	ConstraintBlockID string `json:"constraintBlock" binding:"required"`
	Name              string `json:"name" binding:"required"`
	ForProfit         bool   `json:"forProfit"`
	Population        int    `json:"population"`
	MaxEpoch          int    `json:"maxEpoch"`
}

// PredictionModelCreateRequest adds a catalogue entry
type PredictionModelCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}
