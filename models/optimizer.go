package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Optimizer is a price-optimization job against a trained model and a
// constraint block from the same project. Results are fetched lazily and
// cached as a file once the external run finishes.
type Optimizer struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid"`
	TrainedModelID    string    `json:"trainedModelId" gorm:"type:uuid;not null;index"`
	ConstraintBlockID string    `json:"constraintBlockId" gorm:"type:uuid;not null;index"`
	Name              string    `json:"name" gorm:"not null"`
	ForProfit         bool      `json:"forProfit"` // false optimizes revenue
	Population        int       `json:"population" gorm:"default:100"`
	MaxEpoch          int       `json:"maxEpoch" gorm:"default:100"`
	ResultUpload      string    `json:"resultUpload"` // cached result CSV, empty until materialized
	EstimatedProfit   *float64  `json:"estimatedProfit"`
	EstimatedRevenue  *float64  `json:"estimatedRevenue"`
	HardViolations    *int      `json:"hardViolations"`
	SoftViolations    *int      `json:"softViolations"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	TrainedModel    *TrainedModel    `json:"trainedModel,omitempty" gorm:"foreignKey:TrainedModelID"`
	ConstraintBlock *ConstraintBlock `json:"constraintBlock,omitempty" gorm:"foreignKey:ConstraintBlockID"`
}

func (o *Optimizer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OwningProjectID resolves through the constraint block; it must be preloaded
func (o *Optimizer) OwningProjectID() string {
	if o.ConstraintBlock == nil {
		return ""
	}
	return o.ConstraintBlock.ProjectID
}
