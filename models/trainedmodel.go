package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Training completion sentinels. A job is available only when the overall
// percentage and the cross-validation percentage both reach Complete and
// both artifact flags are set.
const TrainingComplete = 100.0

// TrainedModel is a training job against one data block. Progress is a
// four-signal state reconciled from the external service on demand:
// overall percentage, cross-validation percentage, feature-importance done
// and elasticity done.
type TrainedModel struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid"`
	DataBlockID       string    `json:"dataBlockId" gorm:"type:uuid;not null;index"`
	PredictionModelID string    `json:"predictionModelId" gorm:"type:uuid;not null;index"`
	Name              string    `json:"name" gorm:"not null"`
	CVAcc             bool      `json:"cvAcc"`
	PctComplete       float64   `json:"pctComplete" gorm:"default:0"`
	CVProgress        float64   `json:"cvProgress" gorm:"default:0"`
	FiDone            bool      `json:"fiDone" gorm:"default:false"`
	EeDone            bool      `json:"eeDone" gorm:"default:false"`
	FiUpload          string    `json:"fiUpload"` // cached feature-importance CSV, empty until materialized
	EeUpload          string    `json:"eeUpload"` // cached elasticity CSV
	CVUpload          string    `json:"cvUpload"` // cached cv-score CSV
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	DataBlock       *DataBlock       `json:"dataBlock,omitempty" gorm:"foreignKey:DataBlockID"`
	PredictionModel *PredictionModel `json:"predictionModel,omitempty" gorm:"foreignKey:PredictionModelID"`
}

func (t *TrainedModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// OwningProjectID resolves through the data block; it must be preloaded
func (t *TrainedModel) OwningProjectID() string {
	if t.DataBlock == nil {
		return ""
	}
	return t.DataBlock.ProjectID
}

// Trained reports whether the model itself finished training
func (t *TrainedModel) Trained() bool {
	return t.PctComplete >= TrainingComplete
}

// Available reports whether all four completion signals have been reached
func (t *TrainedModel) Available() bool {
	return t.Trained() && t.CVProgress >= TrainingComplete && t.FiDone && t.EeDone
}
