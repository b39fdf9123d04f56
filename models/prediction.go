package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PredictionModel is one entry of the model catalogue offered for training
type PredictionModel struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`

	Tags []ModelTag `json:"tags,omitempty" gorm:"many2many:prediction_model_tags"`
}

func (m *PredictionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ModelTag labels prediction models for catalogue filtering
type ModelTag struct {
	ID   string `json:"id" gorm:"primaryKey;type:uuid"`
	Name string `json:"name" gorm:"not null;uniqueIndex"`
}

func (t *ModelTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
