package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DataBlock owns one uploaded time-series file and the schema derived from
// it at upload time. The schema is immutable once created: deleting or
// re-uploading never mutates it in place.
type DataBlock struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID string    `json:"projectId" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Upload    string    `json:"upload" gorm:"not null"` // path relative to the media dir
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Project *Project     `json:"-" gorm:"foreignKey:ProjectID"`
	Schema  []SchemaItem `json:"schema,omitempty" gorm:"foreignKey:DataBlockID;constraint:OnDelete:CASCADE"`
}

func (d *DataBlock) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

func (d *DataBlock) OwningProjectID() string {
	return d.ProjectID
}

// SchemaItems returns the ordered item ids of the data block's schema
func (d *DataBlock) SchemaItems() []int {
	ids := make([]int, 0, len(d.Schema))
	for _, s := range d.Schema {
		ids = append(ids, s.ItemID)
	}
	return ids
}

// SchemaItem is one item id slot in a data block's derived schema
type SchemaItem struct {
	ID          string `json:"-" gorm:"primaryKey;type:uuid"`
	DataBlockID string `json:"-" gorm:"type:uuid;not null;index"`
	ItemID      int    `json:"itemId" gorm:"not null"`
	Position    int    `json:"-" gorm:"not null"` // insertion order within the schema
}

func (s *SchemaItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
