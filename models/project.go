package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectResolver is implemented by every entity that belongs, directly or
// through its parents, to a single project. Permission checks go through
// this capability instead of switching on concrete types.
type ProjectResolver interface {
	OwningProjectID() string
}

// Project is the top-level container: it owns data blocks, constraint
// blocks and, once a cost sheet has been uploaded, an item directory.
type Project struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid"`
	Title             string    `json:"title" gorm:"not null"`
	CompanyID         string    `json:"companyId" gorm:"type:uuid;not null;index"`
	CostSheetUploaded bool      `json:"costSheetUploaded" gorm:"default:false"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Company          Company           `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	DataBlocks       []DataBlock       `json:"dataBlocks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	ConstraintBlocks []ConstraintBlock `json:"constraintBlocks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Items            []Item            `json:"items,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Project) OwningProjectID() string {
	return p.ID
}

// Item is one row of a project's item directory, populated from a cost
// sheet upload: authoritative name, cost and feasible price band per item.
type Item struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID  string    `json:"projectId" gorm:"type:uuid;not null;index"`
	ItemID     int       `json:"itemId" gorm:"not null;index"`
	Name       string    `json:"name" gorm:"not null"`
	Cost       float64   `json:"cost"`
	PriceFloor float64   `json:"priceFloor"`
	PriceCap   float64   `json:"priceCap"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i *Item) OwningProjectID() string {
	return i.ProjectID
}
