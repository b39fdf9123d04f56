package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Relation is the (in)equality kind of a constraint
type Relation string

const (
	RelationEQ  Relation = "EQ"
	RelationLT  Relation = "LT"
	RelationGT  Relation = "GT"
	RelationLEQ Relation = "LEQ"
	RelationGEQ Relation = "GEQ"
)

// relationCodes is the numeric encoding the external optimizer expects.
// Wire contract: do not renumber.
var relationCodes = map[Relation]int{
	RelationEQ:  0,
	RelationLT:  1,
	RelationGT:  2,
	RelationLEQ: 3,
	RelationGEQ: 4,
}

var relationSymbols = map[Relation]string{
	RelationEQ:  "=",
	RelationLT:  "<",
	RelationGT:  ">",
	RelationLEQ: "<=",
	RelationGEQ: ">=",
}

// Valid reports whether r is one of the five supported relation kinds
func (r Relation) Valid() bool {
	_, ok := relationCodes[r]
	return ok
}

// Code returns the optimizer wire code for the relation
func (r Relation) Code() int {
	return relationCodes[r]
}

// Symbol returns the algebraic rendering of the relation
func (r Relation) Symbol() string {
	return relationSymbols[r]
}

// ConstraintBlock is a named collection of constraints instantiated against
// one data block's schema. Its parameters are a snapshot taken at creation
// time, not a live view of the data block.
type ConstraintBlock struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID   string    `json:"projectId" gorm:"type:uuid;not null;index"`
	DataBlockID string    `json:"dataBlockId" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Params      []ConstraintParameter `json:"params,omitempty" gorm:"foreignKey:ConstraintBlockID;constraint:OnDelete:CASCADE"`
	Constraints []Constraint          `json:"constraints,omitempty" gorm:"foreignKey:ConstraintBlockID;constraint:OnDelete:CASCADE"`
}

func (b *ConstraintBlock) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b *ConstraintBlock) OwningProjectID() string {
	return b.ProjectID
}

// ConstraintParameter is one item slot within a constraint block
type ConstraintParameter struct {
	ID                string `json:"id" gorm:"primaryKey;type:uuid"`
	ConstraintBlockID string `json:"constraintBlockId" gorm:"type:uuid;not null;index"`
	ItemID            int    `json:"itemId" gorm:"not null"`
	Position          int    `json:"-" gorm:"not null"` // schema order at snapshot time
}

func (p *ConstraintParameter) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Constraint is one linear (in)equality over a block's parameters:
// sum(coefficient_i * item_i) <relation> rhs
type Constraint struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid"`
	ConstraintBlockID string    `json:"constraintBlockId" gorm:"type:uuid;not null;index"`
	Name              string    `json:"name" gorm:"not null"`
	InEquality        Relation  `json:"inEquality" gorm:"type:varchar(3);not null"`
	RHSConstant       float64   `json:"rhsConstant"`
	Penalty           float64   `json:"penalty"`
	CreatedAt         time.Time `json:"createdAt"`

	Relationships []ConstraintParameterRelationship `json:"relationships,omitempty" gorm:"foreignKey:ConstraintID;constraint:OnDelete:CASCADE"`
}

func (c *Constraint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ConstraintParameterRelationship pairs a parameter with a signed coefficient
type ConstraintParameterRelationship struct {
	ID                    string  `json:"id" gorm:"primaryKey;type:uuid"`
	ConstraintID          string  `json:"constraintId" gorm:"type:uuid;not null;index"`
	ConstraintParameterID string  `json:"constraintParameterId" gorm:"type:uuid;not null;index"`
	Coefficient           float64 `json:"coefficient"`
	Position              int     `json:"-" gorm:"not null"` // insertion order, keeps rendering stable

	ConstraintParameter *ConstraintParameter `json:"parameter,omitempty" gorm:"foreignKey:ConstraintParameterID"`
}

func (r *ConstraintParameterRelationship) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// coefficientString renders a coefficient the way the equation display
// expects: integral values keep a trailing ".0" (2 -> "2.0").
func coefficientString(c float64) string {
	s := strconv.FormatFloat(c, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// constantString renders the right-hand constant minimally (4 -> "4")
func constantString(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

// Equation renders the constraint as "2.0*[3]-1.0*[5]>=4": terms in
// relationship insertion order, an explicit "+" only before positive
// coefficients after the first term. Returns ok=false when the constraint
// has no relationships (nothing to render).
//
// Relationships and their parameters must be preloaded.
func (c *Constraint) Equation() (string, bool) {
	return c.render(func(itemID int) (string, bool) {
		return "[" + strconv.Itoa(itemID) + "]", true
	})
}

// EquationName renders like Equation but substitutes each item id with its
// display name from the given directory. Returns ok=false when the
// constraint is empty or any referenced item has no name (no partial
// rendering).
func (c *Constraint) EquationName(names map[int]string) (string, bool) {
	return c.render(func(itemID int) (string, bool) {
		name, ok := names[itemID]
		return name, ok
	})
}

func (c *Constraint) render(display func(int) (string, bool)) (string, bool) {
	if len(c.Relationships) == 0 {
		return "", false
	}
	var b strings.Builder
	for i, rel := range c.Relationships {
		if rel.ConstraintParameter == nil {
			return "", false
		}
		term, ok := display(rel.ConstraintParameter.ItemID)
		if !ok {
			return "", false
		}
		if i > 0 && rel.Coefficient >= 0 {
			b.WriteString("+")
		}
		b.WriteString(coefficientString(rel.Coefficient))
		b.WriteString("*")
		b.WriteString(term)
	}
	b.WriteString(c.InEquality.Symbol())
	b.WriteString(constantString(c.RHSConstant))
	return b.String(), true
}

// ConstraintEntry is the positional array form of one constraint, as the
// external optimizer consumes it
type ConstraintEntry struct {
	Products []int     `json:"products"`
	Scales   []float64 `json:"scales"`
	Penalty  float64   `json:"penalty"`
	Equality int       `json:"equality"`
	Shift    float64   `json:"shift"`
}

// ConstraintList serializes every constraint of the block into the
// optimizer's positional array format. Constraints and their relationships
// must be preloaded.
func (b *ConstraintBlock) ConstraintList() []ConstraintEntry {
	entries := make([]ConstraintEntry, 0, len(b.Constraints))
	for _, c := range b.Constraints {
		entry := ConstraintEntry{
			Products: make([]int, 0, len(c.Relationships)),
			Scales:   make([]float64, 0, len(c.Relationships)),
			Penalty:  c.Penalty,
			Equality: c.InEquality.Code(),
			Shift:    c.RHSConstant,
		}
		for _, rel := range c.Relationships {
			if rel.ConstraintParameter == nil {
				continue
			}
			entry.Products = append(entry.Products, rel.ConstraintParameter.ItemID)
			entry.Scales = append(entry.Scales, rel.Coefficient)
		}
		entries = append(entries, entry)
	}
	return entries
}
