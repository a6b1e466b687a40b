package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is one of the fixed recipe categories
type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
	CategoryDessert   Category = "dessert"
	CategoryAppetizer Category = "appetizer"
	CategorySnack     Category = "snack"
	CategoryDrink     Category = "drink"
	CategoryOther     Category = "other"

	// CategoryAll is the filter sentinel that matches every category
	CategoryAll Category = "all"
)

// Categories lists the valid recipe categories in display order
var Categories = []Category{
	CategoryBreakfast,
	CategoryLunch,
	CategoryDinner,
	CategoryDessert,
	CategoryAppetizer,
	CategorySnack,
	CategoryDrink,
	CategoryOther,
}

// Valid reports whether c is one of the recipe categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Recipe is one dish entry in the collection
type Recipe struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Ingredients  string    `gorm:"type:text;not null;default:''" json:"ingredients"`
	Instructions string    `gorm:"type:text;not null;default:''" json:"instructions"`
	PrepTime     int       `gorm:"not null;default:0" json:"prep_time"`
	CookTime     int       `gorm:"not null;default:0" json:"cook_time"`
	Servings     int       `gorm:"not null;default:1" json:"servings"`
	Category     Category  `gorm:"size:50;not null;default:'other'" json:"category"`
	ImageURL     string    `gorm:"type:text" json:"image_url,omitempty"`
	SourceLink   string    `gorm:"type:text" json:"source_link,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns the id when the caller did not
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IngredientLines returns the non-blank ingredient lines in order
func (r *Recipe) IngredientLines() []string {
	return Lines(r.Ingredients)
}

// InstructionLines returns the non-blank instruction steps in order
func (r *Recipe) InstructionLines() []string {
	return Lines(r.Instructions)
}

// TotalTime is prep plus cook time in minutes
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// Lines splits newline-delimited text, dropping blank lines
func Lines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	return lines
}
