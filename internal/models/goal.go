package models

import (
	"time"
)

type Category string

const (
	CategoryHealth         Category = "health"
	CategoryCareer         Category = "career"
	CategoryRelationships  Category = "relationships"
	CategoryFinance        Category = "finance"
	CategoryPersonalGrowth Category = "personal-growth"
	CategoryTravel         Category = "travel"
	CategoryEducation      Category = "education"
	CategoryFamily         Category = "family"
	CategoryCreative       Category = "creative"
	CategoryOther          Category = "other"
)

// Categories lists every category in board column order.
var Categories = []Category{
	CategoryHealth,
	CategoryCareer,
	CategoryRelationships,
	CategoryFinance,
	CategoryPersonalGrowth,
	CategoryTravel,
	CategoryEducation,
	CategoryFamily,
	CategoryCreative,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type DisplayStyle string

const (
	DisplayGrid DisplayStyle = "grid"
	DisplayList DisplayStyle = "list"
)

func (d DisplayStyle) Valid() bool {
	return d == "" || d == DisplayGrid || d == DisplayList
}

// Goal is one vision-board item. A goal carries either an ImageURL or an
// Icon, never both.
type Goal struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Category     Category     `json:"category"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	Icon         string       `json:"icon,omitempty"`
	DisplayStyle DisplayStyle `json:"displayStyle,omitempty"`
	Order        int          `json:"order"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Goal DTOs
type CreateGoalRequest struct {
	Title        string       `json:"title" validate:"required"`
	Description  string       `json:"description"`
	Category     Category     `json:"category" validate:"required"`
	ImageURL     string       `json:"imageUrl"`
	Icon         string       `json:"icon"`
	DisplayStyle DisplayStyle `json:"displayStyle"`
	Order        *int         `json:"order" validate:"omitempty,min=0"`
}

type UpdateGoalRequest struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	Category     *Category     `json:"category"`
	ImageURL     *string       `json:"imageUrl"`
	Icon         *string       `json:"icon"`
	DisplayStyle *DisplayStyle `json:"displayStyle"`
}

type MoveGoalRequest struct {
	Category Category `json:"category" validate:"required"`
	Order    *int     `json:"order" validate:"required,min=0"`
}

type ReorderGoalRequest struct {
	Order *int `json:"order" validate:"required,min=0"`
}
