package recipes

import (
	"fmt"
	"time"
)

// Recipe is a single recipe entry.
type Recipe struct {
	ID           int
	Title        string
	Ingredients  string
	Instructions string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r Recipe) String() string {
	return fmt.Sprintf("ID: %d, Title: %s, Ingredients: %s\nInstructions:\n%s",
		r.ID, r.Title, r.Ingredients, r.Instructions)
}

// RecipeUpdate carries optional replacements. A nil field is left unchanged.
type RecipeUpdate struct {
	Title        *string
	Ingredients  *string
	Instructions *string
}

// IsEmpty reports whether the update changes nothing.
func (u RecipeUpdate) IsEmpty() bool {
	return u.Title == nil && u.Ingredients == nil && u.Instructions == nil
}

// Ptr returns a pointer to s, handy for building a RecipeUpdate.
func Ptr(s string) *string {
	return &s
}
