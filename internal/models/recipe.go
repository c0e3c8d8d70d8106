// internal/models/recipe.go
package models

import (
	"strings"
	"time"
)

type Ingredient struct {
	Quantity string `json:"quantity" yaml:"quantity"`
	Unit     string `json:"unit" yaml:"unit"`
	Item     string `json:"item" yaml:"item"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type Recipe struct {
	Name         string       `json:"name" yaml:"name"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	Ingredients  []Ingredient `json:"ingredients" yaml:"ingredients"`
	Instructions []string     `json:"instructions" yaml:"instructions"`
	Glassware    string       `json:"glassware,omitempty" yaml:"glassware,omitempty"`
	Garnish      string       `json:"garnish,omitempty" yaml:"garnish,omitempty"`
	Tags         []string     `json:"tags" yaml:"tags"`
}

// Key is the identity of a recipe inside a result set: the trimmed,
// lower-cased name.
func (r Recipe) Key() string {
	return RecipeKey(r.Name)
}

func RecipeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseResult is what the recipe parser hands back to its callers.
type ParseResult struct {
	Recipes []Recipe `json:"recipes" yaml:"recipes"`
}

type RecipeSource string

const (
	SourceManual    RecipeSource = "manual"
	SourceAIParsed  RecipeSource = "ai_parsed"
	SourceGenerated RecipeSource = "ai_generated"
)

// SavedRecipe is a recipe as persisted by the storage layer.
type SavedRecipe struct {
	ID        string       `json:"id"`
	Recipe    Recipe       `json:"recipe"`
	Source    RecipeSource `json:"source"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type GenerateRequest struct {
	Request string `json:"request"`
	Count   int    `json:"count"`
}
