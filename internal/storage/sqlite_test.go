package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-cocktail-recipes/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "recipes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var negroni = models.Recipe{
	Name:        "Negroni",
	Description: "Equal parts, stirred.",
	Ingredients: []models.Ingredient{
		{Quantity: "1", Unit: "oz", Item: "gin"},
		{Quantity: "1", Unit: "oz", Item: "Campari"},
		{Quantity: "1", Unit: "oz", Item: "sweet vermouth", Notes: "fresh"},
	},
	Instructions: []string{"Stir with ice", "Strain over a large cube"},
	Glassware:    "Rocks",
	Garnish:      "Orange peel",
	Tags:         []string{"classic", "bitter"},
}

var daiquiri = models.Recipe{
	Name:         "Daiquiri",
	Ingredients:  []models.Ingredient{{Quantity: "2", Unit: "oz", Item: "white rum"}},
	Instructions: []string{},
	Tags:         []string{"Sour"},
}

func TestSaveAndGetRecipeByName(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	saved, err := s.SaveRecipes(ctx, []models.Recipe{negroni}, models.SourceAIParsed)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	_, err = uuid.Parse(saved[0].ID)
	assert.NoError(t, err)

	got, err := s.GetRecipeByName(ctx, "  NEGRONI ")
	require.NoError(t, err)
	assert.Equal(t, saved[0].ID, got.ID)
	assert.Equal(t, negroni, got.Recipe)
	assert.Equal(t, models.SourceAIParsed, got.Source)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetRecipeByName_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetRecipeByName(context.Background(), "Zombie")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRecipes_SkipsStoredNames(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.SaveRecipes(ctx, []models.Recipe{negroni}, models.SourceManual)
	require.NoError(t, err)

	dup := negroni
	dup.Name = "negroni "
	saved, err := s.SaveRecipes(ctx, []models.Recipe{dup, daiquiri, daiquiri}, models.SourceGenerated)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Daiquiri", saved[0].Recipe.Name)

	all, err := s.GetRecipes(ctx, RecipeQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetRecipes_TagFilterAndLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.SaveRecipes(ctx, []models.Recipe{negroni, daiquiri}, models.SourceManual)
	require.NoError(t, err)

	sours, err := s.GetRecipes(ctx, RecipeQuery{Tag: "sour"})
	require.NoError(t, err)
	require.Len(t, sours, 1)
	assert.Equal(t, "Daiquiri", sours[0].Recipe.Name)
	assert.Equal(t, []string{}, sours[0].Recipe.Instructions)

	limited, err := s.GetRecipes(ctx, RecipeQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Daiquiri", limited[0].Recipe.Name)

	none, err := s.GetRecipes(ctx, RecipeQuery{Tag: "tiki"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
