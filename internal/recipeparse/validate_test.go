package recipeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-cocktail-recipes/internal/models"
)

func validateOne(t *testing.T, doc string) models.Recipe {
	t.Helper()
	res, err := ValidateDocument(mustParse(t, doc))
	require.NoError(t, err)
	require.Len(t, res.Recipes, 1)
	return res.Recipes[0]
}

func TestValidateDocument_NotObject(t *testing.T) {
	res, err := ValidateDocument(mustParse(t, `[{"name":"Sazerac"}]`))
	assert.ErrorIs(t, err, ErrNotObject)
	assert.NotNil(t, res.Recipes)
	assert.Empty(t, res.Recipes)
}

func TestValidateDocument_DropsNamelessRecipes(t *testing.T) {
	res, err := ValidateDocument(mustParse(t, `{"recipes":[
		{"ingredients":["2 oz gin"]},
		{"name":"   ","ingredients":["2 oz gin"]},
		{"name":"Gin Rickey","ingredients":["2 oz gin","1/2 oz lime juice"]}
	]}`))
	require.NoError(t, err)
	require.Len(t, res.Recipes, 1)
	assert.Equal(t, "Gin Rickey", res.Recipes[0].Name)
}

func TestValidateDocument_SlicesAreNeverNil(t *testing.T) {
	r := validateOne(t, `{"name":"Club Soda"}`)
	assert.NotNil(t, r.Ingredients)
	assert.NotNil(t, r.Instructions)
	assert.NotNil(t, r.Tags)
	assert.Empty(t, r.Ingredients)
}

func TestValidateDocument_StringFields(t *testing.T) {
	r := validateOne(t, `{
		"name": "  Gimlet ",
		"ingredients": "2 oz gin\n3/4 oz lime cordial\n",
		"instructions": "1. Stir with ice\n2. Strain into a coupe",
		"tags": "classic, gin,"
	}`)
	assert.Equal(t, "Gimlet", r.Name)
	assert.Equal(t, []models.Ingredient{
		{Quantity: "2", Unit: "oz", Item: "gin"},
		{Quantity: "3/4", Unit: "oz", Item: "lime cordial"},
	}, r.Ingredients)
	assert.Equal(t, []string{"Stir with ice", "Strain into a coupe"}, r.Instructions)
	assert.Equal(t, []string{"classic", "gin"}, r.Tags)
}

func TestValidateDocument_IngredientMap(t *testing.T) {
	r := validateOne(t, `{"name":"Martini","ingredients":{"gin":"2 1/2 oz","dry vermouth":"1/2 oz","olive":"1"}}`)
	assert.Equal(t, []models.Ingredient{
		{Quantity: "2 1/2", Unit: "oz", Item: "gin"},
		{Quantity: "1/2", Unit: "oz", Item: "dry vermouth"},
		{Quantity: "1", Item: "olive"},
	}, r.Ingredients)
}

func TestValidateDocument_IngredientObjects(t *testing.T) {
	r := validateOne(t, `{"name":"Whiskey Sour","ingredients":[
		{"quantity":"1","unit":"oz"},
		{"amount":0.75,"unit":"oz","item":"lemon juice"},
		{"qty":"2 oz","ingredient":"bourbon"},
		{"quantity":2,"unit":"dash","name":"Angostura bitters","note":" optional "},
		{"measurement":"2 oz","ingredient":"rye"},
		"1 egg white"
	]}`)
	assert.Equal(t, []models.Ingredient{
		{Quantity: "3/4", Unit: "oz", Item: "lemon juice"},
		{Quantity: "2", Unit: "oz", Item: "bourbon"},
		{Quantity: "2", Unit: "dashes", Item: "Angostura bitters", Notes: "optional"},
		{Quantity: "2", Unit: "oz", Item: "rye"},
		{Quantity: "1", Item: "egg white"},
	}, r.Ingredients)
}

func TestValidateDocument_InstructionShapes(t *testing.T) {
	r := validateOne(t, `{"name":"Mojito","instructions":[
		"Muddle mint with sugar.",
		{"text":"Add rum and lime."},
		{"description":"Top with soda."},
		"",
		42
	]}`)
	assert.Equal(t, []string{"Muddle mint with sugar.", "Add rum and lime.", "Top with soda.", "42"}, r.Instructions)
}

func TestValidateDocument_InstructionText(t *testing.T) {
	r := validateOne(t, `{"name":"Highball","instructions":"1. Fill a glass with ice.\n10.5 oz soda added\nStep 2: Stir once.\n- Serve."}`)
	assert.Equal(t, []string{"Fill a glass with ice.", "10.5 oz soda added", "Stir once.", "Serve."}, r.Instructions)
}

func TestValidateDocument_ScalarFields(t *testing.T) {
	r := validateOne(t, `{"name":"Aviation","description":" Floral and tart. ","glass":["coupe","nick & nora"],"garnish":"brandied cherry"}`)
	assert.Equal(t, "Floral and tart.", r.Description)
	assert.Equal(t, "coupe, nick & nora", r.Glassware)
	assert.Equal(t, "brandied cherry", r.Garnish)
}

func TestValidateRecipes_SkipsNonObjects(t *testing.T) {
	got := ValidateRecipes([]Value{String("Negroni"), mustParse(t, `{"name":"Negroni"}`)})
	require.Len(t, got, 1)
	assert.Equal(t, "Negroni", got[0].Name)
}
