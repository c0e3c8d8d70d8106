package recipeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Value {
	t.Helper()
	v, err := ParseValue(s)
	require.NoError(t, err)
	return v
}

func keysOf(v Value) []string {
	var keys []string
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	return keys
}

func fieldString(t *testing.T, v Value, key string) string {
	t.Helper()
	f, ok := v.Field(key)
	require.True(t, ok, "missing field %q in %v", key, keysOf(v))
	s, ok := f.Scalar()
	require.True(t, ok, "field %q is %s", key, f.Kind())
	return s
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Ingredients:", want: "ingredients"},
		{input: "  recipe_ingredients ", want: "recipeingredients"},
		{input: "Ingrédients", want: "ingredients"},
		{input: "How-To Make", want: "howtomake"},
		{input: "\n", want: ""},
		{input: " :: ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanKey(tt.input))
		})
	}
}

func TestNormalizeKeys_Synonyms(t *testing.T) {
	v := mustParse(t, `{
		"Title": "Gimlet",
		"Ingrédients": [{"Amount": "2", "Unit": "oz", "Item": "gin"}],
		"Method": ["Shake", "Strain"],
		"Glass": "coupe",
		"Garnish:": "lime wheel",
		"Keywords": ["sour"],
		"Summary": "Gin and lime.",
		"abv": 20
	}`)

	got := NormalizeKeys(v)
	assert.Equal(t,
		[]string{"name", "ingredients", "instructions", "glassware", "garnish", "tags", "description", "abv"},
		keysOf(got))

	ingredients, _ := got.Field(FieldIngredients)
	first := ingredients.Elems()[0]
	assert.Equal(t, []string{"quantity", "unit", "item"}, keysOf(first))
}

func TestNormalizeKeys_NestedRecipes(t *testing.T) {
	got := NormalizeKeys(mustParse(t, `{"Cocktails":[{"Drink Name":"Daiquiri","Directions":["Shake"]}]}`))

	recipes, ok := got.Field(FieldRecipes)
	require.True(t, ok)
	require.Len(t, recipes.Elems(), 1)
	assert.Equal(t, "Daiquiri", fieldString(t, recipes.Elems()[0], FieldName))
	_, ok = recipes.Elems()[0].Field(FieldInstructions)
	assert.True(t, ok)
}

func TestNormalizeKeys_OrphanRecovery(t *testing.T) {
	v := mustParse(t, `{
		"name": "Margarita",
		"": [{"quantity": "2", "unit": "oz", "item": "tequila"}],
		"\n": ["Shake with ice", "Strain"],
		" ": 42
	}`)

	got := NormalizeKeys(v)
	assert.Equal(t, []string{"name", "ingredients", "instructions"}, keysOf(got))

	ingredients, _ := got.Field(FieldIngredients)
	require.Len(t, ingredients.Elems(), 1)
	assert.Equal(t, "tequila", fieldString(t, ingredients.Elems()[0], FieldItem))

	instructions, _ := got.Field(FieldInstructions)
	assert.Len(t, instructions.Elems(), 2)
}

func TestNormalizeKeys_OrphanNeverOverwrites(t *testing.T) {
	v := mustParse(t, `{
		"name": "Gin Sour",
		"ingredients": [{"item": "gin"}],
		"": [{"item": "vodka"}]
	}`)

	got := NormalizeKeys(v)
	ingredients, _ := got.Field(FieldIngredients)
	require.Len(t, ingredients.Elems(), 1)
	assert.Equal(t, "gin", fieldString(t, ingredients.Elems()[0], FieldItem))
}

func TestNormalizeKeys_FirstValidAssignmentWins(t *testing.T) {
	got := NormalizeKeys(mustParse(t, `{"name":"A","title":"B"}`))
	assert.Equal(t, "A", fieldString(t, got, FieldName))

	got = NormalizeKeys(mustParse(t, `{"ingredients":[],"Ingredients:":[{"item":"rum"}]}`))
	ingredients, _ := got.Field(FieldIngredients)
	assert.Len(t, ingredients.Elems(), 1)
}

func TestNormalizeKeys_UnwrapsSchemaValues(t *testing.T) {
	got := NormalizeKeys(mustParse(t, `{"name":{"type":"string","value":"Negroni"}}`))
	assert.Equal(t, "Negroni", fieldString(t, got, FieldName))
}

func TestNormalizeKeys_DoesNotMutateInput(t *testing.T) {
	v := mustParse(t, `{"Title":"Sazerac","Steps":["Stir"]}`)
	_ = NormalizeKeys(v)
	assert.Equal(t, []string{"Title", "Steps"}, keysOf(v))
}

func TestNormalizeKeys_ArraysAndScalars(t *testing.T) {
	got := NormalizeKeys(mustParse(t, `[{"Title":"A"}, 1, "x", null]`))
	elems := got.Elems()
	require.Len(t, elems, 4)
	assert.Equal(t, []string{"name"}, keysOf(elems[0]))
	assert.Equal(t, KindNumber, elems[1].Kind())
	assert.Equal(t, KindString, elems[2].Kind())
	assert.Equal(t, KindNull, elems[3].Kind())

	s := String("plain")
	assert.Equal(t, s, NormalizeKeys(s))
}

func TestClassifyOrphan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  OrphanClass
	}{
		{name: "ingredient objects", input: `[{"quantity":"1","item":"gin"},{"item":"tonic"}]`, want: IngredientsLike},
		{name: "ingredient key variant", input: `[{"ingredients":"gin"}]`, want: IngredientsLike},
		{name: "strings", input: `["Shake","Strain"]`, want: InstructionsLike},
		{name: "mixed", input: `["Shake",{"item":"gin"}]`, want: Unclassified},
		{name: "objects without ingredient keys", input: `[{"foo":1}]`, want: Unclassified},
		{name: "empty array", input: `[]`, want: Unclassified},
		{name: "scalar", input: `"Margarita"`, want: Unclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyOrphan(mustParse(t, tt.input)))
		})
	}
}
