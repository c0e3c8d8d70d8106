package recipeparse

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical field names.
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldIngredients  = "ingredients"
	FieldInstructions = "instructions"
	FieldGlassware    = "glassware"
	FieldGarnish      = "garnish"
	FieldTags         = "tags"
	FieldRecipes      = "recipes"
	FieldRecipe       = "recipe"

	FieldQuantity = "quantity"
	FieldUnit     = "unit"
	FieldItem     = "item"
	FieldNotes    = "notes"
)

// canonicalKeys maps cleaned key spellings to canonical field names.
var canonicalKeys = buildKeyTable(map[string][]string{
	FieldIngredients: {
		"ingredient", "ingredients", "ingredientlist", "ingredientslist",
		"recipeingredients", "ingredientes", "ingredienti", "zutaten",
	},
	FieldInstructions: {
		"instruction", "instructions", "steps", "step", "method", "directions",
		"preparation", "prep", "howtomake", "instrucciones", "zubereitung",
	},
	FieldGlassware:   {"glass", "glassware", "glasstype", "serveglass", "vaso", "verre"},
	FieldGarnish:     {"garnish", "garnishes", "garnishment", "decoration", "garnitur"},
	FieldName:        {"name", "title", "cocktail", "cocktailname", "drink", "drinkname", "recipename", "nombre", "nom"},
	FieldDescription: {"description", "desc", "summary", "about", "intro", "descripcion"},
	FieldTags:        {"tags", "tag", "keywords", "categories", "category", "labels"},
	FieldRecipes:     {"recipes", "cocktails", "drinks", "recipelist"},
	FieldRecipe:      {"recipe"},
	FieldQuantity:    {"quantity", "qty", "amount", "measure"},
	FieldUnit:        {"unit", "units", "measurement"},
	FieldItem:        {"item", "ingredientname"},
	FieldNotes:       {"notes", "note", "comment"},
})

func buildKeyTable(groups map[string][]string) map[string]string {
	table := make(map[string]string)
	for canonical, spellings := range groups {
		for _, s := range spellings {
			table[s] = canonical
		}
	}
	return table
}

// CanonicalKey returns the canonical field for key, if any.
func CanonicalKey(key string) (string, bool) {
	canonical, ok := canonicalKeys[cleanKey(key)]
	return canonical, ok
}

// cleanKey lowercases and trims key, folds accents, and drops everything
// outside [a-z0-9].
func cleanKey(key string) string {
	folded := norm.NFD.String(strings.ToLower(strings.TrimSpace(key)))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OrphanClass is the shape-based guess for a value whose key was lost.
type OrphanClass int

const (
	Unclassified OrphanClass = iota
	IngredientsLike
	InstructionsLike
)

func (c OrphanClass) String() string {
	switch c {
	case IngredientsLike:
		return "ingredients_like"
	case InstructionsLike:
		return "instructions_like"
	default:
		return "unclassified"
	}
}

// ClassifyOrphan inspects the shape of an already normalized value.
func ClassifyOrphan(v Value) OrphanClass {
	elems := v.Elems()
	if v.Kind() != KindArray || len(elems) == 0 {
		return Unclassified
	}
	if allElems(elems, looksLikeIngredient) {
		return IngredientsLike
	}
	if allElems(elems, func(e Value) bool { return e.Kind() == KindString }) {
		return InstructionsLike
	}
	return Unclassified
}

func allElems(elems []Value, pred func(Value) bool) bool {
	for _, e := range elems {
		if !pred(e) {
			return false
		}
	}
	return true
}

func looksLikeIngredient(v Value) bool {
	if v.Kind() != KindObject {
		return false
	}
	for _, key := range []string{FieldQuantity, FieldItem, FieldIngredients, "ingredient"} {
		if _, ok := v.Field(key); ok {
			return true
		}
	}
	return false
}

// NormalizeKeys returns a copy of v with object keys rewritten to the
// canonical vocabulary. Members under empty keys are reassigned by shape.
func NormalizeKeys(v Value) Value {
	switch v.Kind() {
	case KindArray:
		elems := v.Elems()
		for i := range elems {
			elems[i] = NormalizeKeys(elems[i])
		}
		return Array(elems...)
	case KindObject:
		return normalizeObject(v)
	default:
		return v
	}
}

func normalizeObject(v Value) Value {
	if inner, ok := unwrapSchemaValue(v); ok {
		return NormalizeKeys(inner)
	}

	members := v.Members()
	out := make([]Member, 0, len(members))
	index := make(map[string]int, len(members))
	var orphans []Value

	// first non-empty value wins per key
	assign := func(key string, val Value) {
		if i, ok := index[key]; ok {
			if out[i].Value.IsEmpty() && !val.IsEmpty() {
				out[i].Value = val
			}
			return
		}
		index[key] = len(out)
		out = append(out, Member{Key: key, Value: val})
	}

	for _, m := range members {
		val := NormalizeKeys(m.Value)
		clean := cleanKey(m.Key)
		if clean == "" {
			orphans = append(orphans, val)
			continue
		}
		key := m.Key
		if canonical, ok := canonicalKeys[clean]; ok {
			key = canonical
		}
		assign(key, val)
	}

	for _, o := range orphans {
		switch ClassifyOrphan(o) {
		case IngredientsLike:
			assign(FieldIngredients, o)
		case InstructionsLike:
			assign(FieldInstructions, o)
		}
	}
	return Object(out...)
}

// unwrapSchemaValue handles {"type": ..., "value": ...} wrappers that models
// emit when they confuse a JSON schema with the data it describes.
func unwrapSchemaValue(v Value) (Value, bool) {
	members := v.Members()
	if len(members) != 2 {
		return Value{}, false
	}
	typ, hasType := v.Field("type")
	val, hasValue := v.Field("value")
	if !hasType || !hasValue || typ.Kind() != KindString {
		return Value{}, false
	}
	return val, true
}
