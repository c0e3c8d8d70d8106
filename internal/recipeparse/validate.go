package recipeparse

import (
	"errors"
	"regexp"
	"strings"

	"mcp-cocktail-recipes/internal/models"
)

// ErrNotObject is returned when a whole document is not a JSON object.
var ErrNotObject = errors.New("recipeparse: top-level value is not an object")

var stepNumberRe = regexp.MustCompile(`(?i)^\s*(?:(?:step\s*)?\d+[.):]|[-•*+])(?:\s+|$)`)

// ValidateDocument validates an already decoded document. Only a document
// that is not an object is an error; bad recipes inside it are dropped.
func ValidateDocument(doc Value) (models.ParseResult, error) {
	if doc.Kind() != KindObject {
		return models.ParseResult{Recipes: []models.Recipe{}}, ErrNotObject
	}
	recipes := ValidateRecipes(Merge([]Value{NormalizeKeys(doc)}))
	return models.ParseResult{Recipes: recipes}, nil
}

// ValidateRecipes converts normalized candidates into recipes, dropping the
// ones without a name and coercing everything else into shape.
func ValidateRecipes(candidates []Value) []models.Recipe {
	out := make([]models.Recipe, 0, len(candidates))
	for _, c := range candidates {
		if r, ok := validateRecipe(c); ok {
			out = append(out, r)
		}
	}
	return out
}

func validateRecipe(v Value) (models.Recipe, bool) {
	if v.Kind() != KindObject {
		return models.Recipe{}, false
	}
	name, ok := recipeName(v)
	if !ok {
		return models.Recipe{}, false
	}

	r := models.Recipe{
		Name:         strings.TrimSpace(name),
		Description:  fieldText(v, FieldDescription),
		Ingredients:  coerceIngredients(v),
		Instructions: coerceInstructions(v),
		Glassware:    fieldText(v, FieldGlassware),
		Garnish:      fieldText(v, FieldGarnish),
		Tags:         coerceTags(v),
	}
	return finishRecipe(r)
}

// finishRecipe is the last gate for recipes from either path: it normalizes
// measurements, drops ingredients without an item and replaces nil slices.
func finishRecipe(r models.Recipe) (models.Recipe, bool) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return models.Recipe{}, false
	}

	ingredients := make([]models.Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ing.Item = strings.TrimSpace(ing.Item)
		if ing.Item == "" {
			continue
		}
		quantity := strings.TrimSpace(ing.Quantity)
		ing.Quantity = strings.TrimSpace(FormatQuantity(quantity))
		ing.Unit = strings.TrimSpace(PluralizeUnit(quantity, ing.Unit))
		ing.Notes = strings.TrimSpace(ing.Notes)
		ingredients = append(ingredients, ing)
	}
	r.Ingredients = ingredients

	r.Instructions = nonEmpty(r.Instructions)
	r.Tags = nonEmpty(r.Tags)
	r.Description = strings.TrimSpace(r.Description)
	r.Glassware = strings.TrimSpace(r.Glassware)
	r.Garnish = strings.TrimSpace(r.Garnish)
	return r, true
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// fieldText reads a scalar field, joining arrays of scalars with ", ".
func fieldText(v Value, field string) string {
	f, ok := v.Field(field)
	if !ok {
		return ""
	}
	if s, ok := f.Scalar(); ok {
		return strings.TrimSpace(s)
	}
	var parts []string
	for _, e := range f.Elems() {
		if s, ok := e.Scalar(); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, ", ")
}

func coerceIngredients(v Value) []models.Ingredient {
	f, ok := v.Field(FieldIngredients)
	if !ok {
		return nil
	}
	var out []models.Ingredient
	switch f.Kind() {
	case KindArray:
		for _, e := range f.Elems() {
			switch e.Kind() {
			case KindObject:
				out = append(out, ingredientFromObject(e))
			case KindString:
				s, _ := e.Text()
				out = append(out, ParseIngredientLine(s))
			}
		}
	case KindString:
		s, _ := f.Text()
		for _, line := range strings.Split(s, "\n") {
			if strings.TrimSpace(line) != "" {
				out = append(out, ParseIngredientLine(line))
			}
		}
	case KindObject:
		// {"gin": "2 oz", "lime juice": "3/4 oz"}
		for _, m := range f.Members() {
			amount, _ := m.Value.Scalar()
			ing := ParseIngredientLine(strings.TrimSpace(amount + " " + m.Key))
			if strings.TrimSpace(amount) != "" && ing.Quantity == "" {
				ing = models.Ingredient{Item: m.Key, Notes: amount}
			}
			out = append(out, ing)
		}
	}
	return out
}

func ingredientFromObject(v Value) models.Ingredient {
	ing := models.Ingredient{
		Quantity: fieldText(v, FieldQuantity),
		Unit:     fieldText(v, FieldUnit),
		Notes:    fieldText(v, FieldNotes),
	}
	for _, key := range []string{FieldItem, FieldIngredients, FieldName} {
		if s := fieldText(v, key); s != "" {
			ing.Item = s
			break
		}
	}
	if ing.Unit == "" && strings.Contains(ing.Quantity, " ") {
		// "quantity": "2 oz"
		parsed := ParseIngredientLine(ing.Quantity + " " + ing.Item)
		if parsed.Unit != "" && parsed.Item == ing.Item {
			ing.Quantity, ing.Unit = parsed.Quantity, parsed.Unit
		}
	}
	if ing.Quantity == "" && ing.Unit != "" {
		// "measurement": "2 oz"
		parsed := ParseIngredientLine(ing.Unit + " " + ing.Item)
		if parsed.Quantity != "" && parsed.Item == ing.Item {
			ing.Quantity, ing.Unit = parsed.Quantity, parsed.Unit
		}
	}
	return ing
}

func coerceInstructions(v Value) []string {
	f, ok := v.Field(FieldInstructions)
	if !ok {
		return nil
	}
	var out []string
	switch f.Kind() {
	case KindArray:
		for _, e := range f.Elems() {
			if s, ok := e.Scalar(); ok {
				out = append(out, s)
				continue
			}
			if e.Kind() == KindObject {
				for _, key := range []string{"text", FieldInstructions, FieldDescription} {
					if s := fieldText(e, key); s != "" {
						out = append(out, s)
						break
					}
				}
			}
		}
	case KindString:
		s, _ := f.Text()
		for _, line := range strings.Split(s, "\n") {
			out = append(out, stepNumberRe.ReplaceAllString(line, ""))
		}
	}
	return out
}

func coerceTags(v Value) []string {
	f, ok := v.Field(FieldTags)
	if !ok {
		return nil
	}
	if s, ok := f.Text(); ok {
		return strings.Split(s, ",")
	}
	var out []string
	for _, e := range f.Elems() {
		if s, ok := e.Scalar(); ok {
			out = append(out, s)
		}
	}
	return out
}
