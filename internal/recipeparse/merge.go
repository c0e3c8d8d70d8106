package recipeparse

import (
	"strings"

	"mcp-cocktail-recipes/internal/models"
)

// Merge flattens the recipe candidates of every normalized object into one
// list, keeping the first occurrence of each recipe name.
func Merge(objects []Value) []Value {
	seen := make(map[string]bool)
	var out []Value
	for _, obj := range objects {
		for _, candidate := range recipeCandidates(obj) {
			name, ok := recipeName(candidate)
			if !ok {
				continue
			}
			key := models.RecipeKey(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, candidate)
		}
	}
	return out
}

func recipeCandidates(obj Value) []Value {
	for _, field := range []string{FieldRecipes, FieldRecipe} {
		v, ok := obj.Field(field)
		if !ok {
			continue
		}
		switch v.Kind() {
		case KindArray:
			return v.Elems()
		case KindObject:
			return []Value{v}
		}
	}
	if _, ok := recipeName(obj); ok {
		return []Value{obj}
	}
	// {"cocktail": {...}} normalizes to an object-valued name
	if v, ok := obj.Field(FieldName); ok {
		switch v.Kind() {
		case KindObject:
			return []Value{v}
		case KindArray:
			return v.Elems()
		}
	}
	return nil
}

func recipeName(v Value) (string, bool) {
	nameVal, ok := v.Field(FieldName)
	if !ok {
		return "", false
	}
	name, ok := nameVal.Text()
	if !ok || strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}
