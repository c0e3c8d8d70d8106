// Package recipeparse recovers cocktail recipes from free-form model output.
//
// Text is scanned for top-level JSON objects, which are parsed strictly and
// then repaired (trailing commas, jsonrepair) when needed. Object keys are
// mapped onto a fixed recipe vocabulary, values under corrupted empty keys
// are reassigned by shape, and recipes are merged by name. When no JSON
// recipe survives, a line-oriented markdown reader takes over. Every
// recipe leaves through the same validator, which also rewrites decimal
// quantities as fractions.
//
// The entry point is [ParseRecipesFromAI], or [Parser.Parse] when a logger
// is wanted.
package recipeparse
