// Package render writes recipes back out as markdown, in the layout the
// recipe parser's markdown reader accepts.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"mcp-cocktail-recipes/internal/models"
)

const defaultWrap = 80

// Markdown renders recipes as headed blocks separated by rules.
func Markdown(recipes []models.Recipe) string {
	var b strings.Builder
	for i, r := range recipes {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		writeRecipe(&b, r)
	}
	return b.String()
}

func writeRecipe(b *strings.Builder, r models.Recipe) {
	fmt.Fprintf(b, "### %s\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(b, "*%s*\n", r.Description)
	}

	if len(r.Ingredients) > 0 {
		b.WriteString("\n**Ingredients:**\n")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(b, "- %s\n", IngredientLine(ing))
		}
	}

	if len(r.Instructions) > 0 {
		b.WriteString("\n**Instructions:**\n")
		for i, step := range r.Instructions {
			fmt.Fprintf(b, "%d. %s\n", i+1, step)
		}
	}

	var extras []string
	if r.Glassware != "" {
		extras = append(extras, "Glassware: "+r.Glassware)
	}
	if r.Garnish != "" {
		extras = append(extras, "Garnish: "+r.Garnish)
	}
	if len(r.Tags) > 0 {
		extras = append(extras, "Tags: "+strings.Join(r.Tags, ", "))
	}
	if len(extras) > 0 {
		b.WriteString("\n")
		for _, line := range extras {
			// trailing double space keeps the lines apart when rendered
			b.WriteString(line + "  \n")
		}
	}
}

// IngredientLine formats "2 oz gin (chilled)".
func IngredientLine(ing models.Ingredient) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{ing.Quantity, ing.Unit, ing.Item} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	line := strings.Join(parts, " ")
	if ing.Notes != "" {
		line += " (" + ing.Notes + ")"
	}
	return line
}

// Terminal renders recipes for a terminal with glamour. style is a glamour
// standard style name; empty picks one from the terminal background.
func Terminal(recipes []models.Recipe, style string, width int) (string, error) {
	if width <= 0 {
		width = defaultWrap
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(Markdown(recipes))
	if err != nil {
		return "", fmt.Errorf("failed to render recipes: %w", err)
	}
	return out, nil
}
