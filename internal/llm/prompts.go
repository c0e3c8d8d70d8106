package llm

import (
	"fmt"
	"strings"

	"mcp-cocktail-recipes/internal/models"
)

const (
	MaxGenerateCount     = 10
	defaultGenerateCount = 3
)

// recipeSchema is the JSON shape recipeparse reads best.
const recipeSchema = `{
  "recipes": [
    {
      "name": "cocktail name",
      "description": "one sentence",
      "ingredients": [
        {"quantity": "2", "unit": "oz", "item": "gin", "notes": "optional"}
      ],
      "instructions": ["step one", "step two"],
      "glassware": "coupe",
      "garnish": "lemon twist",
      "tags": ["classic", "sour"]
    }
  ]
}`

// GenerateSystemPrompt frames the model as a bartender that answers in JSON.
var GenerateSystemPrompt = `You are an experienced bartender who writes precise, balanced cocktail recipes.

IMPORTANT: Always respond with valid JSON in this exact format:
` + recipeSchema + `

Use US bar measures (oz, dash, barspoon) with decimal or fractional quantities. Do not add commentary outside the JSON.`

// ReformatSystemPrompt asks the model to restate existing recipes, not invent new ones.
var ReformatSystemPrompt = `You convert cocktail recipes written in prose or markdown into JSON.
Keep every recipe you find and do not invent ingredients or steps.

Respond with valid JSON in this exact format:
` + recipeSchema

// GenerateRequest builds the completion request for new recipes.
func GenerateRequest(req models.GenerateRequest) Request {
	count := req.Count
	switch {
	case count <= 0:
		count = defaultGenerateCount
	case count > MaxGenerateCount:
		count = MaxGenerateCount
	}

	noun := "recipes"
	if count == 1 {
		noun = "recipe"
	}
	prompt := fmt.Sprintf(`Create %d cocktail %s for this request: "%s"

Give each recipe a distinct name, exact measurements and numbered-order instructions.`,
		count, noun, strings.TrimSpace(req.Request))

	return Request{Task: TaskGenerate, System: GenerateSystemPrompt, Prompt: prompt}
}

// ReformatRequest builds the completion request that rewrites text as JSON.
func ReformatRequest(text string) Request {
	return Request{
		Task:   TaskParse,
		System: ReformatSystemPrompt,
		Prompt: "Convert these cocktail recipes to JSON:\n\n" + text,
	}
}
