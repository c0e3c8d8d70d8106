// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"go.uber.org/zap"

	"mcp-cocktail-recipes/internal/llm"
	"mcp-cocktail-recipes/internal/models"
	"mcp-cocktail-recipes/internal/recipeparse"
	"mcp-cocktail-recipes/internal/storage"
)

const maxRecipeLimit = 100

type ParseRecipesParams struct {
	Text     interface{} `json:"text" description:"Model output to parse: free text, or an already decoded recipe object"`
	Save     bool        `json:"save,omitempty" description:"Store the parsed recipes"`
	Reformat bool        `json:"reformat,omitempty" description:"Ask the language model to rewrite the text as JSON when nothing could be parsed"`
}

type GenerateRecipesParams struct {
	Request string `json:"request" description:"What kind of cocktails to create"`
	Count   int    `json:"count,omitempty" description:"How many recipes to create (1-10, defaults to 3)"`
	Save    bool   `json:"save,omitempty" description:"Store the generated recipes"`
}

type GetRecipesParams struct {
	Tag   string `json:"tag,omitempty" description:"Only return recipes with this tag"`
	Limit int    `json:"limit,omitempty" description:"Maximum number of recipes to return"`
}

type GetRecipeParams struct {
	Name string `json:"name" description:"Recipe name, case-insensitive"`
}

type FormatMeasurementParams struct {
	Amount interface{} `json:"amount" description:"Amount such as 0.75, \"1.5\" or \"1/2\""`
	Unit   string      `json:"unit,omitempty" description:"Unit such as oz or dash"`
}

type recipesResponse struct {
	Recipes     []models.Recipe      `json:"recipes"`
	Saved       []models.SavedRecipe `json:"saved,omitempty"`
	Reformatted bool                 `json:"reformatted,omitempty"`
}

// extractParams converts the request arguments into target. Failures are
// reported as invalid input.
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal arguments: %v", recipeparse.ErrInvalidInput, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: invalid parameters: %v", recipeparse.ErrInvalidInput, err)
	}

	return nil
}

func (s *CocktailServer) handleParseRecipes(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ParseRecipesParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	result, err := s.parser.ParseAny(params.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recipes: %w", err)
	}

	resp := recipesResponse{Recipes: result.Recipes}
	if text, ok := params.Text.(string); ok && len(resp.Recipes) == 0 && params.Reformat {
		if s.completer == nil {
			return nil, fmt.Errorf("cannot reformat: %w", errLLMUnavailable)
		}
		completion, err := s.completer.Complete(ctx, llm.ReformatRequest(text))
		if err != nil {
			return nil, fmt.Errorf("failed to reformat text: %w", err)
		}
		resp.Recipes = s.parser.Parse(completion).Recipes
		resp.Reformatted = true
	}

	if params.Save {
		if resp.Saved, err = s.storage.SaveRecipes(ctx, resp.Recipes, models.SourceAIParsed); err != nil {
			return nil, fmt.Errorf("failed to save recipes: %w", err)
		}
	}

	s.logger.Info("parsed recipes",
		zap.Int("recipes", len(resp.Recipes)),
		zap.Int("saved", len(resp.Saved)),
		zap.Bool("reformatted", resp.Reformatted))
	return s.createJSONResponse(resp)
}

func (s *CocktailServer) handleGenerateRecipes(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GenerateRecipesParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	if strings.TrimSpace(params.Request) == "" {
		return nil, fmt.Errorf("%w: request is required", recipeparse.ErrInvalidInput)
	}
	if s.completer == nil {
		return nil, errLLMUnavailable
	}

	completion, err := s.completer.Complete(ctx, llm.GenerateRequest(models.GenerateRequest{
		Request: params.Request,
		Count:   params.Count,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipes: %w", err)
	}

	resp := recipesResponse{Recipes: s.parser.Parse(completion).Recipes}
	if params.Save {
		if resp.Saved, err = s.storage.SaveRecipes(ctx, resp.Recipes, models.SourceGenerated); err != nil {
			return nil, fmt.Errorf("failed to save recipes: %w", err)
		}
	}

	s.logger.Info("generated recipes",
		zap.String("request", params.Request),
		zap.Int("recipes", len(resp.Recipes)),
		zap.Int("saved", len(resp.Saved)))
	return s.createJSONResponse(resp)
}

func (s *CocktailServer) handleGetRecipes(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetRecipesParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	// Set defaults
	if params.Limit <= 0 {
		params.Limit = storage.DefaultLimit
	}
	if params.Limit > maxRecipeLimit {
		params.Limit = maxRecipeLimit
	}

	recipes, err := s.storage.GetRecipes(ctx, storage.RecipeQuery{Tag: params.Tag, Limit: params.Limit})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recipes: %w", err)
	}

	return s.createJSONResponse(recipes)
}

func (s *CocktailServer) handleGetRecipe(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetRecipeParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", recipeparse.ErrInvalidInput)
	}

	recipe, err := s.storage.GetRecipeByName(ctx, params.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recipe: %w", err)
	}

	return s.createJSONResponse(recipe)
}

func (s *CocktailServer) handleFormatMeasurement(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params FormatMeasurementParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	var amount string
	switch v := params.Amount.(type) {
	case string:
		amount = v
	case float64:
		amount = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return nil, fmt.Errorf("%w: amount must be a string or number, got %T", recipeparse.ErrInvalidInput, params.Amount)
	}

	return s.createJSONResponse(map[string]string{
		"measurement": recipeparse.FormatMeasurement(amount, params.Unit),
	})
}

func (s *CocktailServer) registerTools() {
	s.tools = map[string]toolHandler{
		"parse_recipes":      s.handleParseRecipes,
		"generate_recipes":   s.handleGenerateRecipes,
		"get_recipes":        s.handleGetRecipes,
		"get_recipe":         s.handleGetRecipe,
		"format_measurement": s.handleFormatMeasurement,
	}

	for name := range s.tools {
		s.logger.Debug("registered tool", zap.String("tool", name))
	}
}
