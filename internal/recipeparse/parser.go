package recipeparse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mcp-cocktail-recipes/internal/models"
)

// ErrInvalidInput means the caller handed the parser something that is
// neither text nor a decoded JSON object.
var ErrInvalidInput = errors.New("recipeparse: input is not text")

// Parser turns raw model output into recipes. It holds no mutable state and
// is safe for concurrent use.
type Parser struct {
	logger *zap.Logger
}

type Option func(*Parser)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// ParseRecipesFromAI runs the default parser over raw.
func ParseRecipesFromAI(raw string) models.ParseResult {
	return defaultParser.Parse(raw)
}

// Parse extracts every recipe it can find in raw. It never fails: text with
// nothing recoverable gives an empty result.
func (p *Parser) Parse(raw string) models.ParseResult {
	raw = strings.TrimPrefix(raw, "\uFEFF")

	results := ParseChunks(Extract(raw))
	objects := make([]Value, 0, len(results))
	for i, r := range results {
		if !r.OK() {
			p.logger.Debug("skipping chunk",
				zap.Int("chunk", i),
				zap.Stringer("reason", r.Skip),
				zap.Int("length", len(r.Chunk)),
				zap.Error(r.Err))
			continue
		}
		if r.Repaired {
			p.logger.Debug("repaired chunk", zap.Int("chunk", i))
		}
		objects = append(objects, NormalizeKeys(r.Value))
	}

	recipes := ValidateRecipes(Merge(objects))
	if len(recipes) == 0 {
		recipes = ParseMarkdown(raw)
		p.logger.Debug("no JSON recipes, used markdown fallback",
			zap.Int("chunks", len(results)),
			zap.Int("recipes", len(recipes)))
	}

	p.logger.Debug("parsed recipes",
		zap.Int("chunks", len(results)),
		zap.Int("objects", len(objects)),
		zap.Int("recipes", len(recipes)))
	return models.ParseResult{Recipes: recipes}
}

// ParseAny accepts untyped input such as tool-call arguments. Text goes
// through Parse; a decoded JSON object is validated directly.
func (p *Parser) ParseAny(input any) (models.ParseResult, error) {
	switch v := input.(type) {
	case string:
		return p.Parse(v), nil
	case []byte:
		return p.Parse(string(v)), nil
	case json.RawMessage:
		return p.Parse(string(v)), nil
	case map[string]any:
		doc, err := FromAny(v)
		if err != nil {
			return models.ParseResult{Recipes: []models.Recipe{}}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return ValidateDocument(doc)
	default:
		return models.ParseResult{Recipes: []models.Recipe{}}, fmt.Errorf("%w: got %T", ErrInvalidInput, input)
	}
}
