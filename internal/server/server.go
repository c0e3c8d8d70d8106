// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/server"
	"go.uber.org/zap"

	"mcp-cocktail-recipes/internal/llm"
	"mcp-cocktail-recipes/internal/models"
	"mcp-cocktail-recipes/internal/recipeparse"
	"mcp-cocktail-recipes/internal/storage"
)

type Config struct {
	Host    string
	Port    int
	Version string
}

// RecipeStore is the part of the storage layer the tools use.
type RecipeStore interface {
	SaveRecipes(ctx context.Context, recipes []models.Recipe, source models.RecipeSource) ([]models.SavedRecipe, error)
	GetRecipes(ctx context.Context, q storage.RecipeQuery) ([]models.SavedRecipe, error)
	GetRecipeByName(ctx context.Context, name string) (models.SavedRecipe, error)
}

var errLLMUnavailable = errors.New("no language model is configured")

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

// infoHeader carries the server name and version on every tool response.
const infoHeader = "X-MCP-Server"

type CocktailServer struct {
	info       protocol.Implementation
	httpServer *http.Server
	storage    RecipeStore
	completer  llm.Completer
	parser     *recipeparse.Parser
	logger     *zap.Logger
	tools      map[string]toolHandler
	config     *Config
}

// NewCocktailServer wires the MCP tool handlers. completer may be nil, in
// which case the tools that need a model report it as unavailable.
func NewCocktailServer(cfg *Config, store RecipeStore, completer llm.Completer, logger *zap.Logger) (*CocktailServer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	cocktailServer := &CocktailServer{
		info:      protocol.Implementation{Name: "cocktail-recipes", Version: version},
		storage:   store,
		completer: completer,
		parser:    recipeparse.NewParser(recipeparse.WithLogger(logger.Named("recipeparse"))),
		logger:    logger,
		config:    cfg,
	}

	// The MCP server is only built to validate the server info; HTTP is handled manually.
	if _, err := server.NewServer(nil, server.WithServerInfo(cocktailServer.info)); err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}

	cocktailServer.registerTools()

	mux := http.NewServeMux()
	mux.HandleFunc("/", cocktailServer.handleHTTP)

	cocktailServer.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: mux,
	}

	return cocktailServer, nil
}

func (s *CocktailServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set(infoHeader, s.info.Name+"/"+s.info.Version)

	if r.Method == http.MethodOptions {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	result, err := handler(r.Context(), &request)
	if err != nil {
		status := statusFor(err)
		s.logger.Warn("tool call failed",
			zap.String("tool", request.Name),
			zap.Int("status", status),
			zap.Error(err))
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("failed to encode response", zap.String("tool", request.Name), zap.Error(err))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, recipeparse.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errLLMUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Start serves until Stop is called.
func (s *CocktailServer) Start(ctx context.Context) error {
	s.logger.Info("starting cocktail recipe server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *CocktailServer) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *CocktailServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
