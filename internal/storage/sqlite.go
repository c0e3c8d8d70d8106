// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mcp-cocktail-recipes/internal/models"
)

// ErrNotFound is returned when no stored recipe matches a lookup.
var ErrNotFound = errors.New("recipe not found")

const DefaultLimit = 20

type SQLiteStorage struct {
	db *sql.DB
}

// RecipeQuery filters GetRecipes. Zero values mean no filter and the
// default limit.
type RecipeQuery struct {
	Tag   string
	Limit int
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    PRAGMA foreign_keys = ON;

    CREATE TABLE IF NOT EXISTS recipes (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        name_key TEXT NOT NULL UNIQUE,
        description TEXT NOT NULL,
        glassware TEXT NOT NULL,
        garnish TEXT NOT NULL,
        source TEXT NOT NULL,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS recipe_ingredients (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        recipe_id TEXT NOT NULL,
        position INTEGER NOT NULL,
        quantity TEXT NOT NULL,
        unit TEXT NOT NULL,
        item TEXT NOT NULL,
        notes TEXT NOT NULL,
        FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS recipe_instructions (
        recipe_id TEXT NOT NULL,
        position INTEGER NOT NULL,
        step TEXT NOT NULL,
        PRIMARY KEY (recipe_id, position),
        FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS recipe_tags (
        recipe_id TEXT NOT NULL,
        position INTEGER NOT NULL,
        tag TEXT NOT NULL,
        PRIMARY KEY (recipe_id, position),
        FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_recipes_created_at ON recipes(created_at);
    CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe_id ON recipe_ingredients(recipe_id);
    CREATE INDEX IF NOT EXISTS idx_recipe_tags_tag ON recipe_tags(tag COLLATE NOCASE);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveRecipes stores recipes whose names are not stored yet, all in one
// transaction, and returns the ones it inserted.
func (s *SQLiteStorage) SaveRecipes(ctx context.Context, recipes []models.Recipe, source models.RecipeSource) ([]models.SavedRecipe, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	saved := make([]models.SavedRecipe, 0, len(recipes))
	for _, r := range recipes {
		key := r.Key()
		if key == "" {
			continue
		}

		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes WHERE name_key = ?`, key).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check recipe %q: %w", r.Name, err)
		}
		if exists > 0 {
			continue
		}

		rec := models.SavedRecipe{
			ID:        uuid.NewString(),
			Recipe:    r,
			Source:    source,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := insertRecipe(ctx, tx, rec); err != nil {
			return nil, err
		}
		saved = append(saved, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recipes: %w", err)
	}
	return saved, nil
}

func insertRecipe(ctx context.Context, tx *sql.Tx, rec models.SavedRecipe) error {
	r := rec.Recipe

	// Insert recipe
	recipeQuery := `
        INSERT INTO recipes (id, name, name_key, description, glassware, garnish, source, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := tx.ExecContext(ctx, recipeQuery,
		rec.ID, r.Name, r.Key(), r.Description, r.Glassware, r.Garnish,
		string(rec.Source), rec.CreatedAt.Format(time.RFC3339Nano), rec.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert recipe %q: %w", r.Name, err)
	}

	// Insert ingredients
	ingredientQuery := `
        INSERT INTO recipe_ingredients (recipe_id, position, quantity, unit, item, notes)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	for i, ing := range r.Ingredients {
		_, err = tx.ExecContext(ctx, ingredientQuery, rec.ID, i, ing.Quantity, ing.Unit, ing.Item, ing.Notes)
		if err != nil {
			return fmt.Errorf("failed to insert ingredient: %w", err)
		}
	}

	for i, step := range r.Instructions {
		_, err = tx.ExecContext(ctx, `INSERT INTO recipe_instructions (recipe_id, position, step) VALUES (?, ?, ?)`, rec.ID, i, step)
		if err != nil {
			return fmt.Errorf("failed to insert instruction: %w", err)
		}
	}

	for i, tag := range r.Tags {
		_, err = tx.ExecContext(ctx, `INSERT INTO recipe_tags (recipe_id, position, tag) VALUES (?, ?, ?)`, rec.ID, i, tag)
		if err != nil {
			return fmt.Errorf("failed to insert tag: %w", err)
		}
	}

	return nil
}

const recipeColumns = `id, name, description, glassware, garnish, source, created_at, updated_at`

// GetRecipes lists stored recipes, newest first.
func (s *SQLiteStorage) GetRecipes(ctx context.Context, q RecipeQuery) ([]models.SavedRecipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE 1=1`
	args := []interface{}{}

	if tag := strings.TrimSpace(q.Tag); tag != "" {
		query += " AND id IN (SELECT recipe_id FROM recipe_tags WHERE tag = ? COLLATE NOCASE)"
		args = append(args, tag)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	query += " ORDER BY created_at DESC, name_key ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}

	recipes := []models.SavedRecipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}
	rows.Close()

	// details are loaded after the cursor is closed; the pool has one connection
	for i := range recipes {
		if err := s.loadDetails(ctx, &recipes[i]); err != nil {
			return nil, fmt.Errorf("failed to load details for recipe %s: %w", recipes[i].ID, err)
		}
	}
	return recipes, nil
}

// GetRecipeByName looks a recipe up by its trimmed, case-insensitive name.
func (s *SQLiteStorage) GetRecipeByName(ctx context.Context, name string) (models.SavedRecipe, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE name_key = ?`, models.RecipeKey(name))
	rec, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SavedRecipe{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return models.SavedRecipe{}, err
	}
	if err := s.loadDetails(ctx, &rec); err != nil {
		return models.SavedRecipe{}, fmt.Errorf("failed to load details for recipe %s: %w", rec.ID, err)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (models.SavedRecipe, error) {
	var rec models.SavedRecipe
	var sourceStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&rec.ID, &rec.Recipe.Name, &rec.Recipe.Description, &rec.Recipe.Glassware,
		&rec.Recipe.Garnish, &sourceStr, &createdAtStr, &updatedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("failed to scan recipe: %w", err)
	}

	// Parse timestamps
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr); err != nil {
		return rec, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr); err != nil {
		return rec, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	rec.Source = models.RecipeSource(sourceStr)
	return rec, nil
}

func (s *SQLiteStorage) loadDetails(ctx context.Context, rec *models.SavedRecipe) error {
	rows, err := s.db.QueryContext(ctx, `
        SELECT quantity, unit, item, notes
        FROM recipe_ingredients
        WHERE recipe_id = ?
        ORDER BY position
    `, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to query ingredients: %w", err)
	}
	ingredients := []models.Ingredient{}
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.Quantity, &ing.Unit, &ing.Item, &ing.Notes); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read ingredients: %w", err)
	}
	rec.Recipe.Ingredients = ingredients

	if rec.Recipe.Instructions, err = s.loadStrings(ctx,
		`SELECT step FROM recipe_instructions WHERE recipe_id = ? ORDER BY position`, rec.ID); err != nil {
		return fmt.Errorf("failed to load instructions: %w", err)
	}
	if rec.Recipe.Tags, err = s.loadStrings(ctx,
		`SELECT tag FROM recipe_tags WHERE recipe_id = ? ORDER BY position`, rec.ID); err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) loadStrings(ctx context.Context, query, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
