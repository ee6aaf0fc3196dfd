// Package outbound defines the interfaces the application needs from infrastructure
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/domain/shared"
)

// CatalogStore is the relational store behind the catalog.
// Writes only happen through Transaction.
type CatalogStore interface {
	// Transaction runs fn in one transaction. A non-nil error from fn rolls
	// everything back and is returned unchanged.
	Transaction(ctx context.Context, fn func(tx CatalogTx) error) error

	FindRecipeDetail(ctx context.Context, recipeID int64) (*recipe.RecipeDetail, error)
	ListRecipes(ctx context.Context, filter recipe.ListFilter) ([]recipe.Recipe, error)
}

// CatalogTx exposes the store primitives bound to one transaction.
// Lookups report absence through found, never through an error.
// Deletes and updates return the number of affected rows.
type CatalogTx interface {
	FindReferenceID(ctx context.Context, kind recipe.ReferenceKind, name string) (id int64, found bool, err error)
	// InsertReference inserts the row unless the name already exists, in which
	// case created is false and id is zero.
	InsertReference(ctx context.Context, ref recipe.Reference) (id int64, created bool, err error)

	FindRecipe(ctx context.Context, recipeID int64) (*recipe.Recipe, bool, error)
	InsertRecipe(ctx context.Context, r recipe.Recipe) (int64, error)
	UpdateRecipe(ctx context.Context, recipeID int64, changes []recipe.FieldChange) (int64, error)
	DeleteRecipe(ctx context.Context, recipeID int64) (int64, error)

	InsertRecipeTag(ctx context.Context, kind recipe.ReferenceKind, recipeID, tagID int64) error
	DeleteRecipeTags(ctx context.Context, kind recipe.ReferenceKind, recipeID int64) (int64, error)

	InsertIngredientLink(ctx context.Context, link recipe.IngredientLink) error
	DeleteIngredientLink(ctx context.Context, recipeID, ingredientID int64) (int64, error)
	DeleteIngredientLinks(ctx context.Context, recipeID int64) (int64, error)
	ListIngredientLines(ctx context.Context, recipeID int64) ([]recipe.IngredientLine, error)

	InsertInstructionStep(ctx context.Context, step recipe.InstructionStep) (int64, error)
	UpdateInstructionText(ctx context.Context, recipeID int64, stepNumber int, text string) (int64, error)
	DeleteInstructionStep(ctx context.Context, recipeID, instructionID int64) (int64, error)
	DeleteInstructionSteps(ctx context.Context, recipeID int64) (int64, error)

	// ReassignCuisine points every recipe of one cuisine at another and
	// returns the ids of the moved recipes.
	ReassignCuisine(ctx context.Context, fromCuisineID, toCuisineID int64) ([]int64, error)
	DeleteCuisine(ctx context.Context, cuisineID int64) (int64, error)
}

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for caching
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// EventPublisher delivers committed domain events
type EventPublisher interface {
	Publish(ctx context.Context, events ...shared.DomainEvent) error
}
