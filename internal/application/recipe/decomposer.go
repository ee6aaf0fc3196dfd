package recipe

import (
	"context"
	"fmt"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	apperrors "github.com/esasma/API-Recettes/pkg/errors"
	"go.uber.org/zap"
)

// Decomposer deletes a recipe and every dependent row as one transaction
type Decomposer struct {
	store  outbound.CatalogStore
	logger *zap.Logger
}

// NewDecomposer creates a new recipe decomposer
func NewDecomposer(store outbound.CatalogStore, logger *zap.Logger) *Decomposer {
	return &Decomposer{store: store, logger: logger.Named("recipe-decomposer")}
}

// Decompose removes the recipe's steps, ingredient links and tag rows, then
// the recipe itself. An unknown recipe rolls back and reports not found.
func (d *Decomposer) Decompose(ctx context.Context, recipeID int64) error {
	var removed [4]int64

	err := d.store.Transaction(ctx, func(tx outbound.CatalogTx) error {
		var err error
		if removed[0], err = tx.DeleteInstructionSteps(ctx, recipeID); err != nil {
			return fmt.Errorf("delete instruction steps: %w", err)
		}
		if removed[1], err = tx.DeleteIngredientLinks(ctx, recipeID); err != nil {
			return fmt.Errorf("delete ingredient links: %w", err)
		}
		if removed[2], err = tx.DeleteRecipeTags(ctx, recipe.KindDietaryTag, recipeID); err != nil {
			return fmt.Errorf("delete dietary tags: %w", err)
		}
		if removed[3], err = tx.DeleteRecipeTags(ctx, recipe.KindAllergyTag, recipeID); err != nil {
			return fmt.Errorf("delete allergy tags: %w", err)
		}

		rows, err := tx.DeleteRecipe(ctx, recipeID)
		if err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		if rows == 0 {
			return apperrors.NewRecipeNotFoundError(recipeID)
		}
		return nil
	})
	if err != nil {
		return toAppError("delete recipe", err)
	}

	d.logger.Info("Recipe decomposed",
		zap.Int64("recipe_id", recipeID),
		zap.Int64("instruction_steps", removed[0]),
		zap.Int64("ingredient_links", removed[1]),
		zap.Int64("dietary_tags", removed[2]),
		zap.Int64("allergy_tags", removed[3]),
	)
	return nil
}
