package recipe

import (
	"context"
	"fmt"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	"go.uber.org/zap"
)

// Reassigner deletes cuisines, moving their recipes to the fallback cuisine first
type Reassigner struct {
	store    outbound.CatalogStore
	resolver *Resolver
	logger   *zap.Logger
}

// NewReassigner creates a new cuisine reassigner
func NewReassigner(store outbound.CatalogStore, resolver *Resolver, logger *zap.Logger) *Reassigner {
	return &Reassigner{
		store:    store,
		resolver: resolver,
		logger:   logger.Named("cuisine-reassigner"),
	}
}

// DeleteCuisine resolves the fallback cuisine, points every recipe of
// cuisineID at it and deletes cuisineID, all in one transaction.
// The fallback cuisine itself cannot be deleted.
func (r *Reassigner) DeleteCuisine(ctx context.Context, cuisineID int64) (*recipe.CuisineReassignment, error) {
	result := recipe.CuisineReassignment{DeletedCuisineID: cuisineID}

	err := r.store.Transaction(ctx, func(tx outbound.CatalogTx) error {
		fallback := recipe.Reference{Kind: recipe.KindCuisine, Name: recipe.FallbackCuisineName}
		fallbackID, created, err := r.resolver.Resolve(ctx, tx, fallback)
		if err != nil {
			return err
		}
		if fallbackID == cuisineID {
			return recipe.ErrFallbackCuisineProtected
		}
		result.FallbackCuisineID = fallbackID
		result.FallbackCreated = created

		moved, err := tx.ReassignCuisine(ctx, cuisineID, fallbackID)
		if err != nil {
			return fmt.Errorf("reassign recipes: %w", err)
		}
		result.ReassignedRecipes = moved

		rows, err := tx.DeleteCuisine(ctx, cuisineID)
		if err != nil {
			return fmt.Errorf("delete cuisine: %w", err)
		}
		result.CuisineDeleted = rows > 0
		return nil
	})
	if err != nil {
		return nil, toAppError("delete cuisine", err)
	}

	if result.ReassignedRecipes == nil {
		result.ReassignedRecipes = []int64{}
	}

	r.logger.Info("Cuisine deleted",
		zap.Int64("cuisine_id", cuisineID),
		zap.Int64("fallback_cuisine_id", result.FallbackCuisineID),
		zap.Bool("fallback_created", result.FallbackCreated),
		zap.Int("reassigned_recipes", len(result.ReassignedRecipes)),
		zap.Bool("deleted", result.CuisineDeleted),
	)
	return &result, nil
}
