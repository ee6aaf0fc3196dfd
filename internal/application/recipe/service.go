// Package recipe provides the application layer for the recipe catalog.
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/domain/shared"
	"github.com/esasma/API-Recettes/internal/ports/inbound"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	apperrors "github.com/esasma/API-Recettes/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RecipeService implements the recipe use cases
type RecipeService struct {
	store      outbound.CatalogStore
	details    *DetailCache
	events     outbound.EventPublisher
	resolver   *Resolver
	composer   *Composer
	decomposer *Decomposer
	validate   *validator.Validate
	logger     *zap.Logger
}

var _ inbound.RecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new recipe service
func NewRecipeService(
	store outbound.CatalogStore,
	details *DetailCache,
	events outbound.EventPublisher,
	logger *zap.Logger,
) *RecipeService {
	resolver := NewResolver(logger)
	return &RecipeService{
		store:      store,
		details:    details,
		events:     events,
		resolver:   resolver,
		composer:   NewComposer(store, resolver, logger),
		decomposer: NewDecomposer(store, logger),
		validate:   newValidator(),
		logger:     logger.Named("recipe-service"),
	}
}

// CreateRecipe composes a recipe and returns its id
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (id int64, err error) {
	ctx, span := startSpan(ctx, "RecipeService.CreateRecipe", attribute.String("recipe.name", cmd.Name))
	defer func() { endSpan(span, err) }()

	created, err := s.composer.Compose(ctx, cmd)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("recipe.id", created.ID))

	s.publish(ctx, recipe.NewRecipeComposedEvent(created.ID, created.Name, created.GoalID))
	return created.ID, nil
}

// DeleteRecipe removes a recipe and all of its dependent rows
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID int64) (err error) {
	ctx, span := startSpan(ctx, "RecipeService.DeleteRecipe", attribute.Int64("recipe.id", recipeID))
	defer func() { endSpan(span, err) }()

	if err := s.decomposer.Decompose(ctx, recipeID); err != nil {
		return err
	}

	s.invalidate(ctx, recipeID)
	s.publish(ctx, recipe.NewRecipeDecomposedEvent(recipeID))
	return nil
}

// UpdateRecipe applies a partial update to the recipe row
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID int64, cmd inbound.UpdateRecipeCommand) (err error) {
	ctx, span := startSpan(ctx, "RecipeService.UpdateRecipe", attribute.Int64("recipe.id", recipeID))
	defer func() { endSpan(span, err) }()

	patch := recipe.Patch{
		Name:        cmd.Name,
		Description: cmd.Description,
		ImageURL:    cmd.ImageURL,
		CuisineID:   cmd.CuisineID,
		GoalID:      cmd.GoalID,
	}
	if err := patch.Validate(); err != nil {
		return toAppError("update recipe", err)
	}
	changes := patch.Changes()

	err = s.store.Transaction(ctx, func(tx outbound.CatalogTx) error {
		rows, err := tx.UpdateRecipe(ctx, recipeID, changes)
		if err != nil {
			if errors.Is(err, recipe.ErrForeignKeyViolation) {
				return apperrors.NewValidationError("cuisine_id and goal_id must reference existing rows").WithCause(err)
			}
			return err
		}
		if rows == 0 {
			return apperrors.NewRecipeNotFoundError(recipeID)
		}
		return nil
	})
	if err != nil {
		return toAppError("update recipe", err)
	}

	fields := make([]recipe.Field, len(changes))
	for i, c := range changes {
		fields[i] = c.Field
	}

	s.logger.Info("Recipe updated", zap.Int64("recipe_id", recipeID), zap.Int("fields", len(fields)))
	s.invalidate(ctx, recipeID)
	s.publish(ctx, recipe.NewRecipeUpdatedEvent(recipeID, fields...))
	return nil
}

// UpdateInstructionStep replaces the text of one numbered step
func (s *RecipeService) UpdateInstructionStep(ctx context.Context, cmd inbound.UpdateInstructionStepCommand) (err error) {
	ctx, span := startSpan(ctx, "RecipeService.UpdateInstructionStep",
		attribute.Int64("recipe.id", cmd.RecipeID),
		attribute.Int("instruction.step_number", cmd.StepNumber),
	)
	defer func() { endSpan(span, err) }()

	if err := validateCommand(s.validate, cmd); err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(tx outbound.CatalogTx) error {
		rows, err := tx.UpdateInstructionText(ctx, cmd.RecipeID, cmd.StepNumber, cmd.Text)
		if err != nil {
			return err
		}
		if rows == 0 {
			return recipe.ErrInstructionStepNotFound
		}
		return nil
	})
	if err != nil {
		return toAppError("update instruction step", err)
	}

	s.invalidate(ctx, cmd.RecipeID)
	s.publish(ctx, recipe.NewRecipeUpdatedEvent(cmd.RecipeID))
	return nil
}

// AddIngredient links an ingredient by name, creating the ingredient on first
// use, and returns the recipe's ingredient lines
func (s *RecipeService) AddIngredient(ctx context.Context, cmd inbound.AddIngredientCommand) (lines []inbound.IngredientLineDTO, err error) {
	ctx, span := startSpan(ctx, "RecipeService.AddIngredient",
		attribute.Int64("recipe.id", cmd.RecipeID),
		attribute.String("ingredient.name", cmd.Name),
	)
	defer func() { endSpan(span, err) }()

	if err := validateCommand(s.validate, cmd); err != nil {
		return nil, err
	}
	ref, err := recipe.NewReference(recipe.KindIngredient, cmd.Name)
	if err != nil {
		return nil, toAppError("add ingredient", err)
	}
	ref.Unit = cmd.Unit

	var result []recipe.IngredientLine
	err = s.store.Transaction(ctx, func(tx outbound.CatalogTx) error {
		if _, found, err := tx.FindRecipe(ctx, cmd.RecipeID); err != nil {
			return err
		} else if !found {
			return apperrors.NewRecipeNotFoundError(cmd.RecipeID)
		}

		ingredientID, _, err := s.resolver.Resolve(ctx, tx, ref)
		if err != nil {
			return err
		}

		link := recipe.IngredientLink{RecipeID: cmd.RecipeID, IngredientID: ingredientID, Quantity: cmd.Quantity}
		if err := tx.InsertIngredientLink(ctx, link); err != nil {
			if errors.Is(err, recipe.ErrDuplicateKey) {
				return apperrors.NewConflictError(fmt.Sprintf("Ingredient %q is already on this recipe", ref.Name)).WithCause(err)
			}
			return err
		}

		result, err = tx.ListIngredientLines(ctx, cmd.RecipeID)
		return err
	})
	if err != nil {
		return nil, toAppError("add ingredient", err)
	}

	s.invalidate(ctx, cmd.RecipeID)
	s.publish(ctx, recipe.NewRecipeUpdatedEvent(cmd.RecipeID))
	return ingredientLinesToDTO(result), nil
}

// RemoveIngredient unlinks one ingredient from a recipe
func (s *RecipeService) RemoveIngredient(ctx context.Context, recipeID, ingredientID int64) (err error) {
	ctx, span := startSpan(ctx, "RecipeService.RemoveIngredient",
		attribute.Int64("recipe.id", recipeID),
		attribute.Int64("ingredient.id", ingredientID),
	)
	defer func() { endSpan(span, err) }()

	err = s.store.Transaction(ctx, func(tx outbound.CatalogTx) error {
		rows, err := tx.DeleteIngredientLink(ctx, recipeID, ingredientID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return recipe.ErrIngredientLinkNotFound
		}
		return nil
	})
	if err != nil {
		return toAppError("remove ingredient", err)
	}

	s.invalidate(ctx, recipeID)
	s.publish(ctx, recipe.NewRecipeUpdatedEvent(recipeID))
	return nil
}

// RemoveInstructionStep deletes one instruction step by id
func (s *RecipeService) RemoveInstructionStep(ctx context.Context, recipeID, instructionID int64) (err error) {
	ctx, span := startSpan(ctx, "RecipeService.RemoveInstructionStep",
		attribute.Int64("recipe.id", recipeID),
		attribute.Int64("instruction.id", instructionID),
	)
	defer func() { endSpan(span, err) }()

	err = s.store.Transaction(ctx, func(tx outbound.CatalogTx) error {
		rows, err := tx.DeleteInstructionStep(ctx, recipeID, instructionID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return recipe.ErrInstructionStepNotFound
		}
		return nil
	})
	if err != nil {
		return toAppError("remove instruction step", err)
	}

	s.invalidate(ctx, recipeID)
	s.publish(ctx, recipe.NewRecipeUpdatedEvent(recipeID))
	return nil
}

// GetRecipe returns the recipe detail, served from cache when possible
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID int64) (dto *inbound.RecipeDetailDTO, err error) {
	ctx, span := startSpan(ctx, "RecipeService.GetRecipe", attribute.Int64("recipe.id", recipeID))
	defer func() { endSpan(span, err) }()

	if cached, ok := s.details.Get(ctx, recipeID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	generation := s.details.Generation()
	detail, err := s.store.FindRecipeDetail(ctx, recipeID)
	if err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, apperrors.NewRecipeNotFoundError(recipeID)
		}
		return nil, apperrors.NewStorageError("load recipe", err)
	}

	dto = recipeDetailToDTO(detail)
	s.details.Fill(ctx, recipeID, dto, generation)
	return dto, nil
}

// ListRecipes lists recipes, optionally narrowed by cuisine, goal or an excluded allergy
func (s *RecipeService) ListRecipes(ctx context.Context, query inbound.ListRecipesQuery) (list []inbound.RecipeSummaryDTO, err error) {
	ctx, span := startSpan(ctx, "RecipeService.ListRecipes",
		attribute.Int64("filter.cuisine_id", query.CuisineID),
		attribute.Int64("filter.goal_id", query.GoalID),
		attribute.Int64("filter.exclude_allergy_id", query.ExcludeAllergyID),
	)
	defer func() { endSpan(span, err) }()

	recipes, err := s.store.ListRecipes(ctx, recipe.ListFilter{
		CuisineID:        query.CuisineID,
		GoalID:           query.GoalID,
		ExcludeAllergyID: query.ExcludeAllergyID,
	})
	if err != nil {
		return nil, apperrors.NewStorageError("list recipes", err)
	}

	list = make([]inbound.RecipeSummaryDTO, len(recipes))
	for i, r := range recipes {
		list[i] = recipeToSummaryDTO(r)
	}
	span.SetAttributes(attribute.Int("recipes.count", len(list)))
	return list, nil
}

func (s *RecipeService) invalidate(ctx context.Context, recipeIDs ...int64) {
	s.details.Invalidate(ctx, recipeIDs...)
}

func (s *RecipeService) publish(ctx context.Context, events ...shared.DomainEvent) {
	publishEvents(ctx, s.events, s.logger, events...)
}

// publishEvents delivers events after commit. Delivery failures are logged,
// the write they describe has already succeeded.
func publishEvents(ctx context.Context, publisher outbound.EventPublisher, logger *zap.Logger, events ...shared.DomainEvent) {
	if err := publisher.Publish(ctx, events...); err != nil {
		for _, event := range events {
			logger.Error("Failed to publish event",
				zap.String("event", event.EventName()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}
