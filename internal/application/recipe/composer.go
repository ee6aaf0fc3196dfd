package recipe

import (
	"context"
	"fmt"
	"strings"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/ports/inbound"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	apperrors "github.com/esasma/API-Recettes/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Composer creates a recipe together with its goal, tags, ingredient links
// and instruction steps as one transaction
type Composer struct {
	store    outbound.CatalogStore
	resolver *Resolver
	validate *validator.Validate
	logger   *zap.Logger
}

// NewComposer creates a new recipe composer
func NewComposer(store outbound.CatalogStore, resolver *Resolver, logger *zap.Logger) *Composer {
	return &Composer{
		store:    store,
		resolver: resolver,
		validate: newValidator(),
		logger:   logger.Named("recipe-composer"),
	}
}

// composition is a validated create command with its references normalized
type composition struct {
	recipe       recipe.Recipe
	goal         recipe.Reference
	dietaryTags  []recipe.Reference
	allergyTags  []recipe.Reference
	ingredients  []recipe.IngredientLink
	instructions []recipe.InstructionStep
}

// Compose validates cmd and writes the recipe graph. Nothing is written when
// validation fails, and any store failure rolls back every row of the attempt.
func (c *Composer) Compose(ctx context.Context, cmd inbound.CreateRecipeCommand) (*recipe.Recipe, error) {
	plan, err := c.plan(cmd)
	if err != nil {
		return nil, err
	}

	err = c.store.Transaction(ctx, func(tx outbound.CatalogTx) error {
		goalID, err := c.resolver.ResolveName(ctx, tx, recipe.KindGoal, plan.goal.Name)
		if err != nil {
			return err
		}
		plan.recipe.GoalID = goalID

		recipeID, err := tx.InsertRecipe(ctx, plan.recipe)
		if err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		plan.recipe.ID = recipeID

		if err := c.linkTags(ctx, tx, recipeID, plan.dietaryTags); err != nil {
			return err
		}
		if err := c.linkTags(ctx, tx, recipeID, plan.allergyTags); err != nil {
			return err
		}

		for _, link := range plan.ingredients {
			link.RecipeID = recipeID
			if err := tx.InsertIngredientLink(ctx, link); err != nil {
				return fmt.Errorf("link ingredient %d: %w", link.IngredientID, err)
			}
		}

		for _, step := range plan.instructions {
			step.RecipeID = recipeID
			if _, err := tx.InsertInstructionStep(ctx, step); err != nil {
				return fmt.Errorf("insert instruction step %d: %w", step.StepNumber, err)
			}
		}

		return nil
	})
	if err != nil {
		c.logger.Error("Recipe composition rolled back",
			zap.String("recipe_name", plan.recipe.Name),
			zap.Error(err),
		)
		return nil, toAppError("create recipe", err)
	}

	c.logger.Info("Recipe composed",
		zap.Int64("recipe_id", plan.recipe.ID),
		zap.Int64("goal_id", plan.recipe.GoalID),
		zap.Int("ingredients", len(plan.ingredients)),
		zap.Int("instructions", len(plan.instructions)),
	)

	composed := plan.recipe
	return &composed, nil
}

func (c *Composer) plan(cmd inbound.CreateRecipeCommand) (*composition, error) {
	if err := validateCommand(c.validate, cmd); err != nil {
		return nil, err
	}

	goal, err := recipe.NewReference(recipe.KindGoal, cmd.GoalName)
	if err != nil {
		return nil, apperrors.NewValidationError("goal_name is required")
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("recipe_name is required")
	}

	dietary, err := tagReferences(recipe.KindDietaryTag, cmd.DietaryTagNames)
	if err != nil {
		return nil, apperrors.NewValidationError("dietary_info_names must not contain empty names")
	}
	allergies, err := tagReferences(recipe.KindAllergyTag, cmd.AllergyTagNames)
	if err != nil {
		return nil, apperrors.NewValidationError("allergies_info_names must not contain empty names")
	}

	plan := &composition{
		recipe: recipe.Recipe{
			Name:        name,
			Description: cmd.Description,
			ImageURL:    cmd.ImageURL,
			CuisineID:   cmd.CuisineID,
		},
		goal:         goal,
		dietaryTags:  dietary,
		allergyTags:  allergies,
		ingredients:  make([]recipe.IngredientLink, len(cmd.Ingredients)),
		instructions: make([]recipe.InstructionStep, len(cmd.Instructions)),
	}
	for i, in := range cmd.Ingredients {
		plan.ingredients[i] = recipe.IngredientLink{IngredientID: in.IngredientID, Quantity: in.Quantity}
	}
	for i, in := range cmd.Instructions {
		plan.instructions[i] = recipe.InstructionStep{StepNumber: in.StepNumber, Text: in.Text}
	}
	return plan, nil
}

func (c *Composer) linkTags(ctx context.Context, tx outbound.CatalogTx, recipeID int64, tags []recipe.Reference) error {
	for _, tag := range tags {
		tagID, _, err := c.resolver.Resolve(ctx, tx, tag)
		if err != nil {
			return err
		}
		if err := tx.InsertRecipeTag(ctx, tag.Kind, recipeID, tagID); err != nil {
			return fmt.Errorf("tag recipe with %s %q: %w", tag.Kind, tag.Name, err)
		}
	}
	return nil
}

// tagReferences normalizes tag names, keeping the first occurrence of each
func tagReferences(kind recipe.ReferenceKind, names []string) ([]recipe.Reference, error) {
	refs := make([]recipe.Reference, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		ref, err := recipe.NewReference(kind, name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[ref.Name]; dup {
			continue
		}
		seen[ref.Name] = struct{}{}
		refs = append(refs, ref)
	}
	return refs, nil
}
