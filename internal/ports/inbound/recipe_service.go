// Package inbound defines the use cases the catalog exposes to its adapters
package inbound

import (
	"context"
)

// RecipeService defines the recipe use cases
type RecipeService interface {
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (int64, error)
	DeleteRecipe(ctx context.Context, recipeID int64) error
	UpdateRecipe(ctx context.Context, recipeID int64, cmd UpdateRecipeCommand) error
	UpdateInstructionStep(ctx context.Context, cmd UpdateInstructionStepCommand) error
	AddIngredient(ctx context.Context, cmd AddIngredientCommand) ([]IngredientLineDTO, error)
	RemoveIngredient(ctx context.Context, recipeID, ingredientID int64) error
	RemoveInstructionStep(ctx context.Context, recipeID, instructionID int64) error

	GetRecipe(ctx context.Context, recipeID int64) (*RecipeDetailDTO, error)
	ListRecipes(ctx context.Context, query ListRecipesQuery) ([]RecipeSummaryDTO, error)
}

// CuisineService defines the cuisine use cases
type CuisineService interface {
	AddCuisine(ctx context.Context, cmd AddCuisineCommand) (*CuisineDTO, error)
	DeleteCuisine(ctx context.Context, cuisineID int64) (*CuisineDeletionDTO, error)
}

// Commands

// CreateRecipeCommand is the input of recipe composition
type CreateRecipeCommand struct {
	Name            string               `json:"recipe_name" validate:"required"`
	Description     string               `json:"recipe_description"`
	ImageURL        string               `json:"image_url"`
	CuisineID       int64                `json:"cuisine_id" validate:"required,gt=0"`
	GoalName        string               `json:"goal_name" validate:"required"`
	DietaryTagNames []string             `json:"dietary_info_names" validate:"dive,required"`
	AllergyTagNames []string             `json:"allergies_info_names" validate:"dive,required"`
	Ingredients     []IngredientQuantity `json:"ingredients_data" validate:"required,min=1,dive"`
	Instructions    []InstructionInput   `json:"instructions" validate:"required,min=1,dive"`
}

// IngredientQuantity links an existing ingredient with a quantity
type IngredientQuantity struct {
	IngredientID int64  `json:"ingredient_id" validate:"required,gt=0"`
	Quantity     string `json:"quantity" validate:"required"`
}

// InstructionInput is one instruction step of a new recipe
type InstructionInput struct {
	StepNumber int    `json:"step_number" validate:"required,gt=0"`
	Text       string `json:"StepInstruction" validate:"required"`
}

// UpdateRecipeCommand is a partial update; nil fields are left untouched
type UpdateRecipeCommand struct {
	Name        *string `json:"recipe_name"`
	Description *string `json:"recipe_description"`
	ImageURL    *string `json:"image_url"`
	CuisineID   *int64  `json:"cuisine_id"`
	GoalID      *int64  `json:"goal_id"`
}

// UpdateInstructionStepCommand replaces the text of one step
type UpdateInstructionStepCommand struct {
	RecipeID   int64  `json:"-" validate:"gt=0"`
	StepNumber int    `json:"-" validate:"gt=0"`
	Text       string `json:"StepInstruction" validate:"required"`
}

// AddIngredientCommand links an ingredient by name, creating it when new
type AddIngredientCommand struct {
	RecipeID int64  `json:"-" validate:"gt=0"`
	Name     string `json:"name" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Unit     string `json:"unit"`
}

// AddCuisineCommand creates a cuisine
type AddCuisineCommand struct {
	Name string `json:"name" validate:"required"`
}

// ListRecipesQuery filters the recipe listing; zero fields are ignored
type ListRecipesQuery struct {
	CuisineID        int64
	GoalID           int64
	ExcludeAllergyID int64
}

// DTOs

// RecipeSummaryDTO is a recipe row as listed
type RecipeSummaryDTO struct {
	ID          int64  `json:"recipe_id"`
	Name        string `json:"recipe_name"`
	Description string `json:"recipe_description"`
	ImageURL    string `json:"image_url"`
	CuisineID   int64  `json:"cuisine_id"`
	GoalID      int64  `json:"goal_id"`
}

// RecipeDetailDTO is a recipe with everything it references
type RecipeDetailDTO struct {
	ID           int64                `json:"recipe_id"`
	Name         string               `json:"recipe_name"`
	Description  string               `json:"recipe_description"`
	ImageURL     string               `json:"image_url"`
	Cuisine      string               `json:"cuisine"`
	Goal         string               `json:"goal"`
	Ingredients  []IngredientLineDTO  `json:"ingredients"`
	Allergies    []string             `json:"allergies"`
	DietaryInfo  []string             `json:"dietaryInfo"`
	Instructions []InstructionStepDTO `json:"instructions"`
}

// IngredientLineDTO is an ingredient as it appears on a recipe
type IngredientLineDTO struct {
	IngredientID int64  `json:"ingredient_id"`
	Name         string `json:"name"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit"`
}

// InstructionStepDTO is one step of a recipe
type InstructionStepDTO struct {
	ID         int64  `json:"instruction_id"`
	StepNumber int    `json:"step_number"`
	Text       string `json:"StepInstruction"`
}

// CuisineDTO is a cuisine row
type CuisineDTO struct {
	ID   int64  `json:"cuisine_id"`
	Name string `json:"name"`
}

// CuisineDeletionDTO reports the outcome of deleting a cuisine
type CuisineDeletionDTO struct {
	CuisineID         int64   `json:"cuisine_id"`
	FallbackCuisineID int64   `json:"fallback_cuisine_id"`
	FallbackCreated   bool    `json:"fallback_created"`
	ReassignedRecipes []int64 `json:"reassigned_recipe_ids"`
	Deleted           bool    `json:"deleted"`
}
