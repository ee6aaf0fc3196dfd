package recipe

import (
	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/ports/inbound"
)

func recipeToSummaryDTO(r recipe.Recipe) inbound.RecipeSummaryDTO {
	return inbound.RecipeSummaryDTO{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		CuisineID:   r.CuisineID,
		GoalID:      r.GoalID,
	}
}

func ingredientLinesToDTO(lines []recipe.IngredientLine) []inbound.IngredientLineDTO {
	dtos := make([]inbound.IngredientLineDTO, len(lines))
	for i, line := range lines {
		dtos[i] = inbound.IngredientLineDTO{
			IngredientID: line.IngredientID,
			Name:         line.Name,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
		}
	}
	return dtos
}

func recipeDetailToDTO(detail *recipe.RecipeDetail) *inbound.RecipeDetailDTO {
	steps := make([]inbound.InstructionStepDTO, len(detail.Instructions))
	for i, step := range detail.Instructions {
		steps[i] = inbound.InstructionStepDTO{
			ID:         step.ID,
			StepNumber: step.StepNumber,
			Text:       step.Text,
		}
	}

	return &inbound.RecipeDetailDTO{
		ID:           detail.ID,
		Name:         detail.Name,
		Description:  detail.Description,
		ImageURL:     detail.ImageURL,
		Cuisine:      detail.Cuisine,
		Goal:         detail.Goal,
		Ingredients:  ingredientLinesToDTO(detail.Ingredients),
		Allergies:    nonNil(detail.Allergies),
		DietaryInfo:  nonNil(detail.DietaryInfo),
		Instructions: steps,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
