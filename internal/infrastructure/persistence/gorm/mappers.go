package gorm

import (
	"github.com/esasma/API-Recettes/internal/domain/recipe"
)

// recipeColumns maps the update allow-list onto table columns
var recipeColumns = map[recipe.Field]string{
	recipe.FieldName:        "name",
	recipe.FieldDescription: "description",
	recipe.FieldImageURL:    "image_url",
	recipe.FieldCuisineID:   "cuisine_id",
	recipe.FieldGoalID:      "goal_id",
}

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		CuisineID:   r.CuisineID,
		GoalID:      r.GoalID,
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(m *RecipeModel) recipe.Recipe {
	return recipe.Recipe{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		CuisineID:   m.CuisineID,
		GoalID:      m.GoalID,
	}
}

// ModelToInstructionStep converts a GORM model to a domain instruction step
func ModelToInstructionStep(m *InstructionStepModel) recipe.InstructionStep {
	return recipe.InstructionStep{
		ID:         m.ID,
		RecipeID:   m.RecipeID,
		StepNumber: m.StepNumber,
		Text:       m.Text,
	}
}

// ingredientLineRow is the scan target of the ingredient join
type ingredientLineRow struct {
	IngredientID int64
	Name         string
	Quantity     string
	Unit         string
}

func (r ingredientLineRow) toDomain() recipe.IngredientLine {
	return recipe.IngredientLine{
		IngredientID: r.IngredientID,
		Name:         r.Name,
		Quantity:     r.Quantity,
		Unit:         r.Unit,
	}
}

// recipeHeadRow is the scan target of the recipe detail join
type recipeHeadRow struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	CuisineID   int64
	GoalID      int64
	Cuisine     string
	Goal        string
}

func (r recipeHeadRow) toDomain() *recipe.RecipeDetail {
	return &recipe.RecipeDetail{
		Recipe: recipe.Recipe{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			ImageURL:    r.ImageURL,
			CuisineID:   r.CuisineID,
			GoalID:      r.GoalID,
		},
		Cuisine: r.Cuisine,
		Goal:    r.Goal,
	}
}
