package handlers

import (
	"net/http"
	"strconv"

	"github.com/esasma/API-Recettes/internal/ports/inbound"
	"go.uber.org/zap"
)

// RecipeHandlers handles the /recipes routes
type RecipeHandlers struct {
	responder
	recipes inbound.RecipeService
}

// NewRecipeHandlers creates the recipe handlers
func NewRecipeHandlers(recipes inbound.RecipeService, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{
		responder: responder{logger: logger.Named("recipe-handlers")},
		recipes:   recipes,
	}
}

// CreatedRecipeResponse is returned by POST /recipes/add
type CreatedRecipeResponse struct {
	RecipeID int64  `json:"recipe_id"`
	Message  string `json:"message"`
}

// ListRecipes handles GET /recipes
func (h *RecipeHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, inbound.ListRecipesQuery{})
}

// ListByCuisine handles GET /recipes/cuisine/{cuisineId}
func (h *RecipeHandlers) ListByCuisine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "cuisineId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.list(w, r, inbound.ListRecipesQuery{CuisineID: id})
}

// ListByGoal handles GET /recipes/goal/{goalId}
func (h *RecipeHandlers) ListByGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "goalId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.list(w, r, inbound.ListRecipesQuery{GoalID: id})
}

// ListWithoutAllergy handles GET /recipes/no-allergy/{allergyId}
func (h *RecipeHandlers) ListWithoutAllergy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "allergyId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.list(w, r, inbound.ListRecipesQuery{ExcludeAllergyID: id})
}

func (h *RecipeHandlers) list(w http.ResponseWriter, r *http.Request, query inbound.ListRecipesQuery) {
	recipes, err := h.recipes.ListRecipes(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, recipes)
}

// GetRecipe handles GET /recipes/{recipeId}
func (h *RecipeHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "recipeId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	detail, err := h.recipes.GetRecipe(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

// CreateRecipe handles POST /recipes/add
func (h *RecipeHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.CreateRecipeCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.recipes.CreateRecipe(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/recipes/"+strconv.FormatInt(id, 10))
	h.writeJSON(w, http.StatusCreated, CreatedRecipeResponse{RecipeID: id, Message: "Recipe added successfully"})
}

// UpdateRecipe handles PUT /recipes/{recipeId}/update
func (h *RecipeHandlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "recipeId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var cmd inbound.UpdateRecipeCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.recipes.UpdateRecipe(r.Context(), id, cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MessageResponse{Message: "Recipe updated successfully"})
}

// UpdateInstructionStep handles PUT /recipes/{recipeId}/instructions/{stepNumber}/update
func (h *RecipeHandlers) UpdateInstructionStep(w http.ResponseWriter, r *http.Request) {
	recipeID, err := pathID(r, "recipeId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	step, err := pathID(r, "stepNumber")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var cmd inbound.UpdateInstructionStepCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.RecipeID = recipeID
	cmd.StepNumber = int(step)

	if err := h.recipes.UpdateInstructionStep(r.Context(), cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MessageResponse{Message: "Instruction step updated successfully"})
}

// AddIngredient handles POST /recipes/{recipeId}/add/ingredients
func (h *RecipeHandlers) AddIngredient(w http.ResponseWriter, r *http.Request) {
	recipeID, err := pathID(r, "recipeId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var cmd inbound.AddIngredientCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.RecipeID = recipeID

	lines, err := h.recipes.AddIngredient(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lines)
}

// RemoveIngredient handles DELETE /recipes/{recipeId}/ingredients/{ingredientId}/delete
func (h *RecipeHandlers) RemoveIngredient(w http.ResponseWriter, r *http.Request) {
	recipeID, err := pathID(r, "recipeId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ingredientID, err := pathID(r, "ingredientId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.recipes.RemoveIngredient(r.Context(), recipeID, ingredientID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MessageResponse{Message: "Ingredient deleted successfully from the recipe"})
}

// RemoveInstructionStep handles DELETE /recipes/{recipeId}/instructions/{instructionId}/delete
func (h *RecipeHandlers) RemoveInstructionStep(w http.ResponseWriter, r *http.Request) {
	recipeID, err := pathID(r, "recipeId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	instructionID, err := pathID(r, "instructionId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.recipes.RemoveInstructionStep(r.Context(), recipeID, instructionID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MessageResponse{Message: "Instruction step deleted successfully from the recipe"})
}

// DeleteRecipe handles DELETE /recipes/{recipeId}/delete
func (h *RecipeHandlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "recipeId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.recipes.DeleteRecipe(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MessageResponse{Message: "Recipe and related information deleted successfully"})
}
