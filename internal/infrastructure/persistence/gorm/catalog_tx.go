package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// catalogTx implements outbound.CatalogTx on top of a GORM transaction
type catalogTx struct {
	db *gorm.DB
}

func (t *catalogTx) FindReferenceID(ctx context.Context, kind recipe.ReferenceKind, name string) (int64, bool, error) {
	table, err := referenceTable(kind)
	if err != nil {
		return 0, false, err
	}

	var ids []int64
	err = t.db.WithContext(ctx).Table(table).Where("name = ?", name).Limit(1).Pluck("id", &ids).Error
	if err != nil {
		return 0, false, classify(err)
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

func (t *catalogTx) InsertReference(ctx context.Context, ref recipe.Reference) (int64, bool, error) {
	row, err := newReferenceRow(ref)
	if err != nil {
		return 0, false, err
	}

	result := t.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if result.Error != nil {
		return 0, false, classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}
	return row.primaryKey(), true, nil
}

func (t *catalogTx) FindRecipe(ctx context.Context, recipeID int64) (*recipe.Recipe, bool, error) {
	var model RecipeModel
	err := t.db.WithContext(ctx).Where("id = ?", recipeID).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, classify(err)
	}
	r := ModelToRecipe(&model)
	return &r, true, nil
}

func (t *catalogTx) InsertRecipe(ctx context.Context, r recipe.Recipe) (int64, error) {
	model := RecipeToModel(r)
	model.ID = 0
	if err := t.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return 0, classify(err)
	}
	return model.ID, nil
}

func (t *catalogTx) UpdateRecipe(ctx context.Context, recipeID int64, changes []recipe.FieldChange) (int64, error) {
	if len(changes) == 0 {
		return 0, recipe.ErrEmptyPatch
	}

	updates := make(map[string]interface{}, len(changes))
	for _, c := range changes {
		column, ok := recipeColumns[c.Field]
		if !ok {
			return 0, fmt.Errorf("recipe field %q is not updatable", c.Field)
		}
		updates[column] = c.Value
	}

	result := t.db.WithContext(ctx).Model(&RecipeModel{}).Where("id = ?", recipeID).Updates(updates)
	if result.Error != nil {
		return 0, classify(result.Error)
	}
	return result.RowsAffected, nil
}

func (t *catalogTx) DeleteRecipe(ctx context.Context, recipeID int64) (int64, error) {
	return t.delete(ctx, &RecipeModel{}, "id = ?", recipeID)
}

func (t *catalogTx) InsertRecipeTag(ctx context.Context, kind recipe.ReferenceKind, recipeID, tagID int64) error {
	var row interface{}
	switch kind {
	case recipe.KindDietaryTag:
		row = &RecipeDietaryTagModel{RecipeID: recipeID, DietaryTagID: tagID}
	case recipe.KindAllergyTag:
		row = &RecipeAllergyTagModel{RecipeID: recipeID, AllergyTagID: tagID}
	default:
		return fmt.Errorf("%s is not a recipe tag", kind)
	}

	if err := t.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (t *catalogTx) DeleteRecipeTags(ctx context.Context, kind recipe.ReferenceKind, recipeID int64) (int64, error) {
	switch kind {
	case recipe.KindDietaryTag:
		return t.delete(ctx, &RecipeDietaryTagModel{}, "recipe_id = ?", recipeID)
	case recipe.KindAllergyTag:
		return t.delete(ctx, &RecipeAllergyTagModel{}, "recipe_id = ?", recipeID)
	default:
		return 0, fmt.Errorf("%s is not a recipe tag", kind)
	}
}

func (t *catalogTx) InsertIngredientLink(ctx context.Context, link recipe.IngredientLink) error {
	model := &RecipeIngredientModel{
		RecipeID:     link.RecipeID,
		IngredientID: link.IngredientID,
		Quantity:     link.Quantity,
	}
	if err := t.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (t *catalogTx) DeleteIngredientLink(ctx context.Context, recipeID, ingredientID int64) (int64, error) {
	return t.delete(ctx, &RecipeIngredientModel{}, "recipe_id = ? AND ingredient_id = ?", recipeID, ingredientID)
}

func (t *catalogTx) DeleteIngredientLinks(ctx context.Context, recipeID int64) (int64, error) {
	return t.delete(ctx, &RecipeIngredientModel{}, "recipe_id = ?", recipeID)
}

func (t *catalogTx) ListIngredientLines(ctx context.Context, recipeID int64) ([]recipe.IngredientLine, error) {
	return listIngredientLines(t.db.WithContext(ctx), recipeID)
}

func (t *catalogTx) InsertInstructionStep(ctx context.Context, step recipe.InstructionStep) (int64, error) {
	model := &InstructionStepModel{
		RecipeID:   step.RecipeID,
		StepNumber: step.StepNumber,
		Text:       step.Text,
	}
	if err := t.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return 0, classify(err)
	}
	return model.ID, nil
}

func (t *catalogTx) UpdateInstructionText(ctx context.Context, recipeID int64, stepNumber int, text string) (int64, error) {
	result := t.db.WithContext(ctx).
		Model(&InstructionStepModel{}).
		Where("recipe_id = ? AND step_number = ?", recipeID, stepNumber).
		Update("instruction", text)
	if result.Error != nil {
		return 0, classify(result.Error)
	}
	return result.RowsAffected, nil
}

func (t *catalogTx) DeleteInstructionStep(ctx context.Context, recipeID, instructionID int64) (int64, error) {
	return t.delete(ctx, &InstructionStepModel{}, "recipe_id = ? AND id = ?", recipeID, instructionID)
}

func (t *catalogTx) DeleteInstructionSteps(ctx context.Context, recipeID int64) (int64, error) {
	return t.delete(ctx, &InstructionStepModel{}, "recipe_id = ?", recipeID)
}

func (t *catalogTx) ReassignCuisine(ctx context.Context, fromCuisineID, toCuisineID int64) ([]int64, error) {
	db := t.db.WithContext(ctx)

	var recipeIDs []int64
	if err := db.Model(&RecipeModel{}).Where("cuisine_id = ?", fromCuisineID).Order("id").Pluck("id", &recipeIDs).Error; err != nil {
		return nil, classify(err)
	}
	if len(recipeIDs) == 0 {
		return nil, nil
	}

	err := db.Model(&RecipeModel{}).Where("cuisine_id = ?", fromCuisineID).Update("cuisine_id", toCuisineID).Error
	if err != nil {
		return nil, classify(err)
	}
	return recipeIDs, nil
}

func (t *catalogTx) DeleteCuisine(ctx context.Context, cuisineID int64) (int64, error) {
	return t.delete(ctx, &CuisineModel{}, "id = ?", cuisineID)
}

func (t *catalogTx) delete(ctx context.Context, model interface{}, query string, args ...interface{}) (int64, error) {
	result := t.db.WithContext(ctx).Where(query, args...).Delete(model)
	if result.Error != nil {
		return 0, classify(result.Error)
	}
	return result.RowsAffected, nil
}
