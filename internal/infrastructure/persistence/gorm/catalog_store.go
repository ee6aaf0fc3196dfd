package gorm

import (
	"context"
	"errors"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogStore implements the catalog store using GORM
type CatalogStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCatalogStore creates a new catalog store
func NewCatalogStore(db *gorm.DB, logger *zap.Logger) *CatalogStore {
	return &CatalogStore{db: db, logger: logger.Named("catalog-store")}
}

// Transaction runs fn inside a database transaction
func (s *CatalogStore) Transaction(ctx context.Context, fn func(tx outbound.CatalogTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&catalogTx{db: tx})
	})
}

// FindRecipeDetail loads a recipe with its cuisine, goal, ingredients, tags and steps
func (s *CatalogStore) FindRecipeDetail(ctx context.Context, recipeID int64) (*recipe.RecipeDetail, error) {
	db := s.db.WithContext(ctx)

	var head recipeHeadRow
	err := db.Table("recipes AS r").
		Select("r.id, r.name, r.description, r.image_url, r.cuisine_id, r.goal_id, c.name AS cuisine, g.name AS goal").
		Joins("LEFT JOIN cuisines AS c ON c.id = r.cuisine_id").
		Joins("LEFT JOIN goals AS g ON g.id = r.goal_id").
		Where("r.id = ?", recipeID).
		Take(&head).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, classify(err)
	}

	detail := head.toDomain()

	if detail.Ingredients, err = listIngredientLines(db, recipeID); err != nil {
		return nil, err
	}

	detail.Allergies = []string{}
	err = db.Table("recipe_allergy_tags AS ra").
		Joins("JOIN allergy_tags AS a ON a.id = ra.allergy_tag_id").
		Where("ra.recipe_id = ?", recipeID).
		Order("a.name").
		Pluck("a.name", &detail.Allergies).Error
	if err != nil {
		return nil, classify(err)
	}

	detail.DietaryInfo = []string{}
	err = db.Table("recipe_dietary_tags AS rd").
		Joins("JOIN dietary_tags AS d ON d.id = rd.dietary_tag_id").
		Where("rd.recipe_id = ?", recipeID).
		Order("d.name").
		Pluck("d.name", &detail.DietaryInfo).Error
	if err != nil {
		return nil, classify(err)
	}

	var steps []InstructionStepModel
	if err := db.Where("recipe_id = ?", recipeID).Order("step_number").Find(&steps).Error; err != nil {
		return nil, classify(err)
	}
	detail.Instructions = make([]recipe.InstructionStep, len(steps))
	for i := range steps {
		detail.Instructions[i] = ModelToInstructionStep(&steps[i])
	}

	return detail, nil
}

// ListRecipes lists recipes matching the filter ordered by id
func (s *CatalogStore) ListRecipes(ctx context.Context, filter recipe.ListFilter) ([]recipe.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&RecipeModel{})

	if filter.CuisineID > 0 {
		query = query.Where("cuisine_id = ?", filter.CuisineID)
	}
	if filter.GoalID > 0 {
		query = query.Where("goal_id = ?", filter.GoalID)
	}
	if filter.ExcludeAllergyID > 0 {
		tagged := s.db.Table("recipe_allergy_tags").
			Select("1").
			Where("recipe_allergy_tags.recipe_id = recipes.id AND recipe_allergy_tags.allergy_tag_id = ?", filter.ExcludeAllergyID)
		query = query.Where("NOT EXISTS (?)", tagged)
	}

	var models []RecipeModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, classify(err)
	}

	recipes := make([]recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}

	return recipes, nil
}

func listIngredientLines(db *gorm.DB, recipeID int64) ([]recipe.IngredientLine, error) {
	var rows []ingredientLineRow
	err := db.Table("recipe_ingredients AS ri").
		Select("i.id AS ingredient_id, i.name, ri.quantity, i.unit").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Where("ri.recipe_id = ?", recipeID).
		Order("i.name").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}

	lines := make([]recipe.IngredientLine, len(rows))
	for i, row := range rows {
		lines[i] = row.toDomain()
	}
	return lines, nil
}
