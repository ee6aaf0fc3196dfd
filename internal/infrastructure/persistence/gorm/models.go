// Package gorm provides the GORM-backed catalog store
package gorm

import (
	"fmt"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"gorm.io/gorm"
)

// CuisineModel represents the GORM model for cuisines
type CuisineModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

func (CuisineModel) TableName() string { return "cuisines" }

// GoalModel represents the GORM model for goals
type GoalModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

func (GoalModel) TableName() string { return "goals" }

// IngredientModel represents the GORM model for ingredients
type IngredientModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Unit string `gorm:"type:varchar(64);not null"`
}

func (IngredientModel) TableName() string { return "ingredients" }

// DietaryTagModel represents the GORM model for dietary information
type DietaryTagModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

func (DietaryTagModel) TableName() string { return "dietary_tags" }

// AllergyTagModel represents the GORM model for allergy information
type AllergyTagModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

func (AllergyTagModel) TableName() string { return "allergy_tags" }

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text;not null"`
	ImageURL    string `gorm:"type:text;not null"`
	CuisineID   int64  `gorm:"not null;index"`
	GoalID      int64  `gorm:"not null;index"`

	// Relationships
	Cuisine *CuisineModel `gorm:"foreignKey:CuisineID;constraint:OnDelete:RESTRICT"`
	Goal    *GoalModel    `gorm:"foreignKey:GoalID;constraint:OnDelete:RESTRICT"`
}

func (RecipeModel) TableName() string { return "recipes" }

// RecipeIngredientModel links a recipe to an ingredient
type RecipeIngredientModel struct {
	RecipeID     int64  `gorm:"primaryKey;autoIncrement:false"`
	IngredientID int64  `gorm:"primaryKey;autoIncrement:false"`
	Quantity     string `gorm:"type:varchar(255);not null"`

	Recipe     *RecipeModel     `gorm:"foreignKey:RecipeID"`
	Ingredient *IngredientModel `gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredientModel) TableName() string { return "recipe_ingredients" }

// InstructionStepModel represents one numbered instruction of a recipe
type InstructionStepModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	RecipeID   int64  `gorm:"not null;uniqueIndex:idx_instruction_steps_recipe_step"`
	StepNumber int    `gorm:"not null;uniqueIndex:idx_instruction_steps_recipe_step"`
	Text       string `gorm:"column:instruction;type:text;not null"`

	Recipe *RecipeModel `gorm:"foreignKey:RecipeID"`
}

func (InstructionStepModel) TableName() string { return "instruction_steps" }

// RecipeDietaryTagModel tags a recipe with dietary information
type RecipeDietaryTagModel struct {
	RecipeID     int64 `gorm:"primaryKey;autoIncrement:false"`
	DietaryTagID int64 `gorm:"primaryKey;autoIncrement:false"`

	Recipe     *RecipeModel     `gorm:"foreignKey:RecipeID"`
	DietaryTag *DietaryTagModel `gorm:"foreignKey:DietaryTagID"`
}

func (RecipeDietaryTagModel) TableName() string { return "recipe_dietary_tags" }

// RecipeAllergyTagModel tags a recipe with allergy information
type RecipeAllergyTagModel struct {
	RecipeID     int64 `gorm:"primaryKey;autoIncrement:false"`
	AllergyTagID int64 `gorm:"primaryKey;autoIncrement:false"`

	Recipe     *RecipeModel     `gorm:"foreignKey:RecipeID"`
	AllergyTag *AllergyTagModel `gorm:"foreignKey:AllergyTagID"`
}

func (RecipeAllergyTagModel) TableName() string { return "recipe_allergy_tags" }

// Models lists every model in dependency order
func Models() []interface{} {
	return []interface{}{
		&CuisineModel{},
		&GoalModel{},
		&IngredientModel{},
		&DietaryTagModel{},
		&AllergyTagModel{},
		&RecipeModel{},
		&RecipeIngredientModel{},
		&InstructionStepModel{},
		&RecipeDietaryTagModel{},
		&RecipeAllergyTagModel{},
	}
}

// AutoMigrate creates or updates the catalog schema
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}

// referenceRow is a name-keyed model whose id is known after insert
type referenceRow interface {
	primaryKey() int64
}

func (m *CuisineModel) primaryKey() int64    { return m.ID }
func (m *GoalModel) primaryKey() int64       { return m.ID }
func (m *IngredientModel) primaryKey() int64 { return m.ID }
func (m *DietaryTagModel) primaryKey() int64 { return m.ID }
func (m *AllergyTagModel) primaryKey() int64 { return m.ID }

func referenceTable(kind recipe.ReferenceKind) (string, error) {
	switch kind {
	case recipe.KindCuisine:
		return CuisineModel{}.TableName(), nil
	case recipe.KindGoal:
		return GoalModel{}.TableName(), nil
	case recipe.KindIngredient:
		return IngredientModel{}.TableName(), nil
	case recipe.KindDietaryTag:
		return DietaryTagModel{}.TableName(), nil
	case recipe.KindAllergyTag:
		return AllergyTagModel{}.TableName(), nil
	default:
		return "", fmt.Errorf("unknown reference kind %d", kind)
	}
}

func newReferenceRow(ref recipe.Reference) (referenceRow, error) {
	switch ref.Kind {
	case recipe.KindCuisine:
		return &CuisineModel{Name: ref.Name}, nil
	case recipe.KindGoal:
		return &GoalModel{Name: ref.Name}, nil
	case recipe.KindIngredient:
		return &IngredientModel{Name: ref.Name, Unit: ref.Unit}, nil
	case recipe.KindDietaryTag:
		return &DietaryTagModel{Name: ref.Name}, nil
	case recipe.KindAllergyTag:
		return &AllergyTagModel{Name: ref.Name}, nil
	default:
		return nil, fmt.Errorf("unknown reference kind %d", ref.Kind)
	}
}
