// Package recipe holds the catalog domain: recipes, the reference entities
// they point at, and the rules for patching a recipe.
package recipe

import "strings"

// FallbackCuisineName is the cuisine recipes are moved to when theirs is deleted.
const FallbackCuisineName = "International"

// ReferenceKind identifies a table of name-keyed reference rows.
type ReferenceKind int

const (
	KindCuisine ReferenceKind = iota + 1
	KindGoal
	KindIngredient
	KindDietaryTag
	KindAllergyTag
)

func (k ReferenceKind) String() string {
	switch k {
	case KindCuisine:
		return "cuisine"
	case KindGoal:
		return "goal"
	case KindIngredient:
		return "ingredient"
	case KindDietaryTag:
		return "dietary tag"
	case KindAllergyTag:
		return "allergy tag"
	default:
		return "unknown"
	}
}

// Reference is a natural-key value to resolve to an identifier.
// Unit only applies to ingredients and is used when the row is created.
type Reference struct {
	Kind ReferenceKind
	Name string
	Unit string
}

// NewReference trims the name and checks it is usable as a natural key.
func NewReference(kind ReferenceKind, name string) (Reference, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Reference{}, ErrEmptyReferenceName
	}
	return Reference{Kind: kind, Name: name}, nil
}

// Recipe is the recipe row.
type Recipe struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	CuisineID   int64
	GoalID      int64
}

// Cuisine is a cuisine row.
type Cuisine struct {
	ID   int64
	Name string
}

// IngredientLink associates a recipe with an ingredient and a quantity.
type IngredientLink struct {
	RecipeID     int64
	IngredientID int64
	Quantity     string
}

// InstructionStep is one numbered step of a recipe.
type InstructionStep struct {
	ID         int64
	RecipeID   int64
	StepNumber int
	Text       string
}

// IngredientLine is an ingredient as it appears on a recipe.
type IngredientLine struct {
	IngredientID int64
	Name         string
	Quantity     string
	Unit         string
}

// RecipeDetail is the read model of a recipe with everything it references.
type RecipeDetail struct {
	Recipe
	Cuisine      string
	Goal         string
	Ingredients  []IngredientLine
	Allergies    []string
	DietaryInfo  []string
	Instructions []InstructionStep
}

// ListFilter narrows a recipe listing. Zero values are ignored.
type ListFilter struct {
	CuisineID        int64
	GoalID           int64
	ExcludeAllergyID int64
}

// CuisineReassignment reports what deleting a cuisine did.
type CuisineReassignment struct {
	DeletedCuisineID  int64
	FallbackCuisineID int64
	FallbackCreated   bool
	ReassignedRecipes []int64
	CuisineDeleted    bool
}
