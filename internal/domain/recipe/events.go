package recipe

import (
	"time"

	"github.com/esasma/API-Recettes/internal/domain/shared"
)

// Domain events raised after a catalog transaction commits

// RecipeComposedEvent is raised when a recipe and its dependents are created
type RecipeComposedEvent struct {
	shared.EventMeta
	RecipeID int64
	Name     string
	GoalID   int64
}

func (e RecipeComposedEvent) EventName() string {
	return "recipe.composed"
}

// RecipeDecomposedEvent is raised when a recipe and its dependents are deleted
type RecipeDecomposedEvent struct {
	shared.EventMeta
	RecipeID int64
}

func (e RecipeDecomposedEvent) EventName() string {
	return "recipe.decomposed"
}

// RecipeUpdatedEvent is raised when a recipe or one of its parts changes
type RecipeUpdatedEvent struct {
	shared.EventMeta
	RecipeID int64
	Fields   []Field
}

func (e RecipeUpdatedEvent) EventName() string {
	return "recipe.updated"
}

// CuisineReassignedEvent is raised when a cuisine is deleted and its recipes moved
type CuisineReassignedEvent struct {
	shared.EventMeta
	CuisineID         int64
	FallbackCuisineID int64
	RecipeIDs         []int64
}

func (e CuisineReassignedEvent) EventName() string {
	return "cuisine.reassigned"
}

// NewRecipeComposedEvent creates a RecipeComposedEvent
func NewRecipeComposedEvent(recipeID int64, name string, goalID int64) RecipeComposedEvent {
	return RecipeComposedEvent{EventMeta: shared.NewEventMeta(time.Now()), RecipeID: recipeID, Name: name, GoalID: goalID}
}

// NewRecipeDecomposedEvent creates a RecipeDecomposedEvent
func NewRecipeDecomposedEvent(recipeID int64) RecipeDecomposedEvent {
	return RecipeDecomposedEvent{EventMeta: shared.NewEventMeta(time.Now()), RecipeID: recipeID}
}

// NewRecipeUpdatedEvent creates a RecipeUpdatedEvent
func NewRecipeUpdatedEvent(recipeID int64, fields ...Field) RecipeUpdatedEvent {
	return RecipeUpdatedEvent{EventMeta: shared.NewEventMeta(time.Now()), RecipeID: recipeID, Fields: fields}
}

// NewCuisineReassignedEvent creates a CuisineReassignedEvent
func NewCuisineReassignedEvent(r CuisineReassignment) CuisineReassignedEvent {
	return CuisineReassignedEvent{
		EventMeta:         shared.NewEventMeta(time.Now()),
		CuisineID:         r.DeletedCuisineID,
		FallbackCuisineID: r.FallbackCuisineID,
		RecipeIDs:         r.ReassignedRecipes,
	}
}
