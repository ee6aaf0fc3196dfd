// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/esasma/API-Recettes/internal/ports/inbound"
)

// RecipeCommandBuilder provides a fluent interface for building create commands
type RecipeCommandBuilder struct {
	faker *gofakeit.Faker
	cmd   inbound.CreateRecipeCommand
}

// NewRecipeCommandBuilder creates a builder with one ingredient and one step.
// cuisineID and ingredientID must reference existing rows.
func NewRecipeCommandBuilder(cuisineID, ingredientID int64) *RecipeCommandBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &RecipeCommandBuilder{
		faker: faker,
		cmd: inbound.CreateRecipeCommand{
			Name:        faker.Dessert(),
			Description: faker.Sentence(8),
			ImageURL:    faker.URL(),
			CuisineID:   cuisineID,
			GoalName:    faker.RandomString([]string{"Weight Loss", "Muscle Gain", "Maintenance"}),
			Ingredients: []inbound.IngredientQuantity{
				{IngredientID: ingredientID, Quantity: fmt.Sprintf("%d cups", faker.Number(1, 4))},
			},
			Instructions: []inbound.InstructionInput{
				{StepNumber: 1, Text: faker.Sentence(6)},
			},
		},
	}
}

// WithName sets the recipe name
func (b *RecipeCommandBuilder) WithName(name string) *RecipeCommandBuilder {
	b.cmd.Name = name
	return b
}

// WithCuisine sets the cuisine id
func (b *RecipeCommandBuilder) WithCuisine(cuisineID int64) *RecipeCommandBuilder {
	b.cmd.CuisineID = cuisineID
	return b
}

// WithGoal sets the goal name
func (b *RecipeCommandBuilder) WithGoal(goal string) *RecipeCommandBuilder {
	b.cmd.GoalName = goal
	return b
}

// WithDietaryTags sets the dietary tag names
func (b *RecipeCommandBuilder) WithDietaryTags(names ...string) *RecipeCommandBuilder {
	b.cmd.DietaryTagNames = names
	return b
}

// WithAllergyTags sets the allergy tag names
func (b *RecipeCommandBuilder) WithAllergyTags(names ...string) *RecipeCommandBuilder {
	b.cmd.AllergyTagNames = names
	return b
}

// WithIngredients replaces the ingredient list
func (b *RecipeCommandBuilder) WithIngredients(ingredients ...inbound.IngredientQuantity) *RecipeCommandBuilder {
	b.cmd.Ingredients = ingredients
	return b
}

// WithInstructions replaces the instruction list
func (b *RecipeCommandBuilder) WithInstructions(steps ...inbound.InstructionInput) *RecipeCommandBuilder {
	b.cmd.Instructions = steps
	return b
}

// WithSteps replaces the instruction list with n consecutive random steps
func (b *RecipeCommandBuilder) WithSteps(n int) *RecipeCommandBuilder {
	b.cmd.Instructions = make([]inbound.InstructionInput, n)
	for i := range b.cmd.Instructions {
		b.cmd.Instructions[i] = inbound.InstructionInput{StepNumber: i + 1, Text: b.faker.Sentence(5)}
	}
	return b
}

// Build returns the command
func (b *RecipeCommandBuilder) Build() inbound.CreateRecipeCommand {
	return b.cmd
}

// UniqueName returns a fake name unlikely to collide within one test
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s %s", prefix, gofakeit.UUID()[:8])
}
