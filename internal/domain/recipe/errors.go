package recipe

import "errors"

// Domain errors for catalog operations

var (
	// Input errors
	ErrEmptyReferenceName = errors.New("reference name must not be empty")
	ErrEmptyPatch         = errors.New("at least one recipe attribute must be provided")
	ErrInvalidReferenceID = errors.New("reference ids must be positive")

	// Lookup errors
	ErrRecipeNotFound          = errors.New("recipe not found")
	ErrInstructionStepNotFound = errors.New("instruction step or recipe not found")
	ErrIngredientLinkNotFound  = errors.New("ingredient or recipe not found")

	// Business rule violations
	ErrFallbackCuisineProtected = errors.New("the fallback cuisine cannot be deleted")
	ErrReferenceConflict        = errors.New("reference row was created concurrently and is not yet visible")

	// Store classifications
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)
