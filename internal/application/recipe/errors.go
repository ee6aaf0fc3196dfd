package recipe

import (
	"errors"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	apperrors "github.com/esasma/API-Recettes/pkg/errors"
)

// toAppError converts a failure from inside a catalog operation into the
// single AppError the caller sees. Errors that already are AppErrors pass
// through; anything unclassified is a storage failure of operation.
func toAppError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, recipe.ErrEmptyReferenceName),
		errors.Is(err, recipe.ErrEmptyPatch),
		errors.Is(err, recipe.ErrInvalidReferenceID),
		errors.Is(err, recipe.ErrFallbackCuisineProtected):
		return apperrors.NewValidationError(err.Error()).WithCause(err)
	case errors.Is(err, recipe.ErrInstructionStepNotFound):
		return apperrors.NewNotFoundError("instruction step or recipe").WithCause(err)
	case errors.Is(err, recipe.ErrIngredientLinkNotFound):
		return apperrors.NewNotFoundError("ingredient or recipe").WithCause(err)
	case errors.Is(err, recipe.ErrReferenceConflict):
		return apperrors.NewConflictError("A reference with the same name was created concurrently, retry the request").WithCause(err)
	default:
		return apperrors.NewStorageError(operation, err)
	}
}
