package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_StatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", NewValidationError("name is required"), http.StatusBadRequest},
		{"not found", NewNotFoundError("instruction step"), http.StatusNotFound},
		{"recipe not found", NewRecipeNotFoundError(42), http.StatusNotFound},
		{"conflict", NewConflictError("cuisine already exists"), http.StatusConflict},
		{"storage", NewStorageError("create recipe", stderrors.New("disk full")), http.StatusInternalServerError},
		{"rate limited", NewTooManyRequestsError(), http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.StatusCode())
		})
	}
}

func TestNewNotFoundError_CapitalizesResource(t *testing.T) {
	err := NewNotFoundError("instruction step or recipe")

	assert.Equal(t, "Instruction step or recipe not found", err.Message)
	assert.Equal(t, CodeNotFound, err.Code)
}

func TestStorageError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection reset")

	err := NewStorageError("delete recipe", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "Failed to delete recipe", err.Details)
}

func TestGetCode_SeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewConflictError("duplicate"))

	assert.Equal(t, CodeConflict, GetCode(wrapped))
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("plain")))
}

func TestWrap(t *testing.T) {
	t.Run("keeps app errors", func(t *testing.T) {
		original := NewValidationError("bad")
		assert.Same(t, original, Wrap(original, "ignored"))
	})

	t.Run("wraps plain errors as internal", func(t *testing.T) {
		err := Wrap(stderrors.New("boom"), "unexpected failure")
		require.NotNil(t, err)
		assert.Equal(t, CodeInternal, err.Code)
		assert.Equal(t, "unexpected failure", err.Message)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "nothing"))
	})
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "recipe_name", Tag: "required", Message: "recipe_name is required"},
		{Field: "goal_name", Tag: "required", Message: "goal_name is required"},
	})

	assert.Equal(t, CodeValidationFailed, err.Code)
	assert.Equal(t, "recipe_name is required; goal_name is required", err.Details)
	assert.Len(t, err.Metadata["validation_errors"], 2)
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(NewRecipeNotFoundError(7), "req-1")

	assert.Equal(t, CodeRecipeNotFound, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Equal(t, int64(7), resp.Error.Metadata["recipe_id"])
	assert.NotEmpty(t, resp.Error.Timestamp)
}
