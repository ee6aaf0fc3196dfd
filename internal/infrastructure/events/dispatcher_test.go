package events

import (
	"context"
	"errors"
	"testing"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockCounter struct {
	mock.Mock
}

func (m *mockCounter) CatalogEvent(name string) {
	m.Called(name)
}

func TestDispatcher_PublishCountsAndDelivers(t *testing.T) {
	counter := &mockCounter{}
	counter.On("CatalogEvent", "recipe.composed").Once()
	counter.On("CatalogEvent", "recipe.decomposed").Once()

	dispatcher := NewDispatcher(counter, zap.NewNop())
	var delivered []int64
	dispatcher.Register("recipe.composed", func(ctx context.Context, event shared.DomainEvent) error {
		delivered = append(delivered, event.(recipe.RecipeComposedEvent).RecipeID)
		return nil
	})

	err := dispatcher.Publish(context.Background(),
		recipe.NewRecipeComposedEvent(7, "Soup", 1),
		recipe.NewRecipeDecomposedEvent(8),
	)

	assert.NoError(t, err)
	assert.Equal(t, []int64{7}, delivered)
	counter.AssertExpectations(t)
}

func TestDispatcher_HandlerFailuresAreJoined(t *testing.T) {
	dispatcher := NewDispatcher(nil, zap.NewNop())
	first := errors.New("first")
	calls := 0
	dispatcher.Register("recipe.updated", func(context.Context, shared.DomainEvent) error {
		calls++
		return first
	})
	dispatcher.Register("recipe.updated", func(context.Context, shared.DomainEvent) error {
		calls++
		return nil
	})

	err := dispatcher.Publish(context.Background(), recipe.NewRecipeUpdatedEvent(1, recipe.FieldName))

	assert.ErrorIs(t, err, first)
	assert.Equal(t, 2, calls)
}
