// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/domain/shared"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockCatalogStore provides a mock implementation of CatalogStore.
// Transaction runs fn against Tx when the expectation returns a nil error.
type MockCatalogStore struct {
	mock.Mock
	Tx *MockCatalogTx
}

// NewMockCatalogStore creates a new mock catalog store
func NewMockCatalogStore() *MockCatalogStore {
	return &MockCatalogStore{Tx: &MockCatalogTx{}}
}

// Transaction runs fn on the mock transaction
func (m *MockCatalogStore) Transaction(ctx context.Context, fn func(tx outbound.CatalogTx) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Tx)
}

// FindRecipeDetail finds a recipe detail
func (m *MockCatalogStore) FindRecipeDetail(ctx context.Context, recipeID int64) (*recipe.RecipeDetail, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.RecipeDetail), args.Error(1)
}

// ListRecipes lists recipes
func (m *MockCatalogStore) ListRecipes(ctx context.Context, filter recipe.ListFilter) ([]recipe.Recipe, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recipe.Recipe), args.Error(1)
}

// MockCatalogTx provides a mock implementation of CatalogTx
type MockCatalogTx struct {
	mock.Mock
}

func (m *MockCatalogTx) FindReferenceID(ctx context.Context, kind recipe.ReferenceKind, name string) (int64, bool, error) {
	args := m.Called(ctx, kind, name)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockCatalogTx) InsertReference(ctx context.Context, ref recipe.Reference) (int64, bool, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockCatalogTx) FindRecipe(ctx context.Context, recipeID int64) (*recipe.Recipe, bool, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*recipe.Recipe), args.Bool(1), args.Error(2)
}

func (m *MockCatalogTx) InsertRecipe(ctx context.Context, r recipe.Recipe) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogTx) UpdateRecipe(ctx context.Context, recipeID int64, changes []recipe.FieldChange) (int64, error) {
	args := m.Called(ctx, recipeID, changes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogTx) DeleteRecipe(ctx context.Context, recipeID int64) (int64, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogTx) InsertRecipeTag(ctx context.Context, kind recipe.ReferenceKind, recipeID, tagID int64) error {
	return m.Called(ctx, kind, recipeID, tagID).Error(0)
}

func (m *MockCatalogTx) DeleteRecipeTags(ctx context.Context, kind recipe.ReferenceKind, recipeID int64) (int64, error) {
	args := m.Called(ctx, kind, recipeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogTx) InsertIngredientLink(ctx context.Context, link recipe.IngredientLink) error {
	return m.Called(ctx, link).Error(0)
}

func (m *MockCatalogTx) DeleteIngredientLink(ctx context.Context, recipeID, ingredientID int64) (int64, error) {
	args := m.Called(ctx, recipeID, ingredientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogTx) DeleteIngredientLinks(ctx context.Context, recipeID int64) (int64, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogTx) ListIngredientLines(ctx context.Context, recipeID int64) ([]recipe.IngredientLine, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recipe.IngredientLine), args.Error(1)
}

func (m *MockCatalogTx) InsertInstructionStep(ctx context.Context, step recipe.InstructionStep) (int64, error) {
	args := m.Called(ctx, step)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogTx) UpdateInstructionText(ctx context.Context, recipeID int64, stepNumber int, text string) (int64, error) {
	args := m.Called(ctx, recipeID, stepNumber, text)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogTx) DeleteInstructionStep(ctx context.Context, recipeID, instructionID int64) (int64, error) {
	args := m.Called(ctx, recipeID, instructionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogTx) DeleteInstructionSteps(ctx context.Context, recipeID int64) (int64, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogTx) ReassignCuisine(ctx context.Context, fromCuisineID, toCuisineID int64) ([]int64, error) {
	args := m.Called(ctx, fromCuisineID, toCuisineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockCatalogTx) DeleteCuisine(ctx context.Context, cuisineID int64) (int64, error) {
	args := m.Called(ctx, cuisineID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

// RecordingPublisher captures published events for assertions
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	Err    error
}

// Publish records the events and returns Err
func (p *RecordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.Err
}

// Events returns the recorded events
func (p *RecordingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}

// EventNames returns the names of the recorded events in order
func (p *RecordingPublisher) EventNames() []string {
	events := p.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.EventName()
	}
	return names
}

// Reset forgets recorded events
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
