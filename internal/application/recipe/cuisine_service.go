package recipe

import (
	"context"
	"fmt"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/ports/inbound"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	apperrors "github.com/esasma/API-Recettes/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CuisineService implements the cuisine use cases
type CuisineService struct {
	store      outbound.CatalogStore
	details    *DetailCache
	events     outbound.EventPublisher
	reassigner *Reassigner
	validate   *validator.Validate
	logger     *zap.Logger
}

var _ inbound.CuisineService = (*CuisineService)(nil)

// NewCuisineService creates a new cuisine service
func NewCuisineService(
	store outbound.CatalogStore,
	details *DetailCache,
	events outbound.EventPublisher,
	logger *zap.Logger,
) *CuisineService {
	return &CuisineService{
		store:      store,
		details:    details,
		events:     events,
		reassigner: NewReassigner(store, NewResolver(logger), logger),
		validate:   newValidator(),
		logger:     logger.Named("cuisine-service"),
	}
}

// AddCuisine creates a cuisine; names are unique
func (s *CuisineService) AddCuisine(ctx context.Context, cmd inbound.AddCuisineCommand) (dto *inbound.CuisineDTO, err error) {
	ctx, span := startSpan(ctx, "CuisineService.AddCuisine", attribute.String("cuisine.name", cmd.Name))
	defer func() { endSpan(span, err) }()

	if err := validateCommand(s.validate, cmd); err != nil {
		return nil, err
	}
	ref, err := recipe.NewReference(recipe.KindCuisine, cmd.Name)
	if err != nil {
		return nil, toAppError("add cuisine", err)
	}

	var cuisineID int64
	err = s.store.Transaction(ctx, func(tx outbound.CatalogTx) error {
		id, created, err := tx.InsertReference(ctx, ref)
		if err != nil {
			return err
		}
		if !created {
			return apperrors.NewConflictError(fmt.Sprintf("Cuisine %q already exists", ref.Name))
		}
		cuisineID = id
		return nil
	})
	if err != nil {
		return nil, toAppError("add cuisine", err)
	}

	s.logger.Info("Cuisine added", zap.Int64("cuisine_id", cuisineID), zap.String("name", ref.Name))
	return &inbound.CuisineDTO{ID: cuisineID, Name: ref.Name}, nil
}

// DeleteCuisine deletes a cuisine after moving its recipes to the fallback cuisine
func (s *CuisineService) DeleteCuisine(ctx context.Context, cuisineID int64) (dto *inbound.CuisineDeletionDTO, err error) {
	ctx, span := startSpan(ctx, "CuisineService.DeleteCuisine", attribute.Int64("cuisine.id", cuisineID))
	defer func() { endSpan(span, err) }()

	result, err := s.reassigner.DeleteCuisine(ctx, cuisineID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("recipes.reassigned", len(result.ReassignedRecipes)))

	s.details.Invalidate(ctx, result.ReassignedRecipes...)
	publishEvents(ctx, s.events, s.logger, recipe.NewCuisineReassignedEvent(*result))

	return &inbound.CuisineDeletionDTO{
		CuisineID:         result.DeletedCuisineID,
		FallbackCuisineID: result.FallbackCuisineID,
		FallbackCreated:   result.FallbackCreated,
		ReassignedRecipes: result.ReassignedRecipes,
		Deleted:           result.CuisineDeleted,
	}, nil
}
