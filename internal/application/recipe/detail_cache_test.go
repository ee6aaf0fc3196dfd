package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/esasma/API-Recettes/internal/infrastructure/persistence/memory"
	"github.com/esasma/API-Recettes/internal/ports/inbound"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type DetailCacheSuite struct {
	suite.Suite
	ctx     context.Context
	cache   *memory.CacheRepository
	details *DetailCache
}

func TestDetailCacheSuite(t *testing.T) {
	suite.Run(t, new(DetailCacheSuite))
}

func (s *DetailCacheSuite) SetupTest() {
	s.ctx = context.Background()
	s.cache = memory.NewCacheRepository(0)
	s.details = NewDetailCache(s.cache, time.Minute, zap.NewNop())
}

func (s *DetailCacheSuite) SetupSubTest() {
	s.TearDownTest()
	s.SetupTest()
}

func (s *DetailCacheSuite) TearDownTest() {
	s.cache.Close()
}

func (s *DetailCacheSuite) TestFill() {
	s.Run("CurrentGeneration_ShouldCache", func() {
		// Arrange
		generation := s.details.Generation()

		// Act
		s.details.Fill(s.ctx, 7, &inbound.RecipeDetailDTO{ID: 7, Name: "Soup"}, generation)

		// Assert
		cached, ok := s.details.Get(s.ctx, 7)
		s.Require().True(ok)
		s.Equal("Soup", cached.Name)
	})

	s.Run("InvalidatedSinceLoad_ShouldSkip", func() {
		// Arrange
		generation := s.details.Generation()
		s.details.Invalidate(s.ctx, 7)

		// Act
		s.details.Fill(s.ctx, 7, &inbound.RecipeDetailDTO{ID: 7, Name: "Stale"}, generation)

		// Assert
		_, ok := s.details.Get(s.ctx, 7)
		s.False(ok)
		_, err := s.cache.Get(s.ctx, recipeDetailKey(7))
		s.ErrorIs(err, outbound.ErrCacheMiss)
	})

	s.Run("InvalidationOfOtherRecipe_ShouldAlsoSkip", func() {
		// Arrange
		generation := s.details.Generation()
		s.details.Invalidate(s.ctx, 8)

		// Act
		s.details.Fill(s.ctx, 7, &inbound.RecipeDetailDTO{ID: 7, Name: "Soup"}, generation)

		// Assert
		_, ok := s.details.Get(s.ctx, 7)
		s.False(ok)
	})
}

func (s *DetailCacheSuite) TestInvalidate() {
	s.Run("CachedDetail_ShouldBeRemovedAndGenerationBumped", func() {
		// Arrange
		s.details.Fill(s.ctx, 7, &inbound.RecipeDetailDTO{ID: 7}, s.details.Generation())
		before := s.details.Generation()

		// Act
		s.details.Invalidate(s.ctx, 7)

		// Assert
		_, ok := s.details.Get(s.ctx, 7)
		s.False(ok)
		s.Equal(before+1, s.details.Generation())
	})

	s.Run("NoRecipes_ShouldKeepGeneration", func() {
		// Arrange
		before := s.details.Generation()

		// Act
		s.details.Invalidate(s.ctx)

		// Assert
		s.Equal(before, s.details.Generation())
	})
}

func (s *DetailCacheSuite) TestGet_UndecodableEntry_ShouldMiss() {
	// Arrange
	s.Require().NoError(s.cache.Set(s.ctx, recipeDetailKey(3), []byte("{"), time.Minute))

	// Act
	_, ok := s.details.Get(s.ctx, 3)

	// Assert
	s.False(ok)
}
