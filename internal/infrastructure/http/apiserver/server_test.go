package apiserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apprecipe "github.com/esasma/API-Recettes/internal/application/recipe"
	"github.com/esasma/API-Recettes/internal/infrastructure/config"
	"github.com/esasma/API-Recettes/internal/infrastructure/http/handlers"
	"github.com/esasma/API-Recettes/internal/infrastructure/monitoring"
	gormrepo "github.com/esasma/API-Recettes/internal/infrastructure/persistence/gorm"
	"github.com/esasma/API-Recettes/internal/infrastructure/persistence/memory"
	"github.com/esasma/API-Recettes/internal/infrastructure/persistence/sqlite"
	"github.com/esasma/API-Recettes/internal/ports/inbound"
	apperrors "github.com/esasma/API-Recettes/pkg/errors"
	"github.com/esasma/API-Recettes/pkg/healthcheck"
	"github.com/esasma/API-Recettes/test/testutils"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

// APIServerSuite drives the router end to end over an in-memory SQLite catalog
type APIServerSuite struct {
	suite.Suite
	db      *gorm.DB
	cache   *memory.CacheRepository
	metrics *monitoring.MetricsCollector
	handler http.Handler
	logs    *observer.ObservedLogs
}

func TestAPIServerSuite(t *testing.T) {
	suite.Run(t, new(APIServerSuite))
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "API-Recettes", Version: "test"},
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         0,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Monitoring: config.MonitoringConfig{
			EnableMetrics:   true,
			HealthCheckPath: "/health",
			ReadinessPath:   "/ready",
			MetricsPath:     "/metrics",
		},
	}
}

func (s *APIServerSuite) SetupTest() {
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core)
	s.logs = logs

	db, err := sqlite.SetupDatabase(sqlite.Options{}, logger)
	s.Require().NoError(err)
	s.db = db
	s.Require().NoError(db.Create(&[]gormrepo.CuisineModel{{ID: 1, Name: "Italian"}, {ID: 3, Name: "Mexican"}}).Error)
	s.Require().NoError(db.Create(&gormrepo.IngredientModel{ID: 5, Name: "Water", Unit: "cups"}).Error)

	store := gormrepo.NewCatalogStore(db, logger)
	s.cache = memory.NewCacheRepository(0)
	events := &testutils.RecordingPublisher{}
	details := apprecipe.NewDetailCache(s.cache, time.Minute, logger)
	s.metrics = monitoring.NewMetricsCollector(logger)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	health := healthcheck.New("test", logger)
	health.Register("database", healthcheck.NewDatabaseChecker(sqlDB))

	server := NewServer(testConfig(), logger, Dependencies{
		Recipes:  apprecipe.NewRecipeService(store, details, events, logger),
		Cuisines: apprecipe.NewCuisineService(store, details, events, logger),
		Health:   health,
		Metrics:  s.metrics,
	})
	s.handler = server.Handler()
}

func (s *APIServerSuite) SetupSubTest() {
	s.TearDownTest()
	s.SetupTest()
}

func (s *APIServerSuite) TearDownTest() {
	s.cache.Close()
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (s *APIServerSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APIServerSuite) decode(rec *httptest.ResponseRecorder, dst interface{}) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func (s *APIServerSuite) errorCode(rec *httptest.ResponseRecorder) apperrors.ErrorCode {
	var body apperrors.ErrorResponse
	s.decode(rec, &body)
	return body.Error.Code
}

func (s *APIServerSuite) soup(cuisineID int64) map[string]interface{} {
	return map[string]interface{}{
		"recipe_name":          "Soup",
		"cuisine_id":           cuisineID,
		"goal_name":            "Weight Loss",
		"dietary_info_names":   []string{"Vegan"},
		"allergies_info_names": []string{"Celery"},
		"ingredients_data":     []map[string]interface{}{{"ingredient_id": 5, "quantity": "2 cups"}},
		"instructions":         []map[string]interface{}{{"step_number": 1, "StepInstruction": "Boil"}},
	}
}

func (s *APIServerSuite) create(cuisineID int64) int64 {
	rec := s.do(http.MethodPost, "/recipes/add", s.soup(cuisineID))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created handlers.CreatedRecipeResponse
	s.decode(rec, &created)
	return created.RecipeID
}

func (s *APIServerSuite) TestRootRedirectsToRecipes() {
	rec := s.do(http.MethodGet, "/", nil)

	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/recipes", rec.Header().Get("Location"))
}

func (s *APIServerSuite) TestCreateAndReadRecipe() {
	// Arrange / Act
	id := s.create(1)
	rec := s.do(http.MethodGet, fmt.Sprintf("/recipes/%d", id), nil)

	// Assert
	s.Require().Equal(http.StatusOK, rec.Code)
	var detail inbound.RecipeDetailDTO
	s.decode(rec, &detail)
	s.Equal("Soup", detail.Name)
	s.Equal("Italian", detail.Cuisine)
	s.Equal("Weight Loss", detail.Goal)
	s.Equal([]string{"Vegan"}, detail.DietaryInfo)
	s.Equal([]string{"Celery"}, detail.Allergies)
	s.Require().Len(detail.Ingredients, 1)
	s.Equal("2 cups", detail.Ingredients[0].Quantity)
	s.Require().Len(detail.Instructions, 1)
	s.Equal("Boil", detail.Instructions[0].Text)
}

func (s *APIServerSuite) TestErrorMapping() {
	s.Run("InvalidCreate_ShouldReturn400", func() {
		body := s.soup(1)
		delete(body, "goal_name")

		rec := s.do(http.MethodPost, "/recipes/add", body)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(apperrors.CodeValidationFailed, s.errorCode(rec))
	})

	s.Run("DuplicateSteps_ShouldReturn500AndWriteNothing", func() {
		body := s.soup(1)
		body["instructions"] = []map[string]interface{}{
			{"step_number": 1, "StepInstruction": "Boil"},
			{"step_number": 1, "StepInstruction": "Boil again"},
		}

		rec := s.do(http.MethodPost, "/recipes/add", body)

		s.Equal(http.StatusInternalServerError, rec.Code)
		s.Equal(apperrors.CodeStorageError, s.errorCode(rec))
		var n int64
		s.Require().NoError(s.db.Table("recipes").Count(&n).Error)
		s.Zero(n)
	})

	s.Run("ServerError_ShouldLogStackTrace", func() {
		// Arrange
		body := s.soup(1)
		body["instructions"] = []map[string]interface{}{
			{"step_number": 2, "StepInstruction": "Boil"},
			{"step_number": 2, "StepInstruction": "Boil again"},
		}

		// Act
		rec := s.do(http.MethodPost, "/recipes/add", body)

		// Assert
		s.Require().Equal(http.StatusInternalServerError, rec.Code)
		failures := s.logs.FilterMessage("Request failed").All()
		s.Require().Len(failures, 1)
		fields := failures[0].ContextMap()
		s.Equal(string(apperrors.CodeStorageError), fields["code"])
		s.Contains(fields["stack"], "API-Recettes/internal/")
	})

	s.Run("ClientError_ShouldNotLogFailure", func() {
		// Act
		rec := s.do(http.MethodGet, "/recipes/9999", nil)

		// Assert
		s.Equal(http.StatusNotFound, rec.Code)
		s.Zero(s.logs.FilterMessage("Request failed").Len())
	})

	s.Run("NonNumericID_ShouldReturn400", func() {
		rec := s.do(http.MethodGet, "/recipes/soup", nil)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(apperrors.CodeBadRequest, s.errorCode(rec))
	})

	s.Run("UnknownRecipe_ShouldReturn404", func() {
		rec := s.do(http.MethodDelete, "/recipes/999/delete", nil)

		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("MalformedJSON_ShouldReturn400", func() {
		req := httptest.NewRequest(http.MethodPost, "/recipes/add", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		s.handler.ServeHTTP(rec, req)

		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("NonJSONBody_ShouldReturn415", func() {
		req := httptest.NewRequest(http.MethodPost, "/cuisines/add", bytes.NewBufferString("name=Thai"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		s.handler.ServeHTTP(rec, req)

		s.Equal(http.StatusUnsupportedMediaType, rec.Code)
	})

	s.Run("EmptyPatch_ShouldReturn400", func() {
		id := s.create(1)

		rec := s.do(http.MethodPut, fmt.Sprintf("/recipes/%d/update", id), map[string]interface{}{})

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *APIServerSuite) TestRecipeEditing() {
	id := s.create(1)

	rec := s.do(http.MethodPut, fmt.Sprintf("/recipes/%d/update", id), map[string]interface{}{"recipe_name": "Broth"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPut, fmt.Sprintf("/recipes/%d/instructions/1/update", id), map[string]interface{}{"StepInstruction": "Simmer"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPut, fmt.Sprintf("/recipes/%d/instructions/7/update", id), map[string]interface{}{"StepInstruction": "Serve"})
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, fmt.Sprintf("/recipes/%d/add/ingredients", id), map[string]interface{}{
		"name": "Salt", "quantity": "1 pinch", "unit": "pinch",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var lines []inbound.IngredientLineDTO
	s.decode(rec, &lines)
	s.Len(lines, 2)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/recipes/%d/ingredients/5/delete", id), nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, fmt.Sprintf("/recipes/%d", id), nil)
	var detail inbound.RecipeDetailDTO
	s.decode(rec, &detail)
	s.Equal("Broth", detail.Name)
	s.Equal("Simmer", detail.Instructions[0].Text)
	s.Require().Len(detail.Ingredients, 1)
	s.Equal("Salt", detail.Ingredients[0].Name)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/recipes/%d/instructions/%d/delete", id, detail.Instructions[0].ID), nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/recipes/%d/delete", id), nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, fmt.Sprintf("/recipes/%d", id), nil).Code)
}

func (s *APIServerSuite) TestListings() {
	first := s.create(1)
	second := s.create(3)

	var all []inbound.RecipeSummaryDTO
	s.decode(s.do(http.MethodGet, "/recipes", nil), &all)
	s.Len(all, 2)

	var mexican []inbound.RecipeSummaryDTO
	s.decode(s.do(http.MethodGet, "/recipes/cuisine/3", nil), &mexican)
	s.Require().Len(mexican, 1)
	s.Equal(second, mexican[0].ID)

	var byGoal []inbound.RecipeSummaryDTO
	s.decode(s.do(http.MethodGet, fmt.Sprintf("/recipes/goal/%d", all[0].GoalID), nil), &byGoal)
	s.Len(byGoal, 2)

	var celery int64
	s.Require().NoError(s.db.Table("allergy_tags").Select("id").Where("name = ?", "Celery").Scan(&celery).Error)
	var safe []inbound.RecipeSummaryDTO
	s.decode(s.do(http.MethodGet, fmt.Sprintf("/recipes/no-allergy/%d", celery), nil), &safe)
	s.Empty(safe)
	s.NotZero(first)
}

func (s *APIServerSuite) TestCuisines() {
	s.Run("AddCuisine_ShouldReturn201ThenConflict", func() {
		rec := s.do(http.MethodPost, "/cuisines/add", map[string]string{"name": "Thai"})
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		var cuisine inbound.CuisineDTO
		s.decode(rec, &cuisine)
		s.Equal("Thai", cuisine.Name)

		rec = s.do(http.MethodPost, "/cuisines/add", map[string]string{"name": "Thai"})
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("DeleteCuisine_ShouldReassignRecipes", func() {
		first := s.create(3)
		second := s.create(3)

		rec := s.do(http.MethodDelete, "/cuisines/3/delete", nil)

		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		var body struct {
			Message           string  `json:"message"`
			FallbackCreated   bool    `json:"fallback_created"`
			ReassignedRecipes []int64 `json:"reassigned_recipe_ids"`
			Deleted           bool    `json:"deleted"`
		}
		s.decode(rec, &body)
		s.True(body.FallbackCreated)
		s.True(body.Deleted)
		s.ElementsMatch([]int64{first, second}, body.ReassignedRecipes)

		var detail inbound.RecipeDetailDTO
		s.decode(s.do(http.MethodGet, fmt.Sprintf("/recipes/%d", first), nil), &detail)
		s.Equal("International", detail.Cuisine)
	})

	s.Run("DeleteInternational_ShouldReturn400", func() {
		rec := s.do(http.MethodPost, "/cuisines/add", map[string]string{"name": "International"})
		s.Require().Equal(http.StatusCreated, rec.Code)
		var cuisine inbound.CuisineDTO
		s.decode(rec, &cuisine)

		rec = s.do(http.MethodDelete, fmt.Sprintf("/cuisines/%d/delete", cuisine.ID), nil)

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *APIServerSuite) TestOperationalEndpoints() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health", nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/ready", nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/openapi.yaml", nil).Code)

	s.do(http.MethodGet, "/recipes", nil)
	rec := s.do(http.MethodGet, "/metrics", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `recettes_http_requests_total{method="GET"`)
}
