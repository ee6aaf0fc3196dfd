package container

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/esasma/API-Recettes/internal/infrastructure/config"
	"github.com/esasma/API-Recettes/internal/infrastructure/http/apiserver"
	"github.com/esasma/API-Recettes/internal/ports/inbound"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = ""
	cfg.Database.Seed = true
	cfg.Redis.Enabled = false
	cfg.Monitoring.EnableTracing = false
	cfg.App.LogLevel = "error"
	return cfg
}

func TestModule_GraphIsComplete(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Module))
}

func TestModule_WiresCatalogOverSeededSQLite(t *testing.T) {
	var (
		server  *apiserver.Server
		recipes inbound.RecipeService
		cache   outbound.CacheRepository
	)

	app := fxtest.New(t,
		fx.Supply(testConfig(t)),
		LoggerModule,
		MonitoringModule,
		DatabaseModule,
		CacheModule,
		RepositoryModule,
		EventModule,
		ServiceModule,
		HTTPModule,
		fx.Populate(&server, &recipes, &cache),
	)
	app.RequireStart()
	defer app.RequireStop()

	// Arrange
	id, err := recipes.CreateRecipe(context.Background(), inbound.CreateRecipeCommand{
		Name:      "Risotto",
		CuisineID: 1,
		GoalName:  "Maintenance",
		Ingredients: []inbound.IngredientQuantity{
			{IngredientID: 2, Quantity: "300"},
		},
		Instructions: []inbound.InstructionInput{
			{StepNumber: 1, Text: "Toast the rice"},
		},
	})
	require.NoError(t, err)

	// Act
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recipes", nil))

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var list []inbound.RecipeSummaryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	health := httptest.NewRecorder()
	server.Handler().ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, health.Code)

	_, err = recipes.GetRecipe(context.Background(), id)
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), fmt.Sprintf("recipe:detail:%d", id))
	assert.NoError(t, err, "detail reads go through the configured cache")
}
