// Package sqlite provides SQLite database setup for development and tests
package sqlite

import (
	"fmt"
	"time"

	gormrepo "github.com/esasma/API-Recettes/internal/infrastructure/persistence/gorm"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Options configures the SQLite database
type Options struct {
	// Path of the database file; empty means a private in-memory database
	Path               string
	LogLevel           string
	SlowQueryThreshold time.Duration
}

// SetupDatabase opens the SQLite database with foreign keys enforced and
// migrates the catalog schema.
func SetupDatabase(opts Options, log *zap.Logger) (*gorm.DB, error) {
	dsn := dataSourceName(opts.Path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormrepo.NewLogger(log, opts.LogLevel, opts.SlowQueryThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps an
	// in-memory database alive for the lifetime of the pool.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := gormrepo.AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func dataSourceName(path string) string {
	if path == "" {
		return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	}
	return fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000", path)
}

// SeedDatabase populates an empty catalog with starter reference data
func SeedDatabase(db *gorm.DB) error {
	var cuisineCount int64
	if err := db.Model(&gormrepo.CuisineModel{}).Count(&cuisineCount).Error; err != nil {
		return fmt.Errorf("failed to count cuisines: %w", err)
	}
	if cuisineCount > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		cuisines := []gormrepo.CuisineModel{{Name: "Italian"}, {Name: "Mexican"}, {Name: "Japanese"}, {Name: "Indian"}}
		if err := tx.Create(&cuisines).Error; err != nil {
			return fmt.Errorf("failed to seed cuisines: %w", err)
		}

		goals := []gormrepo.GoalModel{{Name: "Weight Loss"}, {Name: "Muscle Gain"}, {Name: "Maintenance"}}
		if err := tx.Create(&goals).Error; err != nil {
			return fmt.Errorf("failed to seed goals: %w", err)
		}

		dietary := []gormrepo.DietaryTagModel{{Name: "Vegetarian"}, {Name: "Vegan"}, {Name: "Gluten Free"}}
		if err := tx.Create(&dietary).Error; err != nil {
			return fmt.Errorf("failed to seed dietary tags: %w", err)
		}

		allergies := []gormrepo.AllergyTagModel{{Name: "Peanuts"}, {Name: "Dairy"}, {Name: "Shellfish"}}
		if err := tx.Create(&allergies).Error; err != nil {
			return fmt.Errorf("failed to seed allergy tags: %w", err)
		}

		ingredients := []gormrepo.IngredientModel{
			{Name: "Tomato", Unit: "piece"},
			{Name: "Rice", Unit: "grams"},
			{Name: "Olive Oil", Unit: "tbsp"},
			{Name: "Chicken Breast", Unit: "grams"},
		}
		if err := tx.Create(&ingredients).Error; err != nil {
			return fmt.Errorf("failed to seed ingredients: %w", err)
		}

		return nil
	})
}
