package database

import (
	"log"

	"mgtu_lab_backend/internal/config"
	"mgtu_lab_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB открывает файл sqlite и прогоняет миграции. Схема совпадает со
// схемой преподавательского приложения: оба работают с одной базой.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.Student{},
		&model.LabWork{},
		&model.Question{},
		&model.Result{},
		&model.Image{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}
