package db

import (
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/db/models"
)

type DB struct {
	DB *gorm.DB
}

func New(dsn string, logLevel logger.LogLevel) (*DB, error) {
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	return &DB{DB: gormDB}, nil
}

// UpdateSchema migrates the database to the current schema.
func (d *DB) UpdateSchema() error {
	if err := d.DB.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
	); err != nil {
		return errors.Wrap(err, "could not migrate schema")
	}

	return nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
