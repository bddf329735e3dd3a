package db

import (
	"fmt"

	"hearthbutler/entity"
	"hearthbutler/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the PostgreSQL connection and returns the gorm handle.
func InitDB(c *entity.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresConfig.Host, c.PostgresConfig.User, c.PostgresConfig.Password,
		c.PostgresConfig.DBName, c.PostgresConfig.Port, c.PostgresConfig.SSLMode)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("could not connect to database", zap.Error(err))
		return nil, err
	}
	logger.Info("database connection established")
	return gdb, nil
}

// Close shuts the underlying sql.DB down.
func Close(gdb *gorm.DB) {
	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("failed to retrieve sql.DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("error closing the database connection", zap.Error(err))
	}
}
