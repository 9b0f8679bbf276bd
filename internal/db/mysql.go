package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQL returns a connected GORM DB instance. The handle is constructed
// once in main and passed explicitly to every component that needs it.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Close releases the underlying connection pool. Invoked from the process
// shutdown hook.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql db: %w", err)
	}
	return sqlDB.Close()
}

// Ping verifies database connectivity. Backs the health endpoint.
func Ping(db *gorm.DB) error {
	var one int
	return db.Raw("SELECT 1").Scan(&one).Error
}
