package database

import (
	"sync"
	"time"

	"searchkit/config"
	"searchkit/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var (
	db *gorm.DB
	mu sync.Mutex
)

// connect opens the DB and applies pool configuration
func connect() (*gorm.DB, error) {
	conn, err := gorm.Open(mysql.Open(config.Cfg.Dns), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(config.Cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.Cfg.Database.MaxOpenConns)
	lifetime := time.Duration(config.Cfg.Database.MaxLifetime) * time.Minute
	sqlDB.SetConnMaxIdleTime(lifetime)
	sqlDB.SetConnMaxLifetime(lifetime)

	return conn, nil
}

// GetDB returns a healthy *gorm.DB, connecting lazily on first use and
// reconnecting when the pool went away.
func GetDB() (*gorm.DB, error) {
	mu.Lock()
	defer mu.Unlock()

	if db != nil {
		sqlDB, err := db.DB()
		if err == nil && sqlDB.Ping() == nil {
			return db, nil
		}
	}

	conn, err := connect()
	if err != nil {
		logger.Error(err, "database: failed to connect to database")
		return nil, err
	}
	db = conn
	return db, nil
}
