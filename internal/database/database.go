package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"corpsite/internal/config"
)

// InitDatabase 使用配置初始化 PostgreSQL 连接，并返回 GORM 数据库实例。
func InitDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate 创建 / 更新所有资源表。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&NewsArticle{},
		&JobListing{},
		&JobApplication{},
		&TeamMember{},
		&Partner{},
		&ContactMessage{},
	)
}

// ListTables returns the table names visible to the connected database,
// used by the connectivity diagnostic endpoint.
func ListTables(db *gorm.DB) ([]string, error) {
	if db.Dialector.Name() == "postgres" {
		var tables []string
		err := db.Raw(
			`SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = 'public' ORDER BY tablename`,
		).Scan(&tables).Error
		if err != nil {
			return nil, err
		}
		return tables, nil
	}
	return db.Migrator().GetTables()
}
