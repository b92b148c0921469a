package db

import (
	"fmt"
	"strings"
	"time"

	"hellfire/internal/models"
	"hellfire/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// Init opens the store named by dsn and migrates it.
func Init(dsn string) (*gorm.DB, error) {
	conn, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Open connects to PostgreSQL when dsn looks like a PG DSN, otherwise treats
// dsn as a SQLite file path.
func Open(dsn string) (*gorm.DB, error) {
	dialector, kind := dialectorFor(dsn)

	conn, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", kind, err)
	}

	logger.Log.Info("Database connection established", zap.String("driver", kind))
	return conn, nil
}

// newGormLogger sends gorm's warnings (slow queries, errors) to zap. Misses on
// First are expected lookups, not problems.
func newGormLogger() gormlogger.Interface {
	writer, err := zap.NewStdLogAt(logger.Log, zap.WarnLevel)
	if err != nil {
		return gormlogger.Discard
	}
	return gormlogger.New(writer, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.User{},
		&models.Topic{},
		&models.Comment{},
		&models.Like{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Log.Info("Database migration completed")
	return nil
}

func dialectorFor(dsn string) (gorm.Dialector, string) {
	if IsPostgresDSN(dsn) {
		return postgres.Open(dsn), "postgres"
	}
	return sqlite.Open(sqliteDSN(dsn)), "sqlite"
}

// sqliteDSN makes transactions take the write lock at BEGIN, so concurrent
// writers queue on the busy timeout instead of failing on lock upgrade.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_txlock=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_txlock=immediate"
}

func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
