package database

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-events/api/config"
	"github.com/campus-events/api/model"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type GORMStore struct {
	db *gorm.DB
}

// StartGORM opens the database selected by DB_DRIVER
func StartGORM(env *config.EnvironmentVariable) (*GORMStore, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if env.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	switch env.DB_DRIVER {
	case DriverSQLite:
		return OpenSQLite(env.DB_PATH, gormLogger)
	case DriverPostgres, "":
		return openPostgres(env, gormLogger)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DB_DRIVER)
	}
}

func openPostgres(env *config.EnvironmentVariable, gormLogger logger.Interface) (*GORMStore, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.DB_HOST,
		env.DB_USER_NAME,
		env.DB_PASSWORD,
		env.DB_NAME,
		env.DB_PORT,
		env.DB_SSL_MODE,
	)

	store, err := OpenPostgres(dsn, gormLogger)
	if err != nil {
		log.Error().Err(err).Msg("unable to connect to PostgreSQL")
		return nil, err
	}

	log.Info().Str("host", env.DB_HOST).Str("db", env.DB_NAME).Msg("connected to PostgreSQL")
	return store, nil
}

// OpenPostgres opens a PostgreSQL connection pool for dsn
func OpenPostgres(dsn string, gormLogger logger.Interface) (*GORMStore, error) {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		PrepareStmt:    true,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &GORMStore{db: db}, nil
}

// OpenSQLite opens a SQLite database file. The pool holds a single connection so
// transactions serialize in process; SQLite has no row locks.
func OpenSQLite(path string, gormLogger logger.Interface) (*GORMStore, error) {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	dsn := path + "?_pragma=busy_timeout(10000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	log.Info().Str("path", path).Msg("opened SQLite database")

	return &GORMStore{db: db}, nil
}

// Init runs AutoMigrate for all models
func (s *GORMStore) Init() error {
	log.Info().Msg("running AutoMigrate")

	err := s.db.AutoMigrate(
		// Identity
		&model.Admin{},
		&model.Student{},

		// Catalog and ledger
		&model.Event{},
		&model.Registration{},

		// Token blacklist
		&model.JWTTokenBlacklist{},

		// Audit & logging models
		&model.AdminAuditLog{},
		&model.CronJobLog{},
	)
	if err != nil {
		log.Error().Err(err).Msg("AutoMigrate failed")
		return err
	}

	log.Info().Msg("AutoMigrate completed")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in services/handlers
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
