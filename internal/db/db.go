package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/meetsched/meeting-scheduler/internal/config"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.AvailabilityRule{},
		&models.EventType{},
		&models.Booking{},
		&models.BookingRequest{},
		&models.CalendarConnection{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	// The overlap checks in the use cases are check-then-insert; this
	// constraint makes the database the final arbiter so two concurrent
	// confirmations for the same host/time cannot both commit.
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_host_no_overlap`)
	db.Exec(`
        ALTER TABLE bookings
        ADD CONSTRAINT bookings_host_no_overlap
        EXCLUDE USING gist (
            host_id WITH =,
            tstzrange(start_time, end_time) WITH &&
        )
        WHERE (status = 'confirmed')
    `)

	db.Exec(`
        UPDATE users
        SET timezone = 'UTC'
        WHERE timezone IS NULL OR timezone = ''
    `)

	return db
}
