package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simshi01/thansgiving-day/app/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Option configures a driver.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithNow replaces the clock used for created_at.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Dialector picks the gorm dialect for a driver name.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return sqlite.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	}
	return nil, fmt.Errorf("db: %q: %w", driver, ErrUnknownDriver)
}

// Connect opens a gorm connection with query logging silenced.
func Connect(driver, dsn string) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect %s: %w", driver, err)
	}
	return conn, nil
}

// Migrate creates or updates the messages table. Safe to run repeatedly.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.Message{}); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// GormDriver is the SQL message store.
type GormDriver struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormDriver(conn *gorm.DB, opts ...Option) *GormDriver {
	o := buildOptions(opts)
	return &GormDriver{db: conn, now: o.now}
}

func (gd *GormDriver) CreateMessage(ctx context.Context, text string, x, y *int, duration float64) (models.Message, error) {
	msg := models.Message{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: gd.now().UTC(),
		IsActive:  true,
		PositionX: x,
		PositionY: y,
		Duration:  duration,
	}
	if err := gd.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return models.Message{}, fmt.Errorf("db: %w: %w", ErrMessageNotCreated, err)
	}
	return msg, nil
}

func (gd *GormDriver) GetMessages(ctx context.Context, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := gd.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("db: list messages: %w", err)
	}
	return msgs, nil
}

func (gd *GormDriver) GetMessagesSince(ctx context.Context, since time.Time) ([]models.Message, error) {
	var msgs []models.Message
	err := gd.db.WithContext(ctx).
		Where("is_active = ? AND created_at >= ?", true, since.UTC()).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("db: list messages since %s: %w", since.Format(time.RFC3339), err)
	}
	return msgs, nil
}

func (gd *GormDriver) GetAllMessages(ctx context.Context) ([]models.Message, error) {
	var msgs []models.Message
	err := gd.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("db: list all messages: %w", err)
	}
	return msgs, nil
}

func (gd *GormDriver) DeleteMessage(ctx context.Context, id string) error {
	res := gd.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Message{})
	if res.Error != nil {
		return fmt.Errorf("db: delete message %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (gd *GormDriver) DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := gd.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("is_active = ? AND created_at < ?", true, cutoff.UTC()).
		Update("is_active", false)
	if res.Error != nil {
		return 0, fmt.Errorf("db: deactivate messages: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (gd *GormDriver) Close() error {
	sqlDB, err := gd.db.DB()
	if err != nil {
		return fmt.Errorf("db: close: %w", err)
	}
	return sqlDB.Close()
}
