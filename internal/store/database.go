package store

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"remindly/internal/model"
)

// reminderRow is the gorm mapping of one reminder table row. The
// auto-incremented primary key provides the stable, append-ordered row id.
type reminderRow struct {
	ID        uint   `gorm:"primaryKey"`
	Recipient string `gorm:"not null"`
	Task      string `gorm:"type:text;not null"`
	Time      string `gorm:"not null"`
	Status    string `gorm:"not null;default:Pending"`
}

func (reminderRow) TableName() string { return "reminders" }

// DatabaseStore keeps reminders in a SQL table behind gorm.
type DatabaseStore struct {
	db *gorm.DB
}

// OpenDatabase creates a database-backed store. When databaseURL is provided
// PostgreSQL is used, otherwise a local SQLite file.
func OpenDatabase(databaseURL string) (*DatabaseStore, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)
	if databaseURL != "" {
		db, err = gorm.Open(postgres.Open(databaseURL), gormConfig)
	} else {
		db, err = gorm.Open(sqlite.Open("reminders.db"), gormConfig)
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&reminderRow{}); err != nil {
		return nil, err
	}
	return &DatabaseStore{db: db}, nil
}

// VerifySchema checks that the reminders table declares every expected
// column.
func (s *DatabaseStore) VerifySchema(ctx context.Context) error {
	migrator := s.db.WithContext(ctx).Migrator()
	if !migrator.HasTable(&reminderRow{}) {
		return fmt.Errorf("reminders table does not exist")
	}
	for _, column := range []string{"recipient", "task", "time", "status"} {
		if !migrator.HasColumn(&reminderRow{}, column) {
			return fmt.Errorf("reminders table is missing the %q column", column)
		}
	}
	return nil
}

func (s *DatabaseStore) Append(ctx context.Context, rec model.Reminder) (int, error) {
	row := reminderRow{
		Recipient: rec.Recipient,
		Task:      rec.Task,
		Time:      rec.Time,
		Status:    string(rec.Status),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("append reminder: %w", err)
	}
	return int(row.ID), nil
}

func (s *DatabaseStore) ListAll(ctx context.Context) ([]Row, error) {
	var raw []reminderRow
	if err := s.db.WithContext(ctx).Order("id asc").Find(&raw).Error; err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, decodeRow(int(r.ID), r.Recipient, r.Task, r.Time, r.Status))
	}
	return rows, nil
}

func (s *DatabaseStore) UpdateStatus(ctx context.Context, id int, status model.Status) error {
	result := s.db.WithContext(ctx).
		Model(&reminderRow{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return fmt.Errorf("update status of row %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update status: row %d does not exist", id)
	}
	return nil
}
