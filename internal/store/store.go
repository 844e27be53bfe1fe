// Package store persists intake records and file metadata in Postgres via
// gorm. Blob content is stored elsewhere; rows here carry only keys.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound reports a missing record or file.
var ErrNotFound = errors.New("store: not found")

// Store wraps the gorm handle.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := db.AutoMigrate(&IntakeRecord{}, &IntakeFile{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing gorm handle, used by tests.
func NewWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new intake record, assigning an ID when absent.
func (s *Store) Create(ctx context.Context, record *IntakeRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("store: create intake: %w", err)
	}
	return nil
}

// ByToken loads one intake by its public token.
func (s *Store) ByToken(ctx context.Context, token string) (IntakeRecord, error) {
	var record IntakeRecord
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return IntakeRecord{}, ErrNotFound
	}
	if err != nil {
		return IntakeRecord{}, fmt.Errorf("store: load intake: %w", err)
	}
	return record, nil
}

// UpdateStatus sets the lifecycle status.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result := s.db.WithContext(ctx).Model(&IntakeRecord{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("store: update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSubmitted sets status to submitted and stamps the submission time.
func (s *Store) MarkSubmitted(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := s.db.WithContext(ctx).Model(&IntakeRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       StatusSubmitted,
			"submitted_at": at,
		})
	if result.Error != nil {
		return fmt.Errorf("store: mark submitted: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Touch bumps updated_at, used when a partial response comes in.
func (s *Store) Touch(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&IntakeRecord{}).
		Where("id = ?", id).
		Update("updated_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("store: touch intake: %w", result.Error)
	}
	return nil
}

// CreateFile records one uploaded file's metadata.
func (s *Store) CreateFile(ctx context.Context, file *IntakeFile) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	file.Category = file.Category.Normalize()
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("store: create file: %w", err)
	}
	return nil
}

// FilesByIntake lists an intake's files, oldest first.
func (s *Store) FilesByIntake(ctx context.Context, intakeID uuid.UUID) ([]IntakeFile, error) {
	var files []IntakeFile
	err := s.db.WithContext(ctx).
		Where("intake_id = ?", intakeID).
		Order("created_at asc").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("store: list files: %w", err)
	}
	return files, nil
}

// FileByID loads one file scoped to its intake so a token cannot read
// another intake's uploads.
func (s *Store) FileByID(ctx context.Context, intakeID, fileID uuid.UUID) (IntakeFile, error) {
	var file IntakeFile
	err := s.db.WithContext(ctx).
		Where("id = ? AND intake_id = ?", fileID, intakeID).
		First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return IntakeFile{}, ErrNotFound
	}
	if err != nil {
		return IntakeFile{}, fmt.Errorf("store: load file: %w", err)
	}
	return file, nil
}
