package store

import (
	"time"

	"github.com/google/uuid"
)

// Workflow classifies the engagement an intake belongs to.
type Workflow string

const (
	WorkflowMigrate Workflow = "migrate"
	WorkflowNewSite Workflow = "newsite"
)

// Valid reports whether w is a known workflow.
func (w Workflow) Valid() bool {
	switch w {
	case WorkflowMigrate, WorkflowNewSite:
		return true
	}
	return false
}

// Mode is the delivery mode agreed with the client.
type Mode string

const (
	ModeFull       Mode = "full"
	ModePRD        Mode = "prd"
	ModeAutonomous Mode = "autonomous"
	ModeQuickstart Mode = "quickstart"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeFull, ModePRD, ModeAutonomous, ModeQuickstart:
		return true
	}
	return false
}

// Status tracks an intake through its lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusSubmitted Status = "submitted"
	StatusImported  Status = "imported"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusSubmitted, StatusImported:
		return true
	}
	return false
}

// FileCategory groups uploads for blob key layout and agent review.
type FileCategory string

const (
	CategoryLogo     FileCategory = "logo"
	CategoryPhoto    FileCategory = "photo"
	CategoryDocument FileCategory = "document"
	CategoryOther    FileCategory = "other"
)

// Normalize maps unknown categories to CategoryOther.
func (c FileCategory) Normalize() FileCategory {
	switch c {
	case CategoryLogo, CategoryPhoto, CategoryDocument, CategoryOther:
		return c
	}
	return CategoryOther
}

// IntakeRecord is one client intake.
type IntakeRecord struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Token        string     `gorm:"size:64;uniqueIndex;not null"`
	ProjectName  string     `gorm:"size:255;not null"`
	Workflow     Workflow   `gorm:"size:16;not null"`
	Mode         Mode       `gorm:"size:16;not null"`
	Status       Status     `gorm:"size:16;not null;default:draft"`
	PasswordHash *string    `gorm:"size:255"`
	SubmittedAt  *time.Time
	ExpiresAt    time.Time `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Files []IntakeFile `gorm:"foreignKey:IntakeID"`
}

// TableName keeps the original table naming.
func (IntakeRecord) TableName() string { return "intake_records" }

// Expired reports whether the record is past its expiry at the given time.
func (r IntakeRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// IntakeFile is one uploaded file's metadata; content lives in the blob store.
type IntakeFile struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	IntakeID     uuid.UUID    `gorm:"type:uuid;index;not null"`
	Filename     string       `gorm:"size:255;not null"`
	OriginalName string       `gorm:"size:255;not null"`
	MimeType     string       `gorm:"size:128;not null"`
	SizeBytes    int64        `gorm:"not null"`
	BlobKey      string       `gorm:"size:512;not null"`
	Category     FileCategory `gorm:"size:16;not null;default:other"`
	CreatedAt    time.Time
}

// TableName keeps the original table naming.
func (IntakeFile) TableName() string { return "intake_files" }
