package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-intake/internal/store"
)

func TestEnumValidity(t *testing.T) {
	assert.True(t, store.WorkflowMigrate.Valid())
	assert.True(t, store.WorkflowNewSite.Valid())
	assert.False(t, store.Workflow("rebuild").Valid())

	assert.True(t, store.ModeFull.Valid())
	assert.True(t, store.ModeQuickstart.Valid())
	assert.False(t, store.Mode("").Valid())

	assert.True(t, store.StatusDraft.Valid())
	assert.True(t, store.StatusImported.Valid())
	assert.False(t, store.Status("archived").Valid())
}

func TestFileCategoryNormalize(t *testing.T) {
	assert.Equal(t, store.CategoryLogo, store.CategoryLogo.Normalize())
	assert.Equal(t, store.CategoryOther, store.FileCategory("weird").Normalize())
	assert.Equal(t, store.CategoryOther, store.FileCategory("").Normalize())
}

func TestRecordExpired(t *testing.T) {
	now := time.Now()
	record := store.IntakeRecord{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, record.Expired(now))
	assert.True(t, record.Expired(now.Add(2*time.Hour)))

	assert.False(t, store.IntakeRecord{}.Expired(now), "zero expiry never expires")
}
