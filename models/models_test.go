package models

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "models.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestParseTagList(t *testing.T) {
	assert.Equal(t, TagList{"go", "rust", "web dev"}, ParseTagList(" go, rust ,, web dev ,"))
	assert.Empty(t, ParseTagList(""))
	assert.Empty(t, ParseTagList(" , ,"))
	assert.Equal(t, "go, rust", TagList{"go", "rust"}.String())
}

func TestDistinctTags(t *testing.T) {
	got := DistinctTags([]string{"Go, react", "go,Python", "", "python , CFD"})
	assert.Equal(t, []string{"CFD", "Go", "Python", "react"}, got)
	assert.Empty(t, DistinctTags(nil))
}

func TestResolvePublishedAt(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-48 * time.Hour)

	got := ResolvePublishedAt(true, nil, now)
	require.NotNil(t, got)
	assert.Equal(t, now, *got)

	got = ResolvePublishedAt(true, &earlier, now)
	require.NotNil(t, got)
	assert.Equal(t, earlier, *got)

	assert.Nil(t, ResolvePublishedAt(false, &earlier, now))
	assert.Nil(t, ResolvePublishedAt(false, nil, now))
}

func TestHooks(t *testing.T) {
	db := setupTestDB(t)

	t.Run("project planning clears end date", func(t *testing.T) {
		end := datatypes.Date(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
		p := Project{
			Name:                   "Planner",
			ShortDesc:              "short",
			StatusFlag:             StatusPlanning,
			StartDate:              datatypes.Date(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			EndDate:                &end,
			CollabMode:             CollabSolo,
			Affiliation:            "Self",
			AffiliationType:        AffiliationIndependent,
			SourceCodeAvailability: SourceOpen,
			TechStacks:             "Go",
		}
		require.NoError(t, db.Create(&p).Error)
		assert.NotEqual(t, uuid.Nil, p.ID)

		var stored Project
		require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
		assert.Nil(t, stored.EndDate)
		assert.False(t, stored.HasImage)
	})

	t.Run("blog post publish timestamps", func(t *testing.T) {
		published := BlogPost{Title: "A", Slug: "a", Excerpt: "e", Content: "c", Published: true}
		require.NoError(t, db.Create(&published).Error)
		require.NotNil(t, published.PublishedAt)
		assert.WithinDuration(t, time.Now(), *published.PublishedAt, 5*time.Second)

		stamp := time.Now().Add(-time.Hour)
		draft := BlogPost{Title: "B", Slug: "b", Excerpt: "e", Content: "c", PublishedAt: &stamp}
		require.NoError(t, db.Create(&draft).Error)
		assert.Nil(t, draft.PublishedAt)

		var stored BlogPost
		require.NoError(t, db.First(&stored, "id = ?", draft.ID).Error)
		assert.Nil(t, stored.PublishedAt)
	})

	t.Run("has image flag comes from image type", func(t *testing.T) {
		mime := "image/png"
		item := GalleryItem{Title: "pic", MediaType: MediaImage, Image: []byte{1, 2, 3}, ImageType: &mime}
		require.NoError(t, db.Create(&item).Error)

		var stored GalleryItem
		require.NoError(t, db.Omit("image").First(&stored, "id = ?", item.ID).Error)
		assert.True(t, stored.HasImage)
		assert.Empty(t, stored.Image)
	})
}

func TestColumnMismatchReport(t *testing.T) {
	db := setupTestDB(t)

	report, err := ColumnMismatchReport(db)
	require.NoError(t, err)
	assert.Zero(t, report.Total())
	assert.Empty(t, report.Missing)

	require.NoError(t, db.Exec("ALTER TABLE projects ADD COLUMN legacy_slug text").Error)
	require.NoError(t, db.Migrator().DropTable(&ContactMessage{}))

	report, err = ColumnMismatchReport(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy_slug"}, report.Mismatches["projects"])
	assert.Equal(t, []string{"contact_messages"}, report.Missing)
	assert.Equal(t, 1, report.Total())
}
