package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db            *gorm.DB
	projectRepo   *ProjectRepo
	blogPostRepo  *BlogPostRepo
	blogImageRepo *BlogImageRepo
	galleryRepo   *GalleryRepo
	contactRepo   *ContactRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:            db,
		projectRepo:   NewProjectRepo(db),
		blogPostRepo:  NewBlogPostRepo(db),
		blogImageRepo: NewBlogImageRepo(db),
		galleryRepo:   NewGalleryRepo(db),
		contactRepo:   NewContactRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) BlogImageRepo() *BlogImageRepo {
	return d.blogImageRepo
}

func (d Database) GalleryRepo() *GalleryRepo {
	return d.galleryRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

// Migrate creates or updates every table.
func (d Database) Migrate() error {
	return models.Migrate(d.db)
}

// Ping checks the primary connection.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// StoredImage is a binary payload with the MIME type it was uploaded as.
type StoredImage struct {
	Data     []byte
	MimeType string
}

type imageRow struct {
	Data     []byte
	MimeType *string
}

// findImage loads only the binary column and MIME type of one row. It returns
// nil when the row does not exist or has no image.
func findImage(ctx context.Context, db *gorm.DB, model any, dataColumn string, id uuid.UUID) (*StoredImage, error) {
	var row imageRow
	res := db.WithContext(ctx).
		Model(model).
		Select(dataColumn+" AS data, image_type AS mime_type").
		Where("id = ?", id).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || len(row.Data) == 0 || row.MimeType == nil || *row.MimeType == "" {
		return nil, nil
	}
	return &StoredImage{Data: row.Data, MimeType: *row.MimeType}, nil
}

// deleteByID removes one row and reports whether it existed.
func deleteByID(ctx context.Context, db *gorm.DB, model any, id uuid.UUID) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
