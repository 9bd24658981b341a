package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type BlogImageRepo struct {
	db *gorm.DB
}

func NewBlogImageRepo(db *gorm.DB) *BlogImageRepo {
	return &BlogImageRepo{db}
}

// FindAll returns the media library newest first, without image bytes
func (r *BlogImageRepo) FindAll(ctx context.Context) ([]models.BlogImage, error) {
	images := make([]models.BlogImage, 0)
	err := r.db.WithContext(ctx).
		Omit("image").
		Order("created_at DESC").
		Order("id DESC").
		Find(&images).Error
	return images, err
}

// FindImage returns the bytes of a library image, or nil if it does not exist
func (r *BlogImageRepo) FindImage(ctx context.Context, id uuid.UUID) (*StoredImage, error) {
	return findImage(ctx, r.db, &models.BlogImage{}, "image", id)
}

// Add inserts a new image into the library
func (r *BlogImageRepo) Add(ctx context.Context, image *models.BlogImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// Delete removes a library image by id
func (r *BlogImageRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, r.db, &models.BlogImage{}, id)
}
