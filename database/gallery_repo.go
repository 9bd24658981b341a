package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type GalleryRepo struct {
	db *gorm.DB
}

func NewGalleryRepo(db *gorm.DB) *GalleryRepo {
	return &GalleryRepo{db}
}

var galleryListOptions = listOptions{
	searchColumn: "title",
	tagColumn:    "tags",
	orderColumn:  "created_at",
	omit:         []string{"image"},
}

// FindAll returns one page of gallery items, newest first, without image bytes
func (r *GalleryRepo) FindAll(ctx context.Context, q ListQuery) (Page[models.GalleryItem], error) {
	return paginate[models.GalleryItem](ctx, r.db, q, galleryListOptions)
}

// Tags returns every distinct tag used by a gallery item
func (r *GalleryRepo) Tags(ctx context.Context) ([]string, error) {
	values, err := distinctColumn(ctx, r.db, &models.GalleryItem{}, "tags", nil)
	if err != nil {
		return nil, err
	}
	return models.DistinctTags(values), nil
}

// FindByID returns a gallery item by its ID, or nil if it does not exist
func (r *GalleryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	var item models.GalleryItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindImage returns the stored image of a gallery item, or nil if it has none
func (r *GalleryRepo) FindImage(ctx context.Context, id uuid.UUID) (*StoredImage, error) {
	return findImage(ctx, r.db, &models.GalleryItem{}, "image", id)
}

// Add inserts a new gallery item into the database
func (r *GalleryRepo) Add(ctx context.Context, item *models.GalleryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update updates an existing gallery item in the database
func (r *GalleryRepo) Update(ctx context.Context, item *models.GalleryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes a gallery item from the database by id
func (r *GalleryRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, r.db, &models.GalleryItem{}, id)
}
