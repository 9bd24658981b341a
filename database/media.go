package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
)

// MediaKind names the table a stored image belongs to.
type MediaKind string

const (
	MediaProject     MediaKind = "projects"
	MediaBlogCover   MediaKind = "blog-covers"
	MediaBlogImage   MediaKind = "blog-images"
	MediaGalleryItem MediaKind = "gallery"
)

// MediaRef points at one stored image.
type MediaRef struct {
	Kind MediaKind
	ID   uuid.UUID
}

var mediaSources = []struct {
	kind   MediaKind
	model  any
	column string
}{
	{MediaProject, &models.Project{}, "image"},
	{MediaBlogCover, &models.BlogPost{}, "cover_image"},
	{MediaBlogImage, &models.BlogImage{}, "image"},
	{MediaGalleryItem, &models.GalleryItem{}, "image"},
}

// MediaRefs lists every row that currently holds an image.
func (d Database) MediaRefs(ctx context.Context) ([]MediaRef, error) {
	var refs []MediaRef
	for _, src := range mediaSources {
		var ids []uuid.UUID
		err := d.db.WithContext(ctx).
			Model(src.model).
			Where(src.column + " IS NOT NULL").
			Where("image_type IS NOT NULL").
			Order("created_at").
			Pluck("id", &ids).Error
		if err != nil {
			return nil, fmt.Errorf("list %s media: %w", src.kind, err)
		}
		for _, id := range ids {
			refs = append(refs, MediaRef{Kind: src.kind, ID: id})
		}
	}
	return refs, nil
}

// LoadMedia returns the bytes behind ref, or nil if they are gone.
func (d Database) LoadMedia(ctx context.Context, ref MediaRef) (*StoredImage, error) {
	for _, src := range mediaSources {
		if src.kind == ref.Kind {
			return findImage(ctx, d.db, src.model, src.column, ref.ID)
		}
	}
	return nil, fmt.Errorf("unknown media kind %q", ref.Kind)
}
