package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

func publishedOnly(tx *gorm.DB) *gorm.DB {
	return tx.Where("published = ?", true)
}

var (
	publishedPostListOptions = listOptions{
		searchColumn: "title",
		tagColumn:    "tags",
		orderColumn:  "published_at",
		where:        publishedOnly,
		omit:         []string{"content", "cover_image"},
	}
	allPostListOptions = listOptions{
		searchColumn: "title",
		tagColumn:    "tags",
		orderColumn:  "created_at",
		omit:         []string{"content", "cover_image"},
	}
)

func newestCommentsFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order("created_at DESC").Order("id DESC")
}

// FindPublished returns one page of published posts, most recently published first
func (r *BlogPostRepo) FindPublished(ctx context.Context, q ListQuery) (Page[models.BlogPost], error) {
	return paginate[models.BlogPost](ctx, r.db, q, publishedPostListOptions)
}

// FindAll returns one page of all posts, drafts included, newest first, each
// with its comment count
func (r *BlogPostRepo) FindAll(ctx context.Context, q ListQuery) (Page[models.BlogPost], error) {
	page, err := paginate[models.BlogPost](ctx, r.db, q, allPostListOptions)
	if err != nil || len(page.Items) == 0 {
		return page, err
	}

	ids := make([]uuid.UUID, len(page.Items))
	for i, post := range page.Items {
		ids[i] = post.ID
	}

	counts, err := r.CommentCounts(ctx, ids)
	if err != nil {
		return Page[models.BlogPost]{}, err
	}
	for i := range page.Items {
		count := counts[page.Items[i].ID]
		page.Items[i].CommentCount = &count
	}
	return page, nil
}

type commentCount struct {
	PostID uuid.UUID
	Count  int64
}

// CommentCounts returns the number of comments per post for the given posts
func (r *BlogPostRepo) CommentCounts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []commentCount
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

// Tags returns every distinct tag used by a published post
func (r *BlogPostRepo) Tags(ctx context.Context) ([]string, error) {
	values, err := distinctColumn(ctx, r.db, &models.BlogPost{}, "tags", publishedOnly)
	if err != nil {
		return nil, err
	}
	return models.DistinctTags(values), nil
}

// FindByID returns a blog post by its ID, or nil if it does not exist
func (r *BlogPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByIDWithComments returns a blog post and its comments, newest comment first
func (r *BlogPostRepo) FindByIDWithComments(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	return r.first(r.db.WithContext(ctx).Preload("Comments", newestCommentsFirst).Where("id = ?", id))
}

// FindPublishedBySlug returns a published post and its comments by slug
func (r *BlogPostRepo) FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return r.first(publishedOnly(r.db.WithContext(ctx).Preload("Comments", newestCommentsFirst).Where("slug = ?", slug)))
}

func (r *BlogPostRepo) first(tx *gorm.DB) (*models.BlogPost, error) {
	var post models.BlogPost
	err := tx.First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// SlugTaken reports whether another post already uses slug
func (r *BlogPostRepo) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("slug = ?", slug)
	if exclude != uuid.Nil {
		tx = tx.Where("id <> ?", exclude)
	}
	err := tx.Count(&count).Error
	return count > 0, err
}

// FindCoverImage returns the cover image of a post, or nil if it has none
func (r *BlogPostRepo) FindCoverImage(ctx context.Context, id uuid.UUID) (*StoredImage, error) {
	return findImage(ctx, r.db, &models.BlogPost{}, "cover_image", id)
}

// Add inserts a new blog post into the database
func (r *BlogPostRepo) Add(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Omit("Comments").Create(post).Error
}

// Update updates an existing blog post in the database
func (r *BlogPostRepo) Update(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Omit("Comments").Save(post).Error
}

// Delete removes a blog post and its comments
func (r *BlogPostRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.BlogPost{})
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

// AddComment inserts a comment on an existing post
func (r *BlogPostRepo) AddComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// DeleteComment removes a single comment by id
func (r *BlogPostRepo) DeleteComment(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, r.db, &models.Comment{}, id)
}
