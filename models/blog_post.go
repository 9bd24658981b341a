package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogPost represents a markdown blog post with its SEO metadata
type BlogPost struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title           string     `json:"title" gorm:"type:text;not null"`
	Slug            string     `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Excerpt         string     `json:"excerpt" gorm:"type:text;not null"`
	Content         string     `json:"content,omitempty" gorm:"type:text;not null"`
	CoverImage      []byte     `json:"coverImage,omitempty"`
	ImageType       *string    `json:"imageType,omitempty" gorm:"type:text"`
	HasCoverImage   bool       `json:"hasCoverImage" gorm:"-"`
	Published       bool       `json:"published" gorm:"not null;default:false;index"`
	PublishedAt     *time.Time `json:"publishedAt" gorm:"index"`
	Tags            string     `json:"tags" gorm:"type:text;not null;default:''"`
	MetaTitle       *string    `json:"metaTitle,omitempty" gorm:"type:text"`
	MetaDescription *string    `json:"metaDescription,omitempty" gorm:"type:text"`
	OgImage         *string    `json:"ogImage,omitempty" gorm:"type:text"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Comments        []Comment  `json:"comments,omitempty" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	CommentCount    *int64     `json:"commentCount,omitempty" gorm:"-"`
}

func (p *BlogPost) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// BeforeSave keeps publishedAt consistent with the published flag.
func (p *BlogPost) BeforeSave(*gorm.DB) error {
	p.PublishedAt = ResolvePublishedAt(p.Published, p.PublishedAt, time.Now())
	return nil
}

func (p *BlogPost) AfterFind(*gorm.DB) error {
	p.HasCoverImage = hasMedia(p.ImageType)
	return nil
}

// ResolvePublishedAt applies the publishing rule: published posts without a
// timestamp get now, unpublished posts never carry one.
func ResolvePublishedAt(published bool, publishedAt *time.Time, now time.Time) *time.Time {
	if !published {
		return nil
	}
	if publishedAt == nil {
		return &now
	}
	return publishedAt
}

// Comment is a visitor comment on a blog post
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;not null;index"`
	Name      *string   `json:"name,omitempty" gorm:"type:text"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// BlogImage is an entry in the media library used inside post content
type BlogImage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Image     []byte    `json:"image,omitempty" gorm:"not null"`
	ImageType string    `json:"imageType" gorm:"type:text;not null"`
	AltText   *string   `json:"altText,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

func (i *BlogImage) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
