package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MediaType string

const (
	MediaImage MediaType = "IMAGE"
	MediaVideo MediaType = "VIDEO"
)

// GalleryItem is a "moment": either a stored image or a linked video.
type GalleryItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"type:text;not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	Caption     *string   `json:"caption,omitempty" gorm:"type:text"`
	MediaType   MediaType `json:"mediaType" gorm:"type:text;not null"`
	Image       []byte    `json:"image,omitempty"`
	ImageType   *string   `json:"imageType,omitempty" gorm:"type:text"`
	HasImage    bool      `json:"hasImage" gorm:"-"`
	VideoURL    *string   `json:"videoUrl,omitempty" gorm:"type:text"`
	Tags        string    `json:"tags" gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (g *GalleryItem) BeforeCreate(*gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

func (g *GalleryItem) AfterFind(*gorm.DB) error {
	g.HasImage = hasMedia(g.ImageType)
	return nil
}
