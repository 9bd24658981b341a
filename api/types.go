package api

import (
	"time"

	"github.com/rpupo63/portfolio-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler   projectHandler
	blogPostHandler  blogPostHandler
	blogImageHandler blogImageHandler
	galleryHandler   galleryHandler
	contactHandler   contactHandler
	imageHandler     imageHandler
	healthHandler    healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}

// StatusResponse acknowledges a mutation without a body of its own
type StatusResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"project deleted successfully"`
}

// TagsResponse lists distinct tags for filter UIs
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// ProjectInput is the create/update payload of a project. Image is base64.
type ProjectInput struct {
	Name                   string                        `json:"name" validate:"notblank,max=200"`
	ShortDesc              string                        `json:"shortDesc" validate:"notblank,max=500"`
	LongDesc               *string                       `json:"longDesc"`
	StatusFlag             models.StatusFlag             `json:"statusFlag" validate:"required,oneof=PLANNING IN_PROGRESS COMPLETED MAINTAINED ARCHIVED"`
	StartDate              string                        `json:"startDate" validate:"notblank"`
	EndDate                *string                       `json:"endDate"`
	CollabMode             models.CollabMode             `json:"collabMode" validate:"required,oneof=SOLO GROUP"`
	Affiliation            string                        `json:"affiliation" validate:"notblank,max=200"`
	AffiliationType        models.AffiliationType        `json:"affiliationType" validate:"required,oneof=INDEPENDENT UNIVERSITY ORGANIZATION CLUB"`
	SourceCodeAvailability models.SourceCodeAvailability `json:"sourceCodeAvailability" validate:"required,oneof=OPEN_SOURCE CLOSED_SOURCE UNDER_NDA"`
	TechStacks             string                        `json:"techStacks" validate:"notblank"`
	ProjectURL             *string                       `json:"projectUrl" validate:"omitempty,url"`
	LiveURL                *string                       `json:"liveUrl" validate:"omitempty,url"`
	Image                  *string                       `json:"image"`
	ImageType              *string                       `json:"imageType"`
}

// BlogPostInput is the create/update payload of a blog post. CoverImage is base64.
type BlogPostInput struct {
	Title           string     `json:"title" validate:"notblank,max=200"`
	Slug            string     `json:"slug" validate:"notblank,max=200,slug"`
	Excerpt         string     `json:"excerpt" validate:"notblank,max=1000"`
	Content         string     `json:"content" validate:"notblank"`
	Published       bool       `json:"published"`
	PublishedAt     *time.Time `json:"publishedAt"`
	Tags            string     `json:"tags"`
	MetaTitle       *string    `json:"metaTitle" validate:"omitempty,max=200"`
	MetaDescription *string    `json:"metaDescription" validate:"omitempty,max=500"`
	OgImage         *string    `json:"ogImage" validate:"omitempty,url"`
	CoverImage      *string    `json:"coverImage"`
	ImageType       *string    `json:"imageType"`
}

// CommentInput is a visitor comment
type CommentInput struct {
	Name    *string `json:"name" validate:"omitempty,max=100"`
	Content string  `json:"content" validate:"notblank,max=2000"`
}

// BlogImageInput uploads an image into the blog media library
type BlogImageInput struct {
	Image     string  `json:"image" validate:"notblank"`
	ImageType string  `json:"imageType" validate:"notblank"`
	AltText   *string `json:"altText" validate:"omitempty,max=300"`
}

// BlogImageInfo describes a library image without its bytes
type BlogImageInfo struct {
	ID        string    `json:"id"`
	ImageType string    `json:"imageType"`
	AltText   *string   `json:"altText,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	URL       string    `json:"url"`
}

// GalleryItemInput is the create/update payload of a gallery item
type GalleryItemInput struct {
	Title       string           `json:"title" validate:"notblank,max=200"`
	Description *string          `json:"description"`
	Caption     *string          `json:"caption" validate:"omitempty,max=500"`
	MediaType   models.MediaType `json:"mediaType" validate:"required,oneof=IMAGE VIDEO"`
	Image       *string          `json:"image"`
	ImageType   *string          `json:"imageType"`
	VideoURL    *string          `json:"videoUrl" validate:"omitempty,url"`
	Tags        string           `json:"tags"`
}

// ContactInput is a message submitted through the contact form
type ContactInput struct {
	Name    *string `json:"name" validate:"omitempty,max=100"`
	Email   string  `json:"email" validate:"required,email"`
	Subject *string `json:"subject" validate:"omitempty,max=200"`
	Message string  `json:"message" validate:"notblank,max=5000"`
}

// ContactListResponse is a page of contact messages plus the unread count
type ContactListResponse struct {
	Items       []models.ContactMessage `json:"items"`
	Total       int64                   `json:"total"`
	Page        int                     `json:"page"`
	TotalPages  int                     `json:"totalPages"`
	UnreadCount int64                   `json:"unreadCount"`
}
