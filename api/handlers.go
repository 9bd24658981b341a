package api

import (
	"time"

	"github.com/rpupo63/portfolio-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, notifier ContactNotifier, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler:   newProjectHandler(db.ProjectRepo()),
		blogPostHandler:  newBlogPostHandler(db.BlogPostRepo()),
		blogImageHandler: newBlogImageHandler(db.BlogImageRepo()),
		galleryHandler:   newGalleryHandler(db.GalleryRepo()),
		contactHandler:   newContactHandler(db.ContactRepo(), notifier),
		imageHandler:     newImageHandler(db),
		healthHandler:    newHealthHandler(db, startupTime),
	}
}
