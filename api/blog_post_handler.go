package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogPostHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
}

func newBlogPostHandler(blogPostRepo *database.BlogPostRepo) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		blogPostRepo: blogPostRepo,
	}
}

// getPublishedPosts lists published posts, most recently published first
// @Summary List published blog posts
// @Description Content and cover bytes are omitted
// @Tags Blog Posts
// @Produce json
// @Param search query string false "Title search (2-200 characters)"
// @Param tags query string false "Comma separated tags, all must match"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (1-50)" default(12)
// @Success 200 {object} database.Page[models.BlogPost]
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid page or limit"
// @Router /blog/posts [get]
func (h blogPostHandler) getPublishedPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := listQuery(r, "tags")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page, err := h.blogPostRepo.FindPublished(r.Context(), q)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog posts", "blog_posts", err))
			return
		}
		h.responder.WriteJSON(w, page)
	}
}

// getAllPosts lists every post, drafts included, with comment counts
// @Summary List all blog posts
// @Tags Admin Blog Posts
// @Produce json
// @Success 200 {object} database.Page[models.BlogPost]
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/blog/posts [get]
func (h blogPostHandler) getAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := listQuery(r, "tags")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page, err := h.blogPostRepo.FindAll(r.Context(), q)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog posts", "blog_posts", err))
			return
		}
		h.responder.WriteJSON(w, page)
	}
}

// getTags lists the distinct tags of published posts
// @Summary List blog tags
// @Tags Blog Posts
// @Produce json
// @Success 200 {object} TagsResponse
// @Router /blog/tags [get]
func (h blogPostHandler) getTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.blogPostRepo.Tags(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "blog_posts", err))
			return
		}
		h.responder.WriteJSON(w, TagsResponse{Tags: tags})
	}
}

// getPostBySlug returns a published post with its comments, newest first
// @Summary Get blog post by slug
// @Tags Blog Posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog/posts/slug/{slug} [get]
func (h blogPostHandler) getPostBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		post, err := h.blogPostRepo.FindPublishedBySlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog post", err))
			return
		}
		if post == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post not found"))
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// getPost retrieves a post by ID, drafts included
// @Summary Get blog post
// @Tags Admin Blog Posts
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Success 200 {object} models.BlogPost
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blogPostID"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /admin/blog/posts/{blogPostID} [get]
func (h blogPostHandler) getPost() http.HandlerFunc {
	return h.findPost(h.blogPostRepo.FindByID)
}

// getPostWithComments retrieves a post and its comments, newest comment first
// @Summary Get blog post with comments
// @Tags Admin Blog Posts
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /admin/blog/posts/{blogPostID}/comments [get]
func (h blogPostHandler) getPostWithComments() http.HandlerFunc {
	return h.findPost(h.blogPostRepo.FindByIDWithComments)
}

func (h blogPostHandler) findPost(find func(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathID(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := find(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog post", err))
			return
		}
		if post == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post not found"))
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// createBlogPost creates a new blog post
// @Summary Create blog post
// @Description publishedAt defaults to now for published posts and is cleared for drafts
// @Tags Admin Blog Posts
// @Accept json
// @Produce json
// @Param blogPost body BlogPostInput true "Blog post data"
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already in use"
// @Router /admin/blog/posts [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input BlogPostInput
		if err := decodeAndValidate(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.ensureSlugFree(r, input.Slug, uuid.Nil); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var post models.BlogPost
		if err := applyBlogPostInput(&post, input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.blogPostRepo.Add(r.Context(), &post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create blog post", "blog post", err))
			return
		}

		h.logger.Info().Str("blogPostID", post.ID.String()).Bool("published", post.Published).Msg("blog post created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, post)
	}
}

// updateBlogPost replaces the fields of an existing blog post
// @Summary Update blog post
// @Description Omitting coverImage keeps the stored cover
// @Tags Admin Blog Posts
// @Accept json
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Param blogPost body BlogPostInput true "Updated blog post data"
// @Success 200 {object} models.BlogPost
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already in use"
// @Router /admin/blog/posts/{blogPostID} [put]
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathID(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input BlogPostInput
		if err := decodeAndValidate(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.blogPostRepo.FindByID(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog post", err))
			return
		}
		if post == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post not found"))
			return
		}

		if err := h.ensureSlugFree(r, input.Slug, postID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := applyBlogPostInput(post, input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.blogPostRepo.Update(r.Context(), post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update blog post", "blog post", err))
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// deleteBlogPost deletes a post and its comments
// @Summary Delete blog post
// @Tags Admin Blog Posts
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /admin/blog/posts/{blogPostID} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathID(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.blogPostRepo.Delete(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete blog post", "blog post", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post not found"))
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "blog post deleted successfully"})
	}
}

// addComment adds a visitor comment to a published post
// @Summary Add comment
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Param comment body CommentInput true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid comment"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /blog/posts/{blogPostID}/comments [post]
func (h blogPostHandler) addComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathID(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input CommentInput
		if err := decodeAndValidate(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.blogPostRepo.FindByID(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog post", err))
			return
		}
		if post == nil || !post.Published {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post not found"))
			return
		}

		comment := models.Comment{
			PostID:  postID,
			Name:    trimmedPtr(input.Name),
			Content: strings.TrimSpace(input.Content),
		}
		if err := h.blogPostRepo.AddComment(r.Context(), &comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create comment", "comment", err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, comment)
	}
}

// deleteComment removes a single comment
// @Summary Delete comment
// @Tags Admin Blog Posts
// @Produce json
// @Param commentID path string true "Comment ID" format(uuid)
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse "Not Found - Comment not found"
// @Router /admin/blog/comments/{commentID} [delete]
func (h blogPostHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := pathID(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.blogPostRepo.DeleteComment(r.Context(), commentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete comment", "comment", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("comment not found"))
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "comment deleted successfully"})
	}
}

func (h blogPostHandler) ensureSlugFree(r *http.Request, slug string, exclude uuid.UUID) error {
	taken, err := h.blogPostRepo.SlugTaken(r.Context(), strings.TrimSpace(slug), exclude)
	if err != nil {
		return wrapDatabaseError("check slug", "blog post", err)
	}
	if taken {
		return errs.NewUniqueConstraintViolationError("blog post", "slug", nil)
	}
	return nil
}

// applyBlogPostInput copies validated input onto post. The publishing rule
// is applied here and again by the model hook on save. A post that is
// already published keeps its original publishedAt when none is sent.
func applyBlogPostInput(post *models.BlogPost, input BlogPostInput) error {
	cover, coverType, err := imageUpload(input.CoverImage, input.ImageType)
	if err != nil {
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) && apiErr.Field == "image" {
			apiErr.Field = "coverImage"
		}
		return err
	}
	if cover != nil {
		post.CoverImage = cover
		post.ImageType = coverType
	}
	post.HasCoverImage = len(post.CoverImage) > 0

	post.Title = strings.TrimSpace(input.Title)
	post.Slug = strings.TrimSpace(input.Slug)
	post.Excerpt = strings.TrimSpace(input.Excerpt)
	post.Content = input.Content
	post.Tags = strings.TrimSpace(input.Tags)
	post.MetaTitle = trimmedPtr(input.MetaTitle)
	post.MetaDescription = trimmedPtr(input.MetaDescription)
	post.OgImage = trimmedPtr(input.OgImage)
	publishedAt := input.PublishedAt
	if publishedAt == nil && post.Published {
		publishedAt = post.PublishedAt
	}
	post.Published = input.Published
	post.PublishedAt = models.ResolvePublishedAt(input.Published, publishedAt, time.Now())
	return nil
}
