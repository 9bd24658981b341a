package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// SeedOptions controls how much demo content Seed creates.
type SeedOptions struct {
	Projects        int
	Posts           int
	CommentsPerPost int
	GalleryItems    int
	Messages        int
	// Seed makes the generated content reproducible when non-zero.
	Seed int64
}

func DefaultSeedOptions() SeedOptions {
	return SeedOptions{Projects: 8, Posts: 10, CommentsPerPost: 3, GalleryItems: 12, Messages: 5}
}

// placeholderPNG is a 1x1 transparent PNG used for seeded images.
var placeholderPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89, 0x00, 0x00, 0x00,
	0x0D, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
}

var techStacks = []string{"Go", "TypeScript", "React", "Next.js", "PostgreSQL", "Python", "Rust", "Docker", "AWS", "Tailwind"}

// Seed fills the database with demo content for local development.
func (d Database) Seed(ctx context.Context, opts SeedOptions) error {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	f := gofakeit.New(seed)
	now := time.Now()
	pngType := "image/png"

	for i := 0; i < opts.Projects; i++ {
		start := f.DateRange(now.AddDate(-4, 0, 0), now)
		status := models.StatusFlag(f.RandomString([]string{
			string(models.StatusPlanning), string(models.StatusInProgress), string(models.StatusCompleted),
			string(models.StatusMaintained), string(models.StatusArchived),
		}))
		project := models.Project{
			Name:                   f.AppName(),
			ShortDesc:              f.Sentence(10),
			StatusFlag:             status,
			StartDate:              datatypes.Date(start),
			CollabMode:             models.CollabMode(f.RandomString([]string{string(models.CollabSolo), string(models.CollabGroup)})),
			Affiliation:            f.Company(),
			AffiliationType:        models.AffiliationIndependent,
			SourceCodeAvailability: models.SourceOpen,
			TechStacks:             pickTags(f, techStacks, 3).String(),
		}
		longDesc := f.Paragraph(2, 3, 12, "\n\n")
		project.LongDesc = &longDesc
		if status == models.StatusCompleted || status == models.StatusArchived {
			end := datatypes.Date(f.DateRange(start, now))
			project.EndDate = &end
		}
		if f.Bool() {
			project.Image = placeholderPNG
			project.ImageType = &pngType
		}
		if err := d.projectRepo.Add(ctx, &project); err != nil {
			return fmt.Errorf("seed project: %w", err)
		}
	}

	for i := 0; i < opts.Posts; i++ {
		title := f.Sentence(5)
		post := models.BlogPost{
			Title:     title,
			Slug:      fmt.Sprintf("%s-%d", Slugify(title), i+1),
			Excerpt:   f.Sentence(20),
			Content:   "# " + title + "\n\n" + f.Paragraph(4, 4, 14, "\n\n"),
			Published: i%3 != 0,
			Tags:      pickTags(f, techStacks, 2).String(),
		}
		if post.Published {
			published := f.DateRange(now.AddDate(-1, 0, 0), now)
			post.PublishedAt = &published
		}
		if err := d.blogPostRepo.Add(ctx, &post); err != nil {
			return fmt.Errorf("seed post: %w", err)
		}

		for j := 0; j < opts.CommentsPerPost; j++ {
			name := f.Name()
			comment := models.Comment{PostID: post.ID, Name: &name, Content: f.Sentence(12)}
			if err := d.blogPostRepo.AddComment(ctx, &comment); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
		}
	}

	for i := 0; i < opts.GalleryItems; i++ {
		item := models.GalleryItem{
			Title: f.Sentence(4),
			Tags:  pickTags(f, []string{"travel", "demo", "cfd", "hackathon", "talk", "team"}, 2).String(),
		}
		if i%4 == 3 {
			video := "https://www.youtube.com/watch?v=" + f.LetterN(11)
			item.MediaType = models.MediaVideo
			item.VideoURL = &video
		} else {
			item.MediaType = models.MediaImage
			item.Image = placeholderPNG
			item.ImageType = &pngType
		}
		if err := d.galleryRepo.Add(ctx, &item); err != nil {
			return fmt.Errorf("seed gallery item: %w", err)
		}
	}

	for i := 0; i < opts.Messages; i++ {
		name := f.Name()
		subject := f.Sentence(6)
		message := models.ContactMessage{Name: &name, Email: f.Email(), Subject: &subject, Message: f.Paragraph(1, 3, 12, " ")}
		if err := d.contactRepo.Add(ctx, &message); err != nil {
			return fmt.Errorf("seed contact message: %w", err)
		}
	}

	log.Info().
		Int("projects", opts.Projects).
		Int("posts", opts.Posts).
		Int("galleryItems", opts.GalleryItems).
		Int("messages", opts.Messages).
		Msg("database seeded")
	return nil
}

func pickTags(f *gofakeit.Faker, pool []string, n int) models.TagList {
	picked := make(models.TagList, 0, n)
	seen := make(map[string]bool, n)
	for len(picked) < n && len(seen) < len(pool) {
		tag := f.RandomString(pool)
		if !seen[tag] {
			seen[tag] = true
			picked = append(picked, tag)
		}
	}
	return picked
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
