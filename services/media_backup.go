package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MediaStore is the part of the database a backup reads from.
type MediaStore interface {
	MediaRefs(ctx context.Context) ([]database.MediaRef, error)
	LoadMedia(ctx context.Context, ref database.MediaRef) (*database.StoredImage, error)
}

// MediaBackup copies every stored image into an S3 bucket.
type MediaBackup struct {
	client      objectPutter
	bucket      string
	prefix      string
	concurrency int
}

// NewMediaBackup builds a MediaBackup for MEDIA_BACKUP_BUCKET using the
// default AWS credential chain.
func NewMediaBackup(ctx context.Context, c map[string]string) (*MediaBackup, error) {
	bucket := config.GetString(c, "MEDIA_BACKUP_BUCKET", "")
	if bucket == "" {
		return nil, errs.NewEnvironmentVariableError("MEDIA_BACKUP_BUCKET")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errs.NewConfigError("aws", err)
	}

	return &MediaBackup{
		client:      s3.NewFromConfig(awsCfg),
		bucket:      bucket,
		prefix:      config.GetString(c, "MEDIA_BACKUP_PREFIX", "media"),
		concurrency: config.GetInt(c, "MEDIA_BACKUP_CONCURRENCY", 4),
	}, nil
}

// Run uploads all media and returns how many objects were written.
func (b *MediaBackup) Run(ctx context.Context, store MediaStore) (int, error) {
	refs, err := store.MediaRefs(ctx)
	if err != nil {
		return 0, err
	}

	uploaded := make([]bool, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.concurrency, 1))
	for i, ref := range refs {
		g.Go(func() error {
			img, err := store.LoadMedia(gctx, ref)
			if err != nil {
				return fmt.Errorf("load %s/%s: %w", ref.Kind, ref.ID, err)
			}
			if img == nil {
				return nil
			}

			_, err = b.client.PutObject(gctx, &s3.PutObjectInput{
				Bucket:      aws.String(b.bucket),
				Key:         aws.String(b.objectKey(ref, img.MimeType)),
				Body:        bytes.NewReader(img.Data),
				ContentType: aws.String(img.MimeType),
			})
			if err != nil {
				return fmt.Errorf("upload %s/%s: %w", ref.Kind, ref.ID, err)
			}
			uploaded[i] = true
			return nil
		})
	}
	err = g.Wait()

	count := 0
	for _, ok := range uploaded {
		if ok {
			count++
		}
	}
	log.Info().Str("bucket", b.bucket).Int("uploaded", count).Int("total", len(refs)).Msg("media backup finished")
	return count, err
}

func (b *MediaBackup) objectKey(ref database.MediaRef, mimeType string) string {
	return path.Join(strings.Trim(b.prefix, "/"), string(ref.Kind), ref.ID.String()+extensionFor(mimeType))
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
