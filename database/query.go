package database

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rpupo63/portfolio-backend/errs"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 50

	minSearchLength = 2
	maxSearchLength = 200
)

// ListQuery carries the optional search text, tag filter and page window of a listing.
type ListQuery struct {
	Search string
	Tags   []string
	Page   int
	Limit  int
}

// WithDefaults fills an unset page or limit.
func (q ListQuery) WithDefaults() ListQuery {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	return q
}

// Validate rejects page windows outside page >= 1 and 1 <= limit <= 50.
func (q ListQuery) Validate() error {
	if q.Page < 1 {
		return errs.NewInvalidFieldError("page", "must be at least 1")
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return errs.NewInvalidFieldError("limit", fmt.Sprintf("must be between 1 and %d", MaxLimit))
	}
	return nil
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// NormalizeSearch trims the search text and reports whether it should be
// applied. Text shorter than 2 or longer than 200 characters, or without a
// single letter or digit, is ignored rather than rejected.
func NormalizeSearch(search string) (string, bool) {
	search = strings.TrimSpace(search)
	n := len([]rune(search))
	if n < minSearchLength || n > maxSearchLength {
		return "", false
	}
	for _, r := range search {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return search, true
		}
	}
	return "", false
}

// Page is one window of a filtered listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// listOptions names the columns a listing filters and orders on.
type listOptions struct {
	searchColumn string
	tagColumn    string
	orderColumn  string
	// where adds entity-specific predicates shared by the page and count queries.
	where func(*gorm.DB) *gorm.DB
	// omit lists columns left out of the page query.
	omit []string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// applyFilters narrows tx by the search text and by every selected tag.
// Tags match as case-insensitive substrings of the comma-joined column, so a
// filter on "go" also matches "golang".
func applyFilters(tx *gorm.DB, q ListQuery, opts listOptions) *gorm.DB {
	if opts.where != nil {
		tx = opts.where(tx)
	}

	if search, ok := NormalizeSearch(q.Search); ok && opts.searchColumn != "" {
		tx = tx.Where(fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, opts.searchColumn), containsPattern(search))
	}

	if opts.tagColumn != "" {
		for _, tag := range q.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			tx = tx.Where(fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, opts.tagColumn), containsPattern(tag))
		}
	}
	return tx
}

// paginate runs the page query and the count query for the same predicate
// concurrently and assembles the response once both have finished.
func paginate[T any](ctx context.Context, db *gorm.DB, q ListQuery, opts listOptions) (Page[T], error) {
	q = q.WithDefaults()
	if err := q.Validate(); err != nil {
		return Page[T]{}, err
	}

	items := make([]T, 0, q.Limit)
	var total int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tx := applyFilters(db.WithContext(gctx).Model(new(T)), q, opts)
		if len(opts.omit) > 0 {
			tx = tx.Omit(opts.omit...)
		}
		return tx.
			Order(opts.orderColumn + " DESC").
			Order("id DESC").
			Offset(q.Offset()).
			Limit(q.Limit).
			Find(&items).Error
	})
	g.Go(func() error {
		return applyFilters(db.WithContext(gctx).Model(new(T)), q, opts).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return Page[T]{}, err
	}

	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		TotalPages: TotalPages(total, q.Limit),
	}, nil
}

// distinctColumn loads every value of a comma-joined tag column.
func distinctColumn(ctx context.Context, db *gorm.DB, model any, column string, where func(*gorm.DB) *gorm.DB) ([]string, error) {
	tx := db.WithContext(ctx).Model(model)
	if where != nil {
		tx = where(tx)
	}
	var values []string
	err := tx.Distinct().Pluck(column, &values).Error
	return values, err
}
