package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

var projectListOptions = listOptions{
	searchColumn: "name",
	tagColumn:    "tech_stacks",
	orderColumn:  "start_date",
	omit:         []string{"image"},
}

// FindAll returns one page of projects, newest start date first, without image bytes
func (r *ProjectRepo) FindAll(ctx context.Context, q ListQuery) (Page[models.Project], error) {
	return paginate[models.Project](ctx, r.db, q, projectListOptions)
}

// TechStacks returns every distinct tech stack used by a project
func (r *ProjectRepo) TechStacks(ctx context.Context) ([]string, error) {
	values, err := distinctColumn(ctx, r.db, &models.Project{}, "tech_stacks", nil)
	if err != nil {
		return nil, err
	}
	return models.DistinctTags(values), nil
}

// FindByID returns a project by its ID, or nil if it does not exist
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindImage returns the stored screenshot of a project, or nil if it has none
func (r *ProjectRepo) FindImage(ctx context.Context, id uuid.UUID) (*StoredImage, error) {
	return findImage(ctx, r.db, &models.Project{}, "image", id)
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update updates an existing project in the database
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, r.db, &models.Project{}, id)
}
