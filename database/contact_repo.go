package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

func unreadOnly(tx *gorm.DB) *gorm.DB {
	return tx.Where("read = ?", false)
}

// FindAll returns one page of contact messages, newest first. Search matches the subject.
func (r *ContactRepo) FindAll(ctx context.Context, q ListQuery, unread bool) (Page[models.ContactMessage], error) {
	opts := listOptions{searchColumn: "subject", orderColumn: "created_at"}
	if unread {
		opts.where = unreadOnly
	}
	return paginate[models.ContactMessage](ctx, r.db, q, opts)
}

// CountUnread returns how many messages have not been read yet
func (r *ContactRepo) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := unreadOnly(r.db.WithContext(ctx).Model(&models.ContactMessage{})).Count(&count).Error
	return count, err
}

// Add stores a submitted contact message
func (r *ContactRepo) Add(ctx context.Context, message *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// MarkRead flags a message as read and reports whether it exists
func (r *ContactRepo) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a contact message from the database by id
func (r *ContactRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, r.db, &models.ContactMessage{}, id)
}
