package newsletter

import (
	"context"

	"gorm.io/gorm"

	"github.com/rossimission/storefront-backend/pkg/db"
	"github.com/rossimission/storefront-backend/pkg/db/models"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
)

const emailUniqueConstraint = "idx_newsletter_subscribers_email"

// Repository persists newsletter subscribers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateSubscriber inserts the subscriber. A duplicate email surfaces as
// a conflict the storefront can show verbatim.
func (r *Repository) CreateSubscriber(ctx context.Context, subscriber *models.NewsletterSubscriber) (*models.NewsletterSubscriber, error) {
	if err := r.db.WithContext(ctx).Create(subscriber).Error; err != nil {
		if db.IsUniqueViolation(err, emailUniqueConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "this email is already subscribed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create subscriber")
	}
	return subscriber, nil
}

// CountSubscribers reports the current list size.
func (r *Repository) CountSubscribers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.NewsletterSubscriber{}).Count(&count).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count subscribers")
	}
	return count, nil
}
