package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsletterSubscriber stores a single opted-in email address.
type NewsletterSubscriber struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"type:text;not null;uniqueIndex:idx_newsletter_subscribers_email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
