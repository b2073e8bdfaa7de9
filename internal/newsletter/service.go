package newsletter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rossimission/storefront-backend/pkg/db/models"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
)

const maxEmailLength = 254

type repository interface {
	CreateSubscriber(ctx context.Context, subscriber *models.NewsletterSubscriber) (*models.NewsletterSubscriber, error)
	CountSubscribers(ctx context.Context) (int64, error)
}

// Service exposes newsletter signup operations.
type Service interface {
	Subscribe(ctx context.Context, input SubscribeInput) (*SubscriberDTO, error)
}

type service struct {
	repo repository
}

// NewService builds a newsletter service backed by the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("newsletter repository required")
	}
	return &service{repo: repo}, nil
}

// SubscribeInput carries the signup payload.
type SubscribeInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// SubscriberDTO is the stored subscription as returned to clients.
type SubscriberDTO struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// Subscribe normalizes and stores the email. Addresses are lowercased so
// the unique index treats case variants as the same subscriber.
func (s *service) Subscribe(ctx context.Context, input SubscribeInput) (*SubscriberDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(email) > maxEmailLength || !looksLikeEmail(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email address is not valid")
	}

	subscriber, err := s.repo.CreateSubscriber(ctx, &models.NewsletterSubscriber{Email: email})
	if err != nil {
		return nil, err
	}
	return &SubscriberDTO{
		Email:        subscriber.Email,
		SubscribedAt: subscriber.CreatedAt,
	}, nil
}

func looksLikeEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.Contains(domain, "@") || !strings.Contains(domain, ".") {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}
