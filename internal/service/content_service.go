package service

import (
	"context"
	"strings"

	"brainvault/internal/models"
	"brainvault/internal/observability"
	"brainvault/internal/repository"
	"brainvault/internal/validation"
)

// CreateContentInput carries the fields of a new content item.
type CreateContentInput struct {
	Type  string
	Link  string
	Title string
	Tags  []string
}

// ContentService is the owner-scoped access layer over content items.
type ContentService struct {
	contents repository.ContentRepository
}

// NewContentService returns a ContentService.
func NewContentService(contents repository.ContentRepository) *ContentService {
	return &ContentService{contents: contents}
}

// Create validates in and stores it as owned by ownerID.
func (s *ContentService) Create(ctx context.Context, ownerID uint, in CreateContentInput) (content *models.Content, err error) {
	ctx, span := observability.StartSpan(ctx, "ContentService.Create")
	defer func() { observability.EndSpan(span, err) }()

	title := strings.TrimSpace(in.Title)
	link := strings.TrimSpace(in.Link)
	kind := strings.TrimSpace(in.Type)

	if kind == "" {
		return nil, models.NewValidationError("Type of content is required")
	}
	if err := validation.ValidateTitle(title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateLink(link); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	content = &models.Content{
		Title:  title,
		Link:   link,
		Type:   kind,
		Tags:   validation.NormalizeTags(in.Tags),
		UserID: ownerID,
	}
	if err := s.contents.Create(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

// ListByOwner returns every item owned by ownerID.
func (s *ContentService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Content, error) {
	return s.contents.ListByUser(ctx, ownerID)
}

// DeleteByOwnerAndID removes the item only if ownerID owns it. Deleting a
// missing or foreign item is not an error; deleted reports which case applied.
func (s *ContentService) DeleteByOwnerAndID(ctx context.Context, ownerID, contentID uint) (deleted bool, err error) {
	return s.contents.DeleteByUserAndID(ctx, ownerID, contentID)
}

// ListPublicByOwner is the projection served on the share path. It returns
// the same fields as ListByOwner.
func (s *ContentService) ListPublicByOwner(ctx context.Context, ownerID uint) ([]models.Content, error) {
	return s.contents.ListByUser(ctx, ownerID)
}
