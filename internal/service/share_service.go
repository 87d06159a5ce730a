package service

import (
	"context"
	"log/slog"
	"strings"

	"brainvault/internal/cache"
	"brainvault/internal/models"
	"brainvault/internal/observability"
	"brainvault/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxHashLen      = 64
	publishAttempts = 3
)

// NewShareHash returns 32 hex characters backed by a random (v4) UUID.
// It carries no information about the owner.
func NewShareHash() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ShareService manages the public share links of a vault.
type ShareService struct {
	links   repository.ShareLinkRepository
	rdb     *redis.Client
	newHash func() string
}

// NewShareService returns a ShareService. rdb may be nil, which disables the
// resolution cache.
func NewShareService(links repository.ShareLinkRepository, rdb *redis.Client) *ShareService {
	return &ShareService{links: links, rdb: rdb, newHash: NewShareHash}
}

// Publish creates a new share link for ownerID and returns its hash.
// Existing links of the owner are left untouched.
func (s *ShareService) Publish(ctx context.Context, ownerID uint) (hash string, err error) {
	ctx, span := observability.StartSpan(ctx, "ShareService.Publish",
		attribute.Int64("user.id", int64(ownerID)))
	defer func() { observability.EndSpan(span, err) }()

	for range publishAttempts {
		link := &models.ShareLink{Hash: s.newHash(), UserID: ownerID}
		if err = s.links.Create(ctx, link); err == nil {
			return link.Hash, nil
		}
		if !models.IsCode(err, models.CodeConflict) {
			return "", err
		}
	}
	return "", models.NewInternalError(err)
}

// Unpublish deletes every share link of ownerID and marks their cache keys as
// revoked, so a Resolve that read the row before the delete cannot put it
// back. It succeeds when there was nothing to delete.
func (s *ShareService) Unpublish(ctx context.Context, ownerID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "ShareService.Unpublish",
		attribute.Int64("user.id", int64(ownerID)))
	defer func() { observability.EndSpan(span, err) }()

	hashes, err := s.links.DeleteByUser(ctx, ownerID)
	if err != nil {
		return err
	}
	if err := cache.Tombstone(ctx, s.rdb, cache.RevokedOwner, cache.ShareTTL, cache.ShareKeys(hashes)...); err != nil {
		// The row is gone; a stale entry could still serve the old hash until ShareTTL.
		observability.Logger.ErrorContext(ctx, "failed to revoke share links in cache",
			slog.Int("count", len(hashes)),
			slog.String("error", err.Error()),
		)
		return models.NewInternalError(err)
	}
	return nil
}

// Resolve returns the owner of hash.
func (s *ShareService) Resolve(ctx context.Context, hash string) (ownerID uint, err error) {
	ctx, span := observability.StartSpan(ctx, "ShareService.Resolve")
	defer func() { observability.EndSpan(span, err) }()

	if hash == "" || len(hash) > maxHashLen {
		observability.ShareResolutions.WithLabelValues(observability.ResultNotFound).Inc()
		return 0, models.NewNotFoundError("Link not found")
	}

	hit, err := cache.Aside(ctx, s.rdb, cache.ShareKey(hash), &ownerID, cache.ShareTTL, func() error {
		link, err := s.links.GetByHash(ctx, hash)
		if err != nil {
			return err
		}
		if link == nil {
			return models.NewNotFoundError("Link not found")
		}
		ownerID = link.UserID
		return nil
	})
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			observability.ShareResolutions.WithLabelValues(observability.ResultNotFound).Inc()
		}
		return 0, err
	}
	if ownerID == cache.RevokedOwner {
		observability.ShareResolutions.WithLabelValues(observability.ResultNotFound).Inc()
		return 0, models.NewNotFoundError("Link not found")
	}

	span.SetAttributes(attribute.Bool("cache.hit", hit))
	if hit {
		observability.ShareResolutions.WithLabelValues(observability.ResultHit).Inc()
	} else {
		observability.ShareResolutions.WithLabelValues(observability.ResultDB).Inc()
	}
	return ownerID, nil
}
