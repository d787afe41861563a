package post

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/skillsenselab/identity-service/errors"
	"github.com/skillsenselab/identity-service/logger"
	"github.com/skillsenselab/identity-service/validation"
)

// Content limits.
const (
	MaxTitleLength   = 200
	MaxContentLength = 10000
	MaxTags          = 10
	MaxTagLength     = 50
	DefaultPageSize  = 20
	MaxPageSize      = 100
)

// ListResult is a page of posts with the total match count.
type ListResult struct {
	Posts  []*Post `json:"posts"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// Service carries the posts business rules. All mutations require the
// acting account id and enforce ownership.
type Service struct {
	store Store
	log   *logger.Logger
}

// NewService creates the posts service.
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{
		store: store,
		log:   log.WithComponent("posts"),
	}
}

// Create validates and stores a new post owned by userID.
func (s *Service) Create(ctx context.Context, userID, title, content string, tags []string) (*Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if err := validateFields(title, content, tags); err != nil {
		return nil, err
	}

	created, err := s.store.Insert(ctx, &Post{
		UserID:  userID,
		Title:   title,
		Content: content,
		Tags:    cleanTags(tags),
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info("post created", logger.Fields("post_id", created.ID, logger.FieldUserID, userID))
	return created, nil
}

// Get returns a single post by id.
func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NotFound("post", id)
		}
		return nil, apperrors.Internal(err)
	}
	return p, nil
}

// List returns a filtered, paginated page of posts, newest first.
func (s *Service) List(ctx context.Context, f Filter) (*ListResult, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	posts, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &ListResult{Posts: posts, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// Update replaces a post's title, content, and tags. Only the owner may
// update a post.
func (s *Service) Update(ctx context.Context, userID, id, title, content string, tags []string) (*Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if err := validateFields(title, content, tags); err != nil {
		return nil, err
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NotFound("post", id)
		}
		return nil, apperrors.Internal(err)
	}
	if existing.UserID != userID {
		return nil, apperrors.Forbidden("You can only modify your own posts.")
	}

	existing.Title = title
	existing.Content = content
	existing.Tags = cleanTags(tags)

	updated, err := s.store.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NotFound("post", id)
		}
		return nil, apperrors.Internal(err)
	}
	return updated, nil
}

// Delete removes a post. Only the owner may delete a post.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.NotFound("post", id)
		}
		return apperrors.Internal(err)
	}
	if existing.UserID != userID {
		return apperrors.Forbidden("You can only modify your own posts.")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.NotFound("post", id)
		}
		return apperrors.Internal(err)
	}

	s.log.Info("post deleted", logger.Fields("post_id", id, logger.FieldUserID, userID))
	return nil
}

func validateFields(title, content string, tags []string) error {
	if err := validation.New().
		Required("title", title).
		MaxLength("title", title, MaxTitleLength).
		Required("content", content).
		MaxLength("content", content, MaxContentLength).
		MaxItems("tags", len(tags), MaxTags).
		EachMaxLength("tags", tags, MaxTagLength).
		Validate(); err != nil {
		return err
	}
	return nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
