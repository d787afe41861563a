// Package post implements the token-gated posts resource: the model, an
// in-process store, and the business rules for creating, listing, and
// modifying posts.
package post

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Post is a stored post record.
type Post struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	EngagementCount int       `json:"engagement_count"`
}

// ErrNotFound indicates no post matches the lookup id.
var ErrNotFound = errors.New("post: not found")

// Filter narrows a List call. Zero values mean "no constraint".
type Filter struct {
	// Search matches case-insensitively against title and content.
	Search string
	// Tags matches posts carrying at least one of the given tags.
	Tags []string
	// Limit caps the page size; Offset skips preceding posts.
	Limit  int
	Offset int
}

// Store holds post records.
type Store interface {
	Insert(ctx context.Context, p *Post) (*Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, f Filter) ([]*Post, int, error)
	Update(ctx context.Context, p *Post) (*Post, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a mutex-guarded in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	posts map[string]*Post
}

// NewMemoryStore creates an empty in-memory post store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{posts: make(map[string]*Post)}
}

// Insert stores a new post, assigning id and timestamps.
func (s *MemoryStore) Insert(_ context.Context, p *Post) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := copyPost(p)
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.EngagementCount = 0
	if stored.Tags == nil {
		stored.Tags = []string{}
	}

	s.posts[stored.ID] = stored
	return copyPost(stored), nil
}

// Get returns the post with the given id.
func (s *MemoryStore) Get(_ context.Context, id string) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyPost(p), nil
}

// List returns posts matching the filter, newest first, plus the total
// match count before pagination.
func (s *MemoryStore) List(_ context.Context, f Filter) ([]*Post, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*Post, 0, len(s.posts))
	for _, p := range s.posts {
		if matches(p, f) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	if f.Offset > 0 {
		if f.Offset >= total {
			return []*Post{}, total, nil
		}
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}

	out := make([]*Post, len(matched))
	for i, p := range matched {
		out[i] = copyPost(p)
	}
	return out, total, nil
}

// Update replaces a stored post's mutable fields and bumps UpdatedAt.
func (s *MemoryStore) Update(_ context.Context, p *Post) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.posts[p.ID]
	if !ok {
		return nil, ErrNotFound
	}
	stored.Title = p.Title
	stored.Content = p.Content
	stored.Tags = append([]string(nil), p.Tags...)
	stored.UpdatedAt = time.Now().UTC()

	return copyPost(stored), nil
}

// Delete removes a post.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func matches(p *Post, f Filter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Content), needle) {
			return false
		}
	}
	if len(f.Tags) > 0 {
		found := false
		for _, want := range f.Tags {
			for _, have := range p.Tags {
				if strings.EqualFold(want, have) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func copyPost(p *Post) *Post {
	cp := *p
	cp.Tags = append([]string(nil), p.Tags...)
	return &cp
}
