// Package content implements blog posts, image metadata and funnel plans.
package content

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/content"
	"github.com/masgolf/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PostService handles blog post use cases
type PostService struct {
	repo   content.PostRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(repo content.PostRepository, logger *zap.Logger) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{repo: repo, logger: logger, now: time.Now}
}

// Create stores a post. The slug comes from the title when not given and
// gets a numeric suffix when taken.
func (s *PostService) Create(ctx context.Context, req CreatePostRequest) (*PostResponse, error) {
	p, err := content.NewBlogPost(req.Title, req.Content)
	if err != nil {
		return nil, err
	}
	now := s.now()
	base := strings.TrimSpace(req.Slug)
	if base == "" {
		base = req.Title
	}
	if p.Slug, err = s.uniqueSlug(ctx, content.Slugify(base, now), ""); err != nil {
		return nil, err
	}
	p.Excerpt = req.Excerpt
	p.FeaturedImage = req.FeaturedImage
	p.Category = strings.TrimSpace(req.Category)
	p.Tags = cleanTags(req.Tags)
	if req.Status != "" {
		if err := p.SetStatus(content.PostStatus(req.Status), now); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Blog post created",
		zap.String("post_id", p.ID.String()),
		zap.String("slug", p.Slug))
	resp := ToPostResponse(p)
	return &resp, nil
}

// uniqueSlug returns the first free candidate for base. current is the slug
// the post already owns, which counts as free.
func (s *PostService) uniqueSlug(ctx context.Context, base, current string) (string, error) {
	now := s.now()
	for attempt := 0; ; attempt++ {
		candidate := content.SlugCandidate(base, attempt, now)
		if candidate == current {
			return candidate, nil
		}
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists || attempt > content.MaxSlugAttempts {
			return candidate, nil
		}
	}
}

// GetByID returns a post
func (s *PostService) GetByID(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPostResponse(p)
	return &resp, nil
}

// GetBySlug returns a post by its slug
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*PostResponse, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToPostResponse(p)
	return &resp, nil
}

// List returns a page of posts
func (s *PostService) List(ctx context.Context, f ListPostsFilter) (shared.Paginated[PostResponse], error) {
	filter := content.PostFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		}.Normalize(),
		Status:   content.PostStatus(f.Status),
		Category: f.Category,
	}
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[PostResponse]{}, err
	}
	out := make([]PostResponse, len(items))
	for i := range items {
		out[i] = ToPostResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Update applies a partial update
func (s *PostService) Update(ctx context.Context, id uuid.UUID, req UpdatePostRequest) (*PostResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, shared.InvalidInput("title is required")
		}
		p.Title = title
	}
	if req.Slug != nil {
		base := strings.TrimSpace(*req.Slug)
		if base == "" {
			base = p.Title
		}
		if p.Slug, err = s.uniqueSlug(ctx, content.Slugify(base, now), p.Slug); err != nil {
			return nil, err
		}
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.Excerpt != nil {
		p.Excerpt = *req.Excerpt
	}
	if req.FeaturedImage != nil {
		p.FeaturedImage = *req.FeaturedImage
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Tags != nil {
		p.Tags = cleanTags(req.Tags)
	}
	if req.Status != nil {
		if err := p.SetStatus(content.PostStatus(*req.Status), now); err != nil {
			return nil, err
		}
	}
	p.Touch()

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPostResponse(p)
	return &resp, nil
}

// Delete removes a post
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Blog post deleted", zap.String("post_id", id.String()))
	return nil
}

func cleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
