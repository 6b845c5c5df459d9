package content

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/masgolf/backend/internal/domain/shared"
)

// PostStatus is the publication state of a blog post
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostArchived  PostStatus = "archived"
)

// IsValid reports whether s is a known status
func (s PostStatus) IsValid() bool {
	return s == PostDraft || s == PostPublished || s == PostArchived
}

// MaxSlugLength caps slug length in characters
const MaxSlugLength = 80

// MaxSlugAttempts bounds numeric suffixes before falling back to a timestamp
const MaxSlugAttempts = 100

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9가-힣\s-]`)
	slugSpaces = regexp.MustCompile(`[\s-]+`)
)

// BlogPost is a CMS article
type BlogPost struct {
	shared.BaseEntity
	Title         string     `gorm:"type:varchar(300);not null" json:"title"`
	Slug          string     `gorm:"type:varchar(120);not null;uniqueIndex" json:"slug"`
	Content       string     `gorm:"type:text" json:"content"`
	Excerpt       string     `gorm:"type:text" json:"excerpt,omitempty"`
	FeaturedImage string     `gorm:"type:text" json:"featured_image,omitempty"`
	Category      string     `gorm:"type:varchar(100);index" json:"category,omitempty"`
	Tags          []string   `gorm:"serializer:json;type:jsonb" json:"tags"`
	Status        PostStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

// TableName returns the table name for GORM
func (BlogPost) TableName() string {
	return "blog_posts"
}

// NewBlogPost creates a draft post; the slug is filled in by the caller
func NewBlogPost(title, body string) (*BlogPost, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.InvalidInput("title is required")
	}
	return &BlogPost{
		BaseEntity: shared.NewBaseEntity(),
		Title:      title,
		Content:    body,
		Tags:       []string{},
		Status:     PostDraft,
	}, nil
}

// SetStatus changes the status, stamping PublishedAt on first publication
func (p *BlogPost) SetStatus(s PostStatus, now time.Time) error {
	if !s.IsValid() {
		return shared.InvalidInput("status must be draft, published or archived")
	}
	if s == PostPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	p.Status = s
	p.Touch()
	return nil
}

// Slugify lowercases title, keeps latin letters, digits and Hangul, and joins words with '-'.
// An empty result falls back to "post-<unix millis>".
func Slugify(title string, now time.Time) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "")
	s = strings.Trim(slugSpaces.ReplaceAllString(s, "-"), "-")
	if r := []rune(s); len(r) > MaxSlugLength {
		s = strings.TrimRight(string(r[:MaxSlugLength]), "-")
	}
	if s == "" {
		return fmt.Sprintf("post-%d", now.UnixMilli())
	}
	return s
}

// SlugCandidate returns the attempt-th candidate for base: base, base-1, base-2, ...
// Past MaxSlugAttempts it returns base-<unix millis>.
func SlugCandidate(base string, attempt int, now time.Time) string {
	switch {
	case attempt == 0:
		return base
	case attempt > MaxSlugAttempts:
		return fmt.Sprintf("%s-%d", base, now.UnixMilli())
	default:
		return fmt.Sprintf("%s-%d", base, attempt)
	}
}
