package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printshop/internal/domain"
	"printshop/internal/repos"
	"printshop/internal/slug"
	"printshop/internal/validate"
)

// ContentService manages the blog and the marketing service pages.
type ContentService struct {
	Blogs    *repos.BlogRepo
	Services *repos.ServiceRepo
	now      func() time.Time
}

func NewContentService(blogs *repos.BlogRepo, svcs *repos.ServiceRepo) *ContentService {
	return &ContentService{Blogs: blogs, Services: svcs, now: func() time.Time { return time.Now().UTC() }}
}

// ---------- Blog ----------

func (s *ContentService) ListBlogs(ctx context.Context, f repos.BlogFilter, p repos.Page) ([]domain.Blog, int, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, 0, domain.Invalid("unknown blog category %q", f.Category)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, domain.Invalid("unknown blog status %q", f.Status)
	}
	f.Search = validate.Q(f.Search)
	return s.Blogs.List(ctx, f, p)
}

// ReadBlog returns a published post by slug and counts the view.
func (s *ContentService) ReadBlog(ctx context.Context, slugOrID string) (*domain.Blog, error) {
	b, err := s.GetBlog(ctx, slugOrID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BlogPublished {
		return nil, domain.NotFound("blog")
	}
	if err := s.Blogs.IncrementViews(ctx, b.ID); err != nil {
		return nil, err
	}
	b.Views++
	return b, nil
}

func (s *ContentService) GetBlog(ctx context.Context, slugOrID string) (*domain.Blog, error) {
	if id, ok := validate.ID(slugOrID); ok {
		return s.Blogs.Get(ctx, id)
	}
	if slug.Valid(slugOrID) {
		return s.Blogs.BySlug(ctx, slugOrID)
	}
	return nil, domain.NotFound("blog")
}

type BlogInput struct {
	Title    *string              `json:"title"`
	Excerpt  *string              `json:"excerpt"`
	Content  *string              `json:"content"`
	Image    *string              `json:"image"`
	Category *domain.BlogCategory `json:"category"`
	Tags     []string             `json:"tags"`
	Status   *domain.BlogStatus   `json:"status"`
}

func (s *ContentService) CreateBlog(ctx context.Context, author *domain.User, in BlogInput) (*domain.Blog, error) {
	if in.Title == nil || in.Content == nil || in.Category == nil {
		return nil, domain.Invalid("title, content and category are required")
	}
	aid := author.ID
	b := &domain.Blog{ID: uuid.NewString(), AuthorID: &aid, Status: domain.BlogDraft, Tags: domain.Strings{}}
	status := in.Status
	in.Status = nil
	if err := applyBlog(b, in); err != nil {
		return nil, err
	}
	if status != nil && *status != domain.BlogDraft {
		if err := s.moveBlog(b, *status); err != nil {
			return nil, err
		}
	}
	if err := s.Blogs.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *ContentService) UpdateBlog(ctx context.Context, id string, in BlogInput) (*domain.Blog, error) {
	b, err := s.GetBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	status := in.Status
	in.Status = nil
	if err := applyBlog(b, in); err != nil {
		return nil, err
	}
	if status != nil && *status != b.Status {
		if err := s.moveBlog(b, *status); err != nil {
			return nil, err
		}
	}
	if err := s.Blogs.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// SetBlogStatus publishes, unpublishes or archives a post.
func (s *ContentService) SetBlogStatus(ctx context.Context, id string, to domain.BlogStatus) (*domain.Blog, error) {
	b, err := s.GetBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.moveBlog(b, to); err != nil {
		return nil, err
	}
	if err := s.Blogs.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *ContentService) moveBlog(b *domain.Blog, to domain.BlogStatus) error {
	if !to.Valid() {
		return domain.Invalid("unknown blog status %q", to)
	}
	if !b.Status.CanMoveTo(to) {
		return domain.ErrTransition(b.Status, to)
	}
	b.Status = to
	if to == domain.BlogPublished && b.PublishedAt == nil {
		ts := s.now()
		b.PublishedAt = &ts
	}
	return nil
}

func (s *ContentService) DeleteBlog(ctx context.Context, id string) error {
	b, err := s.GetBlog(ctx, id)
	if err != nil {
		return err
	}
	return s.Blogs.Delete(ctx, b.ID)
}

func applyBlog(b *domain.Blog, in BlogInput) error {
	if in.Title != nil {
		title, ok := validate.Text(*in.Title, 200)
		if !ok {
			return domain.Invalid("title is required")
		}
		b.Title = title
		if b.Slug = slug.Make(title); b.Slug == "" {
			return domain.Invalid("title must contain letters or digits")
		}
	}
	if in.Content != nil {
		content, ok := validate.Text(*in.Content, 100000)
		if !ok {
			return domain.Invalid("content is required")
		}
		b.Content = content
		if b.Excerpt == "" && in.Excerpt == nil {
			b.Excerpt = excerpt(content, 200)
		}
	}
	if in.Excerpt != nil {
		ex, ok := validate.Optional(*in.Excerpt, 500)
		if !ok {
			return domain.Invalid("excerpt is too long")
		}
		b.Excerpt = ex
	}
	if in.Image != nil {
		b.Image = strings.TrimSpace(*in.Image)
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return domain.Invalid("unknown blog category %q", *in.Category)
		}
		b.Category = *in.Category
	}
	if in.Tags != nil {
		tags := domain.Strings{}
		for _, t := range in.Tags {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				tags = append(tags, t)
			}
		}
		b.Tags = tags
	}
	return nil
}

func excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max])) + "..."
}

// ---------- Marketing services ----------

func (s *ContentService) ListServices(ctx context.Context, f repos.ServiceFilter) ([]domain.MarketingService, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, domain.Invalid("unknown service category %q", f.Category)
	}
	f.Search = validate.Q(f.Search)
	return s.Services.List(ctx, f)
}

func (s *ContentService) GetService(ctx context.Context, slugOrID string, includeInactive bool) (*domain.MarketingService, error) {
	var (
		svc *domain.MarketingService
		err error
	)
	if id, ok := validate.ID(slugOrID); ok {
		svc, err = s.Services.Get(ctx, id)
	} else if slug.Valid(slugOrID) {
		svc, err = s.Services.BySlug(ctx, slugOrID)
	} else {
		return nil, domain.NotFound("service")
	}
	if err != nil {
		return nil, err
	}
	if !svc.Active && !includeInactive {
		return nil, domain.NotFound("service")
	}
	return svc, nil
}

type ServiceInput struct {
	Name             *string                 `json:"name"`
	ShortDescription *string                 `json:"shortDescription"`
	Description      *string                 `json:"description"`
	Icon             *string                 `json:"icon"`
	Image            *string                 `json:"image"`
	Category         *domain.ServiceCategory `json:"category"`
	Price            *decimal.Decimal        `json:"price"`
	PriceUnit        *string                 `json:"priceUnit"`
	Features         []string                `json:"features"`
	Active           *bool                   `json:"active"`
	Order            *int                    `json:"order"`
}

func (s *ContentService) CreateService(ctx context.Context, in ServiceInput) (*domain.MarketingService, error) {
	if in.Name == nil || in.Category == nil {
		return nil, domain.Invalid("name and category are required")
	}
	svc := &domain.MarketingService{ID: uuid.NewString(), Active: true, Features: domain.Strings{}, Price: decimal.Zero}
	if err := applyService(svc, in); err != nil {
		return nil, err
	}
	if err := s.Services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *ContentService) UpdateService(ctx context.Context, id string, in ServiceInput) (*domain.MarketingService, error) {
	svc, err := s.GetService(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := applyService(svc, in); err != nil {
		return nil, err
	}
	if err := s.Services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *ContentService) DeleteService(ctx context.Context, id string) error {
	svc, err := s.GetService(ctx, id, true)
	if err != nil {
		return err
	}
	return s.Services.Delete(ctx, svc.ID)
}

func applyService(svc *domain.MarketingService, in ServiceInput) error {
	if in.Name != nil {
		name, ok := validate.Text(*in.Name, 200)
		if !ok {
			return domain.Invalid("service name is required")
		}
		svc.Name = name
		if svc.Slug = slug.Make(name); svc.Slug == "" {
			return domain.Invalid("service name must contain letters or digits")
		}
	}
	if in.ShortDescription != nil {
		v, ok := validate.Optional(*in.ShortDescription, 300)
		if !ok {
			return domain.Invalid("short description is too long")
		}
		svc.ShortDescription = v
	}
	if in.Description != nil {
		v, ok := validate.Optional(*in.Description, 10000)
		if !ok {
			return domain.Invalid("description is too long")
		}
		svc.Description = v
	}
	if in.Icon != nil {
		svc.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.Image != nil {
		svc.Image = strings.TrimSpace(*in.Image)
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return domain.Invalid("unknown service category %q", *in.Category)
		}
		svc.Category = *in.Category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return domain.Invalid("price cannot be negative")
		}
		svc.Price = *in.Price
	}
	if in.PriceUnit != nil {
		svc.PriceUnit = strings.TrimSpace(*in.PriceUnit)
	}
	if in.Features != nil {
		svc.Features = domain.Strings(in.Features)
	}
	if in.Active != nil {
		svc.Active = *in.Active
	}
	if in.Order != nil {
		svc.SortOrder = *in.Order
	}
	return nil
}
