package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"printshop/internal/domain"
)

const blogCols = `id,title,slug,excerpt,content,image,author_id,category,tags,status,views,published_at,created_at,updated_at`

type BlogRepo struct{ db *sqlx.DB }

func NewBlogRepo(db *sqlx.DB) *BlogRepo { return &BlogRepo{db: db} }

type BlogFilter struct {
	Status   domain.BlogStatus
	Category domain.BlogCategory
	Search   string
	Tag      string
}

func (r *BlogRepo) List(ctx context.Context, f BlogFilter, p Page) ([]domain.Blog, int, error) {
	p = p.Normalize()
	var w where
	if f.Status != "" {
		w.add(`status = ?`, f.Status)
	}
	if f.Category != "" {
		w.add(`category = ?`, f.Category)
	}
	if f.Search != "" {
		pat := likePattern(f.Search)
		w.add(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(excerpt) LIKE ? ESCAPE '\')`, pat, pat)
	}
	if f.Tag != "" {
		w.add(`EXISTS (SELECT 1 FROM json_each(blogs.tags) WHERE json_each.value = ?)`, f.Tag)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM blogs`+w.String(), w.args...); err != nil {
		return nil, 0, storeErr(err, "blog", "blogs: count")
	}
	out := []domain.Blog{}
	args := append(append([]any{}, w.args...), p.Limit, p.Offset())
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+blogCols+` FROM blogs`+w.String()+` ORDER BY COALESCE(published_at, created_at) DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, storeErr(err, "blog", "blogs: list")
	}
	return out, total, nil
}

func (r *BlogRepo) Get(ctx context.Context, id string) (*domain.Blog, error) {
	var b domain.Blog
	if err := r.db.GetContext(ctx, &b, `SELECT `+blogCols+` FROM blogs WHERE id=?`, id); err != nil {
		return nil, storeErr(err, "blog", "blogs: get")
	}
	return &b, nil
}

func (r *BlogRepo) BySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	var b domain.Blog
	if err := r.db.GetContext(ctx, &b, `SELECT `+blogCols+` FROM blogs WHERE slug=?`, slug); err != nil {
		return nil, storeErr(err, "blog", "blogs: by slug")
	}
	return &b, nil
}

func (r *BlogRepo) Create(ctx context.Context, b *domain.Blog) error {
	ts := now()
	b.CreatedAt, b.UpdatedAt = ts, ts
	_, err := r.db.ExecContext(ctx, `INSERT INTO blogs(`+blogCols+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.Title, b.Slug, b.Excerpt, b.Content, b.Image, b.AuthorID, b.Category, b.Tags, b.Status,
		b.Views, b.PublishedAt, b.CreatedAt, b.UpdatedAt)
	return storeErr(err, "blog with this slug", "blogs: insert")
}

func (r *BlogRepo) Update(ctx context.Context, b *domain.Blog) error {
	b.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE blogs SET title=?, slug=?, excerpt=?, content=?, image=?, category=?, tags=?, status=?,
		  published_at=?, updated_at=?
		WHERE id=?`,
		b.Title, b.Slug, b.Excerpt, b.Content, b.Image, b.Category, b.Tags, b.Status, b.PublishedAt, b.UpdatedAt, b.ID)
	if err != nil {
		return storeErr(err, "blog with this slug", "blogs: update")
	}
	return mustAffect(res, "blog")
}

func (r *BlogRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE blogs SET views = views + 1 WHERE id=?`, id)
	return storeErr(err, "blog", "blogs: views")
}

func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id=?`, id)
	if err != nil {
		return storeErr(err, "blog", "blogs: delete")
	}
	return mustAffect(res, "blog")
}

const serviceCols = `id,name,slug,short_description,description,icon,image,category,price,price_unit,features,active,sort_order,created_at,updated_at`

type ServiceRepo struct{ db *sqlx.DB }

func NewServiceRepo(db *sqlx.DB) *ServiceRepo { return &ServiceRepo{db: db} }

type ServiceFilter struct {
	Category        domain.ServiceCategory
	Search          string
	IncludeInactive bool
}

func (r *ServiceRepo) List(ctx context.Context, f ServiceFilter) ([]domain.MarketingService, error) {
	var w where
	if !f.IncludeInactive {
		w.add(`active = 1`)
	}
	if f.Category != "" {
		w.add(`category = ?`, f.Category)
	}
	if f.Search != "" {
		pat := likePattern(f.Search)
		w.add(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(short_description) LIKE ? ESCAPE '\')`, pat, pat)
	}
	out := []domain.MarketingService{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+serviceCols+` FROM marketing_services`+w.String()+` ORDER BY sort_order, LOWER(name)`, w.args...)
	if err != nil {
		return nil, storeErr(err, "service", "services: list")
	}
	return out, nil
}

func (r *ServiceRepo) Get(ctx context.Context, id string) (*domain.MarketingService, error) {
	var s domain.MarketingService
	if err := r.db.GetContext(ctx, &s, `SELECT `+serviceCols+` FROM marketing_services WHERE id=?`, id); err != nil {
		return nil, storeErr(err, "service", "services: get")
	}
	return &s, nil
}

func (r *ServiceRepo) BySlug(ctx context.Context, slug string) (*domain.MarketingService, error) {
	var s domain.MarketingService
	if err := r.db.GetContext(ctx, &s, `SELECT `+serviceCols+` FROM marketing_services WHERE slug=?`, slug); err != nil {
		return nil, storeErr(err, "service", "services: by slug")
	}
	return &s, nil
}

func (r *ServiceRepo) Create(ctx context.Context, s *domain.MarketingService) error {
	ts := now()
	s.CreatedAt, s.UpdatedAt = ts, ts
	_, err := r.db.ExecContext(ctx, `INSERT INTO marketing_services(`+serviceCols+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.ID, s.Name, s.Slug, s.ShortDescription, s.Description, s.Icon, s.Image, s.Category, s.Price,
		s.PriceUnit, s.Features, s.Active, s.SortOrder, s.CreatedAt, s.UpdatedAt)
	return storeErr(err, "service with this slug", "services: insert")
}

func (r *ServiceRepo) Update(ctx context.Context, s *domain.MarketingService) error {
	s.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE marketing_services SET name=?, slug=?, short_description=?, description=?, icon=?, image=?,
		  category=?, price=?, price_unit=?, features=?, active=?, sort_order=?, updated_at=?
		WHERE id=?`,
		s.Name, s.Slug, s.ShortDescription, s.Description, s.Icon, s.Image, s.Category, s.Price,
		s.PriceUnit, s.Features, s.Active, s.SortOrder, s.UpdatedAt, s.ID)
	if err != nil {
		return storeErr(err, "service with this slug", "services: update")
	}
	return mustAffect(res, "service")
}

func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM marketing_services WHERE id=?`, id)
	if err != nil {
		return storeErr(err, "service", "services: delete")
	}
	return mustAffect(res, "service")
}
