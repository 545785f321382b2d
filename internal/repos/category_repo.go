package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"printshop/internal/domain"
)

const categoryCols = `id,name,slug,description,image,parent_id,sort_order,active,created_at,updated_at`

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	out := []domain.Category{}
	q := `SELECT ` + categoryCols + ` FROM categories`
	if !includeInactive {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY sort_order, LOWER(name)`
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, storeErr(err, "category", "categories: list")
	}
	return out, nil
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.GetContext(ctx, &c, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id); err != nil {
		return nil, storeErr(err, "category", "categories: get")
	}
	return &c, nil
}

func (r *CategoryRepo) BySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.GetContext(ctx, &c, `SELECT `+categoryCols+` FROM categories WHERE slug = ?`, slug); err != nil {
		return nil, storeErr(err, "category", "categories: by slug")
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	ts := now()
	c.CreatedAt, c.UpdatedAt = ts, ts
	_, err := r.db.ExecContext(ctx, `INSERT INTO categories(`+categoryCols+`) VALUES(?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.Name, c.Slug, c.Description, c.Image, c.ParentID, c.SortOrder, c.Active, c.CreatedAt, c.UpdatedAt)
	return storeErr(err, "category with this slug", "categories: insert")
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	c.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name=?, slug=?, description=?, image=?, parent_id=?, sort_order=?, active=?, updated_at=?
		WHERE id=?`,
		c.Name, c.Slug, c.Description, c.Image, c.ParentID, c.SortOrder, c.Active, c.UpdatedAt, c.ID)
	if err != nil {
		return storeErr(err, "category with this slug", "categories: update")
	}
	return mustAffect(res, "category")
}

func (r *CategoryRepo) CountChildren(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM categories WHERE parent_id = ?`, id)
	return n, storeErr(err, "category", "categories: children")
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=?`, id)
	if err != nil {
		return storeErr(err, "category", "categories: delete")
	}
	return mustAffect(res, "category")
}
