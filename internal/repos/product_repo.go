package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"printshop/internal/domain"
)

const productCols = `id,name,slug,description,category,price,old_price,stock,images,features,active,featured,created_at,updated_at`

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// ProductFilter narrows catalog listings. Zero values mean "any".
type ProductFilter struct {
	Search       string
	Category     domain.ProductCategory
	Featured     bool
	MinPrice     decimal.NullDecimal
	MaxPrice     decimal.NullDecimal
	IncludeDraft bool
	Sort         string
}

var productSorts = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "LOWER(name)",
	"stock":     "stock",
}

func (r *ProductRepo) List(ctx context.Context, f ProductFilter, p Page) ([]domain.Product, int, error) {
	p = p.Normalize()
	var w where
	if !f.IncludeDraft {
		w.add(`active = 1`)
	}
	if f.Search != "" {
		pat := likePattern(f.Search)
		w.add(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pat, pat)
	}
	if f.Category != "" {
		w.add(`category = ?`, f.Category)
	}
	if f.Featured {
		w.add(`featured = 1`)
	}
	if f.MinPrice.Valid {
		w.add(`price >= ?`, f.MinPrice.Decimal)
	}
	if f.MaxPrice.Valid {
		w.add(`price <= ?`, f.MaxPrice.Decimal)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products`+w.String(), w.args...); err != nil {
		return nil, 0, storeErr(err, "product", "products: count")
	}
	out := []domain.Product{}
	args := append(append([]any{}, w.args...), p.Limit, p.Offset())
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+productCols+` FROM products`+w.String()+orderBy(f.Sort, productSorts, "created_at DESC")+` LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, storeErr(err, "product", "products: list")
	}
	return out, total, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.GetContext(ctx, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id); err != nil {
		return nil, storeErr(err, "product", "products: get")
	}
	return &p, nil
}

func (r *ProductRepo) BySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.GetContext(ctx, &p, `SELECT `+productCols+` FROM products WHERE slug = ?`, slug); err != nil {
		return nil, storeErr(err, "product", "products: by slug")
	}
	return &p, nil
}

// ByIDs loads the given products keyed by id; missing ids are simply absent.
func (r *ProductRepo) ByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	out := make(map[string]*domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`SELECT `+productCols+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, storeErr(err, "product", "products: by ids")
	}
	var rows []domain.Product
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, storeErr(err, "product", "products: by ids")
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	ts := now()
	p.CreatedAt, p.UpdatedAt = ts, ts
	_, err := r.db.ExecContext(ctx, `INSERT INTO products(`+productCols+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Slug, p.Description, p.Category, p.Price, p.OldPrice, p.Stock,
		p.Images, p.Features, p.Active, p.Featured, p.CreatedAt, p.UpdatedAt)
	return storeErr(err, "product with this slug", "products: insert")
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET name=?, slug=?, description=?, category=?, price=?, old_price=?, stock=?,
		  images=?, features=?, active=?, featured=?, updated_at=?
		WHERE id=?`,
		p.Name, p.Slug, p.Description, p.Category, p.Price, p.OldPrice, p.Stock,
		p.Images, p.Features, p.Active, p.Featured, p.UpdatedAt, p.ID)
	if err != nil {
		return storeErr(err, "product with this slug", "products: update")
	}
	return mustAffect(res, "product")
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return storeErr(err, "product", "products: delete")
	}
	return mustAffect(res, "product")
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`)
	return n, storeErr(err, "product", "products: count")
}
