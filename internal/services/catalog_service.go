package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printshop/internal/domain"
	"printshop/internal/repos"
	"printshop/internal/slug"
	"printshop/internal/validate"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

// ---------- Products ----------

func (s *CatalogService) ListProducts(ctx context.Context, f repos.ProductFilter, p repos.Page) ([]domain.Product, int, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, 0, domain.Invalid("unknown product category %q", f.Category)
	}
	f.Search = validate.Q(f.Search)
	return s.Prods.List(ctx, f, p)
}

// GetProduct accepts either the id or the slug. Inactive products are only
// visible when includeInactive is set.
func (s *CatalogService) GetProduct(ctx context.Context, idOrSlug string, includeInactive bool) (*domain.Product, error) {
	var (
		p   *domain.Product
		err error
	)
	if id, ok := validate.ID(idOrSlug); ok {
		p, err = s.Prods.Get(ctx, id)
	} else if slug.Valid(idOrSlug) {
		p, err = s.Prods.BySlug(ctx, idOrSlug)
	} else {
		return nil, domain.NotFound("product")
	}
	if err != nil {
		return nil, err
	}
	if !p.Active && !includeInactive {
		return nil, domain.NotFound("product")
	}
	return p, nil
}

// ProductInput carries admin edits. Nil pointers leave fields unchanged on update.
type ProductInput struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Category    *domain.ProductCategory `json:"category"`
	Price       *decimal.Decimal        `json:"price"`
	OldPrice    *decimal.Decimal        `json:"oldPrice"`
	Stock       *int                    `json:"stock"`
	Images      []string                `json:"images"`
	Features    []string                `json:"features"`
	Active      *bool                   `json:"active"`
	Featured    *bool                   `json:"featured"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if in.Name == nil || in.Price == nil || in.Category == nil {
		return nil, domain.Invalid("name, price and category are required")
	}
	p := &domain.Product{ID: uuid.NewString(), Active: true, Images: domain.Strings{}, Features: domain.Strings{}}
	if err := applyProduct(p, in); err != nil {
		return nil, err
	}
	if err := s.Prods.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := s.GetProduct(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := applyProduct(p, in); err != nil {
		return nil, err
	}
	if err := s.Prods.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.GetProduct(ctx, id, true)
	if err != nil {
		return err
	}
	return s.Prods.Delete(ctx, p.ID)
}

func applyProduct(p *domain.Product, in ProductInput) error {
	if in.Name != nil {
		name, ok := validate.Text(*in.Name, 200)
		if !ok {
			return domain.Invalid("product name is required")
		}
		p.Name = name
		p.Slug = slug.Make(name)
		if p.Slug == "" {
			return domain.Invalid("product name must contain letters or digits")
		}
	}
	if in.Description != nil {
		d, ok := validate.Optional(*in.Description, 5000)
		if !ok {
			return domain.Invalid("description is too long")
		}
		p.Description = d
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return domain.Invalid("unknown product category %q", *in.Category)
		}
		p.Category = *in.Category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return domain.Invalid("price cannot be negative")
		}
		p.Price = *in.Price
	}
	if in.OldPrice != nil {
		if in.OldPrice.IsNegative() {
			return domain.Invalid("old price cannot be negative")
		}
		p.OldPrice = decimal.NewNullDecimal(*in.OldPrice)
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return domain.Invalid("stock cannot be negative")
		}
		p.Stock = *in.Stock
	}
	if in.Images != nil {
		p.Images = domain.Strings(in.Images)
	}
	if in.Features != nil {
		p.Features = domain.Strings(in.Features)
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	return nil
}

// ---------- Categories ----------

func (s *CatalogService) ListCategories(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	return s.Cats.List(ctx, includeInactive)
}

// CategoryTree nests children under their top-level parents.
func (s *CatalogService) CategoryTree(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	all, err := s.Cats.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	children := map[string][]domain.Category{}
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	roots := []domain.Category{}
	for _, c := range all {
		if c.ParentID == nil {
			c.Children = children[c.ID]
			roots = append(roots, c)
		}
	}
	return roots, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, idOrSlug string) (*domain.Category, error) {
	if id, ok := validate.ID(idOrSlug); ok {
		return s.Cats.Get(ctx, id)
	}
	if slug.Valid(idOrSlug) {
		return s.Cats.BySlug(ctx, idOrSlug)
	}
	return nil, domain.NotFound("category")
}

type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Parent      *string `json:"parent"`
	Order       *int    `json:"order"`
	Active      *bool   `json:"active"`
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	if in.Name == nil {
		return nil, domain.Invalid("category name is required")
	}
	c := &domain.Category{ID: uuid.NewString(), Active: true}
	if err := s.applyCategory(ctx, c, in); err != nil {
		return nil, err
	}
	if err := s.Cats.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyCategory(ctx, c, in); err != nil {
		return nil, err
	}
	if err := s.Cats.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.Cats.CountChildren(ctx, c.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Invalid("category has subcategories")
	}
	return s.Cats.Delete(ctx, c.ID)
}

func (s *CatalogService) applyCategory(ctx context.Context, c *domain.Category, in CategoryInput) error {
	if in.Name != nil {
		name, ok := validate.Text(*in.Name, 100)
		if !ok {
			return domain.Invalid("category name is required")
		}
		c.Name = name
		c.Slug = slug.Make(name)
		if c.Slug == "" {
			return domain.Invalid("category name must contain letters or digits")
		}
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Image != nil {
		c.Image = *in.Image
	}
	if in.Order != nil {
		c.SortOrder = *in.Order
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if in.Parent != nil {
		if *in.Parent == "" {
			c.ParentID = nil
			return nil
		}
		if *in.Parent == c.ID {
			return domain.ErrSelfParent
		}
		parent, err := s.GetCategory(ctx, *in.Parent)
		if err != nil {
			if domain.IsNotFound(err) {
				return domain.Invalid("parent category not found")
			}
			return err
		}
		if parent.ID == c.ID {
			return domain.ErrSelfParent
		}
		if parent.ParentID != nil {
			return domain.Invalid("categories can only be nested one level deep")
		}
		n, err := s.Cats.CountChildren(ctx, c.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Invalid("a category with subcategories cannot have a parent")
		}
		c.ParentID = &parent.ID
	}
	return nil
}
