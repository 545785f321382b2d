package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"printshop/internal/domain"
	"printshop/internal/repos"
	"printshop/internal/validate"
)

type SearchResults struct {
	Query    string                    `json:"query"`
	Products []domain.Product          `json:"products"`
	Blogs    []domain.Blog             `json:"blogs"`
	Services []domain.MarketingService `json:"services"`
}

// SearchService looks a term up across the public collections.
type SearchService struct {
	Prods    *repos.ProductRepo
	Blogs    *repos.BlogRepo
	Services *repos.ServiceRepo
}

func NewSearchService(prods *repos.ProductRepo, blogs *repos.BlogRepo, svcs *repos.ServiceRepo) *SearchService {
	return &SearchService{Prods: prods, Blogs: blogs, Services: svcs}
}

func (s *SearchService) Search(ctx context.Context, q string, limit int) (*SearchResults, error) {
	q = validate.Q(q)
	res := &SearchResults{Query: q, Products: []domain.Product{}, Blogs: []domain.Blog{}, Services: []domain.MarketingService{}}
	if q == "" {
		return res, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	page := repos.Page{Page: 1, Limit: limit}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		res.Products, _, err = s.Prods.List(ctx, repos.ProductFilter{Search: q}, page)
		return
	})
	g.Go(func() (err error) {
		res.Blogs, _, err = s.Blogs.List(ctx, repos.BlogFilter{Search: q, Status: domain.BlogPublished}, page)
		return
	})
	g.Go(func() error {
		svcs, err := s.Services.List(ctx, repos.ServiceFilter{Search: q})
		if err != nil {
			return err
		}
		if len(svcs) > limit {
			svcs = svcs[:limit]
		}
		res.Services = svcs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
