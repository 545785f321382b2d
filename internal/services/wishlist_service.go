package services

import (
	"context"

	"printshop/internal/domain"
	"printshop/internal/repos"
	"printshop/internal/validate"
)

type WishlistService struct {
	Repo  *repos.WishlistRepo
	Prods *repos.ProductRepo
}

func NewWishlistService(r *repos.WishlistRepo, prods *repos.ProductRepo) *WishlistService {
	return &WishlistService{Repo: r, Prods: prods}
}

func (s *WishlistService) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	id, err := s.Repo.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.Items(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Wishlist{ID: id, UserID: userID, Items: items}, nil
}

// Save adds a product; saving the same product twice keeps one entry.
func (s *WishlistService) Save(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	pid, ok := validate.ID(productID)
	if !ok {
		return nil, domain.NotFound("product")
	}
	p, err := s.Prods.Get(ctx, pid)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, domain.NotFound("product")
	}
	id, err := s.Repo.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Add(ctx, id, pid); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *WishlistService) Unsave(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	id, err := s.Repo.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pid, ok := validate.ID(productID); ok {
		if err := s.Repo.Remove(ctx, id, pid); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, userID)
}

func (s *WishlistService) Clear(ctx context.Context, userID string) error {
	id, err := s.Repo.Ensure(ctx, userID)
	if err != nil {
		return err
	}
	return s.Repo.Clear(ctx, id)
}

func (s *WishlistService) Contains(ctx context.Context, userID, productID string) (bool, error) {
	pid, ok := validate.ID(productID)
	if !ok {
		return false, nil
	}
	id, err := s.Repo.Ensure(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.Repo.Contains(ctx, id, pid)
}
