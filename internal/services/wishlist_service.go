package services

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

var errWishlistRepositoryRequired = errors.New("wishlist service: repository is required")

// ErrWishlistInvalidInput indicates the caller supplied invalid input.
var ErrWishlistInvalidInput = errors.New("wishlist service: invalid input")

// WishlistServiceDeps wires the wishlist persistence.
type WishlistServiceDeps struct {
	Repository repositories.WishlistRepository
	Clock      func() time.Time
}

// WishlistService tracks the products a shopper has saved for later.
type WishlistService struct {
	repo repositories.WishlistRepository
	now  func() time.Time
}

// NewWishlistService constructs a WishlistService.
func NewWishlistService(deps WishlistServiceDeps) (*WishlistService, error) {
	if deps.Repository == nil {
		return nil, errWishlistRepositoryRequired
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &WishlistService{
		repo: deps.Repository,
		now:  func() time.Time { return clock().UTC() },
	}, nil
}

// List returns the saved entries, newest first.
func (s *WishlistService) List(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrWishlistInvalidInput
	}
	return s.repo.List(ctx, uid)
}

// Toggle flips the saved state and reports whether the product is now present.
func (s *WishlistService) Toggle(ctx context.Context, userID string, productID string) (bool, error) {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(productID)
	if uid == "" || pid == "" {
		return false, ErrWishlistInvalidInput
	}

	created, err := s.repo.Put(ctx, uid, pid, s.now())
	if err != nil {
		return false, err
	}
	if created {
		return true, nil
	}
	if err := s.repo.Delete(ctx, uid, pid); err != nil {
		return true, err
	}
	return false, nil
}

// Contains reports whether the product is saved.
func (s *WishlistService) Contains(ctx context.Context, userID string, productID string) (bool, error) {
	entries, err := s.List(ctx, userID)
	if err != nil {
		return false, err
	}
	pid := strings.TrimSpace(productID)
	for _, entry := range entries {
		if entry.ProductID == pid {
			return true, nil
		}
	}
	return false, nil
}

// Clear removes every entry.
func (s *WishlistService) Clear(ctx context.Context, userID string) error {
	entries, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	uid := strings.TrimSpace(userID)
	for _, entry := range entries {
		if err := s.repo.Delete(ctx, uid, entry.ProductID); err != nil {
			return err
		}
	}
	return nil
}
