package services

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

var errLoyaltyRepositoryRequired = errors.New("loyalty service: repository is required")

// ErrLoyaltyInvalidInput indicates the caller supplied invalid input.
var ErrLoyaltyInvalidInput = errors.New("loyalty service: invalid input")

// LoyaltyServiceDeps wires the loyalty persistence.
type LoyaltyServiceDeps struct {
	Repository repositories.LoyaltyRepository
	Clock      func() time.Time
}

// LoyaltyService manages the per-shopper points balance. Points accrue at
// one point per whole euro of a placed order; Award is called internally by
// the order flow, never by handlers.
type LoyaltyService struct {
	repo repositories.LoyaltyRepository
	now  func() time.Time
}

// NewLoyaltyService constructs a LoyaltyService.
func NewLoyaltyService(deps LoyaltyServiceDeps) (*LoyaltyService, error) {
	if deps.Repository == nil {
		return nil, errLoyaltyRepositoryRequired
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &LoyaltyService{
		repo: deps.Repository,
		now:  func() time.Time { return clock().UTC() },
	}, nil
}

// Balance returns the account; users without history have a zero balance.
func (s *LoyaltyService) Balance(ctx context.Context, userID string) (domain.LoyaltyAccount, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return domain.LoyaltyAccount{}, ErrLoyaltyInvalidInput
	}
	return s.repo.Get(ctx, uid)
}

// Award credits points atomically and returns the updated account.
func (s *LoyaltyService) Award(ctx context.Context, userID string, points int64) (domain.LoyaltyAccount, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" || points < 0 {
		return domain.LoyaltyAccount{}, ErrLoyaltyInvalidInput
	}
	if points == 0 {
		return s.repo.Get(ctx, uid)
	}
	return s.repo.Add(ctx, uid, points, s.now())
}
