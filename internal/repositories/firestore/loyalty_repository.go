package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	pfirestore "github.com/weinberg-digital/storefront-api/internal/platform/firestore"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

const loyaltyCollection = "loyalty"

type loyaltyDocument struct {
	Points    int64     `firestore:"points"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// LoyaltyRepository stores one points account per user, keyed by the user ID.
type LoyaltyRepository struct {
	provider *pfirestore.Provider
	base     *pfirestore.BaseRepository[loyaltyDocument]
}

// NewLoyaltyRepository constructs a Firestore-backed loyalty repository.
func NewLoyaltyRepository(provider *pfirestore.Provider) (*LoyaltyRepository, error) {
	if provider == nil {
		return nil, errors.New("loyalty repository requires firestore provider")
	}
	return &LoyaltyRepository{
		provider: provider,
		base:     pfirestore.NewBaseRepository[loyaltyDocument](provider, loyaltyCollection),
	}, nil
}

// Get loads the account. A user without an account document has a zero balance.
func (r *LoyaltyRepository) Get(ctx context.Context, userID string) (domain.LoyaltyAccount, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return domain.LoyaltyAccount{}, errors.New("loyalty repository: user id is required")
	}

	doc, err := r.base.Get(ctx, uid)
	if err != nil {
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return domain.LoyaltyAccount{UserID: uid}, nil
		}
		return domain.LoyaltyAccount{}, err
	}
	return domain.LoyaltyAccount{
		UserID:    uid,
		Points:    doc.Data.Points,
		UpdatedAt: doc.Data.UpdatedAt,
	}, nil
}

// Add increments the balance inside a transaction and returns the new account
// state. Negative increments are rejected.
func (r *LoyaltyRepository) Add(ctx context.Context, userID string, points int64, now time.Time) (domain.LoyaltyAccount, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return domain.LoyaltyAccount{}, errors.New("loyalty repository: user id is required")
	}
	if points < 0 {
		return domain.LoyaltyAccount{}, errors.New("loyalty repository: points must not be negative")
	}

	var account domain.LoyaltyAccount
	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref, err := r.base.DocumentRef(ctx, uid)
		if err != nil {
			return err
		}

		var doc loyaltyDocument
		snapshot, err := tx.Get(ref)
		switch status.Code(err) {
		case codes.OK:
			if err := snapshot.DataTo(&doc); err != nil {
				return err
			}
		case codes.NotFound:
			// first award creates the account
		default:
			return err
		}

		doc.Points += points
		doc.UpdatedAt = now.UTC()
		if err := tx.Set(ref, doc); err != nil {
			return err
		}
		account = domain.LoyaltyAccount{
			UserID:    uid,
			Points:    doc.Points,
			UpdatedAt: doc.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return domain.LoyaltyAccount{}, pfirestore.WrapError("loyalty.add", err)
	}
	return account, nil
}

var _ repositories.LoyaltyRepository = (*LoyaltyRepository)(nil)
