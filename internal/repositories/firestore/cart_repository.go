// Package firestore provides the Firestore-backed implementations of the
// storefront repositories.
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	pfirestore "github.com/weinberg-digital/storefront-api/internal/platform/firestore"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

const cartCollection = "carts"

type cartItemDocument struct {
	ProductID string `firestore:"productId"`
	Quantity  int    `firestore:"quantity"`
}

type cartDocument struct {
	Items     []cartItemDocument `firestore:"items"`
	UpdatedAt time.Time          `firestore:"updatedAt"`
}

// CartRepository stores one cart document per user, keyed by the user ID.
type CartRepository struct {
	base *pfirestore.BaseRepository[cartDocument]
}

// NewCartRepository constructs a Firestore-backed cart repository.
func NewCartRepository(provider *pfirestore.Provider) (*CartRepository, error) {
	if provider == nil {
		return nil, errors.New("cart repository requires firestore provider")
	}
	return &CartRepository{
		base: pfirestore.NewBaseRepository[cartDocument](provider, cartCollection),
	}, nil
}

// Get loads the persisted cart for the user.
func (r *CartRepository) Get(ctx context.Context, userID string) (domain.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return domain.Cart{}, errors.New("cart repository: user id is required")
	}

	doc, err := r.base.Get(ctx, uid)
	if err != nil {
		return domain.Cart{}, err
	}

	cart := domain.Cart{
		UserID:    uid,
		Items:     make([]domain.CartItem, 0, len(doc.Data.Items)),
		UpdatedAt: doc.UpdateTime,
	}
	if cart.UpdatedAt.IsZero() {
		cart.UpdatedAt = doc.Data.UpdatedAt
	}
	for _, item := range doc.Data.Items {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return cart, nil
}

// Save upserts the full cart document. The item list is replaced wholesale so
// readers never observe a partially written cart.
func (r *CartRepository) Save(ctx context.Context, cart domain.Cart) error {
	uid := strings.TrimSpace(cart.UserID)
	if uid == "" {
		return errors.New("cart repository: user id is required")
	}

	updatedAt := cart.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	doc := cartDocument{
		Items:     make([]cartItemDocument, 0, len(cart.Items)),
		UpdatedAt: updatedAt,
	}
	for _, item := range cart.Items {
		doc.Items = append(doc.Items, cartItemDocument{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	_, err := r.base.Set(ctx, uid, doc)
	return err
}

// Delete removes the cart document. A missing cart is not an error.
func (r *CartRepository) Delete(ctx context.Context, userID string) error {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("cart repository: user id is required")
	}
	return r.base.Delete(ctx, uid)
}

var _ repositories.CartRepository = (*CartRepository)(nil)
