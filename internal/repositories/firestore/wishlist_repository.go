package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	pfirestore "github.com/weinberg-digital/storefront-api/internal/platform/firestore"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

const wishlistCollectionPattern = "users/%s/wishlist"

type wishlistDocument struct {
	ProductID string    `firestore:"productId"`
	AddedAt   time.Time `firestore:"addedAt"`
}

// WishlistRepository stores saved products under a per-user subcollection,
// one document per product keyed by the product ID.
type WishlistRepository struct {
	provider *pfirestore.Provider
}

// NewWishlistRepository constructs a Firestore-backed wishlist repository.
func NewWishlistRepository(provider *pfirestore.Provider) (*WishlistRepository, error) {
	if provider == nil {
		return nil, errors.New("wishlist repository requires firestore provider")
	}
	return &WishlistRepository{provider: provider}, nil
}

// List returns the wishlist ordered by most recent addition.
func (r *WishlistRepository) List(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	coll, err := r.collection(ctx, userID)
	if err != nil {
		return nil, err
	}

	iter := coll.OrderBy("addedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var entries []domain.WishlistEntry
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, pfirestore.WrapError("wishlist.list", err)
		}
		var doc wishlistDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode wishlist entry %s: %w", snap.Ref.ID, err)
		}
		productID := doc.ProductID
		if strings.TrimSpace(productID) == "" {
			productID = snap.Ref.ID
		}
		entries = append(entries, domain.WishlistEntry{
			ProductID: productID,
			AddedAt:   doc.AddedAt,
		})
	}
	return entries, nil
}

// Put stores the entry and reports whether it was newly created; an existing
// entry keeps its original AddedAt.
func (r *WishlistRepository) Put(ctx context.Context, userID string, productID string, addedAt time.Time) (bool, error) {
	coll, err := r.collection(ctx, userID)
	if err != nil {
		return false, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return false, errors.New("wishlist repository: product id is required")
	}

	created := false
	err = r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := coll.Doc(productID)
		if _, err := tx.Get(docRef); err == nil {
			created = false
			return nil
		} else if status.Code(err) != codes.NotFound {
			return err
		}
		if err := tx.Set(docRef, wishlistDocument{
			ProductID: productID,
			AddedAt:   addedAt.UTC(),
		}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, pfirestore.WrapError("wishlist.put", err)
	}
	return created, nil
}

// Delete removes the entry; removing an absent product is not an error.
func (r *WishlistRepository) Delete(ctx context.Context, userID string, productID string) error {
	coll, err := r.collection(ctx, userID)
	if err != nil {
		return err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return errors.New("wishlist repository: product id is required")
	}
	if _, err := coll.Doc(productID).Delete(ctx); err != nil {
		return pfirestore.WrapError("wishlist.delete", err)
	}
	return nil
}

func (r *WishlistRepository) collection(ctx context.Context, userID string) (*firestore.CollectionRef, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("wishlist repository not initialised")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("wishlist repository: user id is required")
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(fmt.Sprintf(wishlistCollectionPattern, uid)), nil
}

var _ repositories.WishlistRepository = (*WishlistRepository)(nil)
