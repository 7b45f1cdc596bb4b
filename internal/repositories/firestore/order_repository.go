package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	pfirestore "github.com/weinberg-digital/storefront-api/internal/platform/firestore"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

const orderCollection = "orders"

type orderItemDocument struct {
	ProductID string `firestore:"productId"`
	Name      string `firestore:"name"`
	Quantity  int    `firestore:"quantity"`
	UnitPrice int64  `firestore:"unitPrice"`
}

type orderDocument struct {
	Number   string              `firestore:"number"`
	UserID   string              `firestore:"userId"`
	Status   string              `firestore:"status"`
	Total    int64               `firestore:"total"`
	Items    []orderItemDocument `firestore:"items"`
	PlacedAt time.Time           `firestore:"placedAt"`
}

// OrderRepository persists the order history, one document per order.
type OrderRepository struct {
	base *pfirestore.BaseRepository[orderDocument]
}

// NewOrderRepository constructs a Firestore-backed order repository.
func NewOrderRepository(provider *pfirestore.Provider) (*OrderRepository, error) {
	if provider == nil {
		return nil, errors.New("order repository requires firestore provider")
	}
	return &OrderRepository{
		base: pfirestore.NewBaseRepository[orderDocument](provider, orderCollection),
	}, nil
}

// Insert writes the order document keyed by the order ID.
func (r *OrderRepository) Insert(ctx context.Context, order domain.Order) error {
	id := strings.TrimSpace(order.ID)
	if id == "" {
		return errors.New("order repository: order id is required")
	}
	if strings.TrimSpace(order.UserID) == "" {
		return errors.New("order repository: user id is required")
	}
	_, err := r.base.Set(ctx, id, encodeOrder(order))
	return err
}

// FindByID loads a single order document.
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (domain.Order, error) {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return domain.Order{}, errors.New("order repository: order id is required")
	}
	doc, err := r.base.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return decodeOrder(doc.ID, doc.Data), nil
}

// ListByUser returns the user's orders, most recent first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("order repository: user id is required")
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		return query.Where("userId", "==", uid).OrderBy("placedAt", firestore.Desc)
	})
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, decodeOrder(doc.ID, doc.Data))
	}
	return orders, nil
}

// DeleteByUser removes every order document belonging to the user.
func (r *OrderRepository) DeleteByUser(ctx context.Context, userID string) error {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("order repository: user id is required")
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		return query.Where("userId", "==", uid)
	})
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := r.base.Delete(ctx, doc.ID); err != nil {
			return err
		}
	}
	return nil
}

func encodeOrder(order domain.Order) orderDocument {
	doc := orderDocument{
		Number:   order.Number,
		UserID:   order.UserID,
		Status:   string(order.Status),
		Total:    order.Total,
		Items:    make([]orderItemDocument, 0, len(order.Items)),
		PlacedAt: order.PlacedAt.UTC(),
	}
	for _, item := range order.Items {
		doc.Items = append(doc.Items, orderItemDocument{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return doc
}

func decodeOrder(id string, doc orderDocument) domain.Order {
	order := domain.Order{
		ID:       id,
		Number:   doc.Number,
		UserID:   doc.UserID,
		Status:   domain.OrderStatus(doc.Status),
		Total:    doc.Total,
		Items:    make([]domain.OrderItem, 0, len(doc.Items)),
		PlacedAt: doc.PlacedAt,
	}
	for _, item := range doc.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)
