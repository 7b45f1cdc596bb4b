package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/weinberg-digital/storefront-api/internal/platform/config"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
	"github.com/weinberg-digital/storefront-api/internal/services"
)

// Services bundles the storefront service layer assembled in NewContainer.
// Feature-gated services stay nil when their flag is off.
type Services struct {
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Wishlist *services.WishlistService
	Orders   *services.OrderService
	Bookings *services.BookingService
	Loyalty  *services.LoyaltyService
}

// Deps carries the externally owned collaborators the container wires into
// services: the upstream product feed and the optional event publisher.
type Deps struct {
	Feed      repositories.ProductFeed
	Publisher services.EventPublisher
	Clock     func() time.Time
	Logger    func(context.Context, string, map[string]any)
}

// Container wires repositories and services for runtime use.
type Container struct {
	Config       config.Config
	Repositories repositories.Registry
	Services     Services
}

// NewContainer constructs the runtime dependencies. Production wiring provides
// Firestore-backed registries; tests can supply in-memory ones.
func NewContainer(ctx context.Context, cfg config.Config, reg repositories.Registry, deps Deps) (*Container, error) {
	if reg == nil {
		return nil, errors.New("repositories registry is required")
	}
	if deps.Feed == nil {
		return nil, errors.New("product feed is required")
	}

	svc, err := buildServices(ctx, cfg, reg, deps)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:       cfg,
		Repositories: reg,
		Services:     svc,
	}, nil
}

// Close releases resources such as repository clients.
func (c *Container) Close(ctx context.Context) error {
	if c == nil || c.Repositories == nil {
		return nil
	}
	return c.Repositories.Close(ctx)
}

func buildServices(_ context.Context, cfg config.Config, reg repositories.Registry, deps Deps) (Services, error) {
	var svc Services

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	catalog, err := services.NewCatalogService(services.CatalogServiceDeps{
		Feed:   deps.Feed,
		Clock:  clock,
		Logger: deps.Logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build catalog service: %w", err)
	}
	svc.Catalog = catalog

	cartRepo := reg.Carts()
	if cartRepo == nil {
		return Services{}, errors.New("cart repository is required")
	}
	carts, err := services.NewCartService(services.CartServiceDeps{
		Repository: cartRepo,
		Catalog:    catalog,
		Clock:      clock,
		Logger:     deps.Logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build cart service: %w", err)
	}
	svc.Cart = carts

	if cfg.Features.EnableWishlist {
		if wishlistRepo := reg.Wishlists(); wishlistRepo != nil {
			wishlist, err := services.NewWishlistService(services.WishlistServiceDeps{
				Repository: wishlistRepo,
				Clock:      clock,
			})
			if err != nil {
				return Services{}, fmt.Errorf("build wishlist service: %w", err)
			}
			svc.Wishlist = wishlist
		}
	}

	if cfg.Features.EnableLoyalty {
		if loyaltyRepo := reg.Loyalty(); loyaltyRepo != nil {
			loyalty, err := services.NewLoyaltyService(services.LoyaltyServiceDeps{
				Repository: loyaltyRepo,
				Clock:      clock,
			})
			if err != nil {
				return Services{}, fmt.Errorf("build loyalty service: %w", err)
			}
			svc.Loyalty = loyalty
		}
	}

	ordersRepo := reg.Orders()
	counterRepo := reg.Counters()
	if ordersRepo != nil && counterRepo != nil {
		orderDeps := services.OrderServiceDeps{
			Repository: ordersRepo,
			Carts:      carts,
			Counters:   counterRepo,
			Publisher:  deps.Publisher,
			Clock:      clock,
			Logger:     deps.Logger,
		}
		if svc.Loyalty != nil {
			orderDeps.Loyalty = svc.Loyalty
		}
		orders, err := services.NewOrderService(orderDeps)
		if err != nil {
			return Services{}, fmt.Errorf("build order service: %w", err)
		}
		svc.Orders = orders
	}

	if cfg.Features.EnableBookings {
		if bookingRepo := reg.Bookings(); bookingRepo != nil {
			bookings, err := services.NewBookingService(services.BookingServiceDeps{
				Repository: bookingRepo,
				Catalog:    catalog,
				Publisher:  deps.Publisher,
				Clock:      clock,
				Logger:     deps.Logger,
			})
			if err != nil {
				return Services{}, fmt.Errorf("build booking service: %w", err)
			}
			svc.Bookings = bookings
		}
	}

	return svc, nil
}
