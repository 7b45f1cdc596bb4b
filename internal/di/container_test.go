package di

import (
	"context"
	"testing"

	"github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/platform/config"
	"github.com/weinberg-digital/storefront-api/internal/repositories/memory"
)

type staticFeed struct{}

func (staticFeed) FetchProducts(context.Context) ([]domain.Product, error) {
	return nil, nil
}

func TestNewContainerBuildsFullServiceGraph(t *testing.T) {
	cfg := config.Config{
		Features: config.FeatureFlags{
			EnableBookings: true,
			EnableLoyalty:  true,
			EnableWishlist: true,
		},
	}

	container, err := NewContainer(context.Background(), cfg, memory.NewRegistry(), Deps{Feed: staticFeed{}})
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	svc := container.Services
	if svc.Catalog == nil || svc.Cart == nil || svc.Orders == nil {
		t.Fatalf("expected core services, got %+v", svc)
	}
	if svc.Wishlist == nil || svc.Loyalty == nil || svc.Bookings == nil {
		t.Fatalf("expected feature services when flags enabled, got %+v", svc)
	}

	if err := container.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestNewContainerHonoursFeatureFlags(t *testing.T) {
	container, err := NewContainer(context.Background(), config.Config{}, memory.NewRegistry(), Deps{Feed: staticFeed{}})
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	svc := container.Services
	if svc.Wishlist != nil || svc.Loyalty != nil || svc.Bookings != nil {
		t.Fatalf("expected feature services to stay nil when flags disabled, got %+v", svc)
	}
	if svc.Catalog == nil || svc.Cart == nil || svc.Orders == nil {
		t.Fatalf("expected core services regardless of flags, got %+v", svc)
	}
}

func TestNewContainerValidatesDependencies(t *testing.T) {
	if _, err := NewContainer(context.Background(), config.Config{}, nil, Deps{Feed: staticFeed{}}); err == nil {
		t.Fatal("expected error without registry")
	}
	if _, err := NewContainer(context.Background(), config.Config{}, memory.NewRegistry(), Deps{}); err == nil {
		t.Fatal("expected error without product feed")
	}
}
