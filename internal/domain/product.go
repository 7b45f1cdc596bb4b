package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ProductKind discriminates the two product variants carried by the catalog.
// The upstream catalog feed mixes wines and winery events in a single list;
// the kind is assigned once at ingestion so downstream code never probes
// field presence.
type ProductKind string

const (
	// ProductKindWine marks sellable bottles, packages and alcohol-free items.
	ProductKindWine ProductKind = "wine"
	// ProductKindEvent marks bookable winery events (tastings, festivals, ...).
	ProductKindEvent ProductKind = "event"
)

// WineType enumerates the canonical wine categories used by filtering.
type WineType string

const (
	WineTypeRed         WineType = "red"
	WineTypeWhite       WineType = "white"
	WineTypeRose        WineType = "rose"
	WineTypeSparkling   WineType = "sparkling"
	WineTypeAlcoholFree WineType = "alcohol_free"
	WineTypePackage     WineType = "package"
	WineTypeOther       WineType = "other"
)

// EventCategory enumerates the winery event categories shown on the events page.
type EventCategory string

const (
	EventCategoryWeinfest      EventCategory = "Weinfest"
	EventCategoryWeinprobe     EventCategory = "Weinprobe"
	EventCategoryKellerblicke  EventCategory = "Kellerblicke"
	EventCategoryWeintreff     EventCategory = "Weintreff"
	EventCategoryAfterwork     EventCategory = "Afterwork"
	EventCategoryWeinwanderung EventCategory = "Weinwanderung"
	EventCategorySonstiges     EventCategory = "Sonstiges"
)

// Tag is a slug/label pair attached to a wine for quick filtering.
type Tag struct {
	Slug  string
	Label string
}

// Wine is the wine variant of a catalog product. Monetary amounts are held
// in euro cents; optional numeric-as-string vintner fields (alcohol, sugar,
// acidity) are passed through verbatim from the feed.
type Wine struct {
	ID           string
	Slug         string
	Name         string
	Image        string
	Price        int64
	Sale         bool
	SalePrice    *int64
	Type         WineType
	GrapeVariety string
	Flavor       string
	Year         int
	Edition      string
	QualityLevel string
	Tags         []Tag
	Description  string
	Alcohol      string
	Sugar        string
	Acidity      string
	ReleasedAt   time.Time
}

// EffectivePrice returns the sale price while a discount is active and
// defined, the regular price otherwise.
func (w Wine) EffectivePrice() int64 {
	if w.Sale && w.SalePrice != nil {
		return *w.SalePrice
	}
	return w.Price
}

// HasTag reports whether the wine carries a tag with the given slug.
func (w Wine) HasTag(slug string) bool {
	for _, tag := range w.Tags {
		if tag.Slug == slug {
			return true
		}
	}
	return false
}

// Event is the event variant of a catalog product. Date and Time are display
// strings owned by the feed; Spots is nil when the venue has no fixed capacity.
type Event struct {
	ID       string
	Title    string
	Image    string
	Price    int64
	Date     string
	Time     string
	Location string
	Category EventCategory
	Spots    *int
	IsFull   bool
}

// Product is the tagged union of Wine and Event. Exactly one of the two
// pointers is set, matching Kind; Validate enforces this at the ingestion
// boundary.
type Product struct {
	Kind  ProductKind
	Wine  *Wine
	Event *Event
}

// WineProduct wraps a wine as a catalog product.
func WineProduct(w Wine) Product {
	return Product{Kind: ProductKindWine, Wine: &w}
}

// EventProduct wraps an event as a catalog product.
func EventProduct(e Event) Product {
	return Product{Kind: ProductKindEvent, Event: &e}
}

// ID returns the stable identifier of whichever variant is populated.
func (p Product) ID() string {
	switch p.Kind {
	case ProductKindWine:
		if p.Wine != nil {
			return p.Wine.ID
		}
	case ProductKindEvent:
		if p.Event != nil {
			return p.Event.ID
		}
	}
	return ""
}

// Matches reports whether the product is addressed by the given identifier,
// accepting the wine slug as an alias for its id.
func (p Product) Matches(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if p.ID() == id {
		return true
	}
	return p.Kind == ProductKindWine && p.Wine != nil && p.Wine.Slug == id
}

// ErrInvalidProduct indicates a product whose kind and populated variant disagree.
var ErrInvalidProduct = errors.New("domain: invalid product")

// Validate checks the XOR invariant between Kind and the populated variant.
func (p Product) Validate() error {
	switch p.Kind {
	case ProductKindWine:
		if p.Wine == nil || p.Event != nil {
			return fmt.Errorf("%w: kind %q does not match populated variant", ErrInvalidProduct, p.Kind)
		}
		if strings.TrimSpace(p.Wine.ID) == "" {
			return fmt.Errorf("%w: wine id is required", ErrInvalidProduct)
		}
		if p.Wine.Price < 0 {
			return fmt.Errorf("%w: wine %s has negative price", ErrInvalidProduct, p.Wine.ID)
		}
		if p.Wine.SalePrice != nil && *p.Wine.SalePrice > p.Wine.Price {
			return fmt.Errorf("%w: wine %s sale price exceeds regular price", ErrInvalidProduct, p.Wine.ID)
		}
	case ProductKindEvent:
		if p.Event == nil || p.Wine != nil {
			return fmt.Errorf("%w: kind %q does not match populated variant", ErrInvalidProduct, p.Kind)
		}
		if strings.TrimSpace(p.Event.ID) == "" {
			return fmt.Errorf("%w: event id is required", ErrInvalidProduct)
		}
		if p.Event.Spots != nil && *p.Event.Spots < 0 {
			return fmt.Errorf("%w: event %s has negative spots", ErrInvalidProduct, p.Event.ID)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidProduct, p.Kind)
	}
	return nil
}
