package domain

import (
	"net/url"
	"strings"
)

// Filter keys as they appear in the storefront URL query string. The URL is
// the single source of truth for filter state; FilterState only exists as the
// parsed form of these parameters.
const (
	FilterKeySearch   = "search"
	FilterKeyCategory = "category"
	FilterKeyTag      = "tag"
	FilterKeyGrape    = "grape"
	FilterKeyFlavor   = "flavor"
	FilterKeyQuality  = "quality"
	FilterKeyType     = "type"
	FilterKeySort     = "sort"
)

// Sort keys accepted by the catalog listing.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// FilterState is the flat set of catalog filter criteria. Empty string means
// "no constraint from this dimension".
type FilterState struct {
	Search   string
	Category string
	Tag      string
	Grape    string
	Flavor   string
	Quality  string
	Type     string
	Sort     string
}

// ParseFilterState extracts the filter state from URL query parameters.
func ParseFilterState(values url.Values) FilterState {
	get := func(key string) string {
		return strings.TrimSpace(values.Get(key))
	}
	return FilterState{
		Search:   get(FilterKeySearch),
		Category: get(FilterKeyCategory),
		Tag:      get(FilterKeyTag),
		Grape:    get(FilterKeyGrape),
		Flavor:   get(FilterKeyFlavor),
		Quality:  get(FilterKeyQuality),
		Type:     get(FilterKeyType),
		Sort:     get(FilterKeySort),
	}
}

// Values serializes the state back into query parameters, omitting unset keys.
// ParseFilterState(f.Values()) round-trips.
func (f FilterState) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set(FilterKeySearch, f.Search)
	set(FilterKeyCategory, f.Category)
	set(FilterKeyTag, f.Tag)
	set(FilterKeyGrape, f.Grape)
	set(FilterKeyFlavor, f.Flavor)
	set(FilterKeyQuality, f.Quality)
	set(FilterKeyType, f.Type)
	set(FilterKeySort, f.Sort)
	return values
}

// IsZero reports whether no dimension is constrained and no sort is requested.
func (f FilterState) IsZero() bool {
	return f == FilterState{}
}

// Without returns a copy with the named filter dimension cleared. Unknown
// keys leave the state untouched; removing one active-filter chip must not
// disturb the others.
func (f FilterState) Without(key string) FilterState {
	switch key {
	case FilterKeySearch:
		f.Search = ""
	case FilterKeyCategory:
		f.Category = ""
	case FilterKeyTag:
		f.Tag = ""
	case FilterKeyGrape:
		f.Grape = ""
	case FilterKeyFlavor:
		f.Flavor = ""
	case FilterKeyQuality:
		f.Quality = ""
	case FilterKeyType:
		f.Type = ""
	case FilterKeySort:
		f.Sort = ""
	}
	return f
}

// FacetBase keeps only the dimensions that narrow the facet extraction input
// (search, category, tag). Grape, flavor, quality and type stay unconstrained
// so a shopper narrowing by grape still sees every flavor available within
// their category.
func (f FilterState) FacetBase() FilterState {
	return FilterState{
		Search:   f.Search,
		Category: f.Category,
		Tag:      f.Tag,
	}
}

// categoryTypes maps the human-facing category slugs used in navigation URLs
// to canonical wine types.
var categoryTypes = map[string]WineType{
	"rot":         WineTypeRed,
	"weiss":       WineTypeWhite,
	"rose":        WineTypeRose,
	"prickelndes": WineTypeSparkling,
	"weinpakete":  WineTypePackage,
	"alkoholfrei": WineTypeAlcoholFree,
}

// CategoryWineType resolves a category slug to its canonical wine type.
// Categories without a dedicated mapping fall back to a case-insensitive
// comparison against the raw type value at the call site.
func CategoryWineType(slug string) (WineType, bool) {
	t, ok := categoryTypes[slug]
	return t, ok
}
