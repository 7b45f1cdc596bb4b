package services

import (
	"sort"
	"strings"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/platform/i18n"
)

// FilterWines runs the catalog filtering pipeline: wines only, then search,
// category, tag, type, grape, flavor and quality predicates, then the sort
// pass. Every predicate treats missing fields as non-match; an empty or
// unknown sort key leaves the order untouched.
func FilterWines(products []domain.Product, state domain.FilterState) []domain.Wine {
	wines := make([]domain.Wine, 0, len(products))
	for _, product := range products {
		if product.Kind != domain.ProductKindWine || product.Wine == nil {
			continue
		}
		wine := *product.Wine
		if !matchesSearch(wine, state.Search) {
			continue
		}
		if !matchesCategory(wine, state.Category) {
			continue
		}
		if state.Tag != "" && !hasTagFold(wine, state.Tag) {
			continue
		}
		if state.Type != "" && string(wine.Type) != state.Type {
			continue
		}
		if state.Grape != "" && wine.GrapeVariety != state.Grape {
			continue
		}
		if state.Flavor != "" && !strings.EqualFold(wine.Flavor, state.Flavor) {
			continue
		}
		if !matchesQuality(wine, state.Quality) {
			continue
		}
		wines = append(wines, wine)
	}
	sortWines(wines, state.Sort)
	return wines
}

func matchesSearch(wine domain.Wine, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(wine.Name), query) ||
		strings.Contains(strings.ToLower(wine.Description), query) ||
		strings.Contains(strings.ToLower(wine.GrapeVariety), query)
}

func matchesCategory(wine domain.Wine, category string) bool {
	if category == "" {
		return true
	}
	if wineType, ok := domain.CategoryWineType(category); ok && wine.Type == wineType {
		return true
	}
	return strings.EqualFold(string(wine.Type), category)
}

func hasTagFold(wine domain.Wine, slug string) bool {
	for _, tag := range wine.Tags {
		if strings.EqualFold(tag.Slug, slug) {
			return true
		}
	}
	return false
}

// matchesQuality consults both the quality level and the edition field, as
// either may carry the series marker.
func matchesQuality(wine domain.Wine, quality string) bool {
	query := strings.ToLower(strings.TrimSpace(quality))
	if query == "" {
		return true
	}

	level := strings.ToLower(wine.QualityLevel)
	edition := strings.ToLower(wine.Edition)

	if query == "literweine" {
		return strings.Contains(level, "liter")
	}
	if strings.Contains(query, "edition") {
		letter := editionLetter(query)
		if letter != "" {
			return (strings.Contains(level, "edition") && strings.Contains(level, letter)) ||
				(strings.Contains(edition, "edition") && strings.Contains(edition, letter))
		}
	}
	return strings.Contains(level, query) || strings.Contains(edition, query)
}

// editionLetter pulls the series letter out of queries like "edition >p<".
func editionLetter(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	return strings.Trim(last, "<>")
}

func sortWines(wines []domain.Wine, key string) {
	switch key {
	case domain.SortPriceAsc:
		sort.SliceStable(wines, func(i, j int) bool {
			return wines[i].Price < wines[j].Price
		})
	case domain.SortPriceDesc:
		sort.SliceStable(wines, func(i, j int) bool {
			return wines[i].Price > wines[j].Price
		})
	case domain.SortNewest:
		sort.SliceStable(wines, func(i, j int) bool {
			return releaseYear(wines[i]) > releaseYear(wines[j])
		})
	}
}

// releaseYear prefers the vintage, then the year of the release date, else 0.
func releaseYear(wine domain.Wine) int {
	if wine.Year != 0 {
		return wine.Year
	}
	if !wine.ReleasedAt.IsZero() {
		return wine.ReleasedAt.Year()
	}
	return 0
}

// Facets lists the filter options still available within the current
// search/category/tag narrowing. Type, grape, flavor and quality constraints
// are deliberately NOT applied, so narrowing by grape keeps the other grape
// options visible.
type Facets struct {
	Grapes        []string `json:"grapes"`
	Flavors       []string `json:"flavors"`
	QualityLevels []string `json:"qualityLevels"`
}

// ExtractFacets computes the facet options for the given filter state.
func ExtractFacets(products []domain.Product, state domain.FilterState) Facets {
	subset := FilterWines(products, state.FacetBase())

	grapes := make(map[string]struct{})
	flavors := make(map[string]struct{})
	qualities := make(map[string]struct{})
	for _, wine := range subset {
		if wine.GrapeVariety != "" {
			grapes[wine.GrapeVariety] = struct{}{}
		}
		if flavor := strings.ToLower(strings.TrimSpace(wine.Flavor)); flavor != "" {
			flavors[flavor] = struct{}{}
		}
		if bucket := qualityBucket(wine); bucket != "" {
			qualities[bucket] = struct{}{}
		}
	}

	return Facets{
		Grapes:        sortedKeys(grapes),
		Flavors:       sortedKeys(flavors),
		QualityLevels: sortedKeys(qualities),
	}
}

// qualityBucket folds quality level and edition into the canonical facet
// values shown in the sidebar.
func qualityBucket(wine domain.Wine) string {
	if strings.Contains(strings.ToLower(wine.QualityLevel), "liter") {
		return "literweine"
	}
	for _, source := range []string{wine.QualityLevel, wine.Edition} {
		tokens := strings.Fields(strings.ToLower(source))
		for i, token := range tokens {
			if token != "edition" || i+1 >= len(tokens) {
				continue
			}
			if letter := strings.Trim(tokens[i+1], "<>"); len(letter) == 1 {
				return "edition >" + letter + "<"
			}
		}
	}
	return ""
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ActiveFilter is one removable chip above the product grid.
type ActiveFilter struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	Value        string `json:"value"`
	DisplayValue string `json:"displayValue"`
}

// Labeler resolves message keys for a locale; the i18n catalog implements it.
type Labeler interface {
	Label(locale, key string) string
}

// BuildActiveFilters projects the filter state onto chips in a fixed order.
// Search and sort are not chips: search has its own input, sort its own
// dropdown. Display values fall back to the raw value when no translation
// exists.
func BuildActiveFilters(state domain.FilterState, labels Labeler, locale string) []ActiveFilter {
	var chips []ActiveFilter

	add := func(key, value, displayValue string) {
		if value == "" {
			return
		}
		chips = append(chips, ActiveFilter{
			Key:          key,
			Label:        labels.Label(locale, "filter."+key),
			Value:        value,
			DisplayValue: displayValue,
		})
	}

	add(domain.FilterKeyCategory, state.Category, categoryDisplay(state.Category, labels, locale))
	add(domain.FilterKeyTag, state.Tag, state.Tag)
	add(domain.FilterKeyGrape, state.Grape, state.Grape)
	add(domain.FilterKeyFlavor, state.Flavor,
		labelOr(labels, locale, i18n.FlavorKey(strings.ToLower(state.Flavor)), state.Flavor))
	add(domain.FilterKeyQuality, state.Quality,
		labelOr(labels, locale, i18n.QualityKey(normalizeQuality(state.Quality)), state.Quality))
	add(domain.FilterKeyType, state.Type,
		labelOr(labels, locale, i18n.WineTypeKey(state.Type), state.Type))

	return chips
}

func categoryDisplay(category string, labels Labeler, locale string) string {
	if wineType, ok := domain.CategoryWineType(category); ok {
		if display := labelOr(labels, locale, i18n.WineTypeKey(string(wineType)), ""); display != "" {
			return display
		}
	}
	return labelOr(labels, locale, i18n.CategoryKey(category), category)
}

// normalizeQuality turns display values like "Edition >P<" into stable
// message-key suffixes ("edition_p").
func normalizeQuality(quality string) string {
	cleaned := strings.NewReplacer("<", "", ">", "").Replace(strings.ToLower(quality))
	return strings.Join(strings.Fields(cleaned), "_")
}

// labelOr resolves the key, falling back when the catalog has no entry.
func labelOr(labels Labeler, locale, key, fallback string) string {
	if value := labels.Label(locale, key); value != key {
		return value
	}
	return fallback
}
