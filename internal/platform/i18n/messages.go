package i18n

// Message keys used by the active filter projection and product views.
const (
	KeyFilterSearch   = "filter.search"
	KeyFilterCategory = "filter.category"
	KeyFilterTag      = "filter.tag"
	KeyFilterGrape    = "filter.grape"
	KeyFilterFlavor   = "filter.flavor"
	KeyFilterQuality  = "filter.quality"
	KeyFilterType     = "filter.type"
	KeyFilterSort     = "filter.sort"
)

// WineTypeKey returns the message key for a wine type value.
func WineTypeKey(wineType string) string {
	return "wine_type." + wineType
}

// CategoryKey returns the message key for a category slug.
func CategoryKey(slug string) string {
	return "category." + slug
}

// SortKey returns the message key for a sort order value.
func SortKey(sort string) string {
	return "sort." + sort
}

// FlavorKey returns the message key for a flavor value.
func FlavorKey(flavor string) string {
	return "flavor." + flavor
}

// QualityKey returns the message key for a normalized quality value.
func QualityKey(quality string) string {
	return "quality." + quality
}

var defaultMessages = map[string]map[string]string{
	"de": {
		KeyFilterSearch:   "Suche",
		KeyFilterCategory: "Kategorie",
		KeyFilterTag:      "Merkmal",
		KeyFilterGrape:    "Rebsorte",
		KeyFilterFlavor:   "Geschmack",
		KeyFilterQuality:  "Qualität",
		KeyFilterType:     "Weinart",
		KeyFilterSort:     "Sortierung",

		"wine_type.red":          "Rotwein",
		"wine_type.white":        "Weißwein",
		"wine_type.rose":         "Roséwein",
		"wine_type.sparkling":    "Sekt & Perlwein",
		"wine_type.alcohol_free": "Alkoholfrei",
		"wine_type.package":      "Weinpaket",
		"wine_type.other":        "Sonstiges",

		"category.rot":         "Rotweine",
		"category.weiss":       "Weißweine",
		"category.rose":        "Roséweine",
		"category.prickelndes": "Prickelndes",
		"category.weinpakete":  "Weinpakete",
		"category.alkoholfrei": "Alkoholfreie Weine",

		"sort.price_asc":  "Preis aufsteigend",
		"sort.price_desc": "Preis absteigend",
		"sort.newest":     "Neuheiten zuerst",

		"flavor.trocken":  "Trocken",
		"flavor.feinherb": "Feinherb",
		"flavor.fruchtig": "Fruchtig",

		"quality.literweine": "Literweine",
		"quality.edition_c":  "Edition >C<",
		"quality.edition_p":  "Edition >P<",
		"quality.edition_s":  "Edition >S<",
	},
	"en": {
		KeyFilterSearch:   "Search",
		KeyFilterCategory: "Category",
		KeyFilterTag:      "Attribute",
		KeyFilterGrape:    "Grape variety",
		KeyFilterFlavor:   "Taste",
		KeyFilterQuality:  "Quality",
		KeyFilterType:     "Wine type",
		KeyFilterSort:     "Sorting",

		"wine_type.red":          "Red wine",
		"wine_type.white":        "White wine",
		"wine_type.rose":         "Rosé wine",
		"wine_type.sparkling":    "Sparkling wine",
		"wine_type.alcohol_free": "Alcohol-free",
		"wine_type.package":      "Wine package",
		"wine_type.other":        "Other",

		"category.rot":         "Red wines",
		"category.weiss":       "White wines",
		"category.rose":        "Rosé wines",
		"category.prickelndes": "Sparkling wines",
		"category.weinpakete":  "Wine packages",
		"category.alkoholfrei": "Alcohol-free wines",

		"sort.price_asc":  "Price ascending",
		"sort.price_desc": "Price descending",
		"sort.newest":     "Newest first",

		"flavor.trocken":  "Dry",
		"flavor.feinherb": "Off-dry",
		"flavor.fruchtig": "Fruity",

		"quality.literweine": "Litre wines",
		"quality.edition_c":  "Edition >C<",
		"quality.edition_p":  "Edition >P<",
		"quality.edition_s":  "Edition >S<",
	},
}
