package i18n

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/weinberg-digital/storefront-api/internal/platform/requestctx"
)

// ErrUnsupportedLocale is returned when a catalog is constructed with a default
// locale outside the supported set.
var ErrUnsupportedLocale = errors.New("i18n: default locale not in supported set")

// Catalog negotiates request locales and resolves display labels for the
// storefront's filter chips and product attributes.
type Catalog struct {
	fallback  string
	supported []string
	matcher   language.Matcher
	messages  map[string]map[string]string
}

// NewCatalog builds a Catalog for the supported locales. The default locale
// must be present in the supported list.
func NewCatalog(defaultLocale string, supported []string) (*Catalog, error) {
	fallback := strings.ToLower(strings.TrimSpace(defaultLocale))
	if fallback == "" {
		return nil, errors.New("i18n: default locale is required")
	}

	var tags []language.Tag
	var normalized []string
	found := false
	for _, locale := range supported {
		locale = strings.ToLower(strings.TrimSpace(locale))
		if locale == "" {
			continue
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("i18n: invalid supported locale %q: %w", locale, err)
		}
		if locale == fallback {
			found = true
			// The matcher prefers earlier tags; the default goes first.
			tags = append([]language.Tag{tag}, tags...)
			normalized = append([]string{locale}, normalized...)
			continue
		}
		tags = append(tags, tag)
		normalized = append(normalized, locale)
	}
	if !found {
		return nil, ErrUnsupportedLocale
	}

	return &Catalog{
		fallback:  fallback,
		supported: normalized,
		matcher:   language.NewMatcher(tags),
		messages:  defaultMessages,
	}, nil
}

// DefaultLocale returns the catalog's fallback locale.
func (c *Catalog) DefaultLocale() string {
	return c.fallback
}

// Supported returns the normalized supported locale list.
func (c *Catalog) Supported() []string {
	out := make([]string, len(c.supported))
	copy(out, c.supported)
	return out
}

// Negotiate resolves the best supported locale for an Accept-Language header
// value. An empty or unparsable header yields the default locale.
func (c *Catalog) Negotiate(acceptLanguage string) string {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return c.fallback
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return c.fallback
	}
	_, index, confidence := c.matcher.Match(desired...)
	if confidence == language.No {
		return c.fallback
	}
	if index < 0 || index >= len(c.supported) {
		return c.fallback
	}
	return c.supported[index]
}

// Label resolves a message key for the given locale, falling back to the
// default locale and finally to the key itself when no translation exists.
func (c *Catalog) Label(locale, key string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if msgs, ok := c.messages[locale]; ok {
		if label, ok := msgs[key]; ok {
			return label
		}
	}
	if locale != c.fallback {
		if msgs, ok := c.messages[c.fallback]; ok {
			if label, ok := msgs[key]; ok {
				return label
			}
		}
	}
	return key
}

// Middleware negotiates the locale from the Accept-Language header and stores
// it in the request context for downstream handlers.
func (c *Catalog) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := c.Negotiate(r.Header.Get("Accept-Language"))
			ctx := requestctx.WithLocale(r.Context(), locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
