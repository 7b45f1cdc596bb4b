// Package catalogapi implements the HTTP client for the upstream winery
// catalog feed. The feed is the only writer of product data; the storefront
// treats it as read-only and snapshots the result in memory.
package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
)

const defaultRequestTimeout = 10 * time.Second

// Client fetches the product and event lists from the catalog feed.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	sanitizer  *bluemonday.Policy
	logger     *zap.Logger
}

// Option customises the catalog feed client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, primarily for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithRequestTimeout bounds each feed request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger attaches a logger for skipped-record diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient validates the feed location and constructs a client. The auth
// token may be empty for feeds that do not require one.
func NewClient(baseURL string, authToken string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalogapi: base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("catalogapi: invalid base url: %w", err)
	}

	client := &Client{
		baseURL:    baseURL,
		authToken:  strings.TrimSpace(authToken),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		sanitizer:  bluemonday.UGCPolicy(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// FetchProducts retrieves the full catalog: the wine list merged with the
// event list, in feed order. Records that fail validation are skipped, not
// fatal; transport and decode failures are.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	var wines []wineRecord
	if err := c.getJSON(ctx, "/products", &wines); err != nil {
		return nil, err
	}
	var events []eventRecord
	if err := c.getJSON(ctx, "/events", &events); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(wines)+len(events))
	for _, record := range wines {
		product := domain.WineProduct(record.toDomain(c.sanitizer))
		if err := product.Validate(); err != nil {
			c.logger.Warn("skipping invalid wine record",
				zap.String("id", record.ID),
				zap.Error(err))
			continue
		}
		products = append(products, product)
	}
	for _, record := range events {
		product := domain.EventProduct(record.toDomain())
		if err := product.Validate(); err != nil {
			c.logger.Warn("skipping invalid event record",
				zap.String("id", record.ID),
				zap.Error(err))
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("catalogapi: build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalogapi: fetch %s: %w", path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalogapi: fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("catalogapi: read %s: %w", path, err)
	}
	return decodeList(body, path, out)
}

// decodeList accepts either a bare JSON array or a {"data": [...]} envelope;
// the feed has shipped both shapes.
func decodeList(body []byte, path string, out any) error {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("catalogapi: decode %s envelope: %w", path, err)
		}
		if len(envelope.Data) == 0 {
			return fmt.Errorf("catalogapi: decode %s: envelope missing data array", path)
		}
		body = envelope.Data
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("catalogapi: decode %s: %w", path, err)
	}
	return nil
}

// flexPrice holds a euro amount in cents, decoded from either a JSON number
// or a numeric string.
type flexPrice int64

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*p = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	if strings.TrimSpace(raw) == "" {
		*p = 0
		return nil
	}
	value, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return fmt.Errorf("price %q is not numeric", raw)
	}
	*p = flexPrice(math.Round(value * 100))
	return nil
}

// flexTag decodes either the legacy bare-string tag or the {slug,label} object.
type flexTag domain.Tag

func (t *flexTag) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		t.Slug = strings.ToLower(label)
		t.Label = label
		return nil
	}
	var tag struct {
		Slug  string `json:"slug"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	t.Slug = tag.Slug
	t.Label = tag.Label
	return nil
}

type wineRecord struct {
	ID           string     `json:"id"`
	Slug         string     `json:"slug"`
	Name         string     `json:"name"`
	Image        string     `json:"image"`
	Price        flexPrice  `json:"price"`
	Sale         bool       `json:"sale"`
	SalePrice    *flexPrice `json:"sale_price"`
	Type         string     `json:"type"`
	GrapeVariety string     `json:"grapeVariety"`
	Flavor       string     `json:"flavor"`
	Year         int        `json:"year"`
	Edition      string     `json:"edition"`
	QualityLevel string     `json:"quality_level"`
	Tags         []flexTag  `json:"tags"`
	Description  string     `json:"description"`
	Alcohol      string     `json:"alcohol"`
	Sugar        string     `json:"sugar"`
	Acidity      string     `json:"acidity"`
	CreatedAt    string     `json:"created_at"`
}

func (r wineRecord) toDomain(sanitizer *bluemonday.Policy) domain.Wine {
	wine := domain.Wine{
		ID:           strings.TrimSpace(r.ID),
		Slug:         strings.TrimSpace(r.Slug),
		Name:         strings.TrimSpace(r.Name),
		Image:        strings.TrimSpace(r.Image),
		Price:        int64(r.Price),
		Sale:         r.Sale,
		Type:         wineTypeFromFeed(r.Type),
		GrapeVariety: strings.TrimSpace(r.GrapeVariety),
		Flavor:       strings.TrimSpace(r.Flavor),
		Year:         r.Year,
		Edition:      strings.TrimSpace(r.Edition),
		QualityLevel: strings.TrimSpace(r.QualityLevel),
		Description:  sanitizer.Sanitize(r.Description),
		Alcohol:      strings.TrimSpace(r.Alcohol),
		Sugar:        strings.TrimSpace(r.Sugar),
		Acidity:      strings.TrimSpace(r.Acidity),
	}
	if r.SalePrice != nil {
		salePrice := int64(*r.SalePrice)
		wine.SalePrice = &salePrice
	}
	if r.CreatedAt != "" {
		if releasedAt, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			wine.ReleasedAt = releasedAt
		}
	}
	for _, tag := range r.Tags {
		wine.Tags = append(wine.Tags, domain.Tag(tag))
	}
	return wine
}

func wineTypeFromFeed(value string) domain.WineType {
	switch domain.WineType(strings.ToLower(strings.TrimSpace(value))) {
	case domain.WineTypeRed:
		return domain.WineTypeRed
	case domain.WineTypeWhite:
		return domain.WineTypeWhite
	case domain.WineTypeRose:
		return domain.WineTypeRose
	case domain.WineTypeSparkling:
		return domain.WineTypeSparkling
	case domain.WineTypeAlcoholFree:
		return domain.WineTypeAlcoholFree
	case domain.WineTypePackage:
		return domain.WineTypePackage
	default:
		return domain.WineTypeOther
	}
}

type eventRecord struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Image    string    `json:"image"`
	Price    flexPrice `json:"price"`
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	Location string    `json:"location"`
	Category string    `json:"category"`
	Spots    *int      `json:"spots"`
	IsFull   bool      `json:"isFull"`
}

func (r eventRecord) toDomain() domain.Event {
	return domain.Event{
		ID:       strings.TrimSpace(r.ID),
		Title:    strings.TrimSpace(r.Title),
		Image:    strings.TrimSpace(r.Image),
		Price:    int64(r.Price),
		Date:     strings.TrimSpace(r.Date),
		Time:     strings.TrimSpace(r.Time),
		Location: strings.TrimSpace(r.Location),
		Category: domain.EventCategory(strings.TrimSpace(r.Category)),
		Spots:    r.Spots,
		IsFull:   r.IsFull,
	}
}
