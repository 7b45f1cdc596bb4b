// Package pagination parses page-size and page-token query parameters and
// slices in-memory result lists into stable pages.
package pagination

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is the fallback number of items returned when the
	// client omits pageSize.
	DefaultPageSize = 20
	// DefaultMaxPageSize caps pageSize to keep responses bounded.
	DefaultMaxPageSize = 100
)

var (
	// ErrInvalidPageSize is returned when pageSize is not a positive integer.
	ErrInvalidPageSize = errors.New("pagination: invalid page size")
	// ErrInvalidPageToken is returned when pageToken cannot be decoded.
	ErrInvalidPageToken = errors.New("pagination: invalid page token")
)

// Params holds the resolved pagination window for a list request.
type Params struct {
	PageSize int
	Offset   int
}

type parseConfig struct {
	defaultSize int
	maxSize     int
}

// Option customises parsing limits.
type Option func(*parseConfig)

// WithDefaultPageSize overrides the page size used when the client omits one.
func WithDefaultPageSize(size int) Option {
	return func(cfg *parseConfig) {
		if size > 0 {
			cfg.defaultSize = size
		}
	}
}

// WithMaxPageSize overrides the upper bound applied to the requested size.
func WithMaxPageSize(size int) Option {
	return func(cfg *parseConfig) {
		if size > 0 {
			cfg.maxSize = size
		}
	}
}

// ParseParams reads pageSize and pageToken from the request query string.
// An oversized pageSize is clamped rather than rejected; a malformed value
// or token is an error the handler should surface as a bad request.
func ParseParams(r *http.Request, opts ...Option) (Params, error) {
	cfg := parseConfig{
		defaultSize: DefaultPageSize,
		maxSize:     DefaultMaxPageSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	params := Params{PageSize: cfg.defaultSize}

	query := r.URL.Query()
	if raw := strings.TrimSpace(query.Get("pageSize")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return Params{}, ErrInvalidPageSize
		}
		if size > cfg.maxSize {
			size = cfg.maxSize
		}
		params.PageSize = size
	}

	cursor, err := DecodeToken(query.Get("pageToken"))
	if err != nil {
		return Params{}, err
	}
	params.Offset = cursor.Offset

	return params, nil
}

// Window returns the half-open index range [start, end) this page covers
// within a list of the given length.
func (p Params) Window(total int) (int, int) {
	start := p.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if p.PageSize <= 0 {
		end = total
	}
	if end > total {
		end = total
	}
	return start, end
}

// NextToken returns the opaque token for the following page, or "" when the
// current page exhausts the list.
func (p Params) NextToken(total int) string {
	_, end := p.Window(total)
	if end >= total {
		return ""
	}
	return EncodeToken(Cursor{Offset: end})
}
