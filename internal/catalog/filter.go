package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/fashion-catalog/internal/readmodel"
	"github.com/shopspring/decimal"
)

// SortMode selects the ordering of a product listing
type SortMode string

const (
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
	SortNewest    SortMode = "newest"
	SortPopular   SortMode = "popular"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Valid reports whether m is one of the known sort modes
func (m SortMode) Valid() bool {
	switch m {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortPopular:
		return true
	}
	return false
}

// FilterOptions describes a product listing request. Zero values mean
// "no constraint" for filters and "default" for sort and pagination.
type FilterOptions struct {
	Category    string
	Subcategory string
	Brand       string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Search      string
	Featured    bool
	Sort        SortMode
	Page        int
	PageSize    int
}

// Normalize fills defaults and clamps pagination to sane minimums
func (o FilterOptions) Normalize() FilterOptions {
	if !o.Sort.Valid() {
		o.Sort = SortNewest
	}
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.PageSize == 0 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize < 1 {
		o.PageSize = 1
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	return o
}

// Offset is the zero-based index of the first item on the requested page.
// Call on normalized options. Pages too far out to address saturate at
// math.MaxInt, which every store treats as past the end.
func (o FilterOptions) Offset() int {
	if o.Page <= 1 || o.PageSize < 1 {
		return 0
	}
	if o.Page-1 > math.MaxInt/o.PageSize {
		return math.MaxInt
	}
	return (o.Page - 1) * o.PageSize
}

// Matches reports whether p satisfies every active filter predicate
func (o FilterOptions) Matches(p *readmodel.Product) bool {
	if o.Category != "" && p.Category != o.Category {
		return false
	}
	if o.Subcategory != "" && p.Subcategory != o.Subcategory {
		return false
	}
	if o.Brand != "" && p.Brand != o.Brand {
		return false
	}
	if o.Featured && !p.Featured {
		return false
	}
	if o.MinPrice != nil && p.Price.LessThan(*o.MinPrice) {
		return false
	}
	if o.MaxPrice != nil && p.Price.GreaterThan(*o.MaxPrice) {
		return false
	}
	if o.Search != "" && !matchesSearch(p, strings.ToLower(o.Search)) {
		return false
	}
	return true
}

func matchesSearch(p *readmodel.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// ParseQuery reads filter options from listing query parameters.
// Malformed numbers are ignored.
func ParseQuery(q url.Values) FilterOptions {
	opts := FilterOptions{
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Brand:       q.Get("brand"),
		Search:      q.Get("search"),
		Featured:    q.Get("featured") == "true",
		Sort:        SortMode(q.Get("sort")),
	}

	if v := q.Get("minPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			opts.MinPrice = &d
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			opts.MaxPrice = &d
		}
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Page = n
		}
	}
	if v := q.Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.PageSize = n
		}
	}

	return opts
}

// Values encodes the options as query parameters, omitting unset fields
func (o FilterOptions) Values() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}

	set("category", o.Category)
	set("subcategory", o.Subcategory)
	set("brand", o.Brand)
	set("search", o.Search)
	set("sort", string(o.Sort))
	if o.Featured {
		q.Set("featured", "true")
	}
	if o.MinPrice != nil {
		q.Set("minPrice", o.MinPrice.String())
	}
	if o.MaxPrice != nil {
		q.Set("maxPrice", o.MaxPrice.String())
	}
	if o.Page != 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize != 0 {
		q.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	return q
}
