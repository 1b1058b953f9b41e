package catalog

import (
	"cmp"
	"slices"

	"github.com/example/fashion-catalog/internal/readmodel"
)

// Page is one page of a product listing plus total-count metadata
type Page struct {
	Data       []*readmodel.Product `json:"data"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
}

// Apply filters, sorts and paginates products. It never modifies the
// input slice; out-of-range pages yield an empty Data slice.
func Apply(products []*readmodel.Product, opts FilterOptions) Page {
	opts = opts.Normalize()

	filtered := make([]*readmodel.Product, 0, len(products))
	for _, p := range products {
		if opts.Matches(p) {
			filtered = append(filtered, p)
		}
	}

	Sort(filtered, opts.Sort)

	total := len(filtered)
	start := min(opts.Offset(), total)
	end := start + min(opts.PageSize, total-start)

	data := make([]*readmodel.Product, end-start)
	copy(data, filtered[start:end])

	return Page{
		Data:       data,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: TotalPages(total, opts.PageSize),
	}
}

// Sort orders products in place by mode. Ties keep their input order.
func Sort(products []*readmodel.Product, mode SortMode) {
	slices.SortStableFunc(products, compareFunc(mode))
}

func compareFunc(mode SortMode) func(a, b *readmodel.Product) int {
	switch mode {
	case SortPriceAsc:
		return func(a, b *readmodel.Product) int {
			return a.Price.Cmp(b.Price)
		}
	case SortPriceDesc:
		return func(a, b *readmodel.Product) int {
			return b.Price.Cmp(a.Price)
		}
	case SortPopular:
		return func(a, b *readmodel.Product) int {
			return cmp.Compare(b.Reviews(), a.Reviews())
		}
	default:
		return func(a, b *readmodel.Product) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}

// TotalPages is ceil(total / pageSize); pageSize below 1 counts as 1
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if total <= 0 {
		return 0
	}
	return (total-1)/pageSize + 1
}
