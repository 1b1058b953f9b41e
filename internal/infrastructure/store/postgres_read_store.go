package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/example/fashion-catalog/internal/catalog"
	"github.com/example/fashion-catalog/internal/readmodel"
	"github.com/shopspring/decimal"
)

var ErrUnknownCollection = errors.New("unknown collection")

var tables = map[string]string{
	CollectionProducts:   "read_products",
	CollectionCategories: "read_categories",
	CollectionBrands:     "read_brands",
	CollectionSettings:   "read_settings",
}

// PostgresReadStore implements ReadStoreInterface using PostgreSQL
type PostgresReadStore struct {
	db *sql.DB
	mu sync.Mutex // serializes Update's read-modify-write
}

// NewPostgresReadStore creates a new PostgreSQL-based read store
func NewPostgresReadStore(db *sql.DB) *PostgresReadStore {
	return &PostgresReadStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Set stores a read model
func (rs *PostgresReadStore) Set(ctx context.Context, collection, id string, data any) error {
	switch v := data.(type) {
	case *readmodel.Product:
		return rs.setProduct(ctx, v)
	case *readmodel.Category:
		return rs.setCategory(ctx, v)
	case *readmodel.Brand:
		return rs.setBrand(ctx, v)
	case *readmodel.StoreSettings:
		return rs.setSettings(ctx, id, v)
	}
	return fmt.Errorf("%w: %s (%T)", ErrUnknownCollection, collection, data)
}

// Get retrieves a read model by id
func (rs *PostgresReadStore) Get(ctx context.Context, collection, id string) (any, bool, error) {
	var (
		item any
		err  error
	)
	switch collection {
	case CollectionProducts:
		item, err = scanProduct(rs.db.QueryRowContext(ctx,
			`SELECT `+productColumns+` FROM read_products WHERE id = $1`, id))
	case CollectionCategories:
		item, err = scanCategory(rs.db.QueryRowContext(ctx,
			`SELECT `+categoryColumns+` FROM read_categories WHERE id = $1`, id))
	case CollectionBrands:
		item, err = scanBrand(rs.db.QueryRowContext(ctx,
			`SELECT `+brandColumns+` FROM read_brands WHERE id = $1`, id))
	case CollectionSettings:
		item, err = scanSettings(rs.db.QueryRowContext(ctx,
			`SELECT `+settingsColumns+` FROM read_settings WHERE id = $1`, id))
	default:
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting %s/%s: %v", collection, id, err)
		return nil, false, err
	}
	return item, true, nil
}

// GetAll retrieves all items in a collection
func (rs *PostgresReadStore) GetAll(ctx context.Context, collection string) ([]any, error) {
	var (
		query string
		scan  func(rowScanner) (any, error)
	)
	switch collection {
	case CollectionProducts:
		query = `SELECT ` + productColumns + ` FROM read_products ORDER BY seq ASC`
		scan = func(r rowScanner) (any, error) { return scanProduct(r) }
	case CollectionCategories:
		query = `SELECT ` + categoryColumns + ` FROM read_categories ORDER BY seq ASC`
		scan = func(r rowScanner) (any, error) { return scanCategory(r) }
	case CollectionBrands:
		query = `SELECT ` + brandColumns + ` FROM read_brands ORDER BY seq ASC`
		scan = func(r rowScanner) (any, error) { return scanBrand(r) }
	case CollectionSettings:
		query = `SELECT ` + settingsColumns + ` FROM read_settings`
		scan = func(r rowScanner) (any, error) { return scanSettings(r) }
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	rows, err := rs.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("[PostgresReadStore] Error listing %s: %v", collection, err)
		return nil, err
	}
	defer rows.Close()

	items := []any{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Delete removes a read model
func (rs *PostgresReadStore) Delete(ctx context.Context, collection, id string) error {
	table, ok := tables[collection]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	_, err := rs.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		log.Printf("[PostgresReadStore] Error deleting from %s: %v", collection, err)
	}
	return err
}

// Update modifies a read model using an update function
func (rs *PostgresReadStore) Update(ctx context.Context, collection, id string, updateFn func(current any) any) (bool, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	current, found, err := rs.Get(ctx, collection, id)
	if err != nil || !found {
		return false, err
	}

	if err := rs.Set(ctx, collection, id, updateFn(current)); err != nil {
		return false, err
	}
	return true, nil
}

// SearchProducts runs the listing pipeline in SQL. Ordering ties fall back
// to insertion order so results match the in-memory pipeline.
func (rs *PostgresReadStore) SearchProducts(ctx context.Context, opts catalog.FilterOptions) (catalog.Page, error) {
	opts = opts.Normalize()
	where, args := productPredicates(opts)

	var total int
	if err := rs.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM read_products`+where, args...,
	).Scan(&total); err != nil {
		return catalog.Page{}, fmt.Errorf("count products: %w", err)
	}

	args = append(args, opts.PageSize, opts.Offset())
	query := fmt.Sprintf(`SELECT %s FROM read_products%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, where, productOrder(opts.Sort), len(args)-1, len(args))

	rows, err := rs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return catalog.Page{}, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	data := []*readmodel.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return catalog.Page{}, err
		}
		data = append(data, p)
	}
	if err := rows.Err(); err != nil {
		return catalog.Page{}, err
	}

	return catalog.Page{
		Data:       data,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: catalog.TotalPages(total, opts.PageSize),
	}, nil
}

func productPredicates(opts catalog.FilterOptions) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if opts.Category != "" {
		add("category = $%d", opts.Category)
	}
	if opts.Subcategory != "" {
		add("subcategory = $%d", opts.Subcategory)
	}
	if opts.Brand != "" {
		add("brand = $%d", opts.Brand)
	}
	if opts.Featured {
		conds = append(conds, "featured")
	}
	if opts.MinPrice != nil {
		add("price >= $%d", *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		add("price <= $%d", *opts.MaxPrice)
	}
	if opts.Search != "" {
		add(`(POSITION($%[1]d IN LOWER(name)) > 0
			OR POSITION($%[1]d IN LOWER(description)) > 0
			OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(tag) WHERE POSITION($%[1]d IN LOWER(t.tag)) > 0))`,
			strings.ToLower(opts.Search))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func productOrder(mode catalog.SortMode) string {
	switch mode {
	case catalog.SortPriceAsc:
		return "price ASC, seq ASC"
	case catalog.SortPriceDesc:
		return "price DESC, seq ASC"
	case catalog.SortPopular:
		return "COALESCE(review_count, 0) DESC, seq ASC"
	default:
		return "created_at DESC, seq ASC"
	}
}

// Products

const productColumns = `id, name, description, price, original_price, category, subcategory, brand,
	sizes, colors, images, stock, featured, tags, rating, review_count, created_at, updated_at`

func (rs *PostgresReadStore) setProduct(ctx context.Context, p *readmodel.Product) error {
	var original any
	if p.OriginalPrice != nil {
		original = *p.OriginalPrice
	}
	var rating any
	if p.Rating != nil {
		rating = *p.Rating
	}
	var reviewCount any
	if p.ReviewCount != nil {
		reviewCount = *p.ReviewCount
	}

	_, err := rs.db.ExecContext(ctx, `
		INSERT INTO read_products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			category = EXCLUDED.category,
			subcategory = EXCLUDED.subcategory,
			brand = EXCLUDED.brand,
			sizes = EXCLUDED.sizes,
			colors = EXCLUDED.colors,
			images = EXCLUDED.images,
			stock = EXCLUDED.stock,
			featured = EXCLUDED.featured,
			tags = EXCLUDED.tags,
			rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count,
			updated_at = EXCLUDED.updated_at
	`, p.ID, p.Name, p.Description, p.Price, original, p.Category, p.Subcategory, p.Brand,
		jsonArray(p.Sizes), jsonArray(p.Colors), jsonArray(p.Images), p.Stock, p.Featured, jsonArray(p.Tags),
		rating, reviewCount, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting product: %v", err)
	}
	return err
}

func scanProduct(row rowScanner) (*readmodel.Product, error) {
	var (
		p                           readmodel.Product
		original                    decimal.NullDecimal
		sizes, colors, images, tags []byte
		rating                      sql.NullFloat64
		reviewCount                 sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &original, &p.Category, &p.Subcategory, &p.Brand,
		&sizes, &colors, &images, &p.Stock, &p.Featured, &tags, &rating, &reviewCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	if original.Valid {
		v := original.Decimal
		p.OriginalPrice = &v
	}
	if rating.Valid {
		v := rating.Float64
		p.Rating = &v
	}
	if reviewCount.Valid {
		v := int(reviewCount.Int64)
		p.ReviewCount = &v
	}
	for _, f := range []struct {
		raw  []byte
		dest any
	}{{sizes, &p.Sizes}, {colors, &p.Colors}, {images, &p.Images}, {tags, &p.Tags}} {
		if err := json.Unmarshal(f.raw, f.dest); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

// Categories

const categoryColumns = `id, name, slug, subcategories, image, created_at, updated_at`

func (rs *PostgresReadStore) setCategory(ctx context.Context, c *readmodel.Category) error {
	_, err := rs.db.ExecContext(ctx, `
		INSERT INTO read_categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			subcategories = EXCLUDED.subcategories,
			image = EXCLUDED.image,
			updated_at = EXCLUDED.updated_at
	`, c.ID, c.Name, c.Slug, jsonArray(c.Subcategories), c.Image, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting category: %v", err)
	}
	return err
}

func scanCategory(row rowScanner) (*readmodel.Category, error) {
	var c readmodel.Category
	var subcategories []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &subcategories, &c.Image, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(subcategories, &c.Subcategories); err != nil {
		return nil, fmt.Errorf("decode category %s: %w", c.ID, err)
	}
	return &c, nil
}

// Brands

const brandColumns = `id, name, slug, description, logo, created_at, updated_at`

func (rs *PostgresReadStore) setBrand(ctx context.Context, b *readmodel.Brand) error {
	_, err := rs.db.ExecContext(ctx, `
		INSERT INTO read_brands (`+brandColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			description = EXCLUDED.description,
			logo = EXCLUDED.logo,
			updated_at = EXCLUDED.updated_at
	`, b.ID, b.Name, b.Slug, b.Description, b.Logo, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting brand: %v", err)
	}
	return err
}

func scanBrand(row rowScanner) (*readmodel.Brand, error) {
	var b readmodel.Brand
	if err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.Logo, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Settings

const settingsColumns = `store_name, logo, whatsapp_number, whatsapp_message, instagram, facebook,
	email, address, phone, updated_at`

func (rs *PostgresReadStore) setSettings(ctx context.Context, id string, s *readmodel.StoreSettings) error {
	_, err := rs.db.ExecContext(ctx, `
		INSERT INTO read_settings (id, `+settingsColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			store_name = EXCLUDED.store_name,
			logo = EXCLUDED.logo,
			whatsapp_number = EXCLUDED.whatsapp_number,
			whatsapp_message = EXCLUDED.whatsapp_message,
			instagram = EXCLUDED.instagram,
			facebook = EXCLUDED.facebook,
			email = EXCLUDED.email,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
	`, id, s.StoreName, s.Logo, s.WhatsappNumber, s.WhatsappMessage, s.Instagram, s.Facebook,
		s.Email, s.Address, s.Phone, s.UpdatedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting settings: %v", err)
	}
	return err
}

func scanSettings(row rowScanner) (*readmodel.StoreSettings, error) {
	var s readmodel.StoreSettings
	if err := row.Scan(&s.StoreName, &s.Logo, &s.WhatsappNumber, &s.WhatsappMessage, &s.Instagram, &s.Facebook,
		&s.Email, &s.Address, &s.Phone, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// jsonArray encodes a slice for a NOT NULL jsonb column; nil becomes [].
// Sent as text since lib/pq would encode []byte as bytea.
func jsonArray[T any](v []T) string {
	if v == nil {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
