// Package seed fills an empty catalog with demo data for local development
package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/example/fashion-catalog/internal/command"
	"github.com/example/fashion-catalog/internal/domain/brand"
	"github.com/example/fashion-catalog/internal/domain/category"
	"github.com/example/fashion-catalog/internal/domain/product"
	"github.com/example/fashion-catalog/internal/domain/settings"
	"github.com/example/fashion-catalog/internal/query"
	"github.com/shopspring/decimal"
)

var Categories = []category.Details{
	{Name: "Roupas Femininas", Slug: "roupas-femininas", Subcategories: []string{"Vestidos", "Blusas", "Calças", "Saias", "Jaquetas"}},
	{Name: "Roupas Masculinas", Slug: "roupas-masculinas", Subcategories: []string{"Camisas", "Camisetas", "Calças", "Jaquetas", "Shorts"}},
	{Name: "Acessórios", Slug: "acessorios", Subcategories: []string{"Bolsas", "Sapatos", "Joias", "Óculos", "Cintos"}},
}

var Brands = []brand.Details{
	{Name: "Nike", Description: "Marca esportiva mundial"},
	{Name: "Adidas", Description: "Marca alemã de vestuário esportivo"},
	{Name: "Puma", Description: "Marca de roupas e acessórios esportivos"},
	{Name: "Zara"},
	{Name: "H&M"},
	{Name: "Farm"},
	{Name: "Reserva"},
	{Name: "Animale"},
	{Name: "Shoulder"},
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

var Products = []product.Details{
	{
		Name:          "Vestido Midi Floral",
		Description:   "Vestido midi em viscose com estampa floral exclusiva",
		Price:         price("289.90"),
		OriginalPrice: ptr(price("349.90")),
		Category:      "Roupas Femininas",
		Subcategory:   "Vestidos",
		Brand:         "Farm",
		Sizes:         []string{"P", "M", "G"},
		Colors:        []product.Color{{Name: "Verde", Hex: "#2F6B3A"}, {Name: "Rosa", Hex: "#E91E63"}},
		Images:        []string{"/products/vestido-midi-floral.jpg"},
		Stock:         12,
		Featured:      true,
		Tags:          []string{"verão", "estampado"},
		Rating:        ptr(4.8),
		ReviewCount:   ptr(124),
	},
	{
		Name:        "Blusa de Linho",
		Description: "Blusa leve de linho com botões frontais",
		Price:       price("159.90"),
		Category:    "Roupas Femininas",
		Subcategory: "Blusas",
		Brand:       "Animale",
		Sizes:       []string{"PP", "P", "M", "G"},
		Colors:      []product.Color{{Name: "Off White", Hex: "#F5F5F0"}},
		Images:      []string{"/products/blusa-linho.jpg"},
		Stock:       20,
		Tags:        []string{"linho", "básico"},
		Rating:      ptr(4.5),
		ReviewCount: ptr(38),
	},
	{
		Name:        "Jaqueta Jeans Oversized",
		Description: "Jaqueta jeans com lavagem clara e modelagem ampla",
		Price:       price("399.00"),
		Category:    "Roupas Femininas",
		Subcategory: "Jaquetas",
		Brand:       "Zara",
		Sizes:       []string{"P", "M", "G"},
		Colors:      []product.Color{{Name: "Azul Claro", Hex: "#9EC1E0"}},
		Images:      []string{"/products/jaqueta-jeans.jpg"},
		Stock:       5,
		Tags:        []string{"jeans", "inverno"},
	},
	{
		Name:        "Camisa Oxford Slim",
		Description: "Camisa social em algodão oxford com corte slim",
		Price:       price("219.90"),
		Category:    "Roupas Masculinas",
		Subcategory: "Camisas",
		Brand:       "Reserva",
		Sizes:       []string{"P", "M", "G", "GG"},
		Colors:      []product.Color{{Name: "Branco", Hex: "#FFFFFF"}, {Name: "Azul", Hex: "#1E3A8A"}},
		Images:      []string{"/products/camisa-oxford.jpg"},
		Stock:       18,
		Featured:    true,
		Tags:        []string{"social", "algodão"},
		Rating:      ptr(4.6),
		ReviewCount: ptr(87),
	},
	{
		Name:        "Camiseta Dry Fit",
		Description: "Camiseta esportiva com tecido de secagem rápida",
		Price:       price("129.99"),
		Category:    "Roupas Masculinas",
		Subcategory: "Camisetas",
		Brand:       "Nike",
		Sizes:       []string{"M", "G", "GG"},
		Colors:      []product.Color{{Name: "Preto", Hex: "#000000"}},
		Images:      []string{"/products/camiseta-dry-fit.jpg"},
		Stock:       40,
		Tags:        []string{"esporte", "treino"},
		Rating:      ptr(4.3),
		ReviewCount: ptr(210),
	},
	{
		Name:        "Bermuda de Sarja",
		Description: "Bermuda de sarja com elastano",
		Price:       price("139.90"),
		Category:    "Roupas Masculinas",
		Subcategory: "Shorts",
		Brand:       "Reserva",
		Sizes:       []string{"38", "40", "42", "44"},
		Colors:      []product.Color{{Name: "Cáqui", Hex: "#C3B091"}},
		Images:      []string{"/products/bermuda-sarja.jpg"},
		Stock:       0,
	},
	{
		Name:        "Tênis Ultraboost",
		Description: "Tênis de corrida com amortecimento responsivo",
		Price:       price("899.99"),
		Category:    "Acessórios",
		Subcategory: "Sapatos",
		Brand:       "Adidas",
		Sizes:       []string{"38", "39", "40", "41", "42"},
		Colors:      []product.Color{{Name: "Preto", Hex: "#000000"}, {Name: "Branco", Hex: "#FFF"}},
		Images:      []string{"/products/tenis-ultraboost.jpg"},
		Stock:       9,
		Featured:    true,
		Tags:        []string{"corrida", "esporte"},
		Rating:      ptr(4.9),
		ReviewCount: ptr(342),
	},
	{
		Name:        "Bolsa Tote de Couro",
		Description: "Bolsa tote em couro legítimo com alça de ombro",
		Price:       price("459.00"),
		Category:    "Acessórios",
		Subcategory: "Bolsas",
		Brand:       "Shoulder",
		Colors:      []product.Color{{Name: "Caramelo", Hex: "#A0522D"}},
		Images:      []string{"/products/bolsa-tote.jpg"},
		Stock:       7,
		Tags:        []string{"couro"},
	},
	{
		Name:        "Óculos de Sol Aviador",
		Description: "Óculos aviador com lentes polarizadas",
		Price:       price("249.90"),
		Category:    "Acessórios",
		Subcategory: "Óculos",
		Brand:       "Puma",
		Images:      []string{},
		Stock:       15,
		Tags:        []string{"verão", "proteção uv"},
		ReviewCount: ptr(12),
	},
}

// Seed creates the demo catalog when no categories exist yet. Projection
// must be synchronous so uniqueness checks see earlier inserts.
func Seed(ctx context.Context, commands *command.Handler, queries *query.Handler) (bool, error) {
	existing, err := queries.ListCategories(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		log.Printf("[Seed] Catalog already has %d categories, skipping", len(existing))
		return false, nil
	}

	for _, d := range Categories {
		if _, err := commands.CreateCategory(ctx, command.CreateCategory{Details: d}); err != nil {
			return false, fmt.Errorf("seeding category %q: %w", d.Name, err)
		}
	}
	for _, d := range Brands {
		if _, err := commands.CreateBrand(ctx, command.CreateBrand{Details: d}); err != nil {
			return false, fmt.Errorf("seeding brand %q: %w", d.Name, err)
		}
	}
	for _, d := range Products {
		if _, err := commands.CreateProduct(ctx, command.CreateProduct{Details: d}); err != nil {
			return false, fmt.Errorf("seeding product %q: %w", d.Name, err)
		}
	}
	if _, err := commands.UpdateSettings(ctx, command.UpdateSettings{Settings: settings.Defaults()}); err != nil {
		return false, fmt.Errorf("seeding settings: %w", err)
	}

	log.Printf("[Seed] Created %d categories, %d brands, %d products", len(Categories), len(Brands), len(Products))
	return true, nil
}
