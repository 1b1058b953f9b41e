// Command shop browses the catalog API and keeps a local cart that checks
// out through a WhatsApp quote link.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/example/fashion-catalog/internal/cart"
	"github.com/example/fashion-catalog/internal/catalog"
	"github.com/example/fashion-catalog/internal/checkout"
	"github.com/example/fashion-catalog/internal/client"
	"github.com/example/fashion-catalog/internal/readmodel"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

const usage = `Usage: shop [global flags] <command> [args]

Commands:
  products [filters]              list products
  product <id>                    show one product
  categories                      list categories
  cart [list]                     show the cart
  cart add <id> [--qty --size --color]
  cart remove <n>                 remove line n
  cart set <n> <qty>              change the quantity of line n (0 removes)
  cart clear                      empty the cart
  checkout [--number]             print the quote message and WhatsApp link

Global flags:
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "shop:", err)
		}
		os.Exit(1)
	}
}

type shop struct {
	api     *client.Client
	cart    *cart.Store
	out     io.Writer
	storage *cart.SQLiteStorage
}

func run(ctx context.Context, args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("shop", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	apiURL := flags.String("api", envOr("CATALOG_API_URL", "http://localhost:8080"), "catalog API base URL")
	cartDB := flags.String("cart-db", defaultCartDB(), "SQLite file holding the cart")
	timeout := flags.Duration("timeout", client.DefaultTimeout, "API request timeout")
	verbose := flags.BoolP("verbose", "v", false, "log diagnostics to stderr")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errUsage
	}

	api, err := client.New(*apiURL, *timeout)
	if err != nil {
		return err
	}
	s := &shop{api: api, out: out}

	cmd, rest := flags.Arg(0), flags.Args()[1:]
	switch cmd {
	case "products":
		return s.products(ctx, rest)
	case "product":
		return s.product(ctx, rest)
	case "categories":
		return s.categories(ctx)
	case "cart", "checkout":
		if err := s.openCart(*cartDB); err != nil {
			return err
		}
		defer s.storage.Close()
		if cmd == "cart" {
			return s.cartCmd(ctx, rest)
		}
		return s.checkout(ctx, rest)
	}

	flags.Usage()
	return errUsage
}

func (s *shop) openCart(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	storage, err := cart.OpenSQLite(path)
	if err != nil {
		return fmt.Errorf("opening cart: %w", err)
	}
	s.storage = storage
	s.cart = cart.Open(storage)
	return nil
}

func (s *shop) products(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("products", pflag.ContinueOnError)
	category := fs.String("category", "", "category slug")
	subcategory := fs.String("subcategory", "", "subcategory")
	brand := fs.String("brand", "", "brand name")
	search := fs.StringP("search", "s", "", "text to look for in name, description and tags")
	sort := fs.String("sort", "", "price_asc, price_desc, newest or popular")
	minPrice := fs.String("min-price", "", "lowest price")
	maxPrice := fs.String("max-price", "", "highest price")
	featured := fs.Bool("featured", false, "featured products only")
	page := fs.Int("page", 0, "page number")
	pageSize := fs.Int("page-size", 0, "products per page")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	opts := catalog.FilterOptions{
		Category:    *category,
		Subcategory: *subcategory,
		Brand:       *brand,
		Search:      *search,
		Featured:    *featured,
		Sort:        catalog.SortMode(*sort),
		Page:        *page,
		PageSize:    *pageSize,
	}
	var err error
	if opts.MinPrice, err = parsePrice(*minPrice); err != nil {
		return err
	}
	if opts.MaxPrice, err = parsePrice(*maxPrice); err != nil {
		return err
	}

	result, err := s.api.ListProducts(ctx, opts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tPRICE\tSTOCK")
	for _, p := range result.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Brand, brl(p.Price), p.Stock)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "page %d/%d (%d products)\n", result.Page, result.TotalPages, result.Total)
	return nil
}

func (s *shop) product(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: product <id>", errUsage)
	}
	p, err := s.api.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%s\n%s\n\n", p.Name, p.Description)
	fmt.Fprintf(s.out, "Marca:     %s\n", p.Brand)
	fmt.Fprintf(s.out, "Categoria: %s\n", strings.Trim(p.Category+" / "+p.Subcategory, " /"))
	if p.OriginalPrice != nil && p.OriginalPrice.GreaterThan(p.Price) {
		fmt.Fprintf(s.out, "Preço:     %s (de %s)\n", brl(p.Price), brl(*p.OriginalPrice))
	} else {
		fmt.Fprintf(s.out, "Preço:     %s\n", brl(p.Price))
	}
	if len(p.Sizes) > 0 {
		fmt.Fprintf(s.out, "Tamanhos:  %s\n", strings.Join(p.Sizes, ", "))
	}
	if len(p.Colors) > 0 {
		names := make([]string, 0, len(p.Colors))
		for _, c := range p.Colors {
			names = append(names, c.Name+" "+c.Hex)
		}
		fmt.Fprintf(s.out, "Cores:     %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(s.out, "Estoque:   %d\n", p.Stock)
	if p.Rating != nil {
		fmt.Fprintf(s.out, "Avaliação: %.1f (%d avaliações)\n", *p.Rating, p.Reviews())
	}
	return nil
}

func (s *shop) categories(ctx context.Context) error {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME\tSUBCATEGORIES")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Slug, c.Name, strings.Join(c.Subcategories, ", "))
	}
	return tw.Flush()
}

func (s *shop) cartCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return s.printCart()
	}

	switch args[0] {
	case "list":
		return s.printCart()
	case "add":
		return s.addToCart(ctx, args[1:])
	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("%w: cart remove <n>", errUsage)
		}
		i, err := s.lineIndex(args[1])
		if err != nil {
			return err
		}
		s.cart.RemoveFromCart(i)
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("%w: cart set <n> <qty>", errUsage)
		}
		i, err := s.lineIndex(args[1])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("quantity %q is not a number", args[2])
		}
		item := s.cart.Items()[i]
		if qty > 0 {
			if err := checkStock(&item.Product, qty, s.inCart(item.Product.ID, i)); err != nil {
				return err
			}
		}
		s.cart.UpdateQuantity(i, qty)
	case "clear":
		s.cart.ClearCart()
	default:
		return fmt.Errorf("%w: unknown cart command %q", errUsage, args[0])
	}
	return s.printCart()
}

func (s *shop) addToCart(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("cart add", pflag.ContinueOnError)
	qty := fs.IntP("qty", "q", 1, "quantity")
	size := fs.String("size", "", "size, one of the product sizes")
	colorArg := fs.String("color", "", "color name or hex code")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: cart add <id>", errUsage)
	}
	if *qty < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	p, err := s.api.GetProduct(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if *size != "" && !containsFold(p.Sizes, *size) {
		return fmt.Errorf("%s has no size %q (available: %s)", p.Name, *size, strings.Join(p.Sizes, ", "))
	}
	var color *readmodel.Color
	if *colorArg != "" {
		if color = findColor(p.Colors, *colorArg); color == nil {
			return fmt.Errorf("%s has no color %q", p.Name, *colorArg)
		}
	}

	if err := checkStock(p, *qty, s.inCart(p.ID, -1)); err != nil {
		return err
	}

	s.cart.AddToCart(p, *qty, canonicalSize(p.Sizes, *size), color)
	return s.printCart()
}

// inCart counts units of a product across all cart lines except skip
func (s *shop) inCart(productID string, skip int) int {
	n := 0
	for i, item := range s.cart.Items() {
		if i != skip && item.Product.ID == productID {
			n += item.Quantity
		}
	}
	return n
}

// checkStock rejects a quantity that, with what is already in the cart,
// exceeds the product's stock
func checkStock(p *readmodel.Product, qty, already int) error {
	if p.Stock <= 0 {
		return fmt.Errorf("%s está esgotado", p.Name)
	}
	if qty > p.Stock-already {
		return fmt.Errorf("%s: apenas %d disponíveis (%d já no carrinho)", p.Name, p.Stock, already)
	}
	return nil
}

func (s *shop) printCart() error {
	items := s.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(s.out, "Seu carrinho está vazio")
		return nil
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPRODUCT\tSIZE\tCOLOR\tQTY\tSUBTOTAL")
	for i, item := range items {
		color := ""
		if item.SelectedColor != nil {
			color = item.SelectedColor.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", i+1, item.Product.Name, item.SelectedSize, color, item.Quantity, brl(item.Subtotal()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d itens, total %s\n", s.cart.ItemCount(), brl(s.cart.Total()))
	return nil
}

func (s *shop) checkout(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("checkout", pflag.ContinueOnError)
	number := fs.String("number", "", "WhatsApp number, defaults to the store setting")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *number == "" {
		settings, err := s.api.GetSettings(ctx)
		if err != nil {
			log.Printf("[Shop] Could not load store settings, using default number: %v", err)
		} else {
			*number = settings.WhatsappNumber
		}
	}

	items := s.cart.Items()
	link, err := checkout.Link(*number, items)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s\n\n%s\n", checkout.FormatMessage(items), link)
	return nil
}

// lineIndex turns a 1-based cart line number into a slice index
func (s *shop) lineIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(s.cart.Items()) {
		return 0, fmt.Errorf("no cart line %q", arg)
	}
	return n - 1, nil
}

func parsePrice(v string) (*decimal.Decimal, error) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.Replace(v, ",", ".", 1))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", v)
	}
	return &d, nil
}

func brl(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

func containsFold(values []string, v string) bool {
	return canonicalSize(values, v) != ""
}

// canonicalSize returns the product's own spelling of size
func canonicalSize(sizes []string, size string) string {
	for _, s := range sizes {
		if strings.EqualFold(s, size) {
			return s
		}
	}
	return ""
}

func findColor(colors []readmodel.Color, v string) *readmodel.Color {
	for i := range colors {
		if strings.EqualFold(colors[i].Name, v) || strings.EqualFold(colors[i].Hex, v) {
			return &colors[i]
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultCartDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fashion-cart.db"
	}
	return filepath.Join(home, ".fashion-cart.db")
}
