// Package checkout turns a cart into a pre-filled WhatsApp message link
package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/example/fashion-catalog/internal/cart"
	"github.com/example/fashion-catalog/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// DefaultWhatsappNumber receives orders when the store has no number
// configured
const DefaultWhatsappNumber = "5593991084582"

const (
	greeting = "Olá! Gostaria de solicitar uma cotação para os seguintes produtos:"
	closing  = "Aguardo retorno para finalizar a compra. Obrigado!"
)

var ErrEmptyCart = errors.New("cart is empty")

// FormatMessage renders the cart as the quote request text
func FormatMessage(items []cart.Item) string {
	var b strings.Builder
	b.WriteString(greeting + "\n\n")

	total := decimal.Zero
	for i, item := range items {
		subtotal := item.Subtotal()
		total = total.Add(subtotal)

		fmt.Fprintf(&b, "%d. *%s*\n", i+1, item.Product.Name)
		if item.Product.Brand != "" {
			fmt.Fprintf(&b, "   - Marca: %s\n", item.Product.Brand)
		}
		if item.SelectedSize != "" {
			fmt.Fprintf(&b, "   - Tamanho: %s\n", item.SelectedSize)
		}
		if item.SelectedColor != nil {
			fmt.Fprintf(&b, "   - Cor: %s\n", item.SelectedColor.Name)
		}
		fmt.Fprintf(&b, "   - Quantidade: %d\n", item.Quantity)
		fmt.Fprintf(&b, "   - Preço unitário: R$ %s\n", item.Product.Price.StringFixed(2))
		fmt.Fprintf(&b, "   - Subtotal: R$ %s\n\n", subtotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "*Total: R$ %s*\n\n", total.StringFixed(2))
	b.WriteString(closing)
	return b.String()
}

// uriComponent undoes the escapes url.QueryEscape adds beyond what
// JavaScript's encodeURIComponent does, so links match the web storefront
var uriComponent = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s for use in a query value
func EncodeURIComponent(s string) string {
	return uriComponent.Replace(url.QueryEscape(s))
}

// URL builds the wa.me link carrying message. A blank number falls back to
// DefaultWhatsappNumber.
func URL(number, message string) string {
	number = settings.NormalizeNumber(number)
	if number == "" {
		number = DefaultWhatsappNumber
	}
	return "https://wa.me/" + number + "?text=" + EncodeURIComponent(message)
}

// Link formats the cart and returns the checkout URL
func Link(number string, items []cart.Item) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	return URL(number, FormatMessage(items)), nil
}
