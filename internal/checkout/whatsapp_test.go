package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/example/fashion-catalog/internal/cart"
	"github.com/example/fashion-catalog/internal/readmodel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(name, brand, price string, qty int, size string, color *readmodel.Color) cart.Item {
	return cart.Item{
		Product: readmodel.Product{
			ID:    name,
			Name:  name,
			Brand: brand,
			Price: decimal.RequireFromString(price),
		},
		Quantity:      qty,
		SelectedSize:  size,
		SelectedColor: color,
	}
}

// ============================================
// Message Tests
// ============================================

func TestFormatMessage_FullLine(t *testing.T) {
	items := []cart.Item{
		line("Vestido Floral", "Farm", "25.50", 3, "M", &readmodel.Color{Name: "Azul", Hex: "#0000FF"}),
	}

	msg := FormatMessage(items)

	want := "Olá! Gostaria de solicitar uma cotação para os seguintes produtos:\n\n" +
		"1. *Vestido Floral*\n" +
		"   - Marca: Farm\n" +
		"   - Tamanho: M\n" +
		"   - Cor: Azul\n" +
		"   - Quantidade: 3\n" +
		"   - Preço unitário: R$ 25.50\n" +
		"   - Subtotal: R$ 76.50\n\n" +
		"*Total: R$ 76.50*\n\n" +
		"Aguardo retorno para finalizar a compra. Obrigado!"
	assert.Equal(t, want, msg)
}

func TestFormatMessage_OmitsMissingOptions(t *testing.T) {
	msg := FormatMessage([]cart.Item{line("Boné", "", "40", 1, "", nil)})

	assert.NotContains(t, msg, "Marca:")
	assert.NotContains(t, msg, "Tamanho:")
	assert.NotContains(t, msg, "Cor:")
	assert.Contains(t, msg, "   - Preço unitário: R$ 40.00\n")
}

func TestFormatMessage_EnumeratesAndTotals(t *testing.T) {
	items := []cart.Item{
		line("A", "X", "10.10", 2, "", nil),
		line("B", "Y", "0.30", 1, "", nil),
	}

	msg := FormatMessage(items)

	assert.Contains(t, msg, "1. *A*\n")
	assert.Contains(t, msg, "2. *B*\n")
	assert.Contains(t, msg, "   - Subtotal: R$ 20.20\n")
	assert.Contains(t, msg, "*Total: R$ 20.50*")
	assert.True(t, strings.HasSuffix(msg, "Obrigado!"))
}

// ============================================
// URL Tests
// ============================================

func TestURL_EncodesLikeEncodeURIComponent(t *testing.T) {
	u := URL("5593991084582", "Olá! *Total*: R$ 1 (x)")

	assert.Equal(t, "https://wa.me/5593991084582?text=Ol%C3%A1!%20*Total*%3A%20R%24%201%20(x)", u)
}

func TestURL_DecodesBackToMessage(t *testing.T) {
	msg := FormatMessage([]cart.Item{line("Saia + Blusa", "C&A", "99.99", 2, "P", nil)})

	parsed, err := url.Parse(URL("5593991084582", msg))
	require.NoError(t, err)

	assert.Equal(t, "wa.me", parsed.Host)
	assert.Equal(t, "/5593991084582", parsed.Path)
	assert.Equal(t, msg, parsed.Query().Get("text"))
	assert.NotContains(t, parsed.RawQuery, "+")
}

func TestURL_NumberFallbackAndNormalization(t *testing.T) {
	assert.True(t, strings.HasPrefix(URL("", "hi"), "https://wa.me/5593991084582?text="))
	assert.True(t, strings.HasPrefix(URL("+55 (93) 99108-4582", "hi"), "https://wa.me/5593991084582?text="))
}

func TestLink(t *testing.T) {
	_, err := Link("", nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	link, err := Link("5511999998888", []cart.Item{line("A", "", "1", 1, "", nil)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/5511999998888?text=Ol%C3%A1!%20Gostaria"))
}
