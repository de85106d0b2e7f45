package whatsapp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	catalog "github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
	order "github.com/dmehra2102/pizzeria-ordering/internal/order/domain"
)

var ErrNoDigits = errors.New("merchant phone has no digits")

const linkBase = "https://wa.me/"

func SizeLabel(s catalog.Size) string {
	switch s {
	case catalog.SizeSmall:
		return "Broto"
	case catalog.SizeMedium:
		return "Média"
	case catalog.SizeLarge:
		return "Grande"
	}
	return string(s)
}

// FormatMessage renders the order summary sent to the merchant.
func FormatMessage(o order.Order, merchantName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍕 *NOVO PEDIDO - %s*\n\n", merchantName)
	fmt.Fprintf(&b, "📋 *Pedido:* #%s\n", o.ID)
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "📍 *Endereço:* %s\n", o.Customer.Address)
	fmt.Fprintf(&b, "📞 *Telefone:* %s\n", o.Customer.Phone)
	fmt.Fprintf(&b, "💳 *Pagamento:* %s\n\n", o.PaymentMethod)
	b.WriteString("🍕 *Itens:*\n")
	for i, it := range o.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "• %s (%s) - Qtd: %d - R$ %s", it.Name, SizeLabel(it.Size), it.Quantity, it.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\n\n💰 *Total:* R$ %s", o.Total.StringFixed(2))
	return b.String()
}

// Link builds a click-to-chat URL for phone with text prefilled.
func Link(phone, text string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", ErrNoDigits
	}
	q := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return linkBase + digits + "?text=" + q, nil
}
