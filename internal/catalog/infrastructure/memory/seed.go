package memory

import (
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
)

type seedEntry struct {
	name, description, image string
	small, medium, large     int64
}

var menu = []seedEntry{
	{"Margherita Futurista", "Molho de tomate artesanal, mussarela premium, manjericão fresco",
		"https://images.unsplash.com/photo-1513104890138-7c749659a591", 25, 35, 45},
	{"Pepperoni Neo", "Molho especial, mussarela premium, pepperoni selecionado",
		"https://images.unsplash.com/photo-1574126154517-d1e0d89ef734", 30, 40, 50},
	{"Quattro Formaggi Cyber", "Molho branco, mussarela, gorgonzola, parmesão, provolone",
		"https://images.unsplash.com/photo-1552539618-7eec9b4d1796", 35, 45, 55},
	{"Vegana Neon", "Molho de tomate, queijo vegano, cogumelos, pimentões, azeitonas",
		"https://images.unsplash.com/photo-1565299624946-b28f40a0ca4b", 28, 38, 48},
}

// Seed returns the starter menu restricted to sizes. Entries that have no
// price for one of the configured sizes are left out.
func Seed(sizes domain.SizeSet) []domain.Entry {
	out := make([]domain.Entry, 0, len(menu))
	for i, m := range menu {
		known := map[domain.Size]int64{
			domain.SizeSmall:  m.small,
			domain.SizeMedium: m.medium,
			domain.SizeLarge:  m.large,
		}
		prices := make(map[domain.Size]decimal.Decimal, sizes.Len())
		for _, s := range sizes.Sizes() {
			p, ok := known[s]
			if !ok {
				break
			}
			prices[s] = decimal.NewFromInt(p)
		}
		if len(prices) != sizes.Len() {
			continue
		}
		out = append(out, domain.Entry{
			ID:          domain.EntryID(i + 1),
			Name:        m.name,
			Description: m.description,
			Image:       m.image,
			Prices:      prices,
		})
	}
	return out
}
