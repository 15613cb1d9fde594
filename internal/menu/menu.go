package menu

import (
	"github.com/shopspring/decimal"

	"pizza-shop/internal/domain"
)

func init() {
	// Process-wide: every decimal.Decimal in this binary marshals as a JSON
	// number. Menu prices are the only decimals the service encodes.
	decimal.MarshalJSONWithoutQuotes = true
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sizes(small, medium, large string) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"small":  price(small),
		"medium": price(medium),
		"large":  price(large),
	}
}

// Default returns a fresh copy of the shop catalog on every call.
func Default() domain.Menu {
	return domain.Menu{
		Pizzas: []domain.Pizza{
			{
				Name:        "Margherita",
				Description: "Classic pizza with tomato, mozzarella, fresh basil",
				Sizes:       sizes("7.99", "9.99", "11.99"),
				Crusts:      []string{"thin", "hand-tossed", "cheese-burst"},
				Toppings:    []string{"extra cheese", "olives", "jalapenos", "onions", "mushrooms"},
			},
			{
				Name:        "Pepperoni",
				Description: "Tomato, mozzarella, pepperoni",
				Sizes:       sizes("8.99", "10.99", "12.99"),
				Crusts:      []string{"thin", "hand-tossed"},
				Toppings:    []string{"extra cheese", "onions", "mushrooms"},
			},
			{
				Name:        "Veggie",
				Description: "Tomato, mozzarella, onions, capsicum, olives, mushrooms",
				Sizes:       sizes("8.49", "10.49", "12.49"),
				Crusts:      []string{"thin", "hand-tossed", "wheat"},
				Toppings:    []string{"extra cheese", "jalapenos", "corn"},
			},
		},
		Sides: []domain.Side{
			{Name: "Garlic Bread", Price: price("3.49"), Description: "Buttery garlic bread"},
			{Name: "Cheesy Sticks", Price: price("4.99"), Description: "Mozzarella sticks"},
		},
		Drinks: []domain.Drink{
			{Name: "Coke", Sizes: sizes("1.49", "1.99", "2.49")},
			{Name: "Sprite", Sizes: sizes("1.49", "1.99", "2.49")},
			{Name: "Water", Sizes: map[string]decimal.Decimal{"small": price("0.99")}},
		},
	}
}
