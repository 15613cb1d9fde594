package domain

import "github.com/shopspring/decimal"

type Menu struct {
	Pizzas []Pizza `json:"pizzas"`
	Sides  []Side  `json:"sides"`
	Drinks []Drink `json:"drinks"`
}

type Pizza struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Sizes       map[string]decimal.Decimal `json:"sizes"`
	Crusts      []string                   `json:"crusts"`
	Toppings    []string                   `json:"toppings"`
}

type Side struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

type Drink struct {
	Name  string                     `json:"name"`
	Sizes map[string]decimal.Decimal `json:"sizes"`
}
