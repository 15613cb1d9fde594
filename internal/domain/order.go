package domain

import (
	"encoding/json"
	"errors"
	"time"
)

type OrderStatus string

// OrderReceived is the only status an order is ever created with.
const OrderReceived OrderStatus = "received"

var ErrOrderNotFound = errors.New("order not found")

// Required string fields are pointers so that only a missing key fails
// binding; an empty string is a valid value.
type OrderItem struct {
	Category *string  `json:"category" binding:"required"`
	Name     *string  `json:"name" binding:"required"`
	Size     *string  `json:"size"`
	Crust    *string  `json:"crust"`
	Toppings []string `json:"toppings"`
	Extras   []string `json:"extras"`
	Quantity int      `json:"quantity"`
}

// UnmarshalJSON defaults quantity to 1 only when the key is absent.
func (it *OrderItem) UnmarshalJSON(b []byte) error {
	type plain OrderItem
	p := plain{Quantity: 1}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*it = OrderItem(p)
	return nil
}

type CustomerInfo struct {
	FullName *string `json:"full_name" binding:"required"`
	Phone    *string `json:"phone" binding:"required"`
	DineType *string `json:"dine_type" binding:"required"`
	Address  *string `json:"address"`
}

type PaymentInfo struct {
	Method *string `json:"method" binding:"required"`
	Paid   bool    `json:"paid"`
}

// OrderCreate is the nested payload accepted by POST /orders.
type OrderCreate struct {
	Items    []OrderItem   `json:"items" binding:"required,dive"`
	Customer *CustomerInfo `json:"customer" binding:"required"`
	Payment  *PaymentInfo  `json:"payment"`
	Notes    *string       `json:"notes"`
}

// Order is the flat stored record. ItemsJSON is opaque to the store.
type Order struct {
	ID            int64       `json:"id"`
	CreatedAt     time.Time   `json:"created_at"`
	Status        OrderStatus `json:"status"`
	CustomerName  string      `json:"customer_name"`
	Phone         string      `json:"phone"`
	DineType      string      `json:"dine_type"`
	Address       *string     `json:"address"`
	ItemsJSON     string      `json:"items_json"`
	Notes         *string     `json:"notes"`
	PaymentMethod *string     `json:"payment_method"`
	Paid          bool        `json:"paid"`
}

func (o *Order) Items() ([]OrderItem, error) {
	var items []OrderItem
	if err := json.Unmarshal([]byte(o.ItemsJSON), &items); err != nil {
		return nil, err
	}
	return items, nil
}
