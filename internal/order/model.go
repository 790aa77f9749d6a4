package order

import "time"

// Item is a single line of an order. Immutable once the order is created.
// JSON names follow the authority's wire format.
type Item struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Customer is the delivery contact captured at order-creation time.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Order is the authority's view of one food order. The client treats
// every field except Status as opaque: TotalAmount is server-computed
// and is not recomputed locally.
type Order struct {
	ID                string     `json:"id"`
	OrderNumber       string     `json:"orderNumber"`
	Status            Status     `json:"status"`
	Items             []Item     `json:"items"`
	TotalAmount       float64    `json:"totalAmount"`
	Customer          Customer   `json:"customer"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}
