package domain

// OrderStatus is the lifecycle stage of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderLine is a product snapshot captured when the order was placed
type OrderLine struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order is a client purchase. Total is set by the caller at creation and is
// never recomputed from the lines.
type Order struct {
	ID           string      `json:"id"`
	ClientID     string      `json:"clientId"`
	ClientName   string      `json:"clientName"`
	Products     []OrderLine `json:"products"`
	Total        float64     `json:"total"`
	Status       OrderStatus `json:"status"`
	OrderDate    string      `json:"orderDate"`
	DeliveryDate string      `json:"deliveryDate,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

// ItemCount returns the number of lines on the order
func (o Order) ItemCount() int {
	return len(o.Products)
}

// CartLine is one product entry in the shopping cart. Quantity is always positive.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
