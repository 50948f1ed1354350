package views

import "github.com/tair/pharmadistrib/internal/domain"

// CartTotal sums price x quantity over the cart. Lines whose product cannot
// be found contribute nothing.
func CartTotal(cart []domain.CartLine, products []domain.Product) float64 {
	total := 0.0
	for _, line := range cart {
		if p, ok := domain.FindProduct(products, line.ProductID); ok {
			total += p.Price * float64(line.Quantity)
		}
	}
	return total
}

// CartQuantity is the number of units in the cart
func CartQuantity(cart []domain.CartLine) int {
	n := 0
	for _, line := range cart {
		n += line.Quantity
	}
	return n
}

// CartItem is a cart line resolved against the catalog
type CartItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
	Available   bool    `json:"available"`
}

// CartView is the cart as shown to the client
type CartView struct {
	Items    []CartItem `json:"items"`
	Quantity int        `json:"quantity"`
	Total    float64    `json:"total"`
}

// ResolveCart joins the cart with product data
func ResolveCart(cart []domain.CartLine, products []domain.Product) CartView {
	items := make([]CartItem, 0, len(cart))
	for _, line := range cart {
		item := CartItem{ProductID: line.ProductID, Quantity: line.Quantity}
		if p, ok := domain.FindProduct(products, line.ProductID); ok {
			item.ProductName = p.Name
			item.UnitPrice = p.Price
			item.Subtotal = p.Price * float64(line.Quantity)
			item.Available = true
		}
		items = append(items, item)
	}
	return CartView{
		Items:    items,
		Quantity: CartQuantity(cart),
		Total:    CartTotal(cart, products),
	}
}
