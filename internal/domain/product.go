package domain

// Product represents a catalog item held in stock
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"minStock"`
	MaxStock    int     `json:"maxStock"`
	Description string  `json:"description"`
	Supplier    string  `json:"supplier"`
	ExpiryDate  string  `json:"expiryDate"`
	BatchNumber string  `json:"batchNumber"`
}

// IsLowStock reports whether the product sits at or under its reorder level
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// FindProduct returns the product with the given id
func FindProduct(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
