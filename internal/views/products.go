// Package views computes read-only projections of the store state. Every
// function is pure and total: missing references and unparseable dates
// degrade to zero values or exclusion instead of errors.
package views

import (
	"strings"
	"time"

	"github.com/tair/pharmadistrib/internal/domain"
)

// CriticalStockThreshold is the absolute stock level treated as critical,
// regardless of a product's own minimum
const CriticalStockThreshold = 5

// DefaultExpiryHorizonDays is used when a non-positive horizon is given
const DefaultExpiryHorizonDays = 30

// AllFilter matches every value of a category, supplier or stock filter
const AllFilter = "all"

// Stock filters accepted by InventoryFilter.Stock
const (
	StockLow      = "low"
	StockCritical = "critical"
	StockGood     = "good"
)

// FilterProducts keeps products whose name or description contains search
// (case-insensitive) and whose category matches. An empty category means all.
func FilterProducts(products []domain.Product, search, category string) []domain.Product {
	return FilterInventory(products, InventoryFilter{Search: search, Category: category})
}

// InventoryFilter narrows the inventory listing
type InventoryFilter struct {
	Search   string
	Category string
	Supplier string
	Stock    string
}

// FilterInventory applies every criterion of f. The result is a new slice in
// input order.
func FilterInventory(products []domain.Product, f InventoryFilter) []domain.Product {
	search := strings.ToLower(f.Search)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if !matchesAll(f.Category, p.Category) || !matchesAll(f.Supplier, p.Supplier) {
			continue
		}
		if !matchesStock(f.Stock, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesAll(filter, value string) bool {
	return filter == "" || filter == AllFilter || filter == value
}

func matchesStock(filter string, p domain.Product) bool {
	switch filter {
	case StockLow:
		return p.Stock <= p.MinStock
	case StockCritical:
		return p.Stock <= CriticalStockThreshold
	case StockGood:
		return p.Stock > p.MinStock
	default:
		return true
	}
}

// LowStockProducts returns products with stock <= minStock
func LowStockProducts(products []domain.Product) []domain.Product {
	return FilterInventory(products, InventoryFilter{Stock: StockLow})
}

// CriticalStockProducts returns products with stock <= CriticalStockThreshold
func CriticalStockProducts(products []domain.Product) []domain.Product {
	return FilterInventory(products, InventoryFilter{Stock: StockCritical})
}

// ExpiringProducts returns products whose expiry date falls on or before
// now + horizonDays. Already expired products are included; products with no
// readable date are not.
func ExpiringProducts(products []domain.Product, now time.Time, horizonDays int) []domain.Product {
	if horizonDays <= 0 {
		horizonDays = DefaultExpiryHorizonDays
	}
	limit := now.AddDate(0, 0, horizonDays)

	out := make([]domain.Product, 0)
	for _, p := range products {
		expiry, ok := domain.ParseDate(p.ExpiryDate)
		if ok && !expiry.After(limit) {
			out = append(out, p)
		}
	}
	return out
}

// InventoryValue is the sum of price x stock
func InventoryValue(products []domain.Product) float64 {
	total := 0.0
	for _, p := range products {
		total += p.Price * float64(p.Stock)
	}
	return total
}

// Categories lists distinct categories in first-seen order
func Categories(products []domain.Product) []string {
	return distinct(products, func(p domain.Product) string { return p.Category })
}

// Suppliers lists distinct suppliers in first-seen order
func Suppliers(products []domain.Product) []string {
	return distinct(products, func(p domain.Product) string { return p.Supplier })
}

func distinct(products []domain.Product, key func(domain.Product) string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range products {
		k := key(p)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// Urgency levels reported for stock alerts
const (
	UrgencyCritical  = "CRITIQUE"
	UrgencyUrgent    = "URGENT"
	UrgencyAttention = "ATTENTION"
)

// StockUrgency grades a low-stock product
func StockUrgency(p domain.Product) string {
	switch {
	case p.Stock == 0:
		return UrgencyCritical
	case float64(p.Stock) < float64(p.MinStock)*0.5:
		return UrgencyUrgent
	default:
		return UrgencyAttention
	}
}

// GroupStat is a count and value for one category or supplier
type GroupStat struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// InventorySummary aggregates the inventory dashboard
type InventorySummary struct {
	TotalProducts    int              `json:"totalProducts"`
	LowStockCount    int              `json:"lowStockCount"`
	CriticalCount    int              `json:"criticalCount"`
	ExpiringCount    int              `json:"expiringCount"`
	TotalValue       float64          `json:"totalValue"`
	Categories       []GroupStat      `json:"categories"`
	Suppliers        []GroupStat      `json:"suppliers"`
	ExpiringProducts []domain.Product `json:"expiringProducts"`
}

// SummarizeInventory builds the inventory dashboard
func SummarizeInventory(products []domain.Product, now time.Time) InventorySummary {
	expiring := ExpiringProducts(products, now, DefaultExpiryHorizonDays)
	return InventorySummary{
		TotalProducts:    len(products),
		LowStockCount:    len(LowStockProducts(products)),
		CriticalCount:    len(CriticalStockProducts(products)),
		ExpiringCount:    len(expiring),
		TotalValue:       InventoryValue(products),
		Categories:       groupBy(products, Categories(products), func(p domain.Product) string { return p.Category }),
		Suppliers:        groupBy(products, Suppliers(products), func(p domain.Product) string { return p.Supplier }),
		ExpiringProducts: expiring,
	}
}

func groupBy(products []domain.Product, names []string, key func(domain.Product) string) []GroupStat {
	index := make(map[string]int, len(names))
	out := make([]GroupStat, len(names))
	for i, name := range names {
		index[name] = i
		out[i].Name = name
	}
	for _, p := range products {
		g := &out[index[key(p)]]
		g.Count++
		g.Value += p.Price * float64(p.Stock)
	}
	return out
}
