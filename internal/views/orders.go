package views

import (
	"sort"
	"time"

	"github.com/tair/pharmadistrib/internal/domain"
)

// UrgentNeedThreshold is the stock level shown as an urgent need on the client dashboard
const UrgentNeedThreshold = 10

// OrdersForUser scopes orders to what user may see: a client sees orders
// placed under their pharmacy name, a supplier sees orders containing one of
// their products, an admin sees everything.
func OrdersForUser(orders []domain.Order, products []domain.Product, user *domain.User) []domain.Order {
	out := make([]domain.Order, 0)
	if user == nil {
		return out
	}

	switch user.Role {
	case domain.RoleAdmin:
		return append(out, orders...)
	case domain.RoleClient:
		for _, o := range orders {
			if o.ClientName == user.PharmacyName {
				out = append(out, o)
			}
		}
	case domain.RoleSupplier:
		for _, o := range orders {
			if orderHasSupplier(o, products, user.CompanyName) {
				out = append(out, o)
			}
		}
	}
	return out
}

func orderHasSupplier(o domain.Order, products []domain.Product, supplier string) bool {
	for _, line := range o.Products {
		for _, p := range products {
			if p.ID == line.ProductID && p.Supplier == supplier {
				return true
			}
		}
	}
	return false
}

// OrderStats summarizes a list of orders
type OrderStats struct {
	Count        int     `json:"count"`
	TotalSpent   float64 `json:"totalSpent"`
	AverageOrder float64 `json:"averageOrder"`
	Delivered    int     `json:"delivered"`
	Pending      int     `json:"pending"`
}

// ClientOrderStats computes the figures shown on the client order history
func ClientOrderStats(orders []domain.Order) OrderStats {
	stats := OrderStats{Count: len(orders)}
	for _, o := range orders {
		stats.TotalSpent += o.Total
		switch o.Status {
		case domain.OrderDelivered:
			stats.Delivered++
		case domain.OrderPending:
			stats.Pending++
		}
	}
	if stats.Count > 0 {
		stats.AverageOrder = stats.TotalSpent / float64(stats.Count)
	}
	return stats
}

// OrdersInMonth sums totals of orders placed in the calendar month of now
func OrdersInMonth(orders []domain.Order, now time.Time) float64 {
	total := 0.0
	for _, o := range orders {
		if d, ok := domain.ParseDate(o.OrderDate); ok && sameMonth(d, now) {
			total += o.Total
		}
	}
	return total
}

// ClientDashboard is the landing page of a client account
type ClientDashboard struct {
	RecentOrders    []domain.Order   `json:"recentOrders"`
	OrderStats      OrderStats       `json:"orderStats"`
	MonthlySpending float64          `json:"monthlySpending"`
	Cart            CartView         `json:"cart"`
	UrgentNeeds     []domain.Product `json:"urgentNeeds"`
	DeliveriesToday []domain.Order   `json:"deliveriesToday"`
}

// BuildClientDashboard computes the client landing page
func BuildClientDashboard(state domain.State, user *domain.User, now time.Time) ClientDashboard {
	orders := OrdersForUser(state.Orders, state.Products, user)

	urgent := make([]domain.Product, 0)
	for _, p := range state.Products {
		if p.Stock <= UrgentNeedThreshold && len(urgent) < 5 {
			urgent = append(urgent, p)
		}
	}

	today := make([]domain.Order, 0)
	for _, o := range orders {
		if d, ok := domain.ParseDate(o.DeliveryDate); ok && sameDay(d, now) {
			today = append(today, o)
		}
	}

	return ClientDashboard{
		RecentOrders:    firstN(orders, 3),
		OrderStats:      ClientOrderStats(orders),
		MonthlySpending: OrdersInMonth(orders, now),
		Cart:            ResolveCart(state.Cart, state.Products),
		UrgentNeeds:     urgent,
		DeliveriesToday: today,
	}
}

// SupplierDashboard is the landing page of a supplier account
type SupplierDashboard struct {
	Products       []domain.Product `json:"products"`
	OrderCount     int              `json:"orderCount"`
	LowStock       []domain.Product `json:"lowStock"`
	TotalRevenue   float64          `json:"totalRevenue"`
	MonthlyRevenue float64          `json:"monthlyRevenue"`
	TopProducts    []domain.Product `json:"topProducts"`
}

// BuildSupplierDashboard computes the supplier landing page
func BuildSupplierDashboard(state domain.State, user *domain.User, now time.Time) SupplierDashboard {
	own := make([]domain.Product, 0)
	if user != nil {
		for _, p := range state.Products {
			if p.Supplier == user.CompanyName {
				own = append(own, p)
			}
		}
	}
	orders := OrdersForUser(state.Orders, state.Products, user)

	revenue := 0.0
	for _, o := range orders {
		revenue += o.Total
	}

	top := append([]domain.Product(nil), own...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Stock > top[j].Stock })

	return SupplierDashboard{
		Products:       own,
		OrderCount:     len(orders),
		LowStock:       LowStockProducts(own),
		TotalRevenue:   revenue,
		MonthlyRevenue: OrdersInMonth(orders, now),
		TopProducts:    firstN(top, 5),
	}
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	return append(make([]T, 0, len(items)), items...)
}

func sameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func sameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
