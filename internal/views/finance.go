package views

import (
	"time"

	"github.com/tair/pharmadistrib/internal/domain"
)

// FinanceSummary aggregates invoices for the finance dashboard. Pending
// invoices are those sent and not yet paid.
type FinanceSummary struct {
	InvoiceCount         int     `json:"invoiceCount"`
	TotalRevenue         float64 `json:"totalRevenue"`
	AverageInvoice       float64 `json:"averageInvoice"`
	PaidCount            int     `json:"paidCount"`
	PaidAmount           float64 `json:"paidAmount"`
	PendingCount         int     `json:"pendingCount"`
	PendingAmount        float64 `json:"pendingAmount"`
	OverdueCount         int     `json:"overdueCount"`
	OverdueAmount        float64 `json:"overdueAmount"`
	CurrentMonthRevenue  float64 `json:"currentMonthRevenue"`
	PreviousMonthRevenue float64 `json:"previousMonthRevenue"`
	GrowthPercent        float64 `json:"growthPercent"`
	PaymentRatePercent   float64 `json:"paymentRatePercent"`
}

// SummarizeFinance builds the finance dashboard relative to now
func SummarizeFinance(invoices []domain.Invoice, now time.Time) FinanceSummary {
	s := FinanceSummary{InvoiceCount: len(invoices)}
	previous := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)

	for _, inv := range invoices {
		s.TotalRevenue += inv.Total
		switch inv.Status {
		case domain.InvoicePaid:
			s.PaidCount++
			s.PaidAmount += inv.Total
		case domain.InvoiceSent:
			s.PendingCount++
			s.PendingAmount += inv.Total
		case domain.InvoiceOverdue:
			s.OverdueCount++
			s.OverdueAmount += inv.Total
		}

		issued, ok := domain.ParseDate(inv.IssueDate)
		if !ok {
			continue
		}
		switch {
		case sameMonth(issued, now):
			s.CurrentMonthRevenue += inv.Total
		case sameMonth(issued, previous):
			s.PreviousMonthRevenue += inv.Total
		}
	}

	if s.InvoiceCount > 0 {
		s.AverageInvoice = s.TotalRevenue / float64(s.InvoiceCount)
		s.PaymentRatePercent = float64(s.PaidCount) / float64(s.InvoiceCount) * 100
	}
	if s.PreviousMonthRevenue > 0 {
		s.GrowthPercent = (s.CurrentMonthRevenue - s.PreviousMonthRevenue) / s.PreviousMonthRevenue * 100
	}
	return s
}

// ClientRevenue is the billed total of one client account
type ClientRevenue struct {
	UserID       string  `json:"userId"`
	PharmacyName string  `json:"pharmacyName"`
	Revenue      float64 `json:"revenue"`
	InvoiceCount int     `json:"invoiceCount"`
}

// RevenueByClient matches invoices to client accounts by pharmacy name
func RevenueByClient(users []domain.User, invoices []domain.Invoice) []ClientRevenue {
	out := make([]ClientRevenue, 0)
	for _, u := range users {
		if u.Role != domain.RoleClient {
			continue
		}
		row := ClientRevenue{UserID: u.ID, PharmacyName: u.PharmacyName}
		for _, inv := range invoices {
			if inv.ClientName == u.PharmacyName {
				row.Revenue += inv.Total
				row.InvoiceCount++
			}
		}
		out = append(out, row)
	}
	return out
}

// Analytics is the platform-wide admin overview
type Analytics struct {
	ActiveUsers    int     `json:"activeUsers"`
	TotalUsers     int     `json:"totalUsers"`
	OrderCount     int     `json:"orderCount"`
	PendingOrders  int     `json:"pendingOrders"`
	OrderRevenue   float64 `json:"orderRevenue"`
	InvoiceRevenue float64 `json:"invoiceRevenue"`
	ProductCount   int     `json:"productCount"`
	CriticalAlerts int     `json:"criticalAlerts"`
	LowStockAlerts int     `json:"lowStockAlerts"`
}

// BuildAnalytics computes the admin overview. OrderRevenue sums order totals
// as recorded; InvoiceRevenue sums paid invoices.
func BuildAnalytics(state domain.State) Analytics {
	a := Analytics{
		TotalUsers:     len(state.Users),
		OrderCount:     len(state.Orders),
		ProductCount:   len(state.Products),
		CriticalAlerts: len(CriticalStockProducts(state.Products)),
		LowStockAlerts: len(LowStockProducts(state.Products)),
	}
	for _, u := range state.Users {
		if u.Status == domain.UserActive {
			a.ActiveUsers++
		}
	}
	for _, o := range state.Orders {
		a.OrderRevenue += o.Total
		if o.Status == domain.OrderPending {
			a.PendingOrders++
		}
	}
	for _, inv := range state.Invoices {
		if inv.Status == domain.InvoicePaid {
			a.InvoiceRevenue += inv.Total
		}
	}
	return a
}
