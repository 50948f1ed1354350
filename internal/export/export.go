// Package export shapes collections into tables for download.
package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/views"
)

const (
	dateLayout     = "02/01/2006"
	filenameLayout = "2006-01-02"
	neverLoggedIn  = "Jamais"
)

// ExportData is a header row, data rows and a base filename without extension
type ExportData struct {
	Headers  []string `json:"headers"`
	Rows     [][]any  `json:"rows"`
	Filename string   `json:"filename"`
}

// Preparer builds an export from the full state
type Preparer func(state domain.State, now time.Time) ExportData

var preparers = map[string]Preparer{
	"products":     func(s domain.State, now time.Time) ExportData { return PrepareProducts(s.Products, now) },
	"orders":       func(s domain.State, now time.Time) ExportData { return PrepareOrders(s.Orders, now) },
	"users":        func(s domain.State, now time.Time) ExportData { return PrepareUsers(s.Users, now) },
	"stock-alerts": func(s domain.State, now time.Time) ExportData { return PrepareStockAlerts(s.Products, now) },
	"invoices":     func(s domain.State, now time.Time) ExportData { return PrepareInvoices(s.Invoices, now) },
	"deliveries":   func(s domain.State, now time.Time) ExportData { return PrepareDeliveries(s.Deliveries, now) },
}

// Lookup returns the preparer registered for entity
func Lookup(entity string) (Preparer, bool) {
	p, ok := preparers[entity]
	return p, ok
}

// Entities lists the exportable entity names, sorted
func Entities() []string {
	names := make([]string, 0, len(preparers))
	for name := range preparers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrepareProducts exports the catalog
func PrepareProducts(products []domain.Product, now time.Time) ExportData {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{
			p.ID,
			p.Name,
			p.Category,
			price(p.Price),
			p.Stock,
			p.MinStock,
			p.MaxStock,
			p.Supplier,
			date(p.ExpiryDate),
		})
	}
	return ExportData{
		Headers:  []string{"ID", "Nom", "Catégorie", "Prix (€)", "Stock", "Stock Min", "Stock Max", "Fournisseur", "Date Expiration"},
		Rows:     rows,
		Filename: filename("produits", now),
	}
}

// PrepareOrders exports orders with their line count
func PrepareOrders(orders []domain.Order, now time.Time) ExportData {
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []any{
			o.ID,
			o.ClientName,
			date(o.OrderDate),
			string(o.Status),
			price(o.Total),
			len(o.Products),
		})
	}
	return ExportData{
		Headers:  []string{"ID Commande", "Client", "Date", "Statut", "Total (€)", "Nb Articles"},
		Rows:     rows,
		Filename: filename("commandes", now),
	}
}

// PrepareUsers exports accounts. A user who never logged in shows "Jamais".
func PrepareUsers(users []domain.User, now time.Time) ExportData {
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		lastLogin := neverLoggedIn
		if u.LastLogin != "" {
			lastLogin = date(u.LastLogin)
		}
		rows = append(rows, []any{
			u.ID,
			u.Name,
			u.Email,
			string(u.Role),
			string(u.Status),
			lastLogin,
			date(u.CreatedAt),
		})
	}
	return ExportData{
		Headers:  []string{"ID", "Nom", "Email", "Rôle", "Statut", "Dernière Connexion", "Date Création"},
		Rows:     rows,
		Filename: filename("utilisateurs", now),
	}
}

// PrepareStockAlerts exports the low-stock products with their deficit
func PrepareStockAlerts(products []domain.Product, now time.Time) ExportData {
	low := views.LowStockProducts(products)
	rows := make([][]any, 0, len(low))
	for _, p := range low {
		rows = append(rows, []any{
			p.Name,
			p.Stock,
			p.MinStock,
			p.MinStock - p.Stock,
			p.Supplier,
			views.StockUrgency(p),
		})
	}
	return ExportData{
		Headers:  []string{"Produit", "Stock Actuel", "Stock Minimum", "Déficit", "Fournisseur", "Urgence"},
		Rows:     rows,
		Filename: filename("alertes_stock", now),
	}
}

// PrepareInvoices exports invoices
func PrepareInvoices(invoices []domain.Invoice, now time.Time) ExportData {
	rows := make([][]any, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, []any{
			inv.ID,
			inv.OrderID,
			inv.ClientName,
			price(inv.Amount),
			price(inv.Tax),
			price(inv.Total),
			string(inv.Status),
			date(inv.IssueDate),
			date(inv.DueDate),
		})
	}
	return ExportData{
		Headers:  []string{"ID Facture", "Commande", "Client", "Montant HT (€)", "TVA (€)", "Total TTC (€)", "Statut", "Date Émission", "Date Échéance"},
		Rows:     rows,
		Filename: filename("factures", now),
	}
}

// PrepareDeliveries exports deliveries
func PrepareDeliveries(deliveries []domain.Delivery, now time.Time) ExportData {
	rows := make([][]any, 0, len(deliveries))
	for _, d := range deliveries {
		rows = append(rows, []any{
			d.ID,
			d.OrderID,
			d.ClientName,
			d.Address,
			string(d.Status),
			date(d.ScheduledDate),
			d.DriverName,
			d.TrackingNumber,
		})
	}
	return ExportData{
		Headers:  []string{"ID Livraison", "Commande", "Client", "Adresse", "Statut", "Date Prévue", "Chauffeur", "N° Suivi"},
		Rows:     rows,
		Filename: filename("livraisons", now),
	}
}

func price(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// date renders value in the French short format; unreadable dates become empty
func date(value string) string {
	t, ok := domain.ParseDate(value)
	if !ok {
		return ""
	}
	return t.Format(dateLayout)
}

func filename(base string, now time.Time) string {
	return base + "_" + now.UTC().Format(filenameLayout)
}
