package views

import (
	"strings"

	"github.com/tair/pharmadistrib/internal/domain"
)

const (
	// MinSearchLength is the shortest query QuickSearch answers
	MinSearchLength = 2
	// MaxResultsPerType caps each result group
	MaxResultsPerType = 3
)

// Search result types
const (
	ResultProduct = "product"
	ResultOrder   = "order"
	ResultUser    = "user"
)

// SearchResult is one hit of the global search box
type SearchResult struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// QuickSearch matches products, orders and users against query. Queries
// shorter than MinSearchLength return nothing; each type is capped at
// MaxResultsPerType.
func QuickSearch(query string, products []domain.Product, orders []domain.Order, users []domain.User) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	results := make([]SearchResult, 0)
	if len([]rune(q)) < MinSearchLength {
		return results
	}

	n := 0
	for _, p := range products {
		if n == MaxResultsPerType {
			break
		}
		if containsAny(q, p.Name, p.Category, p.Supplier) {
			results = append(results, SearchResult{Type: ResultProduct, ID: p.ID, Title: p.Name, Subtitle: p.Category + " • " + p.Supplier})
			n++
		}
	}

	n = 0
	for _, o := range orders {
		if n == MaxResultsPerType {
			break
		}
		if containsAny(q, o.ID, o.ClientName) {
			results = append(results, SearchResult{Type: ResultOrder, ID: o.ID, Title: "Commande " + o.ID, Subtitle: o.ClientName})
			n++
		}
	}

	n = 0
	for _, u := range users {
		if n == MaxResultsPerType {
			break
		}
		if containsAny(q, u.Name, u.Email, u.PharmacyName, u.CompanyName) {
			results = append(results, SearchResult{Type: ResultUser, ID: u.ID, Title: u.Name, Subtitle: u.Email})
			n++
		}
	}
	return results
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
