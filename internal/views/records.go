package views

import (
	"strings"
	"time"

	"github.com/tair/pharmadistrib/internal/domain"
)

// NotificationsFor returns the notifications addressed to userID
func NotificationsFor(notifications []domain.Notification, userID string) []domain.Notification {
	out := make([]domain.Notification, 0)
	for _, n := range notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// UnreadNotifications counts unread notifications for userID
func UnreadNotifications(notifications []domain.Notification, userID string) int {
	n := 0
	for _, item := range notifications {
		if item.UserID == userID && !item.Read {
			n++
		}
	}
	return n
}

// MessagesFor returns messages sent to or by userID
func MessagesFor(messages []domain.Message, userID string) []domain.Message {
	out := make([]domain.Message, 0)
	for _, m := range messages {
		if m.RecipientID == userID || m.SenderID == userID {
			out = append(out, m)
		}
	}
	return out
}

// UnreadMessages counts unread messages addressed to recipientID
func UnreadMessages(messages []domain.Message, recipientID string) int {
	n := 0
	for _, m := range messages {
		if m.RecipientID == recipientID && !m.Read {
			n++
		}
	}
	return n
}

// ExpiringCompliance returns records expiring within horizonDays of now,
// already expired ones included
func ExpiringCompliance(records []domain.ComplianceRecord, now time.Time, horizonDays int) []domain.ComplianceRecord {
	if horizonDays <= 0 {
		horizonDays = DefaultExpiryHorizonDays
	}
	limit := now.AddDate(0, 0, horizonDays)

	out := make([]domain.ComplianceRecord, 0)
	for _, r := range records {
		if expiry, ok := domain.ParseDate(r.ExpiryDate); ok && !expiry.After(limit) {
			out = append(out, r)
		}
	}
	return out
}

// StatusCounts tallies entities per status value
type StatusCounts map[string]int

// DeliveryStatusCounts tallies deliveries per status
func DeliveryStatusCounts(deliveries []domain.Delivery) StatusCounts {
	return countBy(deliveries, func(d domain.Delivery) string { return string(d.Status) })
}

// QualityStatusCounts tallies quality controls per status
func QualityStatusCounts(controls []domain.QualityControl) StatusCounts {
	return countBy(controls, func(q domain.QualityControl) string { return string(q.Status) })
}

// ReturnStatusCounts tallies returns per status
func ReturnStatusCounts(returns []domain.Return) StatusCounts {
	return countBy(returns, func(r domain.Return) string { return string(r.Status) })
}

// ComplianceStatusCounts tallies compliance records per status
func ComplianceStatusCounts(records []domain.ComplianceRecord) StatusCounts {
	return countBy(records, func(r domain.ComplianceRecord) string { return string(r.Status) })
}

func countBy[T any](items []T, key func(T) string) StatusCounts {
	counts := StatusCounts{}
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

// RecordFilter narrows a listing. Search is a case-insensitive substring
// match on the listing's text fields; the other criteria match exactly, with
// empty or AllFilter matching everything.
type RecordFilter struct {
	Search   string
	Status   string
	Type     string
	Category string
}

func (f RecordFilter) search() string {
	return strings.ToLower(f.Search)
}

func matchesSearch(q string, fields ...string) bool {
	return q == "" || containsAny(q, fields...)
}

func filterBy[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// FilterInvoices matches Search against client name and invoice id
func FilterInvoices(invoices []domain.Invoice, f RecordFilter) []domain.Invoice {
	q := f.search()
	return filterBy(invoices, func(i domain.Invoice) bool {
		return matchesSearch(q, i.ClientName, i.ID) && matchesAll(f.Status, string(i.Status))
	})
}

// FilterDeliveries matches Search against client name and delivery id
func FilterDeliveries(deliveries []domain.Delivery, f RecordFilter) []domain.Delivery {
	q := f.search()
	return filterBy(deliveries, func(d domain.Delivery) bool {
		return matchesSearch(q, d.ClientName, d.ID) && matchesAll(f.Status, string(d.Status))
	})
}

// FilterQualityControls matches Search against product name and batch number
func FilterQualityControls(controls []domain.QualityControl, f RecordFilter) []domain.QualityControl {
	q := f.search()
	return filterBy(controls, func(c domain.QualityControl) bool {
		return matchesSearch(q, c.ProductName, c.BatchNumber) &&
			matchesAll(f.Type, string(c.TestType)) &&
			matchesAll(f.Status, string(c.Status))
	})
}

// FilterDocuments matches Search against document name and description
func FilterDocuments(documents []domain.Document, f RecordFilter) []domain.Document {
	q := f.search()
	return filterBy(documents, func(d domain.Document) bool {
		return matchesSearch(q, d.Name, d.Description) &&
			matchesAll(f.Category, d.Category) &&
			matchesAll(f.Type, string(d.Type))
	})
}

// FilterUsers matches Search against name and email. Type filters on role.
func FilterUsers(users []domain.User, f RecordFilter) []domain.User {
	q := f.search()
	return filterBy(users, func(u domain.User) bool {
		return matchesSearch(q, u.Name, u.Email) &&
			matchesAll(f.Type, string(u.Role)) &&
			matchesAll(f.Status, string(u.Status))
	})
}
