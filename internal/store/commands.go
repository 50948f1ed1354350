package store

import (
	"github.com/tair/pharmadistrib/internal/domain"
)

// AddProduct creates a product
func AddProduct(p domain.Product) *Add[domain.Product] {
	return &Add[domain.Product]{coll: productsC, Entity: p}
}

// UpdateProduct merges patch into the product with id
func UpdateProduct(id string, patch Patch) *Modify[domain.Product] {
	return update(productsC, id, patch)
}

// DeleteProduct removes the product with id
func DeleteProduct(id string) *Delete[domain.Product] {
	return &Delete[domain.Product]{coll: productsC, ID: id}
}

// AddOrder records an order as given; its total is not recomputed
func AddOrder(o domain.Order) *Add[domain.Order] {
	return &Add[domain.Order]{coll: ordersC, Entity: o}
}

// UpdateOrder merges patch into the order with id
func UpdateOrder(id string, patch Patch) *Modify[domain.Order] {
	return update(ordersC, id, patch)
}

// AddUser creates an account stamped with the creation time
func AddUser(u domain.User) *Add[domain.User] {
	return &Add[domain.User]{
		coll:   usersC,
		Entity: u,
		prepare: func(tx *Tx, u *domain.User) {
			u.CreatedAt = domain.FormatTimestamp(tx.Now())
			if u.Permissions == nil {
				u.Permissions = domain.DefaultPermissions(u.Role)
			}
			if u.Status == "" {
				u.Status = domain.UserActive
			}
		},
	}
}

// UpdateUser merges patch into the user with id
func UpdateUser(id string, patch Patch) *Modify[domain.User] {
	return update(usersC, id, patch)
}

// DeleteUser removes the user with id
func DeleteUser(id string) *Delete[domain.User] {
	return &Delete[domain.User]{coll: usersC, ID: id}
}

// AddReturn records a return request
func AddReturn(r domain.Return) *Add[domain.Return] {
	return &Add[domain.Return]{coll: returnsC, Entity: r}
}

// UpdateReturn merges patch into the return with id
func UpdateReturn(id string, patch Patch) *Modify[domain.Return] {
	return update(returnsC, id, patch)
}

// AddNotification stores a notification. CreatedAt defaults to now.
func AddNotification(n domain.Notification) *Add[domain.Notification] {
	return &Add[domain.Notification]{
		coll:   notificationsC,
		Entity: n,
		prepare: func(tx *Tx, n *domain.Notification) {
			if n.CreatedAt == "" {
				n.CreatedAt = domain.FormatTimestamp(tx.Now())
			}
		},
	}
}

// MarkNotificationRead flags the notification with id as read
func MarkNotificationRead(id string) *Modify[domain.Notification] {
	return &Modify[domain.Notification]{
		coll:   notificationsC,
		action: "mark_read",
		ID:     id,
		change: func(n *domain.Notification) error {
			n.Read = true
			return nil
		},
	}
}

// AddInvoice records an invoice as given; total is not checked against amount+tax
func AddInvoice(i domain.Invoice) *Add[domain.Invoice] {
	return &Add[domain.Invoice]{coll: invoicesC, Entity: i}
}

// UpdateInvoice merges patch into the invoice with id
func UpdateInvoice(id string, patch Patch) *Modify[domain.Invoice] {
	return update(invoicesC, id, patch)
}

// AddDelivery schedules a delivery
func AddDelivery(d domain.Delivery) *Add[domain.Delivery] {
	return &Add[domain.Delivery]{coll: deliveriesC, Entity: d}
}

// UpdateDelivery merges patch into the delivery with id
func UpdateDelivery(id string, patch Patch) *Modify[domain.Delivery] {
	return update(deliveriesC, id, patch)
}

// AddQualityControl records a batch test
func AddQualityControl(q domain.QualityControl) *Add[domain.QualityControl] {
	return &Add[domain.QualityControl]{coll: qualityControlsC, Entity: q}
}

// UpdateQualityControl merges patch into the quality control with id
func UpdateQualityControl(id string, patch Patch) *Modify[domain.QualityControl] {
	return update(qualityControlsC, id, patch)
}

// AddComplianceRecord records a license, certification, audit or inspection
func AddComplianceRecord(c domain.ComplianceRecord) *Add[domain.ComplianceRecord] {
	return &Add[domain.ComplianceRecord]{coll: complianceRecordsC, Entity: c}
}

// UpdateComplianceRecord merges patch into the record with id
func UpdateComplianceRecord(id string, patch Patch) *Modify[domain.ComplianceRecord] {
	return update(complianceRecordsC, id, patch)
}

// AddAuditLog appends an audit entry. Timestamp defaults to now.
func AddAuditLog(a domain.AuditLog) *Add[domain.AuditLog] {
	return &Add[domain.AuditLog]{
		coll:   auditLogsC,
		Entity: a,
		prepare: func(tx *Tx, a *domain.AuditLog) {
			if a.Timestamp == "" {
				a.Timestamp = domain.FormatTimestamp(tx.Now())
			}
		},
	}
}

// AddDocument stores document metadata
func AddDocument(d domain.Document) *Add[domain.Document] {
	return &Add[domain.Document]{coll: documentsC, Entity: d}
}

// DeleteDocument removes the document with id
func DeleteDocument(id string) *Delete[domain.Document] {
	return &Delete[domain.Document]{coll: documentsC, ID: id}
}

// AddMessage sends a message. Timestamp defaults to now.
func AddMessage(m domain.Message) *Add[domain.Message] {
	return &Add[domain.Message]{
		coll:   messagesC,
		Entity: m,
		prepare: func(tx *Tx, m *domain.Message) {
			if m.Timestamp == "" {
				m.Timestamp = domain.FormatTimestamp(tx.Now())
			}
		},
	}
}

// MarkMessageRead flags the message with id as read
func MarkMessageRead(id string) *Modify[domain.Message] {
	return &Modify[domain.Message]{
		coll:   messagesC,
		action: "mark_read",
		ID:     id,
		change: func(m *domain.Message) error {
			m.Read = true
			return nil
		},
	}
}

// ClearNotifications removes every notification addressed to UserID
type ClearNotifications struct {
	UserID  string
	Removed int
}

func (c *ClearNotifications) Name() string { return "clear_notifications" }

func (c *ClearNotifications) Apply(tx *Tx) error {
	kept := make([]domain.Notification, 0, len(tx.State.Notifications))
	for _, n := range tx.State.Notifications {
		if n.UserID == c.UserID {
			c.Removed++
			continue
		}
		kept = append(kept, n)
	}
	if c.Removed == 0 {
		return nil
	}
	tx.State.Notifications = kept
	tx.Emit("notifications.cleared", notificationsC.name, c.UserID)
	return nil
}
