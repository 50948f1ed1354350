package store

import (
	"encoding/json"
	"fmt"

	"github.com/tair/pharmadistrib/internal/domain"
)

// Patch is a partial update: every key present replaces the matching field.
// Keys use the entity's JSON names. The id can never be changed by a patch,
// and a null value leaves its field unchanged.
type Patch map[string]any

type collection[T any] struct {
	name   string
	entity string
	prefix string
	items  func(*domain.State) *[]T
	id     func(*T) *string
}

var (
	productsC = collection[domain.Product]{
		name: "products", entity: "product",
		items: func(s *domain.State) *[]domain.Product { return &s.Products },
		id:    func(e *domain.Product) *string { return &e.ID },
	}
	ordersC = collection[domain.Order]{
		name: "orders", entity: "order", prefix: "ORD-",
		items: func(s *domain.State) *[]domain.Order { return &s.Orders },
		id:    func(e *domain.Order) *string { return &e.ID },
	}
	usersC = collection[domain.User]{
		name: "users", entity: "user",
		items: func(s *domain.State) *[]domain.User { return &s.Users },
		id:    func(e *domain.User) *string { return &e.ID },
	}
	returnsC = collection[domain.Return]{
		name: "returns", entity: "return", prefix: "RET-",
		items: func(s *domain.State) *[]domain.Return { return &s.Returns },
		id:    func(e *domain.Return) *string { return &e.ID },
	}
	notificationsC = collection[domain.Notification]{
		name: "notifications", entity: "notification",
		items: func(s *domain.State) *[]domain.Notification { return &s.Notifications },
		id:    func(e *domain.Notification) *string { return &e.ID },
	}
	invoicesC = collection[domain.Invoice]{
		name: "invoices", entity: "invoice", prefix: "INV-",
		items: func(s *domain.State) *[]domain.Invoice { return &s.Invoices },
		id:    func(e *domain.Invoice) *string { return &e.ID },
	}
	deliveriesC = collection[domain.Delivery]{
		name: "deliveries", entity: "delivery", prefix: "DEL-",
		items: func(s *domain.State) *[]domain.Delivery { return &s.Deliveries },
		id:    func(e *domain.Delivery) *string { return &e.ID },
	}
	qualityControlsC = collection[domain.QualityControl]{
		name: "qualityControls", entity: "quality_control", prefix: "QC-",
		items: func(s *domain.State) *[]domain.QualityControl { return &s.QualityControls },
		id:    func(e *domain.QualityControl) *string { return &e.ID },
	}
	complianceRecordsC = collection[domain.ComplianceRecord]{
		name: "complianceRecords", entity: "compliance_record", prefix: "COMP-",
		items: func(s *domain.State) *[]domain.ComplianceRecord { return &s.ComplianceRecords },
		id:    func(e *domain.ComplianceRecord) *string { return &e.ID },
	}
	auditLogsC = collection[domain.AuditLog]{
		name: "auditLogs", entity: "audit_log", prefix: "AUDIT-",
		items: func(s *domain.State) *[]domain.AuditLog { return &s.AuditLogs },
		id:    func(e *domain.AuditLog) *string { return &e.ID },
	}
	documentsC = collection[domain.Document]{
		name: "documents", entity: "document", prefix: "DOC-",
		items: func(s *domain.State) *[]domain.Document { return &s.Documents },
		id:    func(e *domain.Document) *string { return &e.ID },
	}
	messagesC = collection[domain.Message]{
		name: "messages", entity: "message", prefix: "MSG-",
		items: func(s *domain.State) *[]domain.Message { return &s.Messages },
		id:    func(e *domain.Message) *string { return &e.ID },
	}
)

// Add appends Entity under a freshly generated id. After a successful
// Execute, Entity holds the stored value.
type Add[T any] struct {
	coll    collection[T]
	prepare func(tx *Tx, entity *T)
	Entity  T
}

func (c *Add[T]) Name() string { return "add_" + c.coll.entity }

func (c *Add[T]) Apply(tx *Tx) error {
	entity := c.Entity
	id := tx.NewID(c.coll.prefix)
	*c.coll.id(&entity) = id
	if c.prepare != nil {
		c.prepare(tx, &entity)
	}

	items := c.coll.items(&tx.State)
	*items = append(*items, entity)
	c.Entity = entity
	tx.Emit(c.coll.entity+".created", c.coll.name, id)
	return nil
}

// Modify changes the entity with ID in place. An unknown ID is a no-op and
// leaves Found false.
type Modify[T any] struct {
	coll   collection[T]
	action string
	change func(*T) error
	ID     string
	Found  bool
	Entity T
}

func (c *Modify[T]) Name() string { return c.action + "_" + c.coll.entity }

func (c *Modify[T]) Apply(tx *Tx) error {
	items := *c.coll.items(&tx.State)
	for i := range items {
		if *c.coll.id(&items[i]) != c.ID {
			continue
		}
		if err := c.change(&items[i]); err != nil {
			return err
		}
		*c.coll.id(&items[i]) = c.ID
		c.Found = true
		c.Entity = items[i]
		tx.Emit(c.coll.entity+".updated", c.coll.name, c.ID)
		return nil
	}
	return nil
}

// Delete removes the entity with ID. An unknown ID is a no-op.
type Delete[T any] struct {
	coll  collection[T]
	ID    string
	Found bool
}

func (c *Delete[T]) Name() string { return "delete_" + c.coll.entity }

func (c *Delete[T]) Apply(tx *Tx) error {
	items := c.coll.items(&tx.State)
	kept := make([]T, 0, len(*items))
	for i := range *items {
		if *c.coll.id(&(*items)[i]) == c.ID {
			c.Found = true
			continue
		}
		kept = append(kept, (*items)[i])
	}
	if !c.Found {
		return nil
	}
	*items = kept
	tx.Emit(c.coll.entity+".deleted", c.coll.name, c.ID)
	return nil
}

func update[T any](coll collection[T], id string, patch Patch) *Modify[T] {
	return &Modify[T]{
		coll:   coll,
		action: "update",
		ID:     id,
		change: func(entity *T) error { return applyPatch(entity, patch) },
	}
}

// applyPatch overlays patch onto entity through their JSON representation
func applyPatch[T any](entity *T, patch Patch) error {
	current, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(current, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	for k, v := range patch {
		if k == "id" || v == nil {
			continue
		}
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	*entity = out
	return nil
}
